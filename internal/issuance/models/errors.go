package models

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Stage names the workflow step that failed.
type Stage string

const (
	StageLoadReference Stage = "load_reference"
	StageRender        Stage = "render"
	StageCopy          Stage = "copy_template"
	StageSubstitute    Stage = "substitute_placeholders"
	StageConvert       Stage = "convert_pdf"
	StageSave          Stage = "save_artifact"
	StageDeliver       Stage = "deliver_certificate"
	StagePanic         Stage = "panic"
)

// TechnicalError is an unexpected failure on the way to a certificate. It is shown
// to the operator in full and to the requester not at all. Location and Trace may be empty.
type TechnicalError struct {
	Stage    Stage
	Message  string
	Location string
	Trace    string
	Cause    error
}

// NewTechnicalError records the caller's location and the current goroutine stack.
func NewTechnicalError(stage Stage, cause error) *TechnicalError {
	te := &TechnicalError{Stage: stage, Cause: cause, Trace: string(debug.Stack())}
	if cause != nil {
		te.Message = cause.Error()
	}
	if _, file, line, ok := runtime.Caller(1); ok {
		te.Location = fmt.Sprintf("%s:%d", file, line)
	}
	return te
}

// TechnicalErrorFromPanic converts a recovered panic value. Call it from the
// deferred recover so the stack still contains the panicking frame.
func TechnicalErrorFromPanic(v any) *TechnicalError {
	stack := string(debug.Stack())
	te := &TechnicalError{Stage: StagePanic, Message: fmt.Sprint(v), Trace: stack, Location: panicLocation(stack)}
	if err, ok := v.(error); ok {
		te.Cause = err
	}
	return te
}

func (e *TechnicalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func (e *TechnicalError) Unwrap() error {
	return e.Cause
}

// AsTechnicalError returns err as a TechnicalError, wrapping foreign errors.
func AsTechnicalError(err error) *TechnicalError {
	var te *TechnicalError
	if errors.As(err, &te) {
		return te
	}
	return &TechnicalError{Stage: StageRender, Message: err.Error(), Cause: err}
}

// panicLocation picks the first frame after runtime/panic.go in a debug.Stack dump.
func panicLocation(stack string) string {
	lines := strings.Split(stack, "\n")
	for i, l := range lines {
		if strings.Contains(l, "runtime/panic.go") && i+2 < len(lines) {
			loc := strings.TrimSpace(lines[i+2])
			if idx := strings.LastIndex(loc, " +0x"); idx > 0 {
				loc = loc[:idx]
			}
			return loc
		}
	}
	return ""
}

// DeliveryError is a failure of the mail transport. It is never retried.
type DeliveryError struct {
	Kind      NotificationKind
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %s notification to %s: %v", e.Kind, e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
