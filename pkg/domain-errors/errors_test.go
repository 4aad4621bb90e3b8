package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOfUsesOutermostCode(t *testing.T) {
	cause := errors.New("unexpected EOF")
	inner := Wrap(cause, CodeBadRequest, "malformed claim event")
	outer := Wrap(fmt.Errorf("decode: %w", inner), CodeInternal, "intake")

	assert.Equal(t, CodeBadRequest, CodeOf(fmt.Errorf("decode: %w", inner)))
	assert.Equal(t, CodeInternal, CodeOf(outer))
	assert.ErrorIs(t, outer, cause)
	assert.Equal(t, "intake: decode: malformed claim event: unexpected EOF", outer.Error())
}

func TestCodeOfDefaultsToInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
	assert.Equal(t, CodeInternal, CodeOf(nil))
}
