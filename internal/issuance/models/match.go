package models

// MatchResult is either Matched with the reviewer's full name, or not found.
type MatchResult struct {
	Matched  bool
	FullName string
}

// Matched builds a positive result.
func Matched(fullName string) MatchResult {
	return MatchResult{Matched: true, FullName: fullName}
}

// NotFound is the result of a scan that found no record.
var NotFound = MatchResult{}
