package rules

import "fmt"

// FailureKind classifies why a rule expression or firing did not fully
// apply (spec.md section 4.2/4.7).
type FailureKind string

const (
	FailInvalidTarget         FailureKind = "invalid_target"
	FailInsufficientResources FailureKind = "insufficient_resources"
	FailWrongPhase            FailureKind = "wrong_phase"
)

// Failure is a non-fatal rule-firing outcome. InvalidTarget only skips
// the offending expression; InsufficientResources stops the rule's
// remaining applications, and effects it had already applied stay in
// place (they are not rolled back); WrongPhase is surfaced to the
// command-boundary caller rather than swallowed.
type Failure struct {
	Kind    FailureKind
	Rule    string
	Message string
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// newFailure is a small constructor used throughout effect.go.
func newFailure(kind FailureKind, message string) Failure {
	return Failure{Kind: kind, Message: message}
}
