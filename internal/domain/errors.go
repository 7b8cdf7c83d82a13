package domain

import "fmt"

// ValidationError reports input that is malformed or insufficient to build an
// optimization request. It blocks submission.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// OptimizationError reports that the optimization service could not be
// reached or returned an unusable response. StatusCode is 0 when no HTTP
// response was received.
type OptimizationError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *OptimizationError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("optimization: %s: status %d: %s", e.Op, e.StatusCode, msg)
	}
	return fmt.Sprintf("optimization: %s: %s", e.Op, msg)
}

func (e *OptimizationError) Unwrap() error { return e.Err }

// PresentationError reports a result that was received but could not be
// rendered. Nothing trustworthy was rendered when it is returned.
type PresentationError struct {
	Step   string
	Reason string
	Err    error
}

func (e *PresentationError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	return fmt.Sprintf("presentation: %s: %s", e.Step, msg)
}

func (e *PresentationError) Unwrap() error { return e.Err }
