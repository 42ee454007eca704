// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ErrorKind classifies a failed Result. The zero value means success.
type ErrorKind string

const (
	KindNone            ErrorKind = ""
	KindCallerError     ErrorKind = "caller_error"
	KindParseError      ErrorKind = "parse_error"
	KindInvalidInput    ErrorKind = "invalid_input"
	KindExternalService ErrorKind = "external_service"
	KindExecutionError  ErrorKind = "execution_error"
)

// Result is the outcome of answering one question. Answer is what the caller
// sees on the wire whether or not the extractor failed; Kind and Err exist
// for logging, tests and the HTTP status decision only.
type Result struct {
	// Answer is the literal answer text, or a human-readable failure message.
	Answer string

	// Kind is KindNone on success.
	Kind ErrorKind

	// Err is the underlying cause of a failure, if any.
	Err error
}

// OK returns a successful Result carrying answer.
func OK(answer string) Result {
	return Result{Answer: answer}
}

// Failure returns a failed Result whose user-visible text is message.
func Failure(kind ErrorKind, message string, cause error) Result {
	return Result{Answer: message, Kind: kind, Err: cause}
}

// Failed reports whether the Result represents a failure.
func (r Result) Failed() bool {
	return r.Kind != KindNone
}

// String returns the answer text.
func (r Result) String() string {
	return r.Answer
}
