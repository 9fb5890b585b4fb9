package tools

// Kind classifies a failed dispatch.
type Kind string

const (
	KindUnknownTool               Kind = "UnknownTool"
	KindMissingParameter          Kind = "MissingParameter"
	KindInvalidParameter          Kind = "InvalidParameter"
	KindUpstreamUnavailable       Kind = "UpstreamUnavailable"
	KindUpstreamError             Kind = "UpstreamError"
	KindMalformedUpstreamResponse Kind = "MalformedUpstreamResponse"
	KindInternal                  Kind = "Internal"
)

// Error is a structured tool failure. Fields are echoed to the caller next to
// the message so the offending input is visible in the reply.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]any
	Cause   error
}

// NewError creates an Error with the given echo fields (may be nil).
func NewError(kind Kind, message string, fields map[string]any) *Error {
	return &Error{Kind: kind, Message: message, Fields: fields}
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Payload renders the wire form: {"error": ..., "kind": ..., <fields>}.
func (e *Error) Payload() map[string]any {
	out := make(map[string]any, len(e.Fields)+2)
	for k, v := range e.Fields {
		out[k] = v
	}
	out["error"] = e.Message
	out["kind"] = string(e.Kind)
	return out
}

// Result is what a handler returns: exactly one of Value or Err is meaningful.
type Result struct {
	Value any
	Err   *Error
}

// OK wraps a success payload.
func OK(v any) Result {
	return Result{Value: v}
}

// Fail wraps a failure.
func Fail(err *Error) Result {
	return Result{Err: err}
}
