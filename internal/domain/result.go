package domain

// CodeInternal is the sentinel failure code for errors that did not
// come from the exchange (connectivity, serialization).
const CodeInternal = -1

// Failure describes a rejected or failed gateway call.
type Failure struct {
	Code    int
	Message string
}

// Result is the outcome of a gateway call. Exactly one of Data and
// Failure is set; there are no partial states. The gateway does not
// retain it - ownership passes to the caller for rendering.
type Result struct {
	Data    *OrderAck
	Failure *Failure
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Data != nil
}

// Succeed wraps an exchange acknowledgment in a successful Result.
func Succeed(ack OrderAck) Result {
	return Result{Data: &ack}
}

// Fail wraps an error code and message in a failed Result.
func Fail(code int, message string) Result {
	return Result{Failure: &Failure{Code: code, Message: message}}
}
