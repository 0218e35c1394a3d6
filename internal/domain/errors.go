package domain

// ValidationError signals a malformed OrderRequest. It is raised
// before any network call, is never retried, and its reason is shown
// to the caller verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
