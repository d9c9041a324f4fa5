package stm

// AbortError is the payload panicked by Abort. The commit loop recovers it
// and retries the transaction; any other panic value propagates to the
// caller unchanged.
type AbortError struct {
	Reason string
}

func (e *AbortError) Error() string {
	if e.Reason == "" {
		return "stm: transaction aborted"
	}
	return "stm: transaction aborted: " + e.Reason
}
