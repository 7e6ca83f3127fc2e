package orchestrator

import "sync/atomic"

// CancelToken is the read side of a cancellation signal: cheap to
// clone (copy) and check from any goroutine.
type CancelToken struct {
	flag *atomic.Bool
}

// IsCanceled reports whether the associated CancelSource has fired.
func (t CancelToken) IsCanceled() bool {
	if t.flag == nil {
		return false
	}
	return t.flag.Load()
}

// CancelSource is the write side of a cancellation signal.
type CancelSource struct {
	flag *atomic.Bool
}

// NewCancelSource returns a fresh, uncancelled source.
func NewCancelSource() CancelSource {
	return CancelSource{flag: new(atomic.Bool)}
}

// Token returns a CancelToken observing this source.
func (s CancelSource) Token() CancelToken {
	return CancelToken{flag: s.flag}
}

// Cancel fires the signal; every outstanding CancelToken observes it.
func (s CancelSource) Cancel() {
	s.flag.Store(true)
}
