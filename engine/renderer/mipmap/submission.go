package mipmap

import (
	"sync"
	"sync/atomic"

	"github.com/cogentcore/webgpu/wgpu"
)

// Submission is a completion token for a batch of GPU work handed to the
// device queue. Texture creation fires mip generation without waiting;
// callers that need to observe completion (readback, testing, teardown)
// hold the token and Wait on it. Default callers may discard it; once
// submitted, the passes always run to completion.
type Submission struct {
	device *wgpu.Device
	once   sync.Once
	done   atomic.Bool
}

// newSubmission wraps a freshly submitted command batch.
func newSubmission(device *wgpu.Device) *Submission {
	return &Submission{device: device}
}

// completedSubmission returns a token that is already done, used when a
// Generate call had no passes to encode.
func completedSubmission() *Submission {
	s := &Submission{}
	s.done.Store(true)
	return s
}

// Wait blocks until the device has drained its queue, which includes the
// submitted passes. Safe to call multiple times and on a nil token.
func (s *Submission) Wait() {
	if s == nil || s.device == nil {
		return
	}
	s.once.Do(func() {
		s.device.Poll(true, nil)
		s.done.Store(true)
	})
}

// Done reports whether the submitted work is known to have completed,
// without blocking.
//
// Returns:
//   - bool: true once Wait has observed completion (or the token was created complete)
func (s *Submission) Done() bool {
	if s == nil {
		return true
	}
	return s.done.Load()
}
