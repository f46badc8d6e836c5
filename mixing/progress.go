// SPDX-License-Identifier: EPL-2.0

package mixing

import (
	"context"
	"sync/atomic"
)

// Progress receives a completion percentage (0 to 100, never decreasing
// within one operation) and a short description of the current phase.
type Progress interface {
	Report(percent int, message string)
}

// ProgressFunc adapts a function to Progress.
type ProgressFunc func(percent int, message string)

func (f ProgressFunc) Report(percent int, message string) { f(percent, message) }

// Canceller is polled between phases and between blocks. Once it returns
// true the operation stops and ends as Cancelled.
type Canceller interface {
	Cancelled() bool
}

// CancelFlag is a Canceller that is safe to set from another goroutine.
// The zero value is not cancelled.
type CancelFlag struct {
	set atomic.Bool
}

func (f *CancelFlag) Cancel()         { f.set.Store(true) }
func (f *CancelFlag) Cancelled() bool { return f.set.Load() }

type contextCanceller struct {
	ctx context.Context
}

func (c contextCanceller) Cancelled() bool { return c.ctx.Err() != nil }

// ContextCanceller reports cancellation once ctx is done.
func ContextCanceller(ctx context.Context) Canceller {
	return contextCanceller{ctx: ctx}
}

// anyCanceller fires when any of its members does.
type anyCanceller []Canceller

func (a anyCanceller) Cancelled() bool {
	for _, c := range a {
		if c.Cancelled() {
			return true
		}
	}
	return false
}

type nopProgress struct{}

func (nopProgress) Report(int, string) {}

type never struct{}

func (never) Cancelled() bool { return false }
