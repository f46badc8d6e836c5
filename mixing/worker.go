// SPDX-License-Identifier: EPL-2.0

package mixing

import (
	"context"
	"sync"
)

// Worker runs mixes on a background goroutine, one at a time, so the caller
// is never blocked by decoding or rendering.
type Worker struct {
	renderer *Renderer

	mu   sync.Mutex
	flag *CancelFlag // non-nil while a mix runs
	wg   sync.WaitGroup
}

func NewWorker(r *Renderer) *Worker {
	return &Worker{renderer: r}
}

// Start begins a mix and returns a channel that receives its Result and is
// then closed. It fails with ErrBusy while another mix is running.
//
// The mix is cancelled by Cancel or when ctx is done. p is called from the
// worker goroutine.
func (w *Worker) Start(ctx context.Context, s Settings, p Progress) (<-chan Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.flag != nil {
		return nil, ErrBusy
	}
	flag := &CancelFlag{}
	w.flag = flag

	done := make(chan Result, 1)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		res := w.renderer.Render(s, p, anyCanceller{flag, ContextCanceller(ctx)})

		w.mu.Lock()
		w.flag = nil
		w.mu.Unlock()

		done <- res
		close(done)
	}()
	return done, nil
}

// Cancel asks the running mix, if any, to stop at its next check.
func (w *Worker) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.flag != nil {
		w.flag.Cancel()
	}
}

// Busy reports whether a mix is running.
func (w *Worker) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.flag != nil
}

// Wait blocks until the running mix, if any, has finished.
func (w *Worker) Wait() {
	w.wg.Wait()
}
