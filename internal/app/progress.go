package app

import (
	"sync"

	"github.com/yourusername/app-fetch-go/internal/domain"
)

// ProgressDispatcher decouples the transfer loop from whoever renders
// progress. Report never blocks: it keeps only the latest percentage per
// application and a single consumer goroutine delivers it. The final value
// reported for an application is always delivered.
type ProgressDispatcher struct {
	deliver domain.ProgressFunc

	mu      sync.Mutex
	pending map[string]int
	order   []string
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// NewProgressDispatcher starts a dispatcher delivering to fn. A nil fn
// discards every update.
func NewProgressDispatcher(fn domain.ProgressFunc) *ProgressDispatcher {
	if fn == nil {
		fn = func(string, int) {}
	}

	d := &ProgressDispatcher{
		deliver: fn,
		pending: make(map[string]int),
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

// Report stores the latest percentage for name and wakes the consumer
func (d *ProgressDispatcher) Report(name string, percent int) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if _, queued := d.pending[name]; !queued {
		d.order = append(d.order, name)
	}
	d.pending[name] = percent
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Close delivers whatever is still pending and stops the consumer
func (d *ProgressDispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.closed = true
	d.mu.Unlock()

	close(d.stop)
	<-d.done
}

func (d *ProgressDispatcher) run() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.flush()
		case <-d.stop:
			d.flush()
			return
		}
	}
}

func (d *ProgressDispatcher) flush() {
	d.mu.Lock()
	pending, order := d.pending, d.order
	d.pending = make(map[string]int, len(pending))
	d.order = nil
	d.mu.Unlock()

	for _, name := range order {
		d.deliver(name, pending[name])
	}
}
