package runtime

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// FrameLoop is a TickSource that runs pending callbacks once per frame, at
// most fps frames per second. All callbacks run on the goroutine that calls
// Run, one after another, so ticks never overlap.
type FrameLoop struct {
	limiter *rate.Limiter

	mu      sync.Mutex
	nextID  int
	pending map[int]func()

	frames int
}

func NewFrameLoop(fps int) *FrameLoop {
	if fps <= 0 {
		fps = 60
	}
	return &FrameLoop{
		limiter: rate.NewLimiter(rate.Every(time.Second/time.Duration(fps)), 1),
		pending: make(map[int]func()),
	}
}

func (l *FrameLoop) Request(fn func()) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	l.pending[l.nextID] = fn
	return l.nextID
}

func (l *FrameLoop) Cancel(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.pending, id)
}

// Frames is the number of frames run so far.
func (l *FrameLoop) Frames() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// Run drives frames until ctx is done, nothing is pending, or maxFrames
// frames have run (maxFrames <= 0 means no limit).
func (l *FrameLoop) Run(ctx context.Context, maxFrames int) error {
	for {
		if maxFrames > 0 && l.Frames() >= maxFrames {
			return nil
		}

		batch := l.take()
		if len(batch) == 0 {
			return nil
		}

		if err := l.limiter.Wait(ctx); err != nil {
			return err
		}

		for _, fn := range batch {
			fn()
		}

		l.mu.Lock()
		l.frames++
		l.mu.Unlock()
	}
}

// take removes and returns the pending callbacks in request order. Callbacks
// requested while a frame runs belong to the next frame.
func (l *FrameLoop) take() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]int, 0, len(l.pending))
	for id := range l.pending {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	batch := make([]func(), len(ids))
	for i, id := range ids {
		batch[i] = l.pending[id]
		delete(l.pending, id)
	}
	return batch
}
