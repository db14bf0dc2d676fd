package services

import (
	"sync/atomic"
	"time"
)

// PostClock stamps donation requests. Successive stamps from one clock are
// strictly increasing epoch milliseconds even when the wall clock stalls or
// steps back.
type PostClock struct {
	now  func() time.Time
	last atomic.Int64
}

func NewPostClock(now func() time.Time) *PostClock {
	if now == nil {
		now = time.Now
	}
	return &PostClock{now: now}
}

// Next returns max(now, previous+1).
func (c *PostClock) Next() int64 {
	for {
		prev := c.last.Load()
		next := c.now().UnixMilli()
		if next <= prev {
			next = prev + 1
		}
		if c.last.CompareAndSwap(prev, next) {
			return next
		}
	}
}
