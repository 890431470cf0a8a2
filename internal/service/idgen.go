package service

import (
	"sync"
	"time"

	"github.com/news-crud-lab/internal/models"
)

// IDGenerator hands out post ids
type IDGenerator interface {
	Next() models.PostID
}

// clockIDGenerator derives ids from wall-clock milliseconds but never repeats
// or goes backwards: when the clock has not advanced past the last id it
// falls back to last+1.
type clockIDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewClockIDGenerator creates a generator whose ids are all greater than floor
func NewClockIDGenerator(now func() time.Time, floor models.PostID) IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &clockIDGenerator{now: now, last: int64(floor)}
}

func (g *clockIDGenerator) Next() models.PostID {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return models.PostID(ms)
}
