package orders

import (
	"math/rand"
	"sync"
	"time"
)

// ETAPolicy draws delivery estimates from a configured range. Normal
// orders draw from the lower half of the range; backlog and
// complaint-compensation orders draw from the upper half.
type ETAPolicy struct {
	MinMinutes int
	MaxMinutes int

	mu  sync.Mutex
	rng *rand.Rand
}

func NewETAPolicy(minMinutes, maxMinutes int) *ETAPolicy {
	return newETAPolicy(minMinutes, maxMinutes, time.Now().UnixNano())
}

// NewSeededETAPolicy yields a deterministic sequence of draws; used by
// tests and replayable demos.
func NewSeededETAPolicy(minMinutes, maxMinutes int, seed int64) *ETAPolicy {
	return newETAPolicy(minMinutes, maxMinutes, seed)
}

func newETAPolicy(minMinutes, maxMinutes int, seed int64) *ETAPolicy {
	if minMinutes < 1 {
		minMinutes = 1
	}
	if maxMinutes < minMinutes {
		maxMinutes = minMinutes
	}

	return &ETAPolicy{
		MinMinutes: minMinutes,
		MaxMinutes: maxMinutes,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

func (p *ETAPolicy) Draw(backlogged bool) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	span := p.MaxMinutes - p.MinMinutes
	half := span / 2

	if backlogged {
		return p.MinMinutes + half + p.rng.Intn(span-half+1)
	}
	return p.MinMinutes + p.rng.Intn(half+1)
}
