package dialogue

import (
	"sync"
	"time"

	"github.com/charcochicken/goVoiceOrder/business/orders"
	"github.com/charcochicken/goVoiceOrder/foundation/external/classifier"
)

// Turn is one customer/agent exchange. The turn history is append-only.
type Turn struct {
	Timestamp  time.Time
	Utterance  string
	Intent     classifier.Intent
	Entities   classifier.Entities
	Confidence float64
	Response   string
}

// Session holds the dialogue state of one active call. Turns within a
// session are processed strictly sequentially under the session mutex;
// distinct sessions are independent.
type Session struct {
	sync.Mutex

	ID           string
	StartedAt    time.Time
	LastActivity time.Time

	State State
	Draft *Draft
	Turns []Turn

	// Confirmed is set exactly once, when the draft is finalized.
	Confirmed *orders.Order

	// ClarifyRetries counts consecutive low-signal turns; it resets on
	// every understood turn and escalates to human handoff at the cap.
	ClarifyRetries int

	// ComplaintAskedID marks that the one order-id re-prompt of the
	// complaint flow has been spent.
	ComplaintAskedID bool

	// Version increments on every applied transition. Turn processing
	// snapshots it before the classifier round-trip and re-validates
	// after re-acquiring the lock.
	Version uint64
}

func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		StartedAt:    now,
		LastActivity: now,
		State:        StateGreeting,
	}
}

// History returns the last window exchanges for classifier context.
// Callers must hold the session lock.
func (s *Session) History(window int) []classifier.Exchange {
	turns := s.Turns
	if window > 0 && len(turns) > window {
		turns = turns[len(turns)-window:]
	}

	history := make([]classifier.Exchange, 0, len(turns))
	for _, t := range turns {
		history = append(history, classifier.Exchange{
			Customer: t.Utterance,
			Agent:    t.Response,
		})
	}
	return history
}
