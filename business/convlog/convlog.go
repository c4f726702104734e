package convlog

import (
	"sync"
	"time"

	"github.com/charcochicken/goVoiceOrder/foundation/external/classifier"
	"github.com/charcochicken/goVoiceOrder/foundation/pubsub"
)

// TopicConversation is the in-process broker topic every appended entry
// is fanned out on for dashboard consumers.
const TopicConversation = "conversation"

// Entry records one dialogue transition. Entries are immutable once
// written; ordering is turn arrival order.
type Entry struct {
	Timestamp   time.Time           `json:"timestamp"`
	SessionID   string              `json:"session_id"`
	Utterance   string              `json:"customer_text"`
	Intent      classifier.Intent   `json:"intent"`
	Confidence  float64             `json:"confidence"`
	Entities    classifier.Entities `json:"entities"`
	Response    string              `json:"agent_response"`
	StateBefore string              `json:"state_before"`
	StateAfter  string              `json:"state_after"`
}

// Log is the append-only conversation record. The core appends exactly
// one entry per transition and never mutates or deletes entries;
// retention is a downstream concern.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	broker  *pubsub.Broker
}

func New(broker *pubsub.Broker) *Log {
	return &Log{
		broker: broker,
	}
}

func (l *Log) Append(entry Entry) {
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()

	if l.broker != nil {
		// Best effort: a slow dashboard consumer never blocks a turn.
		l.broker.Publish(TopicConversation, entry)
	}
}

func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]Entry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

func (l *Log) BySession(sessionID string) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var entries []Entry
	for _, entry := range l.entries {
		if entry.SessionID == sessionID {
			entries = append(entries, entry)
		}
	}
	return entries
}

type Summary struct {
	TotalTurns    int                       `json:"total_turns"`
	TurnsByIntent map[classifier.Intent]int `json:"turns_by_intent"`
}

func (l *Log) Summary() Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	summary := Summary{
		TotalTurns:    len(l.entries),
		TurnsByIntent: make(map[classifier.Intent]int),
	}
	for _, entry := range l.entries {
		summary.TurnsByIntent[entry.Intent]++
	}
	return summary
}
