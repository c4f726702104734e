package pubsub

import (
	"fmt"
	"sync"
)

// Broker fans data out to topic subscribers. Delivery is best effort: a
// subscriber that cannot keep up has the payload dropped rather than
// blocking the publisher.
type Broker struct {
	topics map[string][]*Subscriber
	sync.RWMutex
}

func NewBroker() *Broker {
	return &Broker{
		topics: make(map[string][]*Subscriber, 0),
	}
}

// Publish delivers data to every subscriber of the topic and reports how
// many subscribers accepted it. A topic without subscribers is not an
// error; the data is simply discarded.
func (b *Broker) Publish(topic string, data any) int {
	var subs []*Subscriber

	b.RLock()
	{
		subs = b.topics[topic]
	}
	b.RUnlock()

	var delivered int
	for _, sub := range subs {
		if sub.TrySignal(data) {
			delivered++
		}
	}

	return delivered
}

func (b *Broker) Subscribe(topic string, s *Subscriber) {
	b.Lock()
	defer b.Unlock()
	{
		_, exists := b.topics[topic]
		if !exists {
			b.topics[topic] = make([]*Subscriber, 0)
		}

		b.topics[topic] = append(b.topics[topic], s)
	}
}

func (b *Broker) UnSubscribe(topic string, s *Subscriber) error {
	b.Lock()
	defer b.Unlock()
	{
		subs, exists := b.topics[topic]
		if !exists {
			return fmt.Errorf("topic[%s] does not exist", topic)
		}

		b.topics[topic] = removeFromSlice(subs, s)
		s.CloseChannel()
	}

	return nil
}

// =====================================================================================================================

func removeFromSlice[T comparable](s []T, d T) []T {
	for i := range s {
		if s[i] == d {
			s[i] = s[len(s)-1]
			return s[:len(s)-1]
		}
	}
	return s
}
