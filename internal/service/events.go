package service

import "sync"

type EventKind string

const (
	EventAccountUpdated      EventKind = "account_updated"
	EventTransactionsUpdated EventKind = "transactions_updated"
	EventPlansUpdated        EventKind = "plans_updated"
)

// Event is broadcast after every Account or Ledger mutation so consumers can
// refresh without polling.
type Event struct {
	Kind   EventKind
	UserID string
	TxID   string
}

type broadcaster struct {
	mu   sync.Mutex
	subs []chan Event
}

// Subscribe returns a channel receiving every subsequent event. Slow
// consumers drop events instead of blocking a mutation.
func (b *broadcaster) Subscribe() <-chan Event {
	ch := make(chan Event, 64)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

func (b *broadcaster) publish(e Event) {
	b.mu.Lock()
	subs := make([]chan Event, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- e:
		default:
		}
	}
}
