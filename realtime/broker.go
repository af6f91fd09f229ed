package realtime

import (
	"sync"
	"time"
)

const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Event descreve uma mudança numa tabela, no formato das assinaturas realtime do front.
type Event struct {
	Table      string    `json:"table"`
	Action     string    `json:"action"`
	ID         int64     `json:"id"`
	ProcessoID int64     `json:"processo_id,omitempty"`
	At         time.Time `json:"at"`
}

// Broker distribui eventos para os assinantes. Assinante lento perde eventos, o publicador nunca bloqueia.
type Broker struct {
	mu     sync.RWMutex
	subs   map[chan Event]struct{}
	buffer int
	now    func() time.Time
}

func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = 16
	}
	return &Broker{
		subs:   make(map[chan Event]struct{}),
		buffer: buffer,
		now:    time.Now,
	}
}

// Subscribe devolve o canal de eventos e a função que encerra a assinatura.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, b.buffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (b *Broker) Publish(ev Event) {
	if b == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = b.now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
