// Package message carries player-facing notifications out of the simulation.
// Delivery is fire-and-forget; nothing in the core reads a result back.
package message

import (
	"fmt"
	"sync"
)

// Type is the severity or styling of a message.
type Type int

const (
	Neutral Type = iota
	Good
	Bad
	Warning
	Info
	Debug
	Headshot
	Critical
	Grazing
)

var typeNames = [...]string{"neutral", "good", "bad", "warning", "info", "debug", "headshot", "critical", "grazing"}

// String returns the lower-case type name.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("message(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType resolves a type name; unknown names map to Neutral.
func ParseType(name string) Type {
	for i, s := range typeNames {
		if s == name {
			return Type(i)
		}
	}
	return Neutral
}

// UnmarshalText lets types be read from YAML scalars.
func (t *Type) UnmarshalText(text []byte) error {
	*t = ParseType(string(text))
	return nil
}

// Message is one notification.
type Message struct {
	Type Type
	Text string
}

// Sink receives notifications.
type Sink interface {
	Add(m Message)
}

// Addf formats and sends a message to s.
func Addf(s Sink, t Type, format string, args ...any) {
	s.Add(Message{Type: t, Text: fmt.Sprintf(format, args...)})
}

// Discard drops every message.
var Discard Sink = discard{}

type discard struct{}

func (discard) Add(Message) {}

// Buffer records messages in arrival order. It is safe for concurrent use.
type Buffer struct {
	mu   sync.Mutex
	msgs []Message
}

// Add implements Sink.
func (b *Buffer) Add(m Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, m)
}

// Messages returns a copy of everything recorded so far.
func (b *Buffer) Messages() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Message(nil), b.msgs...)
}

// Texts returns the text of every recorded message.
func (b *Buffer) Texts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.msgs))
	for i, m := range b.msgs {
		out[i] = m.Text
	}
	return out
}

// Reset discards everything recorded.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = nil
}
