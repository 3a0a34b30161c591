package logging

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Entry is a flattened log record delivered to sink subscribers.
type Entry struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// Sink fans log records out to subscribers. Subscribers that fall behind
// lose entries; logging never blocks on them.
type Sink struct {
	mu   sync.RWMutex
	subs map[int]chan Entry
	next int
}

// NewSink returns an empty sink.
func NewSink() *Sink {
	return &Sink{subs: make(map[int]chan Entry)}
}

// Subscribe registers a subscriber with the given buffer size.
// The returned cancel func closes the channel.
func (s *Sink) Subscribe(buffer int) (<-chan Entry, func()) {
	ch := make(chan Entry, buffer)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Sink) publish(e Entry) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Wrap returns a handler that forwards to next and mirrors every handled record into the sink.
func (s *Sink) Wrap(next slog.Handler) slog.Handler {
	return &sinkHandler{sink: s, next: next}
}

type sinkHandler struct {
	sink  *Sink
	next  slog.Handler
	attrs []slog.Attr
	group string
}

func (h *sinkHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *sinkHandler) Handle(ctx context.Context, r slog.Record) error {
	e := Entry{
		Time:    r.Time,
		Level:   r.Level.String(),
		Message: r.Message,
	}
	if len(h.attrs) > 0 || r.NumAttrs() > 0 {
		e.Attrs = make(map[string]any, len(h.attrs)+r.NumAttrs())
		for _, a := range h.attrs {
			e.Attrs[a.Key] = a.Value.Resolve().Any()
		}
		r.Attrs(func(a slog.Attr) bool {
			e.Attrs[h.key(a.Key)] = a.Value.Resolve().Any()
			return true
		})
	}
	h.sink.publish(e)
	return h.next.Handle(ctx, r)
}

func (h *sinkHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	for _, a := range attrs {
		a.Key = h.key(a.Key)
		merged = append(merged, a)
	}
	return &sinkHandler{sink: h.sink, next: h.next.WithAttrs(attrs), attrs: merged, group: h.group}
}

func (h *sinkHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &sinkHandler{sink: h.sink, next: h.next.WithGroup(name), attrs: h.attrs, group: h.key(name)}
}

func (h *sinkHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}
