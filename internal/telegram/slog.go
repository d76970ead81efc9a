package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

var _ slog.Handler = &SlogHandler{}

// Broadcaster sends a log record to every subscribed chat.
type Broadcaster interface {
	BroadcastSlogRecord(context.Context, slog.Record) error
}

// SlogHandler passes every record to next and forwards warnings and errors
// to the broadcaster. The broadcaster must not log through this handler.
type SlogHandler struct {
	broadcaster Broadcaster
	next        slog.Handler
	attrs       []slog.Attr
	mu          *sync.Mutex
}

func NewSlogHandler(broadcaster Broadcaster, next slog.Handler) *SlogHandler {
	return &SlogHandler{
		broadcaster: broadcaster,
		next:        next,
		mu:          &sync.Mutex{},
	}
}

func (h *SlogHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= slog.LevelWarn || h.next.Enabled(ctx, l)
}

func (h *SlogHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.next.Enabled(ctx, r.Level) {
		if err := h.next.Handle(ctx, r); err != nil {
			return err
		}
	}
	if r.Level < slog.LevelWarn {
		return nil
	}
	r = r.Clone()
	r.AddAttrs(h.attrs...)
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.broadcaster.BroadcastSlogRecord(ctx, r); err != nil {
		return fmt.Errorf("broadcast: %w", err)
	}
	return nil
}

func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SlogHandler{
		broadcaster: h.broadcaster,
		next:        h.next.WithAttrs(attrs),
		attrs:       append(append([]slog.Attr{}, h.attrs...), attrs...),
		mu:          h.mu,
	}
}

func (h *SlogHandler) WithGroup(name string) slog.Handler {
	return &SlogHandler{
		broadcaster: h.broadcaster,
		next:        h.next.WithGroup(name),
		attrs:       h.attrs,
		mu:          h.mu,
	}
}
