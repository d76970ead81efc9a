package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const maxTextLength = 2000

var (
	ErrEmpty   = errors.New("feedback is empty")
	ErrTooLong = errors.New("feedback is too long")
)

// Notifier is told about every accepted entry.
type Notifier interface {
	Broadcast(ctx context.Context, message string) error
}

type Service struct {
	logger   *slog.Logger
	store    *Store
	notifier Notifier
	now      func() time.Time
}

func NewService(logger *slog.Logger, store *Store) *Service {
	return &Service{
		logger: logger,
		store:  store,
		now:    time.Now,
	}
}

// SetNotifier registers n to receive accepted entries.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *Service) Submit(ctx context.Context, text string) (*Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmpty
	}
	if len(text) > maxTextLength {
		return nil, fmt.Errorf("%d bytes: %w", len(text), ErrTooLong)
	}
	entry := &Entry{
		ID:   NewID(),
		Time: s.now().UTC(),
		Text: text,
	}
	if err := s.store.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append feedback: %w", err)
	}
	s.logger.InfoContext(ctx, "feedback received", "feedback_id", entry.ID)

	if s.notifier != nil {
		message := fmt.Sprintf("Feedback %s\n\n%s", entry.Time.Format(time.DateTime), entry.Text)
		if err := s.notifier.Broadcast(ctx, message); err != nil {
			s.logger.ErrorContext(ctx, "broadcast feedback", "feedback_id", entry.ID, "error", err)
		}
	}
	return entry, nil
}

func (s *Service) List(ctx context.Context) ([]*Entry, error) {
	return s.store.List(ctx)
}
