package terms

import (
	"context"
	"fmt"
	"log/slog"
)

type Service struct {
	logger *slog.Logger
	store  *Store
}

func NewService(logger *slog.Logger, store *Store) *Service {
	return &Service{
		logger: logger,
		store:  store,
	}
}

// Create validates term and stores it, assigning an id when it has none.
// An existing term with the same id is replaced.
func (s *Service) Create(ctx context.Context, term *Term) error {
	if term.ID == "" {
		term.ID = NewID()
	}
	if err := term.Validate(); err != nil {
		return fmt.Errorf("validate term %q: %w", term.ID, err)
	}
	if err := s.store.Insert(ctx, term); err != nil {
		return fmt.Errorf("insert term: %w", err)
	}
	s.logger.InfoContext(ctx, "term saved", "term_id", term.ID, "name", term.Name)
	return nil
}

func (s *Service) Get(ctx context.Context, id ID) (*Term, error) {
	term, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find term %q: %w", id, err)
	}
	return term, nil
}

func (s *Service) List(ctx context.Context) ([]*Term, error) {
	return s.store.List(ctx)
}
