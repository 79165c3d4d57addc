package cli

import (
	"context"
	"fmt"

	"github.com/trihoang/studydesk/internal/config"
	"github.com/trihoang/studydesk/internal/gateway"
	"github.com/trihoang/studydesk/internal/store"
)

// openSession loads the config and the stored server session
func openSession() (*gateway.Session, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	return gateway.LoadSession(cfg.ServerURL), cfg, nil
}

// openStore builds a store loaded with the logged-in owner's data.
// The caller must Close the store so queued writes drain before exit.
func openStore(ctx context.Context) (*store.Store, *gateway.Client, *gateway.Session, *config.Config, error) {
	session, cfg, err := openSession()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if !session.IsLoggedIn() {
		return nil, nil, nil, nil, fmt.Errorf("not logged in, run 'studydesk auth login' first")
	}

	gw := gateway.NewClient(session)
	s := store.New(gw)
	if err := s.Load(ctx, session.UserID); err != nil {
		s.Close()
		return nil, nil, nil, nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	return s, gw, session, cfg, nil
}
