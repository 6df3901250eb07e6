// Package app assembles the client: remote API client, session manager,
// identity-scoped stores and the loopback facade, run under one context.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/eventify/eventify-desk/internal/api"
	"github.com/eventify/eventify-desk/internal/config"
	"github.com/eventify/eventify-desk/internal/eventsapi"
	"github.com/eventify/eventify-desk/internal/profile"
	"github.com/eventify/eventify-desk/internal/rsvp"
	"github.com/eventify/eventify-desk/internal/security"
	"github.com/eventify/eventify-desk/internal/session"
	"github.com/eventify/eventify-desk/internal/storage"
	"github.com/eventify/eventify-desk/internal/tray"
)

type Application struct {
	cfg     config.Config
	logger  *slog.Logger
	tray    tray.App
	kv      storage.KV
	client  *eventsapi.Client
	session *session.Manager
	profile *profile.Store
	rsvp    *rsvp.Controller
	closeKV func() error
}

// New wires the component graph. The subscriber order matters: profile and
// RSVP state must be re-resolved before any facade handler can observe the
// new identity.
func New(cfg config.Config, tr tray.App, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if tr == nil {
		tr = tray.NewNoop()
	}

	var (
		kv      storage.KV
		closeKV func() error
	)
	if cfg.DataDir != "" {
		db, err := storage.OpenSQLite(filepath.Join(cfg.DataDir, "state.db"))
		if err != nil {
			return nil, fmt.Errorf("open state db: %w", err)
		}
		kv = db
		closeKV = db.Close
	} else {
		kv = storage.NewMemory()
	}

	client := eventsapi.NewClient(eventsapi.ClientOptions{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.RequestTimeout,
	})

	storePath := ""
	if cfg.DataDir != "" {
		storePath = filepath.Join(cfg.DataDir, "session.bin")
	}
	sessions := session.NewManager(session.Options{
		API:       client,
		StorePath: storePath,
		VaultKey:  cfg.VaultKey,
		Logger:    logger,
	})

	profiles := profile.NewStore(kv, logger)
	rsvps := rsvp.NewController(client, kv, logger)
	sessions.Subscribe(profiles.Resolve)
	sessions.Subscribe(rsvps.Resolve)

	return &Application{
		cfg:     cfg,
		logger:  logger,
		tray:    tr,
		kv:      kv,
		client:  client,
		session: sessions,
		profile: profiles,
		rsvp:    rsvps,
		closeKV: closeKV,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	if a.closeKV != nil {
		defer func() {
			if err := a.closeKV(); err != nil {
				a.logger.Warn("close state db", "err", err)
			}
		}()
	}

	a.session.Initialize(ctx)

	server := api.New(api.Options{
		Session: a.session,
		Profile: a.profile,
		RSVP:    a.rsvp,
		Events:  a.client,
		Auth: security.BearerAuth{
			Enabled: a.cfg.RequireBearerToken,
			Token:   a.cfg.BearerToken,
		},
		Logger: a.logger,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 3)
	wg := sync.WaitGroup{}

	if a.cfg.BindAddress != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := server.ServeTCP(ctx, a.cfg.BindAddress); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("tcp server: %w", err)
			}
		}()
	}
	if a.cfg.UnixSocketPath != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := server.ServeUnix(ctx, a.cfg.UnixSocketPath); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("unix server: %w", err)
			}
		}()
	}

	if a.cfg.EnableTray {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := a.tray.Run(ctx); err != nil {
				errCh <- fmt.Errorf("tray: %w", err)
			}
		}()
	}

	select {
	case err := <-errCh:
		cancel()
		wg.Wait()
		return err
	case <-ctx.Done():
		wg.Wait()
		return nil
	}
}
