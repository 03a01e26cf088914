package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xenocrypt01/smile-report-dash/internal/cache"
	"github.com/xenocrypt01/smile-report-dash/internal/identity"
	"github.com/xenocrypt01/smile-report-dash/internal/onboarding"
	"github.com/xenocrypt01/smile-report-dash/internal/session"
)

// appState es el wiring compartido por todos los subcomandos: el KV local,
// el session manager y el cliente HTTP del servicio.
type appState struct {
	baseURL  string
	stateDir string

	store   cache.Client
	manager *session.Manager
	api     *apiClient
}

const requestTimeout = 30 * time.Second

func (a *appState) init(ctx context.Context) error {
	if a.stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("no se pudo resolver el home: %w", err)
		}
		a.stateDir = filepath.Join(home, ".config", "reportctl")
	}

	store, err := cache.NewFile(filepath.Join(a.stateDir, "state.json"))
	if err != nil {
		return fmt.Errorf("estado local: %w", err)
	}
	a.store = store

	provider := identity.NewClient(a.baseURL, "", requestTimeout)
	a.manager = session.New(provider, store)
	a.manager.Restore(ctx)

	a.api = &apiClient{baseURL: a.baseURL, manager: a.manager}
	return nil
}

// runTourIfFirstUse muestra el tour de bienvenida si nunca se vio.
func (a *appState) runTourIfFirstUse(ctx context.Context) {
	flow := onboarding.New(a.store, nil)
	if !flow.Begin(ctx) {
		return
	}
	for {
		step, pos, total := flow.Current()
		fmt.Printf("\n[%d/%d] %s\n%s\n", pos, total, step.Title, step.Body)
		if !flow.Next(ctx) {
			break
		}
	}
	fmt.Println()
}
