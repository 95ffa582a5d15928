// Package tui renders the crop notification board in the terminal.
//
// The package follows the Elm shape bubbletea imposes: one immutable model,
// one Update that folds messages into the next model, one View that derives
// the whole screen from model state alone. All state transitions, including
// session changes arriving from the tracker's event stream, flow through
// Update as messages.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agrotrace/cropboard/internal/batches"
	"github.com/agrotrace/cropboard/internal/feed"
	"github.com/agrotrace/cropboard/internal/logger"
	"github.com/agrotrace/cropboard/internal/session"
)

// Deps carries everything the board needs. SetupErr short-circuits the whole
// UI into a configuration help panel; when it is set the other fields may be
// nil.
type Deps struct {
	Session      *session.Tracker
	Feed         *feed.Store
	Batches      *batches.Store
	Logger       *logger.Logger
	MarketingURL string
	Version      string
	SetupErr     error
}

// App is the terminal application.
type App struct {
	deps Deps
}

// New constructs the application.
func New(deps Deps) *App {
	return &App{deps: deps}
}

// Run blocks until the user quits or the program fails.
func (a *App) Run(ctx context.Context) error {
	model := newAppModel(ctx, a.deps)
	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
