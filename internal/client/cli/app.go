package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/drivebuddy/internal/client/config"
	"github.com/dmitrijs2005/drivebuddy/internal/client/models"
	"github.com/dmitrijs2005/drivebuddy/internal/client/repositories/repomanager"
	"github.com/dmitrijs2005/drivebuddy/internal/client/services"
	"github.com/dmitrijs2005/drivebuddy/internal/cryptox"
	"github.com/dmitrijs2005/drivebuddy/internal/logging"
)

// authGate is the part of services.AuthGate the CLI drives.
type authGate interface {
	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) error
	ChangePassword(ctx context.Context, currentPassword, newPassword, confirmPassword string) error
	Logout()
	CurrentUser(ctx context.Context) (*models.Account, error)
	State() services.State
	Subscribe() (<-chan services.State, func())
}

type App struct {
	config *config.Config
	gate   authGate
	store  io.Closer
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the configured record store (running migrations) and builds
// the authentication gate on top of it.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	hasher, err := cryptox.NewPasswordHasher(c.HashScheme)
	if err != nil {
		return nil, err
	}

	db, rm, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN, log)
	if err != nil {
		log.Error(ctx, "error initializing record store", "error", err)
		return nil, err
	}

	return &App{
		config: c,
		gate:   services.NewAuthGate(db, rm, hasher, log),
		store:  db,
		log:    log,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

// Run starts the state watcher and the REPL, and closes the store when the
// REPL returns.
func (a *App) Run(ctx context.Context) error {
	watchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.watchState(watchCtx)
	}()

	fmt.Fprintln(a.out, "Welcome to DriveBuddy (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)

	cancel()
	<-done

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			return fmt.Errorf("close record store: %w", err)
		}
	}
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.gate.State().Authenticated
}

func (a *App) getStatus() string {
	st := a.gate.State()
	if !st.Authenticated {
		return ""
	}
	return fmt.Sprintf("(%s)", st.SessionEmail)
}

// watchState logs session transitions until ctx is done.
func (a *App) watchState(ctx context.Context) {
	updates, unsubscribe := a.gate.Subscribe()
	defer unsubscribe()

	var last services.State
	first := true

	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-updates:
			if !ok {
				return
			}
			if !first && st.Authenticated != last.Authenticated {
				if st.Authenticated {
					a.log.Debug(ctx, "session opened", "account_id", st.CurrentUserID)
				} else {
					a.log.Debug(ctx, "session closed", "account_id", last.CurrentUserID)
				}
			}
			last, first = st, false
		}
	}
}
