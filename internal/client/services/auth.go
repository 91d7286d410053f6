// Package services contains application services for the DriveBuddy client.
// This file defines the authentication gate: local registration, login,
// password change and logout against the account record store, plus the
// observable session state a UI binds to.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/drivebuddy/internal/client/models"
	"github.com/dmitrijs2005/drivebuddy/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/drivebuddy/internal/client/repositories/repomanager"
	"github.com/dmitrijs2005/drivebuddy/internal/common"
	"github.com/dmitrijs2005/drivebuddy/internal/cryptox"
	"github.com/dmitrijs2005/drivebuddy/internal/dbx"
	"github.com/dmitrijs2005/drivebuddy/internal/logging"
	"github.com/google/uuid"
	"github.com/rivo/uniseg"
)

// MinPasswordLength is counted in user-perceived characters (grapheme
// clusters), so "e" plus a combining accent counts once.
const MinPasswordLength = 6

// MsgRegistered is the informational message left after a successful Register.
const MsgRegistered = "registration successful, please log in"

// Errors returned by the gate. The error text doubles as the user-facing
// message stored in State.Message.
var (
	ErrMissingCredentials       = errors.New("please enter email and password")
	ErrInvalidEmail             = errors.New("invalid email format")
	ErrEmailTaken               = errors.New("email already registered")
	ErrFieldsRequired           = errors.New("please fill in all fields")
	ErrUserNotFound             = errors.New("user not found, please sign up first")
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrNotLoggedIn              = errors.New("no user is logged in")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
	ErrPasswordMismatch         = errors.New("new password and confirmation do not match")
	ErrPasswordTooShort         = fmt.Errorf("new password must be at least %d characters", MinPasswordLength)
	ErrInternal                 = errors.New("internal error, please try again later")
)

// Intentionally simple, not RFC 5322.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ValidateEmail reports whether email has the local@host.tld shape the gate accepts.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// AuthGate owns the session state of a single-device application.
//
// Every operation runs to completion under the gate's mutex, so concurrent
// callers observe operations one at a time. Store writes go through a
// transaction; the session only changes after the transaction commits.
// The gate keeps the logged-in account's ID, never the account itself;
// CurrentUser re-reads it from the store.
type AuthGate struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	hasher cryptox.PasswordHasher
	log    logging.Logger

	now   func() time.Time
	newID func() (uuid.UUID, error)

	mu      sync.Mutex
	state   State
	current uuid.UUID
	subs    map[int]chan State
	nextSub int
}

// NewAuthGate constructs a logged-out gate bound to the given store.
func NewAuthGate(db *sql.DB, repos repomanager.RepositoryManager, hasher cryptox.PasswordHasher, log logging.Logger) *AuthGate {
	return &AuthGate{
		db:     db,
		repos:  repos,
		hasher: hasher,
		log:    log.With("component", "auth"),
		now:    time.Now,
		newID:  uuid.NewRandom,
		subs:   make(map[int]chan State),
	}
}

// Register creates a new account. It never logs the caller in: on success
// the session is cleared and an informational message asks the user to log in.
func (g *AuthGate) Register(ctx context.Context, email, password string) error {
	const op = "register"

	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.publish()

	g.state.Email, g.state.Password = email, password
	g.state.Message = nil

	if email == "" || password == "" {
		return g.reject(ctx, op, ErrMissingCredentials)
	}
	if !ValidateEmail(email) {
		return g.reject(ctx, op, ErrInvalidEmail)
	}

	normalized := strings.ToLower(email)

	// duplicate check before hashing; repeated inside the transaction
	taken, err := g.emailTaken(ctx, g.repos.Accounts(g.db), normalized)
	if err != nil {
		return g.internal(ctx, op, err)
	}
	if taken {
		return g.reject(ctx, op, ErrEmailTaken)
	}

	digest, err := g.hasher.Hash(password)
	if err != nil {
		return g.internal(ctx, op, fmt.Errorf("hash password: %w", err))
	}
	id, err := g.newID()
	if err != nil {
		return g.internal(ctx, op, fmt.Errorf("generate id: %w", err))
	}

	account := &models.Account{
		ID:            id,
		Email:         normalized,
		PasswordHash:  digest,
		AddToCalendar: false,
		CreatedAt:     g.now().UTC(),
	}

	err = dbx.WithTx(ctx, g.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := g.repos.Accounts(tx)

		taken, err := g.emailTaken(ctx, repo, normalized)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}

		if err := repo.Insert(ctx, account); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return ErrEmailTaken
			}
			return fmt.Errorf("insert account: %w", err)
		}
		return nil
	})
	if errors.Is(err, ErrEmailTaken) {
		return g.reject(ctx, op, ErrEmailTaken)
	}
	if err != nil {
		return g.internal(ctx, op, err)
	}

	g.clearSession()
	g.state.Message = &Message{Kind: MessageInfo, Text: MsgRegistered}
	g.log.Info(ctx, "account registered", "account_id", id.String())
	return nil
}

// Login verifies the credentials and, on success, opens the session.
// Failures leave any existing session as it was.
func (g *AuthGate) Login(ctx context.Context, email, password string) error {
	const op = "login"

	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.publish()

	g.state.Email, g.state.Password = email, password
	g.state.Message = nil

	if email == "" || password == "" {
		return g.reject(ctx, op, ErrFieldsRequired)
	}

	account, err := g.repos.Accounts(g.db).FindByEmail(ctx, strings.ToLower(email))
	if errors.Is(err, common.ErrorNotFound) {
		return g.reject(ctx, op, ErrUserNotFound)
	}
	if err != nil {
		return g.internal(ctx, op, fmt.Errorf("lookup email: %w", err))
	}

	ok, err := g.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		return g.internal(ctx, op, fmt.Errorf("verify password: %w", err))
	}
	if !ok {
		return g.reject(ctx, op, ErrInvalidCredentials)
	}

	g.current = account.ID
	g.state.Authenticated = true
	g.state.CurrentUserID = account.ID.String()
	g.state.SessionEmail = account.Email
	g.state.Message = nil
	g.log.Info(ctx, "login succeeded", "account_id", account.ID.String())
	return nil
}

// ChangePassword replaces the logged-in account's password. A nil error
// means the new digest has been committed.
func (g *AuthGate) ChangePassword(ctx context.Context, currentPassword, newPassword, confirmPassword string) error {
	const op = "change_password"

	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.publish()

	g.state.Message = nil

	if g.current == uuid.Nil {
		return g.reject(ctx, op, ErrNotLoggedIn)
	}
	if currentPassword == "" || newPassword == "" || confirmPassword == "" {
		return g.reject(ctx, op, ErrFieldsRequired)
	}

	account, err := g.repos.Accounts(g.db).FindByID(ctx, g.current)
	if err != nil {
		return g.internal(ctx, op, fmt.Errorf("load account: %w", err))
	}

	ok, err := g.hasher.Verify(currentPassword, account.PasswordHash)
	if err != nil {
		return g.internal(ctx, op, fmt.Errorf("verify password: %w", err))
	}
	if !ok {
		return g.reject(ctx, op, ErrCurrentPasswordIncorrect)
	}
	if newPassword != confirmPassword {
		return g.reject(ctx, op, ErrPasswordMismatch)
	}
	if uniseg.GraphemeClusterCount(newPassword) < MinPasswordLength {
		return g.reject(ctx, op, ErrPasswordTooShort)
	}

	digest, err := g.hasher.Hash(newPassword)
	if err != nil {
		return g.internal(ctx, op, fmt.Errorf("hash password: %w", err))
	}

	err = dbx.WithTx(ctx, g.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return g.repos.Accounts(tx).UpdatePasswordHash(ctx, account.ID, digest)
	})
	if err != nil {
		return g.internal(ctx, op, fmt.Errorf("store password: %w", err))
	}

	g.state.Password = ""
	g.log.Info(ctx, "password changed", "account_id", account.ID.String())
	return nil
}

// Logout clears the session, the last message and the input fields.
func (g *AuthGate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.publish()

	if g.current != uuid.Nil {
		g.log.Info(context.Background(), "logged out", "account_id", g.current.String())
	}

	g.clearSession()
	g.state.Message = nil
	g.state.Email = ""
	g.state.Password = ""
}

// CurrentUser re-reads the logged-in account from the store.
func (g *AuthGate) CurrentUser(ctx context.Context) (*models.Account, error) {
	g.mu.Lock()
	id := g.current
	g.mu.Unlock()

	if id == uuid.Nil {
		return nil, ErrNotLoggedIn
	}

	account, err := g.repos.Accounts(g.db).FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load current account: %w", err)
	}
	return account, nil
}

// State returns a snapshot of the observable fields.
func (g *AuthGate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.clone()
}

// Subscribe returns a channel that receives the current state immediately
// and a fresh snapshot after every operation. A slow reader only misses
// intermediate snapshots, never the latest one. cancel closes the channel.
func (g *AuthGate) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	g.mu.Lock()
	id := g.nextSub
	g.nextSub++
	g.subs[id] = ch
	ch <- g.state.clone()
	g.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.subs, id)
			close(ch)
			g.mu.Unlock()
		})
	}
	return ch, cancel
}

// publish must be called with g.mu held.
func (g *AuthGate) publish() {
	for _, ch := range g.subs {
		snap := g.state.clone()
		select {
		case ch <- snap:
		default:
			// drop the stale snapshot; we are the only sender
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (g *AuthGate) clearSession() {
	g.current = uuid.Nil
	g.state.Authenticated = false
	g.state.CurrentUserID = ""
	g.state.SessionEmail = ""
}

func (g *AuthGate) emailTaken(ctx context.Context, repo accounts.Repository, email string) (bool, error) {
	_, err := repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, common.ErrorNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("lookup email: %w", err)
	}
}

func (g *AuthGate) reject(ctx context.Context, op string, err error) error {
	g.state.Message = &Message{Kind: MessageError, Text: err.Error()}
	g.log.Debug(ctx, "request rejected", "op", op, "reason", err.Error())
	return err
}

// internal masks store and crypto failures behind ErrInternal; the cause is
// logged and kept in the returned error chain.
func (g *AuthGate) internal(ctx context.Context, op string, cause error) error {
	g.state.Message = &Message{Kind: MessageError, Text: ErrInternal.Error()}
	g.log.Error(ctx, "operation failed", "op", op, "error", cause)
	return fmt.Errorf("%w: %w", ErrInternal, cause)
}
