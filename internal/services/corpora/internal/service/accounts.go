package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gamma-omg/lexi-annotate/internal/pkg/serr"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/store"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/token"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var (
	ErrCodeNotFound       = errors.New("code not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// tokenIssuer signs access tokens.
type tokenIssuer interface {
	Issue(c token.Claims) (string, error)
}

// resetCodes stores one-time password reset codes.
type resetCodes interface {
	CreateCode(ctx context.Context, userID int64) (string, error)
	RedeemCode(ctx context.Context, code string) (int64, error)
}

// notifier delivers password reset codes to users.
type notifier interface {
	PasswordReset(ctx context.Context, email, code string) error
}

// Accounts handles registration, authentication and user administration.
type Accounts struct {
	store    store.Store
	tokens   tokenIssuer
	codes    resetCodes
	notifier notifier
	cost     int
}

type AccountsOption func(*Accounts) *Accounts

func WithAccountsStore(st store.Store) AccountsOption {
	return func(s *Accounts) *Accounts {
		s.store = st
		return s
	}
}

func WithTokenIssuer(iss tokenIssuer) AccountsOption {
	return func(s *Accounts) *Accounts {
		s.tokens = iss
		return s
	}
}

func WithResetCodes(c resetCodes) AccountsOption {
	return func(s *Accounts) *Accounts {
		s.codes = c
		return s
	}
}

func WithNotifier(n notifier) AccountsOption {
	return func(s *Accounts) *Accounts {
		s.notifier = n
		return s
	}
}

// WithHashCost overrides the bcrypt cost, tests use bcrypt.MinCost.
func WithHashCost(cost int) AccountsOption {
	return func(s *Accounts) *Accounts {
		s.cost = cost
		return s
	}
}

func NewAccounts(opts ...AccountsOption) *Accounts {
	s := &Accounts{cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		s = opt(s)
	}

	if s.store == nil {
		panic("store is required")
	}

	if s.tokens == nil {
		panic("token issuer is required")
	}

	if s.codes == nil {
		panic("reset code store is required")
	}

	if s.notifier == nil {
		panic("notifier is required")
	}

	return s
}

type RegisterRequest struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

func (s *Accounts) Register(ctx context.Context, r RegisterRequest) (model.User, error) {
	email := normalizeEmail(r.Email)
	if !strings.Contains(email, "@") {
		return model.User{}, validationErr("email", "not an email address")
	}
	if err := checkLength("email", email, MaxNameLength); err != nil {
		return model.User{}, err
	}
	if err := checkPassword(r.Password); err != nil {
		return model.User{}, err
	}

	hash, err := s.hash(r.Password)
	if err != nil {
		return model.User{}, err
	}

	var u model.User
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		role, err := tx.DefaultRole(ctx)
		if err != nil {
			return fmt.Errorf("default role: %w", err)
		}

		id, err := tx.CreateUser(ctx, store.CreateUserRequest{
			Email:        email,
			FirstName:    r.FirstName,
			LastName:     r.LastName,
			PasswordHash: hash,
			RoleID:       role.ID,
		})
		if err != nil {
			if errors.Is(err, store.ErrExists) {
				return conflictErr(err, "email already registered").WithEnv("email", email)
			}
			return fmt.Errorf("create user: %w", err)
		}

		u, err = tx.GetUser(ctx, id)
		return err
	})

	return u, err
}

// Session is the outcome of a successful login.
type Session struct {
	AccessToken string     `json:"access_token"`
	User        model.User `json:"user"`
}

func (s *Accounts) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, unauthorized(ErrInvalidCredentials)
		}
		return Session{}, fmt.Errorf("get user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return Session{}, unauthorized(ErrInvalidCredentials).WithEnv("user_id", u.ID)
	}

	at, err := s.tokens.Issue(token.Claims{UserID: u.ID, Permissions: u.Role.Permissions})
	if err != nil {
		return Session{}, fmt.Errorf("issue access token: %w", err)
	}

	return Session{AccessToken: at, User: u}, nil
}

func (s *Accounts) Me(ctx context.Context, a model.Actor) (model.User, error) {
	u, err := s.store.GetUser(ctx, a.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return u, notFoundErr(err, "user", a.UserID)
		}
		return u, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

func (s *Accounts) ChangePassword(ctx context.Context, a model.Actor, current, next string) error {
	if err := checkPassword(next); err != nil {
		return err
	}

	u, err := s.Me(ctx, a)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return unauthorized(ErrInvalidCredentials)
	}

	return s.setPassword(ctx, u.ID, next)
}

// ForgotPassword sends a reset code to the owner of email. Unknown addresses
// are silently ignored.
func (s *Accounts) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}

	code, err := s.codes.CreateCode(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("create reset code: %w", err)
	}

	if err := s.notifier.PasswordReset(ctx, u.Email, code); err != nil {
		return fmt.Errorf("notify: %w", err)
	}

	return nil
}

func (s *Accounts) ResetPassword(ctx context.Context, code, password string) error {
	if err := checkPassword(password); err != nil {
		return err
	}

	uid, err := s.codes.RedeemCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrCodeNotFound) {
			return badRequestErr(err, "invalid or expired reset code")
		}
		return fmt.Errorf("redeem code: %w", err)
	}

	return s.setPassword(ctx, uid, password)
}

func (s *Accounts) setPassword(ctx context.Context, userID int64, password string) error {
	hash, err := s.hash(password)
	if err != nil {
		return err
	}

	if err := s.store.UpdateUser(ctx, store.UpdateUserRequest{ID: userID, PasswordHash: &hash}); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFoundErr(err, "user", userID)
		}
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

func (s *Accounts) ListUsers(ctx context.Context, a model.Actor) ([]model.User, error) {
	if !a.IsAdmin() {
		return nil, forbiddenErr("administrators only")
	}

	us, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return us, nil
}

// EditUser describes an administrative change of a user. Nil fields are
// left as they are.
type EditUser struct {
	Role      *string
	Confirmed *bool
	Password  *string
}

func (s *Accounts) UpdateUser(ctx context.Context, a model.Actor, userID int64, e EditUser) (model.User, error) {
	if !a.IsAdmin() {
		return model.User{}, forbiddenErr("administrators only")
	}

	return s.editUser(ctx, userID, e)
}

// EditUserByEmail applies e to the user registered with email. It backs the
// administrative command line and bypasses permission checks.
func (s *Accounts) EditUserByEmail(ctx context.Context, email string, e EditUser) (model.User, error) {
	u, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return u, serr.NewServiceError(err, http.StatusNotFound, "user %s not found", email)
		}
		return u, fmt.Errorf("get user: %w", err)
	}

	return s.editUser(ctx, u.ID, e)
}

func (s *Accounts) editUser(ctx context.Context, userID int64, e EditUser) (model.User, error) {
	r := store.UpdateUserRequest{ID: userID, Confirmed: e.Confirmed}

	if e.Password != nil {
		if err := checkPassword(*e.Password); err != nil {
			return model.User{}, err
		}
		hash, err := s.hash(*e.Password)
		if err != nil {
			return model.User{}, err
		}
		r.PasswordHash = &hash
	}

	var u model.User
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		if e.Role != nil {
			role, err := tx.GetRole(ctx, *e.Role)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return badRequestErr(err, "unknown role %q", *e.Role)
				}
				return fmt.Errorf("get role: %w", err)
			}
			r.RoleID = &role.ID
		}

		if err := tx.UpdateUser(ctx, r); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return notFoundErr(err, "user", userID)
			}
			return fmt.Errorf("update user: %w", err)
		}

		var err error
		u, err = tx.GetUser(ctx, userID)
		return err
	})

	return u, err
}

func (s *Accounts) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func checkPassword(p string) error {
	if utf8.RuneCountInString(p) < minPasswordLength {
		return validationErr("password", fmt.Sprintf("shorter than %d characters", minPasswordLength))
	}
	// bcrypt ignores anything past 72 bytes.
	if len(p) > 72 {
		return validationErr("password", "longer than 72 bytes")
	}
	return nil
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func unauthorized(err error) *serr.ServiceError {
	return serr.NewServiceError(err, http.StatusUnauthorized, "invalid email or password")
}
