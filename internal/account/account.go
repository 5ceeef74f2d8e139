// Package account manages local users and the persisted login session.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/secandoalei/secando/internal/store"
)

var (
	// ErrEmailTaken is returned by SignUp for an email already registered.
	ErrEmailTaken = errors.New("E-mail já cadastrado.")

	// ErrInvalidCredentials is returned by LogIn for an unknown email or a
	// wrong password.
	ErrInvalidCredentials = errors.New("E-mail ou senha incorretos.")

	// ErrNotFound is returned by Delete for an unknown email.
	ErrNotFound = errors.New("E-mail não encontrado na base de dados.")

	// ErrInvalidInput wraps sign-up field validation failures.
	ErrInvalidInput = errors.New("Preencha um e-mail válido e uma senha com ao menos 4 caracteres.")
)

// User is a registered account.
type User struct {
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// DisplayName is the name, or the part of the email before "@".
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if i := strings.IndexByte(u.Email, '@'); i > 0 {
		return u.Email[:i]
	}
	return u.Email
}

type signUpInput struct {
	Email    string `validate:"required,email"`
	Name     string `validate:"max=80"`
	Password string `validate:"required,min=4"`
}

// Service implements sign-up, login and the session.
type Service struct {
	users    store.UserRepo
	sessions store.SessionRepo
	validate *validator.Validate
	cost     int
	log      *zap.Logger
}

// NewService creates an account service. log may be nil.
func NewService(users store.UserRepo, sessions store.SessionRepo, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		users:    users,
		sessions: sessions,
		validate: validator.New(),
		cost:     bcrypt.DefaultCost,
		log:      log,
	}
}

// SetHashCost changes the bcrypt cost used for new passwords. Values
// outside bcrypt's range fall back to the default.
func (s *Service) SetHashCost(cost int) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	s.cost = cost
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers a user and logs them in.
func (s *Service) SignUp(ctx context.Context, email, name, password string) (*User, error) {
	in := signUpInput{
		Email:    NormalizeEmail(email),
		Name:     strings.TrimSpace(name),
		Password: password,
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{Email: in.Email, Name: in.Name, PasswordHash: string(hash), CreatedAt: time.Now()}
	err = s.users.Create(ctx, store.UserRecord{
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	})
	if errors.Is(err, store.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.sessions.Set(ctx, u.Email); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	s.log.Info("user signed up", zap.String("email", u.Email))
	return u, nil
}

// LogIn checks the credentials and persists the session.
func (s *Service) LogIn(ctx context.Context, email, password string) (*User, error) {
	rec, err := s.users.Get(ctx, NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		s.log.Debug("login rejected", zap.String("email", rec.Email))
		return nil, ErrInvalidCredentials
	}

	if err := s.sessions.Set(ctx, rec.Email); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	s.log.Info("user logged in", zap.String("email", rec.Email))
	return fromRecord(rec), nil
}

// Current returns the logged-in user, or nil.
func (s *Service) Current(ctx context.Context) (*User, error) {
	email, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if email == "" {
		return nil, nil
	}
	rec, err := s.users.Get(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		// Session outlived its account.
		return nil, s.sessions.Clear(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return fromRecord(rec), nil
}

// LogOut clears the session.
func (s *Service) LogOut(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.log.Info("user logged out")
	return nil
}

// Delete removes the user together with their plans and exam progress,
// and ends their session if it is the active one.
func (s *Service) Delete(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if err := s.users.Delete(ctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	current, err := s.sessions.Current(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if current == email {
		if err := s.sessions.Clear(ctx); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
	}
	s.log.Info("user deleted", zap.String("email", email))
	return nil
}

func fromRecord(rec *store.UserRecord) *User {
	return &User{
		Email:        rec.Email,
		Name:         rec.Name,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
	}
}
