package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/shift-scheduler/internal"
)

// RepositoryAPI is the credential store used by authentication.
type RepositoryAPI interface {
	GetByUsername(ctx context.Context, username string) (*Account, error)
	Create(ctx context.Context, account *Account) error
}

type ServiceAPI interface {
	Register(ctx context.Context, dto RegisterDTO) (*AuthResult, error)
	Login(ctx context.Context, dto LoginDTO) (*AuthResult, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

// Service is the main auth service with dependencies
type Service struct {
	repo       RepositoryAPI
	tokens     TokenGenerator
	bcryptCost int
	logger     *slog.Logger

	// dummyHash keeps the unknown-user path as slow as a real comparison.
	dummyHash []byte
}

// NewService creates a new auth service
func NewService(repo RepositoryAPI, tokens TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("shift-scheduler-dummy"), bcryptCost)
	return &Service{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
		dummyHash:  dummy,
	}
}

// Register creates a staff account and logs it straight in.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*AuthResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUsername(ctx, dto.Username)
	if err != nil && !errors.Is(err, internal.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, internal.ErrUsernameTaken
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	account := &Account{
		Username:     dto.Username,
		PasswordHash: hash,
		Role:         RoleStaff,
		Email:        dto.Email,
		Department:   dto.Department,
	}
	if dto.Role != "" && dto.Role != string(RoleStaff) {
		s.logger.WarnContext(ctx, "ignoring requested role on public registration", "username", dto.Username, "requested_role", dto.Role)
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateAccessToken(account.Principal())
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", account.ID, "username", account.Username)
	return &AuthResult{Message: "registration completed", Token: token, User: account}, nil
}

// Login verifies the credential. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*AuthResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	account, err := s.repo.GetByUsername(ctx, dto.Username)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(dto.Password))
			s.logger.InfoContext(ctx, "login failed", "reason", "unknown user")
			return nil, internal.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := VerifyPassword(account.PasswordHash, dto.Password); err != nil {
		s.logger.InfoContext(ctx, "login failed", "reason", "password mismatch", "user_id", account.ID)
		return nil, internal.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(account.Principal())
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}

	s.logger.InfoContext(ctx, "login succeeded", "user_id", account.ID, "username", account.Username)
	return &AuthResult{Token: token, User: account}, nil
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateToken(tokenString)
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
