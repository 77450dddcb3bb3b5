package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"kanban_api/internal/domain"
	"kanban_api/internal/perrors"
	"kanban_api/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var errInvalidCredentials = perrors.Unauthorized("Invalid email or password")

type AuthService struct {
	users  *repository.UserRepository
	tokens *TokenManager
	cost   int
	// compared against when the email is unknown so both login failures
	// take the same time
	dummyHash []byte
}

func NewAuthService(db repository.DBTX, tokens *TokenManager) *AuthService {
	return newAuthService(db, tokens, bcrypt.DefaultCost)
}

func newAuthService(db repository.DBTX, tokens *TokenManager, cost int) *AuthService {
	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cost)
	if err != nil {
		panic(err)
	}
	return &AuthService{
		users:     repository.NewUserRepository(db),
		tokens:    tokens,
		cost:      cost,
		dummyHash: dummy,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResult, error) {
	// whitespace-only counts as missing
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := domain.Validate(in); err != nil {
		return nil, err
	}
	if !emailPattern.MatchString(in.Email) {
		return nil, perrors.Validation("Invalid email format")
	}

	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, perrors.Conflict("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, perrors.Conflict("Email already registered")
		}
		return nil, err
	}

	return s.issue(u)
}

func (s *AuthService) Login(ctx context.Context, in domain.LoginInput) (*domain.AuthResult, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, repository.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(in.Password))
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return nil, errInvalidCredentials
	}

	return s.issue(u)
}

func (s *AuthService) issue(u *domain.User) (*domain.AuthResult, error) {
	token, err := s.tokens.Generate(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{User: u, Token: token}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	return u, notFoundAs(err, msgUserNotFound)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, p domain.ProfilePatch) (*domain.User, error) {
	set := p.Assignments()
	if len(set) == 0 {
		return nil, domain.ErrNoFieldsToUpdate
	}
	u, err := s.users.Update(ctx, userID, set)
	return u, notFoundAs(err, msgUserNotFound)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, in domain.ChangePasswordInput) error {
	if err := domain.Validate(in); err != nil {
		return err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return notFoundAs(err, msgUserNotFound)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.CurrentPassword)) != nil {
		return perrors.Unauthorized("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), s.cost)
	if err != nil {
		return err
	}
	return notFoundAs(s.users.SetPassword(ctx, userID, string(hash)), msgUserNotFound)
}
