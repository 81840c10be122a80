package user

import (
	"context"
	"errors"
	"fmt"

	"driverfinance/internal/domain"
	"driverfinance/internal/shared/auth"
)

var (
	ErrDuplicateEmail     = &domain.Error{Kind: domain.KindDuplicateEmail, Message: "Email already registered"}
	ErrInvalidCredentials = &domain.Error{Kind: domain.KindInvalidCredentials, Message: "Incorrect email or password"}
	ErrUserNotFound       = &domain.Error{Kind: domain.KindUserNotFound, Message: "User not found"}
	ErrNothingToUpdate    = domain.Validation("at least one of full_name or password must be provided", nil)
	ErrNotSuperuser       = domain.Forbidden("Not authorized to access other users")
	// ErrNoSuchUser is the lookup miss. ErrUserNotFound means the caller's
	// own account is gone and renders as 401.
	ErrNoSuchUser = domain.NotFound("User not found")
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) error
	EqualizeTiming(password string)
}

type TokenManager interface {
	Issue(userID int64) (*auth.Token, error)
	Parse(token string) (int64, error)
}

// Service implements signup, login, token authentication and profile
// management.
type Service struct {
	repo   Repository
	hasher PasswordHasher
	tokens TokenManager
}

func NewService(repo Repository, hasher PasswordHasher, tokens TokenManager) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

func (s *Service) Signup(ctx context.Context, params SignupParams) (*Profile, error) {
	params.Email = NormalizeEmail(params.Email)
	if err := domain.Validate(params); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, params.Email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if err == nil && existing != nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := s.repo.Create(ctx, CreateUserParams{
		Email:          params.Email,
		HashedPassword: hash,
		FullName:       params.FullName,
	})
	if err != nil {
		return nil, err
	}

	p := u.Profile()
	return &p, nil
}

// Login returns an access token. Unknown emails, wrong passwords and
// deactivated accounts all fail with ErrInvalidCredentials, and an unknown
// email still costs one bcrypt comparison.
func (s *Service) Login(ctx context.Context, email, password string) (*auth.Token, error) {
	params := LoginParams{Email: NormalizeEmail(email), Password: password}
	if err := domain.Validate(params); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByEmail(ctx, params.Email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if err != nil || u == nil {
		s.hasher.EqualizeTiming(password)
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.Verify(u.HashedPassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}

	return s.tokens.Issue(u.ID)
}

// Authenticate resolves a bearer token to an active user. Token errors are
// returned unchanged.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, current *User, params UpdateProfileParams) (*Profile, error) {
	if params.FullName == nil && params.Password == nil {
		return nil, ErrNothingToUpdate
	}
	if err := domain.Validate(params); err != nil {
		return nil, err
	}

	update := UpdateUserParams{FullName: params.FullName}
	if params.Password != nil {
		hash, err := s.hasher.Hash(*params.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		update.HashedPassword = &hash
	}

	u, err := s.repo.Update(ctx, current.ID, update)
	if err != nil {
		return nil, err
	}

	p := u.Profile()
	return &p, nil
}

// Deactivate soft-deletes an account. Existing tokens stop authenticating
// because Authenticate rejects inactive users.
func (s *Service) Deactivate(ctx context.Context, userID int64) error {
	inactive := false
	_, err := s.repo.Update(ctx, userID, UpdateUserParams{IsActive: &inactive})
	return err
}

// Lookup returns any account, active or not, to a superuser.
func (s *Service) Lookup(ctx context.Context, current *User, id int64) (*Profile, error) {
	if current == nil || !current.IsSuperuser {
		return nil, ErrNotSuperuser
	}

	u, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrNoSuchUser
	}
	if err != nil {
		return nil, err
	}

	p := u.Profile()
	return &p, nil
}

// SetSuperuserByEmail grants or revokes superuser rights.
func (s *Service) SetSuperuserByEmail(ctx context.Context, email string, superuser bool) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, u.ID, UpdateUserParams{IsSuperuser: &superuser})
}

// SetActiveByEmail flips the active flag of the account owning email.
func (s *Service) SetActiveByEmail(ctx context.Context, email string, active bool) (*Profile, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	u, err = s.repo.Update(ctx, u.ID, UpdateUserParams{IsActive: &active})
	if err != nil {
		return nil, err
	}

	p := u.Profile()
	return &p, nil
}
