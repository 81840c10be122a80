package user

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"driverfinance/internal/domain"
	"driverfinance/internal/shared/auth"
)

// memRepo is an in-memory Repository that mirrors the unique email index.
type memRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*User

	failWith error
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[int64]*User)}
}

func (m *memRepo) Create(ctx context.Context, params CreateUserParams) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, u := range m.users {
		if u.Email == params.Email {
			return nil, ErrDuplicateEmail
		}
	}
	m.nextID++
	now := time.Now().UTC()
	u := &User{
		ID:             m.nextID,
		Email:          params.Email,
		HashedPassword: params.HashedPassword,
		FullName:       params.FullName,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *memRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memRepo) Update(ctx context.Context, userID int64, params UpdateUserParams) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	u, ok := m.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	if params.FullName != nil {
		u.FullName = params.FullName
	}
	if params.HashedPassword != nil {
		u.HashedPassword = *params.HashedPassword
	}
	if params.IsActive != nil {
		u.IsActive = *params.IsActive
	}
	if params.IsSuperuser != nil {
		u.IsSuperuser = *params.IsSuperuser
	}
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

func strPtr(s string) *string { return &s }

type ServiceSuite struct {
	suite.Suite
	repo   *memRepo
	tokens *auth.TokenService
	svc    *Service
	ctx    context.Context
}

func (s *ServiceSuite) SetupTest() {
	s.repo = newMemRepo()
	tokens, err := auth.NewTokenService("0123456789abcdef0123456789abcdef", time.Hour)
	s.Require().NoError(err)
	s.tokens = tokens
	s.svc = NewService(s.repo, auth.BcryptHasher{Cost: bcrypt.MinCost}, tokens)
	s.ctx = context.Background()
}

func (s *ServiceSuite) signup(email, password string) *Profile {
	p, err := s.svc.Signup(s.ctx, SignupParams{Email: email, Password: password, FullName: strPtr("Ana Driver")})
	s.Require().NoError(err)
	return p
}

func (s *ServiceSuite) TestSignup_NormalizesEmail() {
	p := s.signup("  Ana@Example.COM ", "password123")

	s.Equal("ana@example.com", p.Email)
	s.True(p.IsActive)
	s.Equal("Ana Driver", *p.FullName)

	stored, err := s.repo.GetByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.NotEqual("password123", stored.HashedPassword)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(stored.HashedPassword), []byte("password123")))
}

func (s *ServiceSuite) TestSignup_DuplicateEmailIsCaseInsensitive() {
	s.signup("ana@example.com", "password123")

	_, err := s.svc.Signup(s.ctx, SignupParams{Email: "ANA@example.com", Password: "otherpass99"})
	s.ErrorIs(err, ErrDuplicateEmail)
}

func (s *ServiceSuite) TestSignup_Validation() {
	tests := []struct {
		name  string
		in    SignupParams
		field string
	}{
		{"short password", SignupParams{Email: "a@b.com", Password: "short"}, "password"},
		{"bad email", SignupParams{Email: "not-an-email", Password: "password123"}, "email"},
		{"missing email", SignupParams{Password: "password123"}, "email"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.svc.Signup(s.ctx, tt.in)
			var de *domain.Error
			s.Require().ErrorAs(err, &de)
			s.Equal(domain.KindValidation, de.Kind)
			s.Contains(de.Fields, tt.field)
		})
	}
}

func (s *ServiceSuite) TestSignup_PasswordLimitCountsBytes() {
	// 40 runes, 80 bytes
	tooLong := strings.Repeat("ã", 40)
	_, err := s.svc.Signup(s.ctx, SignupParams{Email: "a@b.com", Password: tooLong})

	var de *domain.Error
	s.Require().ErrorAs(err, &de)
	s.Equal(domain.KindValidation, de.Kind)
	s.Equal("must be at most 72 bytes", de.Fields["password"])

	exact := strings.Repeat("ã", 36)
	s.signup("b@b.com", exact)
	_, err = s.svc.Login(s.ctx, "b@b.com", exact)
	s.NoError(err)
}

func (s *ServiceSuite) TestSignup_StorageFailure() {
	s.repo.failWith = domain.Storage("get user by email", errors.New("connection refused"))

	_, err := s.svc.Signup(s.ctx, SignupParams{Email: "a@b.com", Password: "password123"})
	s.Equal(domain.KindStorageUnavailable, domain.KindOf(err))
}

func (s *ServiceSuite) TestLogin_Success() {
	p := s.signup("ana@example.com", "password123")

	tok, err := s.svc.Login(s.ctx, "ANA@example.com", "password123")
	s.Require().NoError(err)
	s.Equal("bearer", tok.TokenType)

	userID, err := s.tokens.Parse(tok.AccessToken)
	s.Require().NoError(err)
	s.Equal(p.ID, userID)
}

func (s *ServiceSuite) TestLogin_FailuresAreIndistinguishable() {
	p := s.signup("ana@example.com", "password123")
	s.signup("inactive@example.com", "password123")
	inactive, err := s.repo.GetByEmail(s.ctx, "inactive@example.com")
	s.Require().NoError(err)
	s.Require().NoError(s.svc.Deactivate(s.ctx, inactive.ID))

	_, unknownErr := s.svc.Login(s.ctx, "nobody@example.com", "password123")
	_, wrongErr := s.svc.Login(s.ctx, "ana@example.com", "wrong-password")
	_, inactiveErr := s.svc.Login(s.ctx, "inactive@example.com", "password123")

	s.ErrorIs(unknownErr, ErrInvalidCredentials)
	s.ErrorIs(wrongErr, ErrInvalidCredentials)
	s.ErrorIs(inactiveErr, ErrInvalidCredentials)
	s.Equal(unknownErr.Error(), wrongErr.Error())
	s.Equal(wrongErr.Error(), inactiveErr.Error())
	s.NotZero(p.ID)
}

func (s *ServiceSuite) TestLogin_MissingFields() {
	_, err := s.svc.Login(s.ctx, "", "")
	s.Equal(domain.KindValidation, domain.KindOf(err))
}

func (s *ServiceSuite) TestAuthenticate() {
	p := s.signup("ana@example.com", "password123")
	tok, err := s.tokens.Issue(p.ID)
	s.Require().NoError(err)

	u, err := s.svc.Authenticate(s.ctx, tok.AccessToken)
	s.Require().NoError(err)
	s.Equal(p.ID, u.ID)

	_, err = s.svc.Authenticate(s.ctx, "garbage")
	s.ErrorIs(err, auth.ErrTokenInvalid)

	ghost, err := s.tokens.Issue(9999)
	s.Require().NoError(err)
	_, err = s.svc.Authenticate(s.ctx, ghost.AccessToken)
	s.ErrorIs(err, ErrUserNotFound)

	s.Require().NoError(s.svc.Deactivate(s.ctx, p.ID))
	_, err = s.svc.Authenticate(s.ctx, tok.AccessToken)
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *ServiceSuite) TestAuthenticate_ExpiredToken() {
	p := s.signup("ana@example.com", "password123")
	past := time.Now().Add(-2 * time.Hour)
	old, err := auth.NewTokenService("0123456789abcdef0123456789abcdef", time.Hour,
		auth.WithClock(func() time.Time { return past }))
	s.Require().NoError(err)
	tok, err := old.Issue(p.ID)
	s.Require().NoError(err)

	_, err = s.svc.Authenticate(s.ctx, tok.AccessToken)
	s.ErrorIs(err, auth.ErrTokenExpired)
}

func (s *ServiceSuite) TestUpdateProfile_PasswordOnlyKeepsName() {
	p := s.signup("ana@example.com", "password123")
	u, err := s.repo.GetByID(s.ctx, p.ID)
	s.Require().NoError(err)

	updated, err := s.svc.UpdateProfile(s.ctx, u, UpdateProfileParams{Password: strPtr("new-password-1")})
	s.Require().NoError(err)
	s.Equal("Ana Driver", *updated.FullName)

	_, err = s.svc.Login(s.ctx, "ana@example.com", "new-password-1")
	s.NoError(err)
	_, err = s.svc.Login(s.ctx, "ana@example.com", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestUpdateProfile_NameOnlyKeepsPassword() {
	p := s.signup("ana@example.com", "password123")
	u, err := s.repo.GetByID(s.ctx, p.ID)
	s.Require().NoError(err)

	updated, err := s.svc.UpdateProfile(s.ctx, u, UpdateProfileParams{FullName: strPtr("Ana Souza")})
	s.Require().NoError(err)
	s.Equal("Ana Souza", *updated.FullName)

	_, err = s.svc.Login(s.ctx, "ana@example.com", "password123")
	s.NoError(err)
}

func (s *ServiceSuite) TestUpdateProfile_Rejects() {
	p := s.signup("ana@example.com", "password123")
	u, err := s.repo.GetByID(s.ctx, p.ID)
	s.Require().NoError(err)

	_, err = s.svc.UpdateProfile(s.ctx, u, UpdateProfileParams{})
	s.ErrorIs(err, ErrNothingToUpdate)

	_, err = s.svc.UpdateProfile(s.ctx, u, UpdateProfileParams{Password: strPtr("short")})
	s.Equal(domain.KindValidation, domain.KindOf(err))

	_, err = s.svc.UpdateProfile(s.ctx, u, UpdateProfileParams{Password: strPtr(strings.Repeat("€", 30))})
	var de *domain.Error
	s.Require().ErrorAs(err, &de)
	s.Equal(domain.KindValidation, de.Kind)
	s.Contains(de.Fields, "password")
}

func (s *ServiceSuite) TestSetActiveByEmail() {
	s.signup("ana@example.com", "password123")

	p, err := s.svc.SetActiveByEmail(s.ctx, "Ana@Example.com", false)
	s.Require().NoError(err)
	s.False(p.IsActive)

	p, err = s.svc.SetActiveByEmail(s.ctx, "ana@example.com", true)
	s.Require().NoError(err)
	s.True(p.IsActive)

	_, err = s.svc.SetActiveByEmail(s.ctx, "ghost@example.com", true)
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *ServiceSuite) TestLookup() {
	ana := s.signup("ana@example.com", "password123")
	bob := s.signup("bob@example.com", "password123")
	s.Require().NoError(s.svc.Deactivate(s.ctx, bob.ID))

	caller, err := s.repo.GetByID(s.ctx, ana.ID)
	s.Require().NoError(err)

	_, err = s.svc.Lookup(s.ctx, caller, bob.ID)
	s.ErrorIs(err, ErrNotSuperuser)
	s.Equal(domain.KindForbidden, domain.KindOf(err))

	admin, err := s.svc.SetSuperuserByEmail(s.ctx, "ANA@example.com", true)
	s.Require().NoError(err)
	s.True(admin.IsSuperuser)

	p, err := s.svc.Lookup(s.ctx, admin, bob.ID)
	s.Require().NoError(err)
	s.Equal("bob@example.com", p.Email)
	s.False(p.IsActive)

	_, err = s.svc.Lookup(s.ctx, admin, 9999)
	s.ErrorIs(err, ErrNoSuchUser)
	s.Equal(domain.KindNotFound, domain.KindOf(err))

	revoked, err := s.svc.SetSuperuserByEmail(s.ctx, "ana@example.com", false)
	s.Require().NoError(err)
	_, err = s.svc.Lookup(s.ctx, revoked, bob.ID)
	s.ErrorIs(err, ErrNotSuperuser)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func TestProfile_NeverIncludesHash(t *testing.T) {
	u := &User{ID: 1, Email: "ana@example.com", HashedPassword: "$2a$10$secret", IsActive: true}

	for _, v := range []any{u, u.Profile()} {
		out, err := json.Marshal(v)
		require.NoError(t, err)
		assert.NotContains(t, string(out), "secret")
		assert.NotContains(t, string(out), "password")
	}
}
