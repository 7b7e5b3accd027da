package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/usecase-portal/internal/config"
	"github.com/spec-kit/usecase-portal/internal/domain"
	apperrors "github.com/spec-kit/usecase-portal/pkg/util/errorutil"
)

// fakeUserRepo keeps accounts in memory keyed by email.
type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.Email] = &copied
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) SetResetToken(_ context.Context, email string, token *string) error {
	user, ok := r.users[email]
	if !ok {
		return pgx.ErrNoRows
	}
	user.ResetToken = token
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, email string, passwordHash string) error {
	user, ok := r.users[email]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	user.ResetToken = nil
	return nil
}

func newAuthService(repo *fakeUserRepo) *AuthService {
	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 30
	cfg.Auth.BcryptCost = bcrypt.MinCost
	return NewAuthService(cfg, AuthDependencies{
		UserRepo: repo,
		Logger:   zap.NewNop(),
	})
}

func TestAuth_SignupThenLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	user, err := svc.Signup(context.Background(), "ana@example.com", "hunter22", domain.RoleViewer, domain.LicenseTeams)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleViewer, user.Role)
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	token, exp, err := svc.Login(context.Background(), "ana@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())

	claims, err := svc.TokenManager().Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Subject)
	assert.Equal(t, domain.RoleViewer, claims.Role)
	assert.Equal(t, domain.LicenseTeams, claims.License)
}

func TestAuth_SignupDuplicateEmailRejected(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	_, err := svc.Signup(context.Background(), "ana@example.com", "hunter22", domain.RoleViewer, domain.LicenseTeams)
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), "ana@example.com", "other", domain.RoleAdmin, domain.LicenseBasic)
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 400, domainErr.HTTPStatus)
}

func TestAuth_LoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	_, err := svc.Signup(context.Background(), "ana@example.com", "hunter22", domain.RoleViewer, domain.LicenseTeams)
	require.NoError(t, err)

	for _, tc := range []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "ana@example.com", "nope"},
		{"unknown user", "bob@example.com", "hunter22"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tc.email, tc.password)
			require.Error(t, err)

			var domainErr *apperrors.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, 401, domainErr.HTTPStatus)
		})
	}
}

func TestAuth_PasswordResetFlow(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	_, err := svc.Signup(context.Background(), "ana@example.com", "hunter22", domain.RoleViewer, domain.LicenseTeams)
	require.NoError(t, err)

	token, err := svc.ForgotPassword(context.Background(), "ana@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(context.Background(), "ana@example.com", token, "newpass99"))

	// Old password no longer works, new one does, and the token is spent.
	_, _, err = svc.Login(context.Background(), "ana@example.com", "hunter22")
	require.Error(t, err)
	_, _, err = svc.Login(context.Background(), "ana@example.com", "newpass99")
	require.NoError(t, err)
	require.Error(t, svc.ResetPassword(context.Background(), "ana@example.com", token, "again"))
}

func TestAuth_ForgotPasswordUnknownUser(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	_, err := svc.ForgotPassword(context.Background(), "ghost@example.com")
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 404, domainErr.HTTPStatus)
}

func TestAuth_ResetPasswordWrongToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	_, err := svc.Signup(context.Background(), "ana@example.com", "hunter22", domain.RoleViewer, domain.LicenseTeams)
	require.NoError(t, err)
	_, err = svc.ForgotPassword(context.Background(), "ana@example.com")
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), "ana@example.com", "not-the-token", "newpass")
	require.Error(t, err)
}
