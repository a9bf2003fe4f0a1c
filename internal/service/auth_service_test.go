package service

import (
	"context"
	"testing"
	"time"

	"github.com/docpoint/docpoint-api/internal/config"
	"github.com/docpoint/docpoint-api/internal/domain"
	"github.com/docpoint/docpoint-api/internal/domain/user"
	"github.com/docpoint/docpoint-api/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(userRepo *fakeUserRepo, doctorRepo *fakeDoctorRepo) (*AuthService, *auth.JWTManager) {
	jwtManager := auth.NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-key-that-is-long-enough",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "docpoint-test",
	})
	return NewAuthService(userRepo, doctorRepo, jwtManager, newTestAuditService(), zap.NewNop()), jwtManager
}

func TestRegisterUserIssuesPatientToken(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc, jwtManager := newAuthService(userRepo, newFakeDoctorRepo())

	pair, err := svc.RegisterUser(context.Background(), &RegisterUserCommand{
		Name:     "Pat Example",
		Email:    "Pat@Example.com",
		Password: "correct-horse",
	}, "203.0.113.7")
	require.NoError(t, err)

	claims, err := jwtManager.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.RolePatient, claims.Role)

	// Email is normalized before storage.
	u, err := userRepo.GetByEmail(context.Background(), "pat@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Pat Example", u.Name)
	assert.NotEqual(t, "correct-horse", u.PasswordHash)
	assert.NotEmpty(t, u.Image)
	assert.Equal(t, "Not Selected", u.Gender)
}

func TestRegisterUserValidation(t *testing.T) {
	svc, _ := newAuthService(newFakeUserRepo(), newFakeDoctorRepo())

	_, err := svc.RegisterUser(context.Background(), &RegisterUserCommand{
		Name:     "",
		Email:    "not-an-email",
		Password: "short",
	}, "203.0.113.7")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "name is required")
	assert.Contains(t, vErr.Fields, "email is invalid")
	assert.Contains(t, vErr.Fields, "password must be at least 8 characters")
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc, _ := newAuthService(userRepo, newFakeDoctorRepo())

	cmd := &RegisterUserCommand{Name: "Pat", Email: "pat@example.com", Password: "correct-horse"}
	_, err := svc.RegisterUser(context.Background(), cmd, "203.0.113.7")
	require.NoError(t, err)

	_, err = svc.RegisterUser(context.Background(), cmd, "203.0.113.7")
	assert.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestLoginUser(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc, jwtManager := newAuthService(userRepo, newFakeDoctorRepo())

	_, err := svc.RegisterUser(context.Background(), &RegisterUserCommand{
		Name:     "Pat",
		Email:    "pat@example.com",
		Password: "correct-horse",
	}, "203.0.113.7")
	require.NoError(t, err)

	pair, err := svc.LoginUser(context.Background(), "pat@example.com", "correct-horse", "203.0.113.7")
	require.NoError(t, err)

	claims, err := jwtManager.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.RolePatient, claims.Role)

	// Successful login is recorded.
	require.NotEmpty(t, userRepo.loginAttempts)
	assert.True(t, userRepo.loginAttempts[len(userRepo.loginAttempts)-1])
}

func TestLoginUserWrongPassword(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc, _ := newAuthService(userRepo, newFakeDoctorRepo())

	_, err := svc.RegisterUser(context.Background(), &RegisterUserCommand{
		Name:     "Pat",
		Email:    "pat@example.com",
		Password: "correct-horse",
	}, "203.0.113.7")
	require.NoError(t, err)

	_, err = svc.LoginUser(context.Background(), "pat@example.com", "wrong", "203.0.113.7")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NotEmpty(t, userRepo.loginAttempts)
	assert.False(t, userRepo.loginAttempts[len(userRepo.loginAttempts)-1])
}

func TestLoginUserUnknownEmail(t *testing.T) {
	svc, _ := newAuthService(newFakeUserRepo(), newFakeDoctorRepo())

	_, err := svc.LoginUser(context.Background(), "ghost@example.com", "whatever1", "203.0.113.7")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUserLockedAccount(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc, _ := newAuthService(userRepo, newFakeDoctorRepo())

	_, err := svc.RegisterUser(context.Background(), &RegisterUserCommand{
		Name:     "Pat",
		Email:    "pat@example.com",
		Password: "correct-horse",
	}, "203.0.113.7")
	require.NoError(t, err)

	u, err := userRepo.GetByEmail(context.Background(), "pat@example.com")
	require.NoError(t, err)
	until := time.Now().Add(10 * time.Minute)
	u.LockedUntil = &until

	_, err = svc.LoginUser(context.Background(), "pat@example.com", "correct-horse", "203.0.113.7")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestRegisterDoctorValidation(t *testing.T) {
	svc, _ := newAuthService(newFakeUserRepo(), newFakeDoctorRepo())

	_, err := svc.RegisterDoctor(context.Background(), &RegisterDoctorCommand{
		Name:     "Dr. Richards",
		Email:    "richards@example.com",
		Password: "correct-horse",
		Fee:      0,
	}, "203.0.113.7")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "speciality is required")
	assert.Contains(t, vErr.Fields, "degree is required")
	assert.Contains(t, vErr.Fields, "fees must be a positive number")
}

func TestRegisterAndLoginDoctor(t *testing.T) {
	doctorRepo := newFakeDoctorRepo()
	svc, jwtManager := newAuthService(newFakeUserRepo(), doctorRepo)

	_, err := svc.RegisterDoctor(context.Background(), &RegisterDoctorCommand{
		Name:       "Dr. Richards",
		Email:      "Richards@Example.com",
		Password:   "correct-horse",
		Speciality: "Dermatology",
		Degree:     "MBBS",
		Experience: "4 Years",
		About:      "Skin specialist",
		Fee:        50,
		Available:  true,
	}, "203.0.113.7")
	require.NoError(t, err)

	d, err := doctorRepo.GetByEmail(context.Background(), "richards@example.com")
	require.NoError(t, err)
	assert.NotNil(t, d.SlotsBooked)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte("correct-horse")))

	pair, err := svc.LoginDoctor(context.Background(), "richards@example.com", "correct-horse", "203.0.113.7")
	require.NoError(t, err)

	claims, err := jwtManager.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDoctor, claims.Role)
	assert.Equal(t, d.ID, claims.PrincipalID)
}

func TestRefresh(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc, jwtManager := newAuthService(userRepo, newFakeDoctorRepo())

	pair, err := svc.RegisterUser(context.Background(), &RegisterUserCommand{
		Name:     "Pat",
		Email:    "pat@example.com",
		Password: "correct-horse",
	}, "203.0.113.7")
	require.NoError(t, err)

	next, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	claims, err := jwtManager.ValidateAccessToken(next.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.RolePatient, claims.Role)

	// An access token is not accepted as a refresh token.
	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Refresh(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshDeletedPrincipal(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc, _ := newAuthService(userRepo, newFakeDoctorRepo())

	pair, err := svc.RegisterUser(context.Background(), &RegisterUserCommand{
		Name:     "Pat",
		Email:    "pat@example.com",
		Password: "correct-horse",
	}, "203.0.113.7")
	require.NoError(t, err)

	delete(userRepo.users, "pat@example.com")

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
