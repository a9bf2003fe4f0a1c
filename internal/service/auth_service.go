package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/docpoint/docpoint-api/internal/domain"
	"github.com/docpoint/docpoint-api/internal/domain/doctor"
	"github.com/docpoint/docpoint-api/internal/domain/user"
	"github.com/docpoint/docpoint-api/pkg/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is temporarily locked due to multiple failed login attempts")
)

const minPasswordLength = 8

type AuthService struct {
	userRepo   user.Repository
	doctorRepo doctor.Repository
	jwtManager *auth.JWTManager
	auditSvc   *AuditService
	log        *zap.Logger
}

func NewAuthService(
	userRepo user.Repository,
	doctorRepo doctor.Repository,
	jwtManager *auth.JWTManager,
	auditSvc *AuditService,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		doctorRepo: doctorRepo,
		jwtManager: jwtManager,
		auditSvc:   auditSvc,
		log:        log,
	}
}

type RegisterUserCommand struct {
	Name     string
	Email    string
	Password string
}

type RegisterDoctorCommand struct {
	Name       string
	Email      string
	Password   string
	Image      string
	Speciality string
	Degree     string
	Experience string
	About      string
	Fee        float64
	Available  bool
	Address    *domain.Address
}

func (s *AuthService) RegisterUser(ctx context.Context, cmd *RegisterUserCommand, ip string) (*domain.TokenPair, error) {
	if err := validateRegistration(cmd.Name, cmd.Email, cmd.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &user.User{
		Name:         strings.TrimSpace(cmd.Name),
		Email:        strings.ToLower(strings.TrimSpace(cmd.Email)),
		PasswordHash: string(hash),
	}
	u.NewDefaults()

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", u.ID.String()))

	return s.issueTokens(u.ID, u.Email, domain.RolePatient, ip)
}

func (s *AuthService) LoginUser(ctx context.Context, email, password, ip string) (*domain.TokenPair, error) {
	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Dummy hash comparison prevents timing-based user enumeration.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return nil, ErrInvalidCredentials
	}

	if u.IsLocked() {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		_ = s.userRepo.UpdateLoginAttempt(ctx, u.ID, false)
		s.log.Warn("failed login attempt",
			zap.String("email", email),
			zap.String("ip", ip),
		)
		return nil, ErrInvalidCredentials
	}

	_ = s.userRepo.UpdateLoginAttempt(ctx, u.ID, true)

	return s.issueTokens(u.ID, u.Email, domain.RolePatient, ip)
}

func (s *AuthService) RegisterDoctor(ctx context.Context, cmd *RegisterDoctorCommand, ip string) (*domain.TokenPair, error) {
	if err := validateRegistration(cmd.Name, cmd.Email, cmd.Password); err != nil {
		return nil, err
	}
	var errs []string
	if strings.TrimSpace(cmd.Speciality) == "" {
		errs = append(errs, "speciality is required")
	}
	if strings.TrimSpace(cmd.Degree) == "" {
		errs = append(errs, "degree is required")
	}
	if cmd.Fee <= 0 {
		errs = append(errs, "fees must be a positive number")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	d := &doctor.Doctor{
		Name:         strings.TrimSpace(cmd.Name),
		Email:        strings.ToLower(strings.TrimSpace(cmd.Email)),
		PasswordHash: string(hash),
		Image:        cmd.Image,
		Speciality:   cmd.Speciality,
		Degree:       cmd.Degree,
		Experience:   cmd.Experience,
		About:        cmd.About,
		Fee:          cmd.Fee,
		Available:    cmd.Available,
		Address:      cmd.Address,
		SlotsBooked:  doctor.SlotLedger{},
	}

	if err := s.doctorRepo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.log.Info("doctor registered", zap.String("doctor_id", d.ID.String()))

	return s.issueTokens(d.ID, d.Email, domain.RoleDoctor, ip)
}

func (s *AuthService) LoginDoctor(ctx context.Context, email, password, ip string) (*domain.TokenPair, error) {
	d, err := s.doctorRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("failed doctor login attempt",
			zap.String("email", email),
			zap.String("ip", ip),
		)
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(d.ID, d.Email, domain.RoleDoctor, ip)
}

// Refresh issues a new token pair given a valid refresh token, after
// re-validating that the principal still exists.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	switch claims.Role {
	case domain.RolePatient:
		u, err := s.userRepo.GetByID(ctx, claims.PrincipalID)
		if err != nil || u.IsLocked() {
			return nil, ErrInvalidCredentials
		}
	case domain.RoleDoctor:
		if _, err := s.doctorRepo.GetByID(ctx, claims.PrincipalID); err != nil {
			return nil, ErrInvalidCredentials
		}
	default:
		return nil, ErrInvalidCredentials
	}

	return s.jwtManager.GenerateTokenPair(claims)
}

func (s *AuthService) issueTokens(id uuid.UUID, email string, role domain.Role, ip string) (*domain.TokenPair, error) {
	claims := &domain.Claims{
		PrincipalID: id,
		Email:       email,
		Role:        role,
	}

	pair, err := s.jwtManager.GenerateTokenPair(claims)
	if err != nil {
		s.log.Error("failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("generating tokens: %w", err)
	}

	s.auditSvc.LogAsync(context.Background(), AuditEntry{
		PrincipalID:  claims.PrincipalID,
		Role:         string(role),
		Action:       "login",
		ResourceType: string(role),
		ResourceID:   claims.PrincipalID.String(),
		IPAddress:    ip,
	})

	return pair, nil
}

func validateRegistration(name, email, password string) error {
	var errs []string

	if strings.TrimSpace(name) == "" {
		errs = append(errs, "name is required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		errs = append(errs, "email is invalid")
	}
	if len(password) < minPasswordLength {
		errs = append(errs, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
