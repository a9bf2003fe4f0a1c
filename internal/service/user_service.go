package service

import (
	"context"
	"strings"

	"github.com/docpoint/docpoint-api/internal/domain"
	"github.com/docpoint/docpoint-api/internal/domain/user"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService struct {
	repo     user.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewUserService(repo user.Repository, auditSvc *AuditService, log *zap.Logger) *UserService {
	return &UserService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *UserService) GetProfile(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, cmd *user.UpdateUserCommand, ip string) (*user.User, error) {
	if cmd.Name != nil && strings.TrimSpace(*cmd.Name) == "" {
		return nil, &ValidationError{Fields: []string{"name cannot be empty"}}
	}

	u, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		PrincipalID:  id,
		Role:         string(domain.RolePatient),
		Action:       "update",
		ResourceType: "user",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return u, nil
}
