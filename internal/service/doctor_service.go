package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/docpoint/docpoint-api/internal/domain"
	"github.com/docpoint/docpoint-api/internal/domain/doctor"
	"github.com/docpoint/docpoint-api/pkg/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const doctorListCacheKey = "doctors:list"

type DoctorService struct {
	repo     doctor.Repository
	cache    *cache.Client
	auditSvc *AuditService
	log      *zap.Logger
}

func NewDoctorService(repo doctor.Repository, cacheClient *cache.Client, auditSvc *AuditService, log *zap.Logger) *DoctorService {
	return &DoctorService{repo: repo, cache: cacheClient, auditSvc: auditSvc, log: log}
}

// List serves the public doctor directory. Credentials and contact fields
// are stripped. Redis fronts the query when available; the TTL plus the
// invalidation on profile changes keeps staleness bounded.
func (s *DoctorService) List(ctx context.Context) ([]*doctor.Doctor, error) {
	if b, ok := s.cache.Get(ctx, doctorListCacheKey); ok {
		var docs []*doctor.Doctor
		if err := json.Unmarshal(b, &docs); err == nil {
			return docs, nil
		}
		// Corrupt cache entry: drop it and fall through.
		s.cache.Invalidate(ctx, doctorListCacheKey)
	}

	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	public := make([]*doctor.Doctor, 0, len(docs))
	for _, d := range docs {
		public = append(public, d.Public())
	}

	if b, err := json.Marshal(public); err == nil {
		s.cache.Set(ctx, doctorListCacheKey, b)
	}

	return public, nil
}

func (s *DoctorService) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.Public(), nil
}

func (s *DoctorService) GetProfile(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DoctorService) UpdateProfile(ctx context.Context, id uuid.UUID, cmd *doctor.UpdateDoctorCommand, ip string) (*doctor.Doctor, error) {
	if cmd.Fee != nil && *cmd.Fee <= 0 {
		return nil, &ValidationError{Fields: []string{"fees must be a positive number"}}
	}

	d, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, doctorListCacheKey)

	s.auditSvc.LogAsync(ctx, AuditEntry{
		PrincipalID:  id,
		Role:         string(domain.RoleDoctor),
		Action:       "update",
		ResourceType: "doctor",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return d, nil
}

// ToggleAvailability flips the booking flag and reports the new value.
func (s *DoctorService) ToggleAvailability(ctx context.Context, id uuid.UUID, ip string) (bool, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	next := !d.Available
	if err := s.repo.SetAvailability(ctx, id, next); err != nil {
		return false, err
	}

	s.cache.Invalidate(ctx, doctorListCacheKey)

	s.auditSvc.LogAsync(ctx, AuditEntry{
		PrincipalID:  id,
		Role:         string(domain.RoleDoctor),
		Action:       "update",
		ResourceType: "doctor",
		ResourceID:   id.String(),
		IPAddress:    ip,
		Changes:      fmt.Sprintf(`{"available":%t}`, next),
	})

	s.log.Info("doctor availability changed",
		zap.String("doctor_id", id.String()),
		zap.Bool("available", next),
	)

	return next, nil
}
