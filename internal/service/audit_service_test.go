package service

import (
	"context"
	"testing"
	"time"

	"github.com/docpoint/docpoint-api/internal/domain"
	"github.com/docpoint/docpoint-api/internal/domain/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuditServicePersistsEntries(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(repo, testCollector, zap.NewNop())

	id := uuid.New()
	svc.LogAsync(context.Background(), AuditEntry{
		PrincipalID:  id,
		Role:         string(domain.RolePatient),
		Action:       "create",
		ResourceType: "appointment",
		ResourceID:   uuid.NewString(),
		IPAddress:    "203.0.113.7",
	})

	svc.Shutdown()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	require.Len(t, repo.entries, 1)
	assert.Equal(t, id, repo.entries[0].PrincipalID)
	assert.Equal(t, domain.AuditAction("create"), repo.entries[0].Action)
	assert.Equal(t, "appointment", repo.entries[0].ResourceType)
}

func TestAuditServiceShutdownDrains(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(repo, testCollector, zap.NewNop())

	for i := 0; i < 50; i++ {
		svc.LogAsync(context.Background(), AuditEntry{
			PrincipalID:  uuid.New(),
			Role:         string(domain.RoleDoctor),
			Action:       "cancel",
			ResourceType: "appointment",
			ResourceID:   uuid.NewString(),
		})
	}

	done := make(chan struct{})
	go func() {
		svc.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not drain the buffer in time")
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Len(t, repo.entries, 50)
}

func TestUserServiceUpdateProfile(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewUserService(userRepo, newTestAuditService(), zap.NewNop())

	u := &user.User{Name: "Pat", Email: "pat@example.com", PasswordHash: "x"}
	require.NoError(t, userRepo.Create(context.Background(), u))

	name := "New Name"
	phone := "555-0101"
	got, err := svc.UpdateProfile(context.Background(), u.ID, &user.UpdateUserCommand{
		Name:  &name,
		Phone: &phone,
	}, "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
	assert.Equal(t, "555-0101", got.Phone)

	empty := "   "
	_, err = svc.UpdateProfile(context.Background(), u.ID, &user.UpdateUserCommand{Name: &empty}, "203.0.113.7")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}
