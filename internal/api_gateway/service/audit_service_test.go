package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spacecworp-pix-gateway/internal/domain/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuditService_RecordEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		auditRepo := new(MockAuditRepository)
		svc := NewAuditService(testLogger(), auditRepo)

		auditRepo.On("Append", ctx, mock.AnythingOfType("*audit.Event")).Return(nil)

		occurredAt := time.Now().Add(-time.Minute)
		event, err := svc.RecordEvent(ctx, "user.login", map[string]string{"ip": "10.0.0.1"}, "client_app", occurredAt)
		require.NoError(t, err)
		assert.Equal(t, "user.login", event.Name)
		assert.Equal(t, "client_app", event.Actor)
		assert.Equal(t, occurredAt, event.OccurredAt)
		assert.False(t, event.RecordedAt.IsZero())

		auditRepo.AssertExpectations(t)
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		auditRepo := new(MockAuditRepository)
		svc := NewAuditService(testLogger(), auditRepo)

		_, err := svc.RecordEvent(ctx, "", nil, "client_app", time.Now())
		assert.ErrorIs(t, err, audit.ErrMissingName)
		auditRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		auditRepo := new(MockAuditRepository)
		svc := NewAuditService(testLogger(), auditRepo)

		repoErr := errors.New("db down")
		auditRepo.On("Append", ctx, mock.Anything).Return(repoErr)

		_, err := svc.RecordEvent(ctx, "user.login", nil, "client_app", time.Now())
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestAuditService_RecentEvents(t *testing.T) {
	ctx := context.Background()
	auditRepo := new(MockAuditRepository)
	svc := NewAuditService(testLogger(), auditRepo)

	first, err := audit.NewEvent("first", nil, "client_app", time.Now())
	require.NoError(t, err)
	second, err := audit.NewEvent("second", nil, "client_app", time.Now())
	require.NoError(t, err)

	auditRepo.On("Recent", ctx, 2).Return([]*audit.Event{second, first}, nil)

	events, err := svc.RecentEvents(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "second", events[0].Name)

	auditRepo.AssertExpectations(t)
}
