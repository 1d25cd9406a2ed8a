package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"log/slog"

	"github.com/spacecworp-pix-gateway/internal/domain/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, event *audit.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuditRepository) Recent(ctx context.Context, limit int) ([]*audit.Event, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.Event), args.Error(1)
}

func TestNewAuditRepository(t *testing.T) {
	db := &mongo.Database{}
	logger := slog.Default()

	repo := NewAuditRepository(logger, db)

	assert.NotNil(t, repo)
	assert.IsType(t, &AuditRepository{}, repo)
}

func TestAuditRepository_Append(t *testing.T) {
	event, err := audit.NewEvent("pix.charge.created", map[string]string{"charge_id": "abc"}, "api_gateway", time.Now())
	require.NoError(t, err)

	tests := []struct {
		name          string
		setupMocks    func(m *MockAuditRepository)
		expectedError error
	}{
		{
			name: "successful append",
			setupMocks: func(m *MockAuditRepository) {
				m.On("Append", mock.Anything, event).Return(nil)
			},
			expectedError: nil,
		},
		{
			name: "database error",
			setupMocks: func(m *MockAuditRepository) {
				m.On("Append", mock.Anything, event).Return(errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockAuditRepository{}
			tt.setupMocks(mockRepo)

			err := mockRepo.Append(context.Background(), event)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuditRepository_Recent(t *testing.T) {
	first, err := audit.NewEvent("pix.charge.created", nil, "api_gateway", time.Now())
	require.NoError(t, err)
	second, err := audit.NewEvent("pix.charge.confirmed", nil, "api_gateway", time.Now())
	require.NoError(t, err)

	tests := []struct {
		name          string
		limit         int
		setupMocks    func(m *MockAuditRepository)
		expectedLen   int
		expectedError error
	}{
		{
			name:  "returns newest first",
			limit: 10,
			setupMocks: func(m *MockAuditRepository) {
				m.On("Recent", mock.Anything, 10).Return([]*audit.Event{second, first}, nil)
			},
			expectedLen: 2,
		},
		{
			name:  "empty trail",
			limit: 10,
			setupMocks: func(m *MockAuditRepository) {
				m.On("Recent", mock.Anything, 10).Return([]*audit.Event{}, nil)
			},
			expectedLen: 0,
		},
		{
			name:  "database error",
			limit: 10,
			setupMocks: func(m *MockAuditRepository) {
				m.On("Recent", mock.Anything, 10).Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockAuditRepository{}
			tt.setupMocks(mockRepo)

			events, err := mockRepo.Recent(context.Background(), tt.limit)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
				assert.Len(t, events, tt.expectedLen)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
