package mocks

import (
	"context"

	"lore-server/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockUsagePublisher is a mock type for the analysis.UsagePublisher type
type MockUsagePublisher struct {
	mock.Mock
}

func (_m *MockUsagePublisher) PublishAnalysisUsage(ctx context.Context, event models.AnalysisUsageEvent) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}
