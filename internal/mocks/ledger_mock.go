package mocks

import (
	"context"

	"lore-server/internal/quota"

	"github.com/stretchr/testify/mock"
)

// MockLedger is a mock type for the quota.Ledger type
type MockLedger struct {
	mock.Mock
}

func (_m *MockLedger) Used(ctx context.Context, day quota.Day) (int64, error) {
	ret := _m.Called(ctx, day)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockLedger) Add(ctx context.Context, day quota.Day, delta int64) error {
	ret := _m.Called(ctx, day, delta)
	return ret.Error(0)
}
