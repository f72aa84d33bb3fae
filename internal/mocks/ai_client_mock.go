package mocks

import (
	"context"

	"lore-server/internal/aiclient"

	"github.com/stretchr/testify/mock"
)

// MockAIClient is a mock type for the aiclient.Client type
type MockAIClient struct {
	mock.Mock
}

// Complete provides a mock function with given fields: ctx, req
func (_m *MockAIClient) Complete(ctx context.Context, req aiclient.Request) (*aiclient.Response, error) {
	ret := _m.Called(ctx, req)

	var r0 *aiclient.Response
	if rf, ok := ret.Get(0).(func(context.Context, aiclient.Request) *aiclient.Response); ok {
		r0 = rf(ctx, req)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*aiclient.Response)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, aiclient.Request) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockAIClient creates a new instance of MockAIClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockAIClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAIClient {
	m := &MockAIClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
