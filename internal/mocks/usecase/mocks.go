// Package usecase provides hand-rolled testify mocks for the usecase
// interfaces consumed by other usecases.
package usecase

import (
	"context"
	"testing"

	"medtrack/internal/domain/entity"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSMSUsecase mocks usecase.SMSUsecase.
type MockSMSUsecase struct {
	mock.Mock
}

func NewMockSMSUsecase(t *testing.T) *MockSMSUsecase {
	m := &MockSMSUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockSMSUsecase) SendSMS(ctx context.Context, userID uuid.UUID, input *usecase.SendSMSInput) (*usecase.SendSMSOutput, error) {
	args := m.Called(ctx, userID, input)
	out, _ := args.Get(0).(*usecase.SendSMSOutput)

	return out, args.Error(1)
}

// MockBillingUsecase mocks usecase.BillingUsecase.
type MockBillingUsecase struct {
	mock.Mock
}

func NewMockBillingUsecase(t *testing.T) *MockBillingUsecase {
	m := &MockBillingUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockBillingUsecase) GetPlan(ctx context.Context, userID uuid.UUID) (*usecase.PlanStatus, error) {
	args := m.Called(ctx, userID)
	status, _ := args.Get(0).(*usecase.PlanStatus)

	return status, args.Error(1)
}

func (m *MockBillingUsecase) SetPlan(ctx context.Context, userID uuid.UUID, tier entity.PlanTier) (*usecase.PlanStatus, error) {
	args := m.Called(ctx, userID, tier)
	status, _ := args.Get(0).(*usecase.PlanStatus)

	return status, args.Error(1)
}

func (m *MockBillingUsecase) ConsumeSMSCredit(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}
