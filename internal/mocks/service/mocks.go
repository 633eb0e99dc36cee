// Package service provides hand-rolled testify mocks for the domain service
// interfaces.
package service

import (
	"context"
	"testing"

	"medtrack/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPasswordHasher mocks service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

func NewMockPasswordHasher(t *testing.T) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

// MockTokenService mocks service.TokenService.
type MockTokenService struct {
	mock.Mock
}

func NewMockTokenService(t *testing.T) *MockTokenService {
	m := &MockTokenService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenService) GenerateTokens(userID uuid.UUID) (string, string, error) {
	args := m.Called(userID)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenService) ValidateAccessToken(tokenString string) (*jwt.Token, error) {
	args := m.Called(tokenString)
	token, _ := args.Get(0).(*jwt.Token)

	return token, args.Error(1)
}

func (m *MockTokenService) ValidateRefreshToken(tokenString string) (*jwt.Token, error) {
	args := m.Called(tokenString)
	token, _ := args.Get(0).(*jwt.Token)

	return token, args.Error(1)
}

// MockSMSService mocks service.SMSService.
type MockSMSService struct {
	mock.Mock
}

func NewMockSMSService(t *testing.T) *MockSMSService {
	m := &MockSMSService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockSMSService) Send(ctx context.Context, to, body string, priority service.SMSPriority) (string, error) {
	args := m.Called(ctx, to, body, priority)

	return args.String(0), args.Error(1)
}

// MockLabelScanner mocks service.LabelScanner.
type MockLabelScanner struct {
	mock.Mock
}

func NewMockLabelScanner(t *testing.T) *MockLabelScanner {
	m := &MockLabelScanner{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockLabelScanner) ScanLabel(ctx context.Context, imageJPEG []byte) (*service.MedicationDraft, error) {
	args := m.Called(ctx, imageJPEG)
	draft, _ := args.Get(0).(*service.MedicationDraft)

	return draft, args.Error(1)
}

// MockEventPublisher mocks service.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func NewMockEventPublisher(t *testing.T) *MockEventPublisher {
	m := &MockEventPublisher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockEventPublisher) PublishAdherenceEvent(ctx context.Context, event *service.AdherenceEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

// NopEventPublisher swallows every event. For tests that do not assert on
// publishing.
type NopEventPublisher struct{}

func (NopEventPublisher) PublishAdherenceEvent(context.Context, *service.AdherenceEvent) error {
	return nil
}

func (NopEventPublisher) Close() error { return nil }

// MockPushService mocks service.PushService.
type MockPushService struct {
	mock.Mock
}

func NewMockPushService(t *testing.T) *MockPushService {
	m := &MockPushService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPushService) SendPush(ctx context.Context, token, title, body string, data map[string]string) error {
	return m.Called(ctx, token, title, body, data).Error(0)
}
