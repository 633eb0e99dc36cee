// Package repository provides hand-rolled testify mocks for the persistence
// interfaces.
package repository

import (
	"context"
	"testing"

	"medtrack/internal/domain/entity"
	"medtrack/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository mocks repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository builds a mock that asserts its expectations on test
// cleanup.
func NewMockUserRepository(t *testing.T) *MockUserRepository {
	m := &MockUserRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *entity.User, passwordHash string) error {
	return m.Called(ctx, user, passwordHash).Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*entity.User, string, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*entity.User)

	return user, args.String(1), args.Error(2)
}

func (m *MockUserRepository) SetOnboardingCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	return m.Called(ctx, id, completed).Error(0)
}

func (m *MockUserRepository) SetDeviceToken(ctx context.Context, id uuid.UUID, token string) error {
	return m.Called(ctx, id, token).Error(0)
}

// MockMedicationRepository mocks repository.MedicationRepository.
type MockMedicationRepository struct {
	mock.Mock
}

func NewMockMedicationRepository(t *testing.T) *MockMedicationRepository {
	m := &MockMedicationRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockMedicationRepository) CreateMedication(ctx context.Context, med *entity.Medication) error {
	return m.Called(ctx, med).Error(0)
}

func (m *MockMedicationRepository) UpdateMedication(ctx context.Context, med *entity.Medication) error {
	return m.Called(ctx, med).Error(0)
}

func (m *MockMedicationRepository) DeleteMedication(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMedicationRepository) FindMedicationByID(ctx context.Context, id uuid.UUID) (*entity.Medication, error) {
	args := m.Called(ctx, id)
	med, _ := args.Get(0).(*entity.Medication)

	return med, args.Error(1)
}

func (m *MockMedicationRepository) FindMedicationsByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Medication, error) {
	args := m.Called(ctx, userID)
	meds, _ := args.Get(0).([]*entity.Medication)

	return meds, args.Error(1)
}

func (m *MockMedicationRepository) FindActiveMedications(ctx context.Context) ([]*entity.Medication, error) {
	args := m.Called(ctx)
	meds, _ := args.Get(0).([]*entity.Medication)

	return meds, args.Error(1)
}

// MockDoseRepository mocks repository.DoseRepository.
type MockDoseRepository struct {
	mock.Mock
}

func NewMockDoseRepository(t *testing.T) *MockDoseRepository {
	m := &MockDoseRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockDoseRepository) UpsertDoseRecord(ctx context.Context, dose *entity.DoseRecord) error {
	return m.Called(ctx, dose).Error(0)
}

func (m *MockDoseRepository) DeleteDoseRecord(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockDoseRepository) DeleteDoseRecordsByMedication(ctx context.Context, medicationID uuid.UUID) error {
	return m.Called(ctx, medicationID).Error(0)
}

func (m *MockDoseRepository) FindDoseRecord(ctx context.Context, medicationID uuid.UUID, date, scheduledTime string) (*entity.DoseRecord, error) {
	args := m.Called(ctx, medicationID, date, scheduledTime)
	dose, _ := args.Get(0).(*entity.DoseRecord)

	return dose, args.Error(1)
}

func (m *MockDoseRepository) FindDoseRecordsByUser(ctx context.Context, userID uuid.UUID, fromDate, toDate string) ([]*entity.DoseRecord, error) {
	args := m.Called(ctx, userID, fromDate, toDate)
	doses, _ := args.Get(0).([]*entity.DoseRecord)

	return doses, args.Error(1)
}

func (m *MockDoseRepository) FindDoseRecordsByMedicationAndDate(ctx context.Context, medicationID uuid.UUID, date string) ([]*entity.DoseRecord, error) {
	args := m.Called(ctx, medicationID, date)
	doses, _ := args.Get(0).([]*entity.DoseRecord)

	return doses, args.Error(1)
}

// MockCaregiverRepository mocks repository.CaregiverRepository.
type MockCaregiverRepository struct {
	mock.Mock
}

func NewMockCaregiverRepository(t *testing.T) *MockCaregiverRepository {
	m := &MockCaregiverRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCaregiverRepository) CreateCaregiver(ctx context.Context, caregiver *entity.Caregiver) error {
	return m.Called(ctx, caregiver).Error(0)
}

func (m *MockCaregiverRepository) UpdateCaregiver(ctx context.Context, caregiver *entity.Caregiver) error {
	return m.Called(ctx, caregiver).Error(0)
}

func (m *MockCaregiverRepository) DeleteCaregiver(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCaregiverRepository) FindCaregiverByID(ctx context.Context, id uuid.UUID) (*entity.Caregiver, error) {
	args := m.Called(ctx, id)
	caregiver, _ := args.Get(0).(*entity.Caregiver)

	return caregiver, args.Error(1)
}

func (m *MockCaregiverRepository) FindCaregiversByPatient(ctx context.Context, patientID uuid.UUID) ([]*entity.Caregiver, error) {
	args := m.Called(ctx, patientID)
	caregivers, _ := args.Get(0).([]*entity.Caregiver)

	return caregivers, args.Error(1)
}

func (m *MockCaregiverRepository) FindActiveRelationship(ctx context.Context, caregiverUserID, patientID uuid.UUID) (*entity.Caregiver, error) {
	args := m.Called(ctx, caregiverUserID, patientID)
	caregiver, _ := args.Get(0).(*entity.Caregiver)

	return caregiver, args.Error(1)
}

// MockNotificationRepository mocks repository.NotificationRepository.
type MockNotificationRepository struct {
	mock.Mock
}

func NewMockNotificationRepository(t *testing.T) *MockNotificationRepository {
	m := &MockNotificationRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockNotificationRepository) CreateNotification(ctx context.Context, notification *entity.Notification) error {
	return m.Called(ctx, notification).Error(0)
}

func (m *MockNotificationRepository) FindNotificationsByUser(ctx context.Context, userID uuid.UUID, limit int, unreadOnly bool) ([]*entity.Notification, error) {
	args := m.Called(ctx, userID, limit, unreadOnly)
	notifications, _ := args.Get(0).([]*entity.Notification)

	return notifications, args.Error(1)
}

func (m *MockNotificationRepository) HasUnreadOfType(ctx context.Context, userID uuid.UUID, typ entity.NotificationType, refID string) (bool, error) {
	args := m.Called(ctx, userID, typ, refID)

	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)

	return args.Get(0).(int64), args.Error(1)
}

// MockVoiceNoteRepository mocks repository.VoiceNoteRepository.
type MockVoiceNoteRepository struct {
	mock.Mock
}

func NewMockVoiceNoteRepository(t *testing.T) *MockVoiceNoteRepository {
	m := &MockVoiceNoteRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockVoiceNoteRepository) CreateVoiceNote(ctx context.Context, note *entity.VoiceNote) error {
	return m.Called(ctx, note).Error(0)
}

func (m *MockVoiceNoteRepository) UpsertVoiceNote(ctx context.Context, note *entity.VoiceNote) error {
	return m.Called(ctx, note).Error(0)
}

func (m *MockVoiceNoteRepository) DeleteVoiceNote(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockVoiceNoteRepository) FindVoiceNotesByUser(ctx context.Context, userID uuid.UUID, filter repository.VoiceNoteFilter) ([]*entity.VoiceNote, error) {
	args := m.Called(ctx, userID, filter)
	notes, _ := args.Get(0).([]*entity.VoiceNote)

	return notes, args.Error(1)
}

// MockTransactionManager mocks repository.TransactionManager. Execute runs
// the callback against the configured factory so tests exercise the real
// transactional flow.
type MockTransactionManager struct {
	mock.Mock

	Factory repository.RepositoryFactory
}

func NewMockTransactionManager(t *testing.T) *MockTransactionManager {
	m := &MockTransactionManager{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTransactionManager) Execute(ctx context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}

	return fn(m.Factory)
}

// StubRepositoryFactory hands out the repositories it was built with,
// standing in for transaction-bound instances.
type StubRepositoryFactory struct {
	MedicationRepo repository.MedicationRepository
	DoseRepo       repository.DoseRepository
	VoiceNoteRepo  repository.VoiceNoteRepository
}

func (f *StubRepositoryFactory) NewMedicationRepository() repository.MedicationRepository {
	return f.MedicationRepo
}

func (f *StubRepositoryFactory) NewDoseRepository() repository.DoseRepository {
	return f.DoseRepo
}

func (f *StubRepositoryFactory) NewVoiceNoteRepository() repository.VoiceNoteRepository {
	return f.VoiceNoteRepo
}
