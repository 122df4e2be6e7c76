package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/techhub/server/internal/app/models"
	"github.com/techhub/server/internal/app/repositories"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 42
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error {
	return m.Called(ctx, userID, hashedPassword).Error(0)
}

func (m *mockUserRepo) SetActive(ctx context.Context, userID int64, active bool) error {
	return m.Called(ctx, userID, active).Error(0)
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

type mockEventRepo struct {
	mock.Mock
	// snapshot is handed to the decider passed to Register and PromoteNext.
	snapshot models.RegistrationSnapshot
}

func (m *mockEventRepo) Create(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	if args.Error(0) == nil {
		event.ID = 7
	}
	return args.Error(0)
}

func (m *mockEventRepo) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	args := m.Called(ctx, id)
	event, _ := args.Get(0).(*models.Event)
	return event, args.Error(1)
}

func (m *mockEventRepo) List(ctx context.Context, filter models.EventFilter) ([]*models.Event, int64, error) {
	args := m.Called(ctx, filter)
	events, _ := args.Get(0).([]*models.Event)
	return events, args.Get(1).(int64), args.Error(2)
}

func (m *mockEventRepo) Update(ctx context.Context, event *models.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockEventRepo) UpdateStatus(ctx context.Context, id int64, from, to models.EventStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}

func (m *mockEventRepo) Register(ctx context.Context, eventID, userID int64, decide repositories.RegistrationDecider) (models.RegistrationOutcome, int, error) {
	m.Called(ctx, eventID, userID)
	outcome, err := decide(m.snapshot)
	if err != nil {
		return "", 0, err
	}
	if outcome == models.OutcomeRegistered {
		m.snapshot.AttendeeCount++
	}
	return outcome, m.snapshot.AvailableSpots(), nil
}

func (m *mockEventRepo) Withdraw(ctx context.Context, eventID, userID int64) error {
	return m.Called(ctx, eventID, userID).Error(0)
}

func (m *mockEventRepo) PromoteNext(ctx context.Context, eventID int64, check repositories.PromotionCheck) (*models.Attendee, error) {
	args := m.Called(ctx, eventID)
	if err := check(m.snapshot); err != nil {
		return nil, err
	}
	attendee, _ := args.Get(0).(*models.Attendee)
	return attendee, args.Error(1)
}

func (m *mockEventRepo) MarkAttendance(ctx context.Context, eventID, userID int64, attended bool) error {
	return m.Called(ctx, eventID, userID, attended).Error(0)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendWelcomeEmail(toEmail, toName string) error {
	return m.Called(toEmail, toName).Error(0)
}

func (m *mockMailer) SendRegistrationNotice(toEmail, toName, eventTitle string, waitlisted bool) error {
	return m.Called(toEmail, toName, eventTitle, waitlisted).Error(0)
}

func syncDispatch(f func()) { f() }
