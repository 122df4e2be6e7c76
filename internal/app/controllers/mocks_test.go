package controllers

import (
	"context"

	"github.com/stretchr/testify/mock"
	authz "github.com/techhub/server/internal/app/auth"
	"github.com/techhub/server/internal/app/models"
	"github.com/techhub/server/internal/app/models/dto"
	"github.com/techhub/server/internal/app/services"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*dto.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*dto.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuthService) GetMe(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error) {
	args := m.Called(ctx, userID, req)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockAuthService) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

func (m *mockAuthService) Deactivate(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

type mockEventService struct {
	mock.Mock
}

func (m *mockEventService) Create(ctx context.Context, actor authz.Actor, req *dto.CreateEventRequest) (*models.Event, error) {
	args := m.Called(ctx, actor, req)
	e, _ := args.Get(0).(*models.Event)
	return e, args.Error(1)
}

func (m *mockEventService) Get(ctx context.Context, actor *authz.Actor, id int64) (*models.Event, error) {
	args := m.Called(ctx, actor, id)
	e, _ := args.Get(0).(*models.Event)
	return e, args.Error(1)
}

func (m *mockEventService) List(ctx context.Context, filter models.EventFilter) ([]*models.Event, int64, error) {
	args := m.Called(ctx, filter)
	events, _ := args.Get(0).([]*models.Event)
	return events, args.Get(1).(int64), args.Error(2)
}

func (m *mockEventService) ListOrganized(ctx context.Context, actor authz.Actor, filter models.EventFilter) ([]*models.Event, int64, error) {
	args := m.Called(ctx, actor, filter)
	events, _ := args.Get(0).([]*models.Event)
	return events, args.Get(1).(int64), args.Error(2)
}

func (m *mockEventService) Update(ctx context.Context, actor authz.Actor, id int64, req *dto.UpdateEventRequest) (*models.Event, error) {
	args := m.Called(ctx, actor, id, req)
	e, _ := args.Get(0).(*models.Event)
	return e, args.Error(1)
}

func (m *mockEventService) ChangeStatus(ctx context.Context, actor authz.Actor, id int64, next models.EventStatus) (*models.Event, error) {
	args := m.Called(ctx, actor, id, next)
	e, _ := args.Get(0).(*models.Event)
	return e, args.Error(1)
}

func (m *mockEventService) Register(ctx context.Context, actor authz.Actor, id int64) (*services.RegistrationResult, error) {
	args := m.Called(ctx, actor, id)
	r, _ := args.Get(0).(*services.RegistrationResult)
	return r, args.Error(1)
}

func (m *mockEventService) Withdraw(ctx context.Context, actor authz.Actor, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *mockEventService) Promote(ctx context.Context, actor authz.Actor, id int64) (*models.Attendee, error) {
	args := m.Called(ctx, actor, id)
	a, _ := args.Get(0).(*models.Attendee)
	return a, args.Error(1)
}

func (m *mockEventService) MarkAttendance(ctx context.Context, actor authz.Actor, id, userID int64, attended bool) error {
	return m.Called(ctx, actor, id, userID, attended).Error(0)
}

func (m *mockEventService) GetRoster(ctx context.Context, actor authz.Actor, id int64) (*models.Event, error) {
	args := m.Called(ctx, actor, id)
	e, _ := args.Get(0).(*models.Event)
	return e, args.Error(1)
}

func (m *mockEventService) BuildFilter(q *dto.EventListQuery, offset uint64, limit int) models.EventFilter {
	return m.Called(q, offset, limit).Get(0).(models.EventFilter)
}
