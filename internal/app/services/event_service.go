package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	authz "github.com/techhub/server/internal/app/auth"
	"github.com/techhub/server/internal/app/models"
	"github.com/techhub/server/internal/app/models/dto"
	"github.com/techhub/server/internal/app/repositories"
	"github.com/techhub/server/internal/pkg/apperrors"
	"github.com/techhub/server/internal/pkg/email"
	"github.com/techhub/server/internal/pkg/metrics"
)

// RegistrationResult is the outcome of a registration request.
type RegistrationResult struct {
	Outcome        models.RegistrationOutcome
	AvailableSpots int
}

// EventService handles event lifecycle and registration
type EventService struct {
	eventRepo repositories.IEventRepository
	userRepo  repositories.IUserRepository
	mailer    email.EmailService
	policy    models.FullEventPolicy
	logger    zerolog.Logger

	now      func() time.Time
	dispatch func(func())
}

// NewEventService creates a new EventService. policy decides what happens
// to registrations for a full event.
func NewEventService(
	eventRepo repositories.IEventRepository,
	userRepo repositories.IUserRepository,
	mailer email.EmailService,
	policy models.FullEventPolicy,
	logger zerolog.Logger,
) *EventService {
	if !policy.Valid() {
		policy = models.FullPolicyWaitlist
	}
	return &EventService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		mailer:    mailer,
		policy:    policy,
		logger:    logger,
		now:       time.Now,
		dispatch:  func(f func()) { go f() },
	}
}

var errEventNotFound = apperrors.NewCustomError(apperrors.ErrEventNotFound, "Event not found")

func (s *EventService) load(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrEventNotFound) {
			return nil, errEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// loadManaged returns the event if actor may manage it.
func (s *EventService) loadManaged(ctx context.Context, actor authz.Actor, id int64) (*models.Event, error) {
	event, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanManageEvent(actor, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Create stores a new draft event organised by actor.
func (s *EventService) Create(ctx context.Context, actor authz.Actor, req *dto.CreateEventRequest) (*models.Event, error) {
	if err := authz.CanOrganize(actor); err != nil {
		return nil, err
	}

	event := req.ToModel(actor.UserID)
	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	metrics.EventsCreatedTotal.Inc()
	s.logger.Info().Int64("eventID", event.ID).Int64("organizerID", actor.UserID).Str("chapter", event.Chapter).Msg("Event created")
	return event, nil
}

// Get returns an event. Events the actor cannot see are reported as missing.
func (s *EventService) Get(ctx context.Context, actor *authz.Actor, id int64) (*models.Event, error) {
	event, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanViewEvent(actor, event) {
		return nil, errEventNotFound
	}
	return event, nil
}

// List returns the published public events matching filter.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]*models.Event, int64, error) {
	filter.PublicOnly = true
	filter.OrganizerID = 0
	return s.eventRepo.List(ctx, filter)
}

// ListOrganized returns every event organised by actor, drafts included.
func (s *EventService) ListOrganized(ctx context.Context, actor authz.Actor, filter models.EventFilter) ([]*models.Event, int64, error) {
	filter.PublicOnly = false
	filter.OrganizerID = actor.UserID
	return s.eventRepo.List(ctx, filter)
}

// Update applies a partial update and re-validates the whole event.
func (s *EventService) Update(ctx context.Context, actor authz.Actor, id int64, req *dto.UpdateEventRequest) (*models.Event, error) {
	event, err := s.loadManaged(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if event.Status.IsTerminal() {
		return nil, apperrors.NewConflictError(fmt.Sprintf("Cannot edit a %s event", event.Status))
	}

	req.ApplyTo(event)
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if err := event.CheckCapacity(len(event.Attendees)); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, apperrors.ErrEventNotFound) {
			return nil, errEventNotFound
		}
		return nil, err
	}

	s.logger.Info().Int64("eventID", id).Int64("userID", actor.UserID).Msg("Event updated")
	return event, nil
}

// ChangeStatus moves the event along its lifecycle.
func (s *EventService) ChangeStatus(ctx context.Context, actor authz.Actor, id int64, next models.EventStatus) (*models.Event, error) {
	event, err := s.loadManaged(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	current := event.Status
	if !current.CanTransitionTo(next) {
		return nil, apperrors.NewCustomError(
			apperrors.ErrInvalidStatusTransition,
			fmt.Sprintf("Cannot change status from %s to %s", current, next),
		)
	}
	if current == next {
		return event, nil
	}

	if err := s.eventRepo.UpdateStatus(ctx, id, current, next); err != nil {
		return nil, err
	}
	event.Status = next
	event.UpdatedAt = s.now().UTC()

	s.logger.Info().Int64("eventID", id).Str("from", string(current)).Str("to", string(next)).Msg("Event status changed")
	return event, nil
}

// Register signs actor up for the event, or queues them when it is full and
// the policy allows a waitlist.
func (s *EventService) Register(ctx context.Context, actor authz.Actor, id int64) (*RegistrationResult, error) {
	event, err := s.Get(ctx, &actor, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	outcome, spots, err := s.eventRepo.Register(ctx, id, actor.UserID, func(snap models.RegistrationSnapshot) (models.RegistrationOutcome, error) {
		return models.DecideRegistration(snap, now, s.policy)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrEventNotFound) {
			return nil, errEventNotFound
		}
		metrics.EventRegistrationsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	metrics.EventRegistrationsTotal.WithLabelValues(string(outcome)).Inc()
	s.logger.Info().Int64("eventID", id).Int64("userID", actor.UserID).Str("outcome", string(outcome)).Msg("Event registration")

	s.notify(actor.UserID, event.Title, outcome == models.OutcomeWaitlisted)
	return &RegistrationResult{Outcome: outcome, AvailableSpots: spots}, nil
}

// Withdraw removes actor from the attendees or the waitlist. Freed spots are
// not handed to the waitlist automatically.
func (s *EventService) Withdraw(ctx context.Context, actor authz.Actor, id int64) error {
	if _, err := s.Get(ctx, &actor, id); err != nil {
		return err
	}
	if err := s.eventRepo.Withdraw(ctx, id, actor.UserID); err != nil {
		if errors.Is(err, apperrors.ErrEventNotFound) {
			return errEventNotFound
		}
		return err
	}
	s.logger.Info().Int64("eventID", id).Int64("userID", actor.UserID).Msg("Event registration withdrawn")
	return nil
}

// Promote moves the earliest waitlisted user onto the attendee list.
func (s *EventService) Promote(ctx context.Context, actor authz.Actor, id int64) (*models.Attendee, error) {
	event, err := s.loadManaged(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	attendee, err := s.eventRepo.PromoteNext(ctx, id, models.CheckPromotion)
	if err != nil {
		return nil, err
	}

	metrics.EventRegistrationsTotal.WithLabelValues("promoted").Inc()
	s.logger.Info().Int64("eventID", id).Int64("userID", attendee.UserID).Msg("Waitlisted user promoted")

	s.notify(attendee.UserID, event.Title, false)
	return attendee, nil
}

// MarkAttendance records whether a registered user attended.
func (s *EventService) MarkAttendance(ctx context.Context, actor authz.Actor, id, userID int64, attended bool) error {
	if _, err := s.loadManaged(ctx, actor, id); err != nil {
		return err
	}
	return s.eventRepo.MarkAttendance(ctx, id, userID, attended)
}

// GetRoster returns the event with its attendees and waitlist for managers.
func (s *EventService) GetRoster(ctx context.Context, actor authz.Actor, id int64) (*models.Event, error) {
	return s.loadManaged(ctx, actor, id)
}

func (s *EventService) notify(userID int64, eventTitle string, waitlisted bool) {
	s.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			s.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to load user for registration notice")
			return
		}
		if err := s.mailer.SendRegistrationNotice(user.Email, user.Name, eventTitle, waitlisted); err != nil {
			s.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to send registration notice")
		}
	})
}

// toFilter turns list query parameters into a repository filter.
func toFilter(q *dto.EventListQuery, offset uint64, limit int, now time.Time) models.EventFilter {
	filter := models.EventFilter{
		Chapter: q.Chapter,
		Type:    models.EventType(q.Type),
		Level:   models.EventLevel(q.Level),
		Tag:     q.Tag,
		Offset:  offset,
		Limit:   limit,
	}
	if q.Upcoming {
		filter.UpcomingAfter = &now
	}
	return filter
}

// BuildFilter is toFilter evaluated at the service clock.
func (s *EventService) BuildFilter(q *dto.EventListQuery, offset uint64, limit int) models.EventFilter {
	return toFilter(q, offset, limit, s.now().UTC())
}
