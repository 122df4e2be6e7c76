package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	authz "github.com/techhub/server/internal/app/auth"
	"github.com/techhub/server/internal/app/models"
	"github.com/techhub/server/internal/app/models/dto"
	"github.com/techhub/server/internal/app/services"
	"github.com/techhub/server/internal/middleware"
	"github.com/techhub/server/internal/pkg/apperrors"
	"github.com/techhub/server/internal/pkg/helpers"
)

// EventService is the event API the controller relies on.
type EventService interface {
	Create(ctx context.Context, actor authz.Actor, req *dto.CreateEventRequest) (*models.Event, error)
	Get(ctx context.Context, actor *authz.Actor, id int64) (*models.Event, error)
	List(ctx context.Context, filter models.EventFilter) ([]*models.Event, int64, error)
	ListOrganized(ctx context.Context, actor authz.Actor, filter models.EventFilter) ([]*models.Event, int64, error)
	Update(ctx context.Context, actor authz.Actor, id int64, req *dto.UpdateEventRequest) (*models.Event, error)
	ChangeStatus(ctx context.Context, actor authz.Actor, id int64, next models.EventStatus) (*models.Event, error)
	Register(ctx context.Context, actor authz.Actor, id int64) (*services.RegistrationResult, error)
	Withdraw(ctx context.Context, actor authz.Actor, id int64) error
	Promote(ctx context.Context, actor authz.Actor, id int64) (*models.Attendee, error)
	MarkAttendance(ctx context.Context, actor authz.Actor, id, userID int64, attended bool) error
	GetRoster(ctx context.Context, actor authz.Actor, id int64) (*models.Event, error)
	BuildFilter(q *dto.EventListQuery, offset uint64, limit int) models.EventFilter
}

// EventController handles event endpoints
type EventController struct {
	eventService EventService
	logger       zerolog.Logger
}

// NewEventController creates a new EventController
func NewEventController(eventService EventService, logger zerolog.Logger) *EventController {
	return &EventController{
		eventService: eventService,
		logger:       logger,
	}
}

func parseID(ctx *gin.Context, param, label string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(param), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Invalid "+label+" ID"))
		return 0, false
	}
	return id, true
}

func requireActor(ctx *gin.Context) (authz.Actor, bool) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		unauthorized(ctx)
	}
	return actor, ok
}

// canSeeRoster reports whether attendee details may be included for actor.
func canSeeRoster(actor *authz.Actor, event *models.Event) bool {
	return actor != nil && authz.CanManageEvent(*actor, event) == nil
}

func (c *EventController) respondList(ctx *gin.Context, events []*models.Event, total int64, page helpers.Page) {
	items := make([]dto.EventResponse, 0, len(events))
	for _, e := range events {
		items = append(items, dto.NewEventResponse(e, false))
	}
	ctx.JSON(http.StatusOK, dto.EventListResponse{
		Success:    true,
		Events:     items,
		Pagination: page.Info(total),
	})
}

// List handles GET /api/events
func (c *EventController) List(ctx *gin.Context) {
	var query dto.EventListQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}
	page := helpers.PageFromQuery(ctx)

	events, total, err := c.eventService.List(ctx.Request.Context(), c.eventService.BuildFilter(&query, page.Offset(), page.Size))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.respondList(ctx, events, total, page)
}

// ListMine handles GET /api/users/me/events
func (c *EventController) ListMine(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var query dto.EventListQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}
	page := helpers.PageFromQuery(ctx)

	events, total, err := c.eventService.ListOrganized(ctx.Request.Context(), actor, c.eventService.BuildFilter(&query, page.Offset(), page.Size))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.respondList(ctx, events, total, page)
}

// Get handles GET /api/events/:id
func (c *EventController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "event")
	if !ok {
		return
	}

	var actor *authz.Actor
	if a, ok := middleware.GetActor(ctx); ok {
		actor = &a
	}

	event, err := c.eventService.Get(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.EventEnvelope{
		Success: true,
		Event:   dto.NewEventResponse(event, canSeeRoster(actor, event)),
	})
}

// Create handles POST /api/events
func (c *EventController) Create(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	event, err := c.eventService.Create(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.EventEnvelope{
		Success: true,
		Message: "Event created successfully",
		Event:   dto.NewEventResponse(event, true),
	})
}

// Update handles PUT /api/events/:id
func (c *EventController) Update(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id", "event")
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	event, err := c.eventService.Update(ctx.Request.Context(), actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.EventEnvelope{
		Success: true,
		Message: "Event updated successfully",
		Event:   dto.NewEventResponse(event, true),
	})
}

// UpdateStatus handles PATCH /api/events/:id/status
func (c *EventController) UpdateStatus(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id", "event")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	event, err := c.eventService.ChangeStatus(ctx.Request.Context(), actor, id, models.EventStatus(req.Status))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.EventEnvelope{
		Success: true,
		Message: "Event status updated to " + string(event.Status),
		Event:   dto.NewEventResponse(event, true),
	})
}

// Register handles POST /api/events/:id/register
func (c *EventController) Register(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id", "event")
	if !ok {
		return
	}

	result, err := c.eventService.Register(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := "Successfully registered for event"
	status := http.StatusCreated
	if result.Outcome == models.OutcomeWaitlisted {
		message = "Event is full, you have been added to the waitlist"
		status = http.StatusAccepted
	}

	ctx.JSON(status, dto.RegistrationResponse{
		Success:        true,
		Message:        message,
		Status:         result.Outcome,
		AvailableSpots: result.AvailableSpots,
	})
}

// Withdraw handles DELETE /api/events/:id/register
func (c *EventController) Withdraw(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id", "event")
	if !ok {
		return
	}

	if err := c.eventService.Withdraw(ctx.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Registration cancelled"))
}

// Roster handles GET /api/events/:id/attendees
func (c *EventController) Roster(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id", "event")
	if !ok {
		return
	}

	event, err := c.eventService.GetRoster(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.RosterResponse{
		Success:   true,
		EventID:   event.ID,
		Attendees: event.Attendees,
		Waitlist:  event.Waitlist,
	}
	if resp.Attendees == nil {
		resp.Attendees = []models.Attendee{}
	}
	if resp.Waitlist == nil {
		resp.Waitlist = []models.WaitlistEntry{}
	}
	ctx.JSON(http.StatusOK, resp)
}

// MarkAttendance handles PUT /api/events/:id/attendees/:userId/attendance
func (c *EventController) MarkAttendance(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id", "event")
	if !ok {
		return
	}
	userID, ok := parseID(ctx, "userId", "user")
	if !ok {
		return
	}

	var req dto.AttendanceRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	if err := c.eventService.MarkAttendance(ctx.Request.Context(), actor, id, userID, *req.Attended); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Attendance updated"))
}

// PromoteWaitlist handles POST /api/events/:id/waitlist/promote
func (c *EventController) PromoteWaitlist(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id", "event")
	if !ok {
		return
	}

	attendee, err := c.eventService.Promote(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.PromotionResponse{
		Success:  true,
		Message:  "User moved from the waitlist to attendees",
		Attendee: *attendee,
	})
}
