package dto

import (
	"time"

	"github.com/techhub/server/internal/app/models"
)

// EventResponse is the wire shape of an event. Roster lists are only
// filled in for the organizer and administrators.
type EventResponse struct {
	ID                   int64                  `json:"id"`
	Title                string                 `json:"title"`
	Description          string                 `json:"description"`
	ShortDescription     string                 `json:"shortDescription"`
	Type                 models.EventType       `json:"type"`
	Level                models.EventLevel      `json:"level"`
	Tags                 []string               `json:"tags"`
	StartDate            time.Time              `json:"startDate"`
	EndDate              time.Time              `json:"endDate"`
	RegistrationDeadline time.Time              `json:"registrationDeadline"`
	Location             models.Location        `json:"location"`
	Organizer            int64                  `json:"organizer"`
	Chapter              string                 `json:"chapter"`
	MaxAttendees         int                    `json:"maxAttendees"`
	AttendeeCount        int                    `json:"attendeeCount"`
	WaitlistCount        int                    `json:"waitlistCount"`
	AvailableSpots       int                    `json:"availableSpots"`
	IsFull               bool                   `json:"isFull"`
	Attendees            []models.Attendee      `json:"attendees,omitempty"`
	Waitlist             []models.WaitlistEntry `json:"waitlist,omitempty"`
	Requirements         []string               `json:"requirements"`
	Agenda               []models.AgendaItem    `json:"agenda"`
	Resources            []models.Resource      `json:"resources"`
	Images               []models.Image         `json:"images"`
	Status               models.EventStatus     `json:"status"`
	IsPublic             bool                   `json:"isPublic"`
	Price                float64                `json:"price"`
	Currency             string                 `json:"currency"`
	CreatedAt            time.Time              `json:"createdAt"`
	UpdatedAt            time.Time              `json:"updatedAt"`
}

// NewEventResponse converts e; includeRoster exposes attendee and waitlist entries.
func NewEventResponse(e *models.Event, includeRoster bool) EventResponse {
	resp := EventResponse{
		ID:                   e.ID,
		Title:                e.Title,
		Description:          e.Description,
		ShortDescription:     e.ShortDescription,
		Type:                 e.Type,
		Level:                e.Level,
		Tags:                 nonNil(e.Tags),
		StartDate:            e.StartDate,
		EndDate:              e.EndDate,
		RegistrationDeadline: e.RegistrationDeadline,
		Location:             e.Location,
		Organizer:            e.OrganizerID,
		Chapter:              e.Chapter,
		MaxAttendees:         e.MaxAttendees,
		AttendeeCount:        len(e.Attendees),
		WaitlistCount:        len(e.Waitlist),
		AvailableSpots:       e.AvailableSpots(),
		IsFull:               e.IsFull(),
		Requirements:         nonNil(e.Requirements),
		Agenda:               e.Agenda,
		Resources:            e.Resources,
		Images:               e.Images,
		Status:               e.Status,
		IsPublic:             e.IsPublic,
		Price:                e.Price,
		Currency:             e.Currency,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
	if resp.Agenda == nil {
		resp.Agenda = []models.AgendaItem{}
	}
	if resp.Resources == nil {
		resp.Resources = []models.Resource{}
	}
	if resp.Images == nil {
		resp.Images = []models.Image{}
	}
	if includeRoster {
		resp.Attendees = e.Attendees
		resp.Waitlist = e.Waitlist
	}
	return resp
}

// EventEnvelope wraps a single event.
type EventEnvelope struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Event   EventResponse `json:"event"`
}

// EventListResponse wraps one page of events.
type EventListResponse struct {
	Success    bool            `json:"success"`
	Events     []EventResponse `json:"events"`
	Pagination PaginationInfo  `json:"pagination"`
}

// RegistrationResponse reports where a registration landed.
type RegistrationResponse struct {
	Success        bool                       `json:"success"`
	Message        string                     `json:"message"`
	Status         models.RegistrationOutcome `json:"status"`
	AvailableSpots int                        `json:"availableSpots"`
}

// RosterResponse lists attendees and the waitlist of an event.
type RosterResponse struct {
	Success   bool                   `json:"success"`
	EventID   int64                  `json:"eventId"`
	Attendees []models.Attendee      `json:"attendees"`
	Waitlist  []models.WaitlistEntry `json:"waitlist"`
}

// PromotionResponse names the user moved off the waitlist.
type PromotionResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Attendee models.Attendee `json:"attendee"`
}

// EventListQuery holds the list filters taken from the query string.
type EventListQuery struct {
	Chapter  string `json:"chapter" form:"chapter"`
	Type     string `json:"type" form:"type" validate:"omitempty,oneof=workshop seminar hackathon networking webinar conference"`
	Level    string `json:"level" form:"level" validate:"omitempty,oneof=beginner intermediate advanced all"`
	Tag      string `json:"tag" form:"tag"`
	Upcoming bool   `json:"upcoming" form:"upcoming"`
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
