package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/techhub/server/internal/pkg/apperrors"
)

// Field limits shared by request validation and the domain model.
const (
	TitleMaxLength            = 100
	DescriptionMaxLength      = 2000
	ShortDescriptionMaxLength = 300
	DefaultCurrency           = "USD"
)

// EventType is the kind of event.
type EventType string

const (
	EventTypeWorkshop   EventType = "workshop"
	EventTypeSeminar    EventType = "seminar"
	EventTypeHackathon  EventType = "hackathon"
	EventTypeNetworking EventType = "networking"
	EventTypeWebinar    EventType = "webinar"
	EventTypeConference EventType = "conference"
)

// EventTypes lists every EventType in display order.
var EventTypes = []EventType{
	EventTypeWorkshop, EventTypeSeminar, EventTypeHackathon,
	EventTypeNetworking, EventTypeWebinar, EventTypeConference,
}

func (t EventType) Valid() bool {
	for _, v := range EventTypes {
		if v == t {
			return true
		}
	}
	return false
}

// EventLevel is the intended audience level.
type EventLevel string

const (
	LevelBeginner     EventLevel = "beginner"
	LevelIntermediate EventLevel = "intermediate"
	LevelAdvanced     EventLevel = "advanced"
	LevelAll          EventLevel = "all"
)

func (l EventLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelAll:
		return true
	}
	return false
}

// ResourceType tags an event resource link.
type ResourceType string

const (
	ResourceSlides        ResourceType = "slides"
	ResourceCode          ResourceType = "code"
	ResourceDocumentation ResourceType = "documentation"
	ResourceVideo         ResourceType = "video"
	ResourceOther         ResourceType = "other"
)

func (r ResourceType) Valid() bool {
	switch r {
	case ResourceSlides, ResourceCode, ResourceDocumentation, ResourceVideo, ResourceOther:
		return true
	}
	return false
}

// Address is free text; every part is optional.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

// Speaker identifies who runs an agenda slot.
type Speaker struct {
	Name   string `json:"name,omitempty"`
	Bio    string `json:"bio,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// AgendaItem is one time slot of an event.
type AgendaItem struct {
	Time        string   `json:"time"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Speaker     *Speaker `json:"speaker,omitempty"`
}

// Resource is a labelled link attached to an event.
type Resource struct {
	Title string       `json:"title"`
	URL   string       `json:"url"`
	Type  ResourceType `json:"type"`
}

// Image is a picture reference attached to an event.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Attendee is a confirmed registration.
type Attendee struct {
	UserID       int64     `json:"user"`
	RegisteredAt time.Time `json:"registeredAt"`
	Attended     bool      `json:"attended"`
}

// WaitlistEntry is a user queued for a freed spot.
type WaitlistEntry struct {
	UserID   int64     `json:"user"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Event defines the event model based on the 'events' table. Attendees and
// Waitlist are loaded from their own tables and kept in join order.
type Event struct {
	ID                   int64           `json:"id" db:"id"`
	Title                string          `json:"title" db:"title"`
	Description          string          `json:"description" db:"description"`
	ShortDescription     string          `json:"shortDescription" db:"short_description"`
	Type                 EventType       `json:"type" db:"type"`
	Level                EventLevel      `json:"level" db:"level"`
	Tags                 []string        `json:"tags" db:"tags"`
	StartDate            time.Time       `json:"startDate" db:"start_date"`
	EndDate              time.Time       `json:"endDate" db:"end_date"`
	RegistrationDeadline time.Time       `json:"registrationDeadline" db:"registration_deadline"`
	Location             Location        `json:"location"`
	OrganizerID          int64           `json:"organizer" db:"organizer_id"`
	Chapter              string          `json:"chapter" db:"chapter"`
	MaxAttendees         int             `json:"maxAttendees" db:"max_attendees"`
	Attendees            []Attendee      `json:"attendees"`
	Waitlist             []WaitlistEntry `json:"waitlist"`
	Requirements         []string        `json:"requirements" db:"requirements"`
	Agenda               []AgendaItem    `json:"agenda"`
	Resources            []Resource      `json:"resources"`
	Images               []Image         `json:"images"`
	Status               EventStatus     `json:"status" db:"status"`
	IsPublic             bool            `json:"isPublic" db:"is_public"`
	Price                float64         `json:"price" db:"price"`
	Currency             string          `json:"currency" db:"currency"`
	CreatedAt            time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time       `json:"updatedAt" db:"updated_at"`
}

// AvailableSpots is maxAttendees minus the confirmed attendees, floored at zero.
func (e *Event) AvailableSpots() int {
	spots := e.MaxAttendees - len(e.Attendees)
	if spots < 0 {
		return 0
	}
	return spots
}

// IsFull reports whether no confirmed spot is left.
func (e *Event) IsFull() bool {
	return len(e.Attendees) >= e.MaxAttendees
}

// FindAttendee returns the attendee entry for userID, if any.
func (e *Event) FindAttendee(userID int64) (*Attendee, bool) {
	for i := range e.Attendees {
		if e.Attendees[i].UserID == userID {
			return &e.Attendees[i], true
		}
	}
	return nil, false
}

// IsWaitlisted reports whether userID is queued on the waitlist.
func (e *Event) IsWaitlisted(userID int64) bool {
	for _, w := range e.Waitlist {
		if w.UserID == userID {
			return true
		}
	}
	return false
}

// IsVisibleToPublic reports whether anonymous users may see the event.
func (e *Event) IsVisibleToPublic() bool {
	return e.IsPublic && e.Status != StatusDraft
}

// ApplyDefaults fills the defaults for fields left empty and trims free text.
func (e *Event) ApplyDefaults() {
	e.Title = strings.TrimSpace(e.Title)
	e.ShortDescription = strings.TrimSpace(e.ShortDescription)
	e.Chapter = strings.TrimSpace(e.Chapter)
	e.Location.Venue = strings.TrimSpace(e.Location.Venue)
	e.Location.MeetingLink = strings.TrimSpace(e.Location.MeetingLink)

	if e.Level == "" {
		e.Level = LevelAll
	}
	if e.Status == "" {
		e.Status = StatusDraft
	}
	e.Currency = strings.ToUpper(strings.TrimSpace(e.Currency))
	if e.Currency == "" {
		e.Currency = DefaultCurrency
	}
	for i := range e.Resources {
		if e.Resources[i].Type == "" {
			e.Resources[i].Type = ResourceOther
		}
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if e.Requirements == nil {
		e.Requirements = []string{}
	}
}

// Validate checks required fields, enumerations, the location variant rules
// and the date ordering. All failures are reported together.
func (e *Event) Validate() error {
	verr := apperrors.NewValidationError()

	checkText(verr, "title", e.Title, "Event title is required", TitleMaxLength,
		fmt.Sprintf("Title cannot be more than %d characters", TitleMaxLength))
	checkText(verr, "description", e.Description, "Event description is required", DescriptionMaxLength,
		fmt.Sprintf("Description cannot be more than %d characters", DescriptionMaxLength))
	checkText(verr, "shortDescription", e.ShortDescription, "Short description is required", ShortDescriptionMaxLength,
		fmt.Sprintf("Short description cannot be more than %d characters", ShortDescriptionMaxLength))

	switch {
	case e.Type == "":
		verr.Add("type", "Event type is required")
	case !e.Type.Valid():
		verr.Add("type", "Event type must be one of: workshop, seminar, hackathon, networking, webinar, conference")
	}
	if !e.Level.Valid() {
		verr.Add("level", "Level must be one of: beginner, intermediate, advanced, all")
	}

	if e.StartDate.IsZero() {
		verr.Add("startDate", "Start date is required")
	}
	if e.EndDate.IsZero() {
		verr.Add("endDate", "End date is required")
	}
	if e.RegistrationDeadline.IsZero() {
		verr.Add("registrationDeadline", "Registration deadline is required")
	}
	if !e.StartDate.IsZero() && !e.EndDate.IsZero() && !e.EndDate.After(e.StartDate) {
		verr.Add("endDate", "End date must be after start date")
	}
	if !e.StartDate.IsZero() && !e.RegistrationDeadline.IsZero() && e.RegistrationDeadline.After(e.StartDate) {
		verr.Add("registrationDeadline", "Registration deadline must be before start date")
	}

	e.Location.validate(verr)

	if e.OrganizerID <= 0 {
		verr.Add("organizer", "Event organizer is required")
	}
	if e.Chapter == "" {
		verr.Add("chapter", "Chapter is required")
	}
	if e.MaxAttendees < 1 {
		verr.Add("maxAttendees", "Maximum attendees must be at least 1")
	}

	for i, item := range e.Agenda {
		if strings.TrimSpace(item.Time) == "" {
			verr.Add(fmt.Sprintf("agenda[%d].time", i), "Agenda time is required")
		}
		if strings.TrimSpace(item.Title) == "" {
			verr.Add(fmt.Sprintf("agenda[%d].title", i), "Agenda title is required")
		}
	}
	for i, res := range e.Resources {
		if strings.TrimSpace(res.Title) == "" {
			verr.Add(fmt.Sprintf("resources[%d].title", i), "Resource title is required")
		}
		if strings.TrimSpace(res.URL) == "" {
			verr.Add(fmt.Sprintf("resources[%d].url", i), "Resource URL is required")
		}
		if !res.Type.Valid() {
			verr.Add(fmt.Sprintf("resources[%d].type", i), "Resource type must be one of: slides, code, documentation, video, other")
		}
	}
	for i, img := range e.Images {
		if strings.TrimSpace(img.URL) == "" {
			verr.Add(fmt.Sprintf("images[%d].url", i), "Image URL is required")
		}
	}

	if !e.Status.Valid() {
		verr.Add("status", "Status must be one of: draft, published, cancelled, completed")
	}
	if e.Price < 0 {
		verr.Add("price", "Price cannot be negative")
	}

	return verr.OrNil()
}

// CheckCapacity rejects a maxAttendees value that would leave the current
// attendees over capacity.
func (e *Event) CheckCapacity(attendeeCount int) error {
	if e.MaxAttendees < attendeeCount {
		return apperrors.NewValidationError().
			Add("maxAttendees", fmt.Sprintf("Maximum attendees cannot be lower than the current number of attendees (%d)", attendeeCount)).
			OrNil()
	}
	return nil
}

func checkText(verr *apperrors.ValidationError, field, value, requiredMsg string, max int, maxMsg string) {
	if strings.TrimSpace(value) == "" {
		verr.Add(field, requiredMsg)
		return
	}
	if utf8.RuneCountInString(value) > max {
		verr.Add(field, maxMsg)
	}
}
