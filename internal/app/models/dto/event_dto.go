package dto

import (
	"time"

	"github.com/techhub/server/internal/app/models"
	"github.com/techhub/server/internal/pkg/validation"
)

type AddressRequest struct {
	Street  string `json:"street" validate:"max=200"`
	City    string `json:"city" validate:"max=100"`
	State   string `json:"state" validate:"max=100"`
	Country string `json:"country" validate:"max=100"`
	ZipCode string `json:"zipCode" validate:"max=20"`
}

type LocationRequest struct {
	Type        string         `json:"type" validate:"required,oneof=online physical hybrid"`
	Venue       string         `json:"venue" validate:"max=200"`
	Address     AddressRequest `json:"address"`
	MeetingLink string         `json:"meetingLink" validate:"omitempty,weburl"`
}

type SpeakerRequest struct {
	Name   string `json:"name" validate:"max=100"`
	Bio    string `json:"bio" validate:"max=500"`
	Avatar string `json:"avatar" validate:"omitempty,weburl"`
}

type AgendaItemRequest struct {
	Time        string          `json:"time" validate:"required"`
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=1000"`
	Speaker     *SpeakerRequest `json:"speaker"`
}

type ResourceRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	URL   string `json:"url" validate:"required,weburl"`
	Type  string `json:"type" validate:"omitempty,oneof=slides code documentation video other"`
}

type ImageRequest struct {
	URL string `json:"url" validate:"required,weburl"`
	Alt string `json:"alt" validate:"max=200"`
}

// CreateEventRequest represents the create-event body. The organizer is the
// authenticated caller and the status always starts as draft.
type CreateEventRequest struct {
	Title                string              `json:"title" validate:"required,max=100"`
	Description          string              `json:"description" validate:"required,max=2000"`
	ShortDescription     string              `json:"shortDescription" validate:"required,max=300"`
	Type                 string              `json:"type" validate:"required,oneof=workshop seminar hackathon networking webinar conference"`
	Level                string              `json:"level" validate:"omitempty,oneof=beginner intermediate advanced all"`
	Tags                 []string            `json:"tags"`
	StartDate            time.Time           `json:"startDate" validate:"required"`
	EndDate              time.Time           `json:"endDate" validate:"required"`
	RegistrationDeadline time.Time           `json:"registrationDeadline" validate:"required"`
	Location             LocationRequest     `json:"location"`
	Chapter              string              `json:"chapter" validate:"required,max=100"`
	MaxAttendees         int                 `json:"maxAttendees" validate:"required,min=1"`
	Requirements         []string            `json:"requirements"`
	Agenda               []AgendaItemRequest `json:"agenda" validate:"dive"`
	Resources            []ResourceRequest   `json:"resources" validate:"dive"`
	Images               []ImageRequest      `json:"images" validate:"dive"`
	IsPublic             *bool               `json:"isPublic"`
	Price                float64             `json:"price" validate:"min=0"`
	Currency             string              `json:"currency" validate:"omitempty,len=3"`
}

func (r *CreateEventRequest) Normalize() {
	r.Title = validation.CleanText(r.Title)
	r.Description = validation.SanitizeHTML(r.Description)
	r.ShortDescription = validation.CleanText(r.ShortDescription)
	r.Type = validation.CleanText(r.Type)
	r.Level = validation.CleanText(r.Level)
	r.Chapter = validation.CleanText(r.Chapter)
	r.Tags = validation.CleanList(r.Tags)
	r.Requirements = validation.CleanList(r.Requirements)
	r.Location.normalize()
	normalizeAgenda(r.Agenda)
	normalizeResources(r.Resources)
}

func (r *CreateEventRequest) ValidationMessages() validation.Messages {
	return eventMessages
}

// ToModel builds a draft event owned by organizerID.
func (r *CreateEventRequest) ToModel(organizerID int64) *models.Event {
	isPublic := true
	if r.IsPublic != nil {
		isPublic = *r.IsPublic
	}

	e := &models.Event{
		Title:                r.Title,
		Description:          r.Description,
		ShortDescription:     r.ShortDescription,
		Type:                 models.EventType(r.Type),
		Level:                models.EventLevel(r.Level),
		Tags:                 r.Tags,
		StartDate:            r.StartDate.UTC(),
		EndDate:              r.EndDate.UTC(),
		RegistrationDeadline: r.RegistrationDeadline.UTC(),
		Location:             r.Location.toModel(),
		OrganizerID:          organizerID,
		Chapter:              r.Chapter,
		MaxAttendees:         r.MaxAttendees,
		Requirements:         r.Requirements,
		Agenda:               agendaToModel(r.Agenda),
		Resources:            resourcesToModel(r.Resources),
		Images:               imagesToModel(r.Images),
		Status:               models.StatusDraft,
		IsPublic:             isPublic,
		Price:                r.Price,
		Currency:             r.Currency,
	}
	e.ApplyDefaults()
	return e
}

// UpdateEventRequest is a partial update. Present slices and the location
// replace the stored value wholesale.
type UpdateEventRequest struct {
	Title                *string             `json:"title" validate:"omitempty,max=100"`
	Description          *string             `json:"description" validate:"omitempty,max=2000"`
	ShortDescription     *string             `json:"shortDescription" validate:"omitempty,max=300"`
	Type                 *string             `json:"type" validate:"omitempty,oneof=workshop seminar hackathon networking webinar conference"`
	Level                *string             `json:"level" validate:"omitempty,oneof=beginner intermediate advanced all"`
	Tags                 []string            `json:"tags"`
	StartDate            *time.Time          `json:"startDate"`
	EndDate              *time.Time          `json:"endDate"`
	RegistrationDeadline *time.Time          `json:"registrationDeadline"`
	Location             *LocationRequest    `json:"location"`
	Chapter              *string             `json:"chapter" validate:"omitempty,max=100"`
	MaxAttendees         *int                `json:"maxAttendees" validate:"omitempty,min=1"`
	Requirements         []string            `json:"requirements"`
	Agenda               []AgendaItemRequest `json:"agenda" validate:"omitempty,dive"`
	Resources            []ResourceRequest   `json:"resources" validate:"omitempty,dive"`
	Images               []ImageRequest      `json:"images" validate:"omitempty,dive"`
	IsPublic             *bool               `json:"isPublic"`
	Price                *float64            `json:"price" validate:"omitempty,min=0"`
	Currency             *string             `json:"currency" validate:"omitempty,len=3"`
}

func (r *UpdateEventRequest) Normalize() {
	trimPtr(r.Title)
	if r.Description != nil {
		*r.Description = validation.SanitizeHTML(*r.Description)
	}
	trimPtr(r.ShortDescription)
	trimPtr(r.Type)
	trimPtr(r.Level)
	trimPtr(r.Chapter)
	if r.Tags != nil {
		r.Tags = validation.CleanList(r.Tags)
	}
	if r.Requirements != nil {
		r.Requirements = validation.CleanList(r.Requirements)
	}
	if r.Location != nil {
		r.Location.normalize()
	}
	normalizeAgenda(r.Agenda)
	normalizeResources(r.Resources)
}

func (r *UpdateEventRequest) ValidationMessages() validation.Messages {
	return eventMessages
}

// ApplyTo copies the present fields onto e. Domain rules are checked by the
// caller with e.Validate afterwards.
func (r *UpdateEventRequest) ApplyTo(e *models.Event) {
	if r.Title != nil {
		e.Title = *r.Title
	}
	if r.Description != nil {
		e.Description = *r.Description
	}
	if r.ShortDescription != nil {
		e.ShortDescription = *r.ShortDescription
	}
	if r.Type != nil {
		e.Type = models.EventType(*r.Type)
	}
	if r.Level != nil {
		e.Level = models.EventLevel(*r.Level)
	}
	if r.Tags != nil {
		e.Tags = r.Tags
	}
	if r.StartDate != nil {
		e.StartDate = r.StartDate.UTC()
	}
	if r.EndDate != nil {
		e.EndDate = r.EndDate.UTC()
	}
	if r.RegistrationDeadline != nil {
		e.RegistrationDeadline = r.RegistrationDeadline.UTC()
	}
	if r.Location != nil {
		e.Location = r.Location.toModel()
	}
	if r.Chapter != nil {
		e.Chapter = *r.Chapter
	}
	if r.MaxAttendees != nil {
		e.MaxAttendees = *r.MaxAttendees
	}
	if r.Requirements != nil {
		e.Requirements = r.Requirements
	}
	if r.Agenda != nil {
		e.Agenda = agendaToModel(r.Agenda)
	}
	if r.Resources != nil {
		e.Resources = resourcesToModel(r.Resources)
	}
	if r.Images != nil {
		e.Images = imagesToModel(r.Images)
	}
	if r.IsPublic != nil {
		e.IsPublic = *r.IsPublic
	}
	if r.Price != nil {
		e.Price = *r.Price
	}
	if r.Currency != nil {
		e.Currency = *r.Currency
	}
	e.ApplyDefaults()
}

// UpdateStatusRequest moves an event through its lifecycle.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft published cancelled completed"`
}

func (r *UpdateStatusRequest) Normalize() {
	r.Status = validation.CleanText(r.Status)
}

func (r *UpdateStatusRequest) ValidationMessages() validation.Messages {
	return validation.Messages{
		"status": "Status must be one of: draft, published, cancelled, completed",
	}
}

// AttendanceRequest marks an attendee as present or absent.
type AttendanceRequest struct {
	Attended *bool `json:"attended" validate:"required"`
}

func (r *AttendanceRequest) ValidationMessages() validation.Messages {
	return validation.Messages{"attended": "Attended flag is required"}
}

var eventMessages = validation.Messages{
	"title":                "Title is required and cannot be more than 100 characters",
	"description":          "Description is required and cannot be more than 2000 characters",
	"shortDescription":     "Short description is required and cannot be more than 300 characters",
	"type":                 "Event type must be one of: workshop, seminar, hackathon, networking, webinar, conference",
	"level":                "Level must be one of: beginner, intermediate, advanced, all",
	"startDate":            "Start date is required",
	"endDate":              "End date is required",
	"registrationDeadline": "Registration deadline is required",
	"location.type":        "Location type must be one of: online, physical, hybrid",
	"location.meetingLink": "Meeting link must be a valid URL",
	"chapter":              "Chapter is required",
	"maxAttendees":         "Maximum attendees must be at least 1",
	"agenda.*.time":        "Agenda time is required",
	"agenda.*.title":       "Agenda title is required",
	"resources.*.title":    "Resource title is required",
	"resources.*.url":      "Resource URL must be valid",
	"resources.*.type":     "Resource type must be one of: slides, code, documentation, video, other",
	"images.*.url":         "Image URL must be valid",
	"price":                "Price cannot be negative",
	"currency":             "Currency must be a 3-letter code",
}

func (l *LocationRequest) normalize() {
	l.Type = validation.CleanText(l.Type)
	l.Venue = validation.CleanText(l.Venue)
	l.MeetingLink = validation.CleanText(l.MeetingLink)
	l.Address.Street = validation.CleanText(l.Address.Street)
	l.Address.City = validation.CleanText(l.Address.City)
	l.Address.State = validation.CleanText(l.Address.State)
	l.Address.Country = validation.CleanText(l.Address.Country)
	l.Address.ZipCode = validation.CleanText(l.Address.ZipCode)
}

func (l LocationRequest) toModel() models.Location {
	return models.Location{
		Type:        models.LocationType(l.Type),
		Venue:       l.Venue,
		MeetingLink: l.MeetingLink,
		Address: models.Address{
			Street:  l.Address.Street,
			City:    l.Address.City,
			State:   l.Address.State,
			Country: l.Address.Country,
			ZipCode: l.Address.ZipCode,
		},
	}
}

func normalizeAgenda(items []AgendaItemRequest) {
	for i := range items {
		items[i].Time = validation.CleanText(items[i].Time)
		items[i].Title = validation.CleanText(items[i].Title)
		items[i].Description = validation.CleanText(items[i].Description)
		if s := items[i].Speaker; s != nil {
			s.Name = validation.CleanText(s.Name)
			s.Bio = validation.CleanText(s.Bio)
			s.Avatar = validation.CleanText(s.Avatar)
		}
	}
}

func normalizeResources(items []ResourceRequest) {
	for i := range items {
		items[i].Title = validation.CleanText(items[i].Title)
		items[i].URL = validation.CleanText(items[i].URL)
		items[i].Type = validation.CleanText(items[i].Type)
	}
}

func agendaToModel(items []AgendaItemRequest) []models.AgendaItem {
	out := make([]models.AgendaItem, 0, len(items))
	for _, it := range items {
		item := models.AgendaItem{Time: it.Time, Title: it.Title, Description: it.Description}
		if it.Speaker != nil {
			item.Speaker = &models.Speaker{Name: it.Speaker.Name, Bio: it.Speaker.Bio, Avatar: it.Speaker.Avatar}
		}
		out = append(out, item)
	}
	return out
}

func resourcesToModel(items []ResourceRequest) []models.Resource {
	out := make([]models.Resource, 0, len(items))
	for _, it := range items {
		out = append(out, models.Resource{Title: it.Title, URL: it.URL, Type: models.ResourceType(it.Type)})
	}
	return out
}

func imagesToModel(items []ImageRequest) []models.Image {
	out := make([]models.Image, 0, len(items))
	for _, it := range items {
		out = append(out, models.Image{URL: it.URL, Alt: it.Alt})
	}
	return out
}
