package models

import (
	"strings"

	"github.com/techhub/server/internal/pkg/apperrors"
)

// LocationType selects which location fields an event must carry.
type LocationType string

const (
	LocationOnline   LocationType = "online"
	LocationPhysical LocationType = "physical"
	LocationHybrid   LocationType = "hybrid"
)

// locationRule is the required-field set of one location variant.
type locationRule struct {
	venue       bool
	meetingLink bool
}

var locationRules = map[LocationType]locationRule{
	LocationOnline:   {meetingLink: true},
	LocationPhysical: {venue: true},
	LocationHybrid:   {venue: true, meetingLink: true},
}

func (t LocationType) Valid() bool {
	_, ok := locationRules[t]
	return ok
}

// RequiresVenue reports whether events of this type need a venue.
func (t LocationType) RequiresVenue() bool {
	return locationRules[t].venue
}

// RequiresMeetingLink reports whether events of this type need a meeting link.
func (t LocationType) RequiresMeetingLink() bool {
	return locationRules[t].meetingLink
}

// Location is where an event happens.
type Location struct {
	Type        LocationType `json:"type"`
	Venue       string       `json:"venue,omitempty"`
	Address     Address      `json:"address"`
	MeetingLink string       `json:"meetingLink,omitempty"`
}

func (l Location) validate(verr *apperrors.ValidationError) {
	if l.Type == "" {
		verr.Add("location.type", "Location type is required")
		return
	}
	rule, ok := locationRules[l.Type]
	if !ok {
		verr.Add("location.type", "Location type must be one of: online, physical, hybrid")
		return
	}
	if rule.venue && strings.TrimSpace(l.Venue) == "" {
		verr.Add("location.venue", "Venue is required for physical and hybrid events")
	}
	if rule.meetingLink && strings.TrimSpace(l.MeetingLink) == "" {
		verr.Add("location.meetingLink", "Meeting link is required for online and hybrid events")
	}
}
