package models

import "time"

// EventFilter narrows event listings. Zero values mean "no constraint".
type EventFilter struct {
	Chapter string
	Type    EventType
	Level   EventLevel
	Tag     string
	// UpcomingAfter keeps events starting after the given instant.
	UpcomingAfter *time.Time
	// PublicOnly limits results to published, public events.
	PublicOnly  bool
	OrganizerID int64
	Offset      uint64
	Limit       int
}
