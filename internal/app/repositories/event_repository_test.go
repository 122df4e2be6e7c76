package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techhub/server/internal/app/models"
)

func TestUpdateEventQueryLeavesStatusAlone(t *testing.T) {
	repo := NewEventRepository(nil)

	start := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)
	event := &models.Event{
		ID:                   42,
		Title:                "Go Workshop",
		Description:          "Hands-on concurrency patterns",
		Type:                 models.EventTypeWorkshop,
		StartDate:            start,
		EndDate:              start.Add(3 * time.Hour),
		RegistrationDeadline: start.Add(-24 * time.Hour),
		Location:             models.Location{Type: models.LocationPhysical, Venue: "Factory Berlin"},
		Chapter:              "Berlin",
		MaxAttendees:         10,
		Status:               models.StatusPublished,
		IsPublic:             true,
	}
	event.ApplyDefaults()

	cols, err := encodeJSONColumns(event)
	require.NoError(t, err)

	sql, args, err := repo.updateEventQuery(event, cols)
	require.NoError(t, err)

	assert.Contains(t, sql, "UPDATE events SET")
	assert.Contains(t, sql, "updated_at = NOW()")
	assert.Contains(t, sql, "RETURNING updated_at")
	assert.NotContains(t, sql, "status")
	assert.NotContains(t, args, models.StatusPublished)
	assert.Equal(t, int64(42), args[len(args)-1])
}
