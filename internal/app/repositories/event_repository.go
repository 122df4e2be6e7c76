package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/techhub/server/internal/app/models"
	"github.com/techhub/server/internal/db"
	"github.com/techhub/server/internal/pkg/apperrors"
	"github.com/techhub/server/internal/pkg/dberrors"
	"github.com/techhub/server/internal/pkg/logger"
)

// RegistrationDecider picks the outcome of a registration from the locked
// event state, or rejects it.
type RegistrationDecider func(models.RegistrationSnapshot) (models.RegistrationOutcome, error)

// PromotionCheck rejects a waitlist promotion for the locked event state.
type PromotionCheck func(models.RegistrationSnapshot) error

// IEventRepository defines the interface for event database operations
type IEventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context, filter models.EventFilter) ([]*models.Event, int64, error)
	Update(ctx context.Context, event *models.Event) error
	UpdateStatus(ctx context.Context, id int64, from, to models.EventStatus) error
	Register(ctx context.Context, eventID, userID int64, decide RegistrationDecider) (models.RegistrationOutcome, int, error)
	Withdraw(ctx context.Context, eventID, userID int64) error
	PromoteNext(ctx context.Context, eventID int64, check PromotionCheck) (*models.Attendee, error)
	MarkAttendance(ctx context.Context, eventID, userID int64, attended bool) error
}

// EventRepository handles event database operations
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var eventColumns = []string{
	"id", "title", "description", "short_description", "type", "level", "tags",
	"start_date", "end_date", "registration_deadline",
	"location_type", "venue", "meeting_link", "address",
	"organizer_id", "chapter", "max_attendees", "requirements",
	"agenda", "resources", "images",
	"status", "is_public", "price", "currency", "created_at", "updated_at",
}

// constraintFields maps table CHECK constraints onto the field they guard.
var constraintFields = map[string]apperrors.FieldError{
	"events_dates_check":    {Field: "endDate", Message: "End date must be after start date"},
	"events_deadline_check": {Field: "registrationDeadline", Message: "Registration deadline must be before start date"},
	"events_capacity_check": {Field: "maxAttendees", Message: "Maximum attendees must be at least 1"},
	"events_price_check":    {Field: "price", Message: "Price cannot be negative"},
	"events_status_check":   {Field: "status", Message: "Status must be one of: draft, published, cancelled, completed"},
	"events_location_check": {Field: "location", Message: "Location does not match its type"},
}

func translateEventWriteError(err error) error {
	if name, ok := dberrors.CheckConstraintName(err); ok {
		if fe, known := constraintFields[name]; known {
			return apperrors.NewValidationError().Add(fe.Field, fe.Message)
		}
	}
	if dberrors.IsForeignKeyError(err) {
		return apperrors.NewValidationError().Add("organizer", "Organizer does not exist")
	}
	return nil
}

// jsonColumns holds the encoded JSONB columns of an event.
type jsonColumns struct {
	address, agenda, resources, images []byte
}

func encodeJSONColumns(e *models.Event) (jsonColumns, error) {
	var (
		cols jsonColumns
		err  error
	)
	if cols.address, err = json.Marshal(e.Location.Address); err != nil {
		return cols, fmt.Errorf("failed to encode address: %w", err)
	}
	if cols.agenda, err = json.Marshal(nonNil(e.Agenda)); err != nil {
		return cols, fmt.Errorf("failed to encode agenda: %w", err)
	}
	if cols.resources, err = json.Marshal(nonNil(e.Resources)); err != nil {
		return cols, fmt.Errorf("failed to encode resources: %w", err)
	}
	if cols.images, err = json.Marshal(nonNil(e.Images)); err != nil {
		return cols, fmt.Errorf("failed to encode images: %w", err)
	}
	return cols, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	e := &models.Event{}
	var cols jsonColumns
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.ShortDescription, &e.Type, &e.Level, &e.Tags,
		&e.StartDate, &e.EndDate, &e.RegistrationDeadline,
		&e.Location.Type, &e.Location.Venue, &e.Location.MeetingLink, &cols.address,
		&e.OrganizerID, &e.Chapter, &e.MaxAttendees, &e.Requirements,
		&cols.agenda, &cols.resources, &cols.images,
		&e.Status, &e.IsPublic, &e.Price, &e.Currency, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(cols.address, &e.Location.Address); err != nil {
		return nil, fmt.Errorf("failed to decode address: %w", err)
	}
	if err := json.Unmarshal(cols.agenda, &e.Agenda); err != nil {
		return nil, fmt.Errorf("failed to decode agenda: %w", err)
	}
	if err := json.Unmarshal(cols.resources, &e.Resources); err != nil {
		return nil, fmt.Errorf("failed to decode resources: %w", err)
	}
	if err := json.Unmarshal(cols.images, &e.Images); err != nil {
		return nil, fmt.Errorf("failed to decode images: %w", err)
	}

	e.Tags = nonNil(e.Tags)
	e.Requirements = nonNil(e.Requirements)
	e.Attendees = []models.Attendee{}
	e.Waitlist = []models.WaitlistEntry{}
	return e, nil
}

func eventValues(e *models.Event, cols jsonColumns) map[string]interface{} {
	return map[string]interface{}{
		"title":                 e.Title,
		"description":           e.Description,
		"short_description":     e.ShortDescription,
		"type":                  e.Type,
		"level":                 e.Level,
		"tags":                  nonNil(e.Tags),
		"start_date":            e.StartDate,
		"end_date":              e.EndDate,
		"registration_deadline": e.RegistrationDeadline,
		"location_type":         e.Location.Type,
		"venue":                 e.Location.Venue,
		"meeting_link":          e.Location.MeetingLink,
		"address":               string(cols.address),
		"chapter":               e.Chapter,
		"max_attendees":         e.MaxAttendees,
		"requirements":          nonNil(e.Requirements),
		"agenda":                string(cols.agenda),
		"resources":             string(cols.resources),
		"images":                string(cols.images),
		"status":                e.Status,
		"is_public":             e.IsPublic,
		"price":                 e.Price,
		"currency":              e.Currency,
	}
}

// Create inserts event and fills in its generated fields.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	cols, err := encodeJSONColumns(event)
	if err != nil {
		return err
	}

	values := eventValues(event, cols)
	values["organizer_id"] = event.OrganizerID

	sql, args, err := r.sb.Insert("events").
		SetMap(values).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create event SQL")
		return fmt.Errorf("failed to build create event query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt); err != nil {
		if verr := translateEventWriteError(err); verr != nil {
			return verr
		}
		logger.Error().Err(err).Str("title", event.Title).Msg("Error executing create event query")
		return fmt.Errorf("error creating event: %w", err)
	}

	event.Attendees = []models.Attendee{}
	event.Waitlist = []models.WaitlistEntry{}
	return nil
}

// GetByID retrieves an event with its attendees and waitlist
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	sql, args, err := r.sb.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get event by ID SQL")
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	event, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		logger.Error().Err(err).Int64("eventID", id).Msg("Error scanning event row")
		return nil, fmt.Errorf("error getting event by ID: %w", err)
	}

	if err := r.loadRosters(ctx, []*models.Event{event}); err != nil {
		return nil, err
	}
	return event, nil
}

func (r *EventRepository) filterConditions(filter models.EventFilter) squirrel.And {
	where := squirrel.And{}
	if filter.Chapter != "" {
		where = append(where, squirrel.Eq{"chapter": filter.Chapter})
	}
	if filter.Type != "" {
		where = append(where, squirrel.Eq{"type": filter.Type})
	}
	if filter.Level != "" {
		where = append(where, squirrel.Eq{"level": filter.Level})
	}
	if filter.Tag != "" {
		where = append(where, squirrel.Expr("? = ANY(tags)", filter.Tag))
	}
	if filter.UpcomingAfter != nil {
		where = append(where, squirrel.Gt{"start_date": *filter.UpcomingAfter})
	}
	if filter.PublicOnly {
		where = append(where, squirrel.Eq{"status": models.StatusPublished, "is_public": true})
	}
	if filter.OrganizerID > 0 {
		where = append(where, squirrel.Eq{"organizer_id": filter.OrganizerID})
	}
	return where
}

// List returns one page of events matching filter, ordered by start date,
// together with the total number of matches.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]*models.Event, int64, error) {
	where := r.filterConditions(filter)

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("events").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count events query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting events")
		return nil, 0, fmt.Errorf("error counting events: %w", err)
	}

	query := r.sb.Select(eventColumns...).
		From("events").
		Where(where).
		OrderBy("start_date ASC", "id ASC").
		Offset(filter.Offset)
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list events SQL")
		return nil, 0, fmt.Errorf("failed to build list events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list events query")
		return nil, 0, fmt.Errorf("error querying events: %w", err)
	}
	defer rows.Close()

	events := []*models.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning event row during list")
			return nil, 0, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating event rows: %w", err)
	}

	if err := r.loadRosters(ctx, events); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// loadRosters fills Attendees and Waitlist for every event with two queries.
func (r *EventRepository) loadRosters(ctx context.Context, events []*models.Event) error {
	if len(events) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Event, len(events))
	ids := make([]int64, 0, len(events))
	for _, e := range events {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	sql, args, err := r.sb.Select("event_id", "user_id", "registered_at", "attended").
		From("event_attendees").
		Where(squirrel.Eq{"event_id": ids}).
		OrderBy("registered_at ASC", "user_id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build attendees query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error querying attendees: %w", err)
	}
	for rows.Next() {
		var eventID int64
		var a models.Attendee
		if err := rows.Scan(&eventID, &a.UserID, &a.RegisteredAt, &a.Attended); err != nil {
			rows.Close()
			return fmt.Errorf("error scanning attendee row: %w", err)
		}
		byID[eventID].Attendees = append(byID[eventID].Attendees, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating attendee rows: %w", err)
	}

	sql, args, err = r.sb.Select("event_id", "user_id", "joined_at").
		From("event_waitlist").
		Where(squirrel.Eq{"event_id": ids}).
		OrderBy("joined_at ASC", "user_id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build waitlist query: %w", err)
	}
	rows, err = r.db.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error querying waitlist: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var eventID int64
		var w models.WaitlistEntry
		if err := rows.Scan(&eventID, &w.UserID, &w.JoinedAt); err != nil {
			return fmt.Errorf("error scanning waitlist row: %w", err)
		}
		byID[eventID].Waitlist = append(byID[eventID].Waitlist, w)
	}
	return rows.Err()
}

// lockEvent reads the registration snapshot for eventID while holding its
// row lock. userID may be zero when membership is irrelevant.
func (r *EventRepository) lockEvent(ctx context.Context, tx pgx.Tx, eventID, userID int64) (models.RegistrationSnapshot, error) {
	snap := models.RegistrationSnapshot{EventID: eventID}

	sql, args, err := r.sb.Select("status", "max_attendees", "registration_deadline").
		From("events").
		Where(squirrel.Eq{"id": eventID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return snap, fmt.Errorf("failed to build lock event query: %w", err)
	}
	if err := tx.QueryRow(ctx, sql, args...).Scan(&snap.Status, &snap.MaxAttendees, &snap.RegistrationDeadline); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return snap, apperrors.ErrEventNotFound
		}
		return snap, fmt.Errorf("error locking event: %w", err)
	}

	sql, args, err = r.sb.Select("COUNT(*)").
		Column(squirrel.Expr("COALESCE(BOOL_OR(user_id = ?), FALSE)", userID)).
		From("event_attendees").
		Where(squirrel.Eq{"event_id": eventID}).
		ToSql()
	if err != nil {
		return snap, fmt.Errorf("failed to build attendee count query: %w", err)
	}
	if err := tx.QueryRow(ctx, sql, args...).Scan(&snap.AttendeeCount, &snap.IsAttendee); err != nil {
		return snap, fmt.Errorf("error counting attendees: %w", err)
	}

	if userID > 0 {
		sql, args, err = r.sb.Select("1").
			From("event_waitlist").
			Where(squirrel.Eq{"event_id": eventID, "user_id": userID}).
			Prefix("SELECT EXISTS (").Suffix(")").
			ToSql()
		if err != nil {
			return snap, fmt.Errorf("failed to build waitlist membership query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&snap.IsWaitlisted); err != nil {
			return snap, fmt.Errorf("error checking waitlist: %w", err)
		}
	}

	return snap, nil
}

// updateEventQuery builds the UPDATE for the editable fields. Status only
// moves through UpdateStatus.
func (r *EventRepository) updateEventQuery(event *models.Event, cols jsonColumns) (string, []interface{}, error) {
	values := eventValues(event, cols)
	delete(values, "status")
	values["updated_at"] = squirrel.Expr("NOW()")

	return r.sb.Update("events").
		SetMap(values).
		Where(squirrel.Eq{"id": event.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
}

// Update writes the editable fields of event, leaving its status alone. The
// capacity and terminal-status checks run under the event row lock.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	cols, err := encodeJSONColumns(event)
	if err != nil {
		return err
	}

	return db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		snap, err := r.lockEvent(ctx, tx, event.ID, 0)
		if err != nil {
			return err
		}
		if snap.Status.IsTerminal() {
			return apperrors.NewConflictError(fmt.Sprintf("Cannot edit a %s event", snap.Status))
		}
		if err := event.CheckCapacity(snap.AttendeeCount); err != nil {
			return err
		}

		sql, args, err := r.updateEventQuery(event, cols)
		if err != nil {
			return fmt.Errorf("failed to build update event query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&event.UpdatedAt); err != nil {
			if verr := translateEventWriteError(err); verr != nil {
				return verr
			}
			logger.Error().Err(err).Int64("eventID", event.ID).Msg("Error executing update event query")
			return fmt.Errorf("error updating event: %w", err)
		}
		return nil
	})
}

// UpdateStatus moves an event from one status to another. It fails with a
// conflict when the stored status is no longer from.
func (r *EventRepository) UpdateStatus(ctx context.Context, id int64, from, to models.EventStatus) error {
	sql, args, err := r.sb.Update("events").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update status query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", id).Msg("Error executing update status query")
		return fmt.Errorf("error updating event status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewConflictError("Event status was changed by another request")
	}
	return nil
}

// Register adds userID to the attendees or the waitlist of eventID,
// depending on decide. It returns the outcome and the spots left afterwards.
func (r *EventRepository) Register(ctx context.Context, eventID, userID int64, decide RegistrationDecider) (models.RegistrationOutcome, int, error) {
	var (
		outcome models.RegistrationOutcome
		spots   int
	)

	err := db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		snap, err := r.lockEvent(ctx, tx, eventID, userID)
		if err != nil {
			return err
		}

		outcome, err = decide(snap)
		if err != nil {
			return err
		}

		var insert squirrel.InsertBuilder
		switch outcome {
		case models.OutcomeRegistered:
			insert = r.sb.Insert("event_attendees").Columns("event_id", "user_id").Values(eventID, userID)
			snap.AttendeeCount++
		case models.OutcomeWaitlisted:
			insert = r.sb.Insert("event_waitlist").Columns("event_id", "user_id").Values(eventID, userID)
		default:
			return fmt.Errorf("unknown registration outcome %q", outcome)
		}

		sql, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build registration query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsDuplicateConstraintError(err, "event_attendees_pkey") ||
				dberrors.IsDuplicateConstraintError(err, "event_waitlist_pkey") {
				return apperrors.NewCustomError(apperrors.ErrAlreadyRegistered, "Already registered for this event")
			}
			if dberrors.IsForeignKeyError(err) {
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("error registering for event: %w", err)
		}

		spots = snap.AvailableSpots()
		return nil
	})
	if err != nil {
		return "", 0, err
	}
	return outcome, spots, nil
}

// Withdraw removes userID from the attendees or, failing that, the waitlist.
func (r *EventRepository) Withdraw(ctx context.Context, eventID, userID int64) error {
	return db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		snap, err := r.lockEvent(ctx, tx, eventID, 0)
		if err != nil {
			return err
		}
		if snap.Status.IsTerminal() {
			return apperrors.NewConflictError(fmt.Sprintf("Cannot withdraw from a %s event", snap.Status))
		}

		for _, table := range []string{"event_attendees", "event_waitlist"} {
			sql, args, err := r.sb.Delete(table).
				Where(squirrel.Eq{"event_id": eventID, "user_id": userID}).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build withdraw query: %w", err)
			}
			cmdTag, err := tx.Exec(ctx, sql, args...)
			if err != nil {
				return fmt.Errorf("error withdrawing from %s: %w", table, err)
			}
			if cmdTag.RowsAffected() > 0 {
				return nil
			}
		}
		return apperrors.NewCustomError(apperrors.ErrNotRegistered, "You are not registered for this event")
	})
}

// PromoteNext moves the earliest waitlisted user onto the attendee list.
func (r *EventRepository) PromoteNext(ctx context.Context, eventID int64, check PromotionCheck) (*models.Attendee, error) {
	var promoted *models.Attendee

	err := db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		snap, err := r.lockEvent(ctx, tx, eventID, 0)
		if err != nil {
			return err
		}
		if err := check(snap); err != nil {
			return err
		}

		sql, args, err := r.sb.Delete("event_waitlist").
			Where(squirrel.Expr(
				"(event_id, user_id) = (SELECT event_id, user_id FROM event_waitlist WHERE event_id = ? ORDER BY joined_at ASC, user_id ASC LIMIT 1)",
				eventID,
			)).
			Suffix("RETURNING user_id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build waitlist pop query: %w", err)
		}

		var userID int64
		if err := tx.QueryRow(ctx, sql, args...).Scan(&userID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewCustomError(apperrors.ErrWaitlistEmpty, "Waitlist is empty")
			}
			return fmt.Errorf("error popping waitlist: %w", err)
		}

		sql, args, err = r.sb.Insert("event_attendees").
			Columns("event_id", "user_id").
			Values(eventID, userID).
			Suffix("RETURNING user_id, registered_at, attended").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build promotion query: %w", err)
		}

		a := &models.Attendee{}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&a.UserID, &a.RegisteredAt, &a.Attended); err != nil {
			return fmt.Errorf("error promoting waitlisted user: %w", err)
		}
		promoted = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return promoted, nil
}

// MarkAttendance records whether an attendee showed up.
func (r *EventRepository) MarkAttendance(ctx context.Context, eventID, userID int64, attended bool) error {
	sql, args, err := r.sb.Update("event_attendees").
		Set("attended", attended).
		Where(squirrel.Eq{"event_id": eventID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build attendance query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", eventID).Int64("userID", userID).Msg("Error marking attendance")
		return fmt.Errorf("error marking attendance: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewCustomError(apperrors.ErrNotRegistered, "User is not an attendee of this event")
	}
	return nil
}
