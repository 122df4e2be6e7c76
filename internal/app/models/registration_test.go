package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/techhub/server/internal/pkg/apperrors"
)

func TestDecideRegistration(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	open := RegistrationSnapshot{
		EventID:              1,
		Status:               StatusPublished,
		MaxAttendees:         2,
		RegistrationDeadline: now.Add(24 * time.Hour),
		AttendeeCount:        1,
	}

	tests := []struct {
		name    string
		mutate  func(s *RegistrationSnapshot)
		policy  FullEventPolicy
		want    RegistrationOutcome
		wantErr error
	}{
		{name: "spot available", policy: FullPolicyWaitlist, want: OutcomeRegistered},
		{
			name:   "full goes to waitlist",
			mutate: func(s *RegistrationSnapshot) { s.AttendeeCount = 2 },
			policy: FullPolicyWaitlist,
			want:   OutcomeWaitlisted,
		},
		{
			name:    "full is refused under reject policy",
			mutate:  func(s *RegistrationSnapshot) { s.AttendeeCount = 2 },
			policy:  FullPolicyReject,
			wantErr: apperrors.ErrEventFull,
		},
		{
			name:    "draft event",
			mutate:  func(s *RegistrationSnapshot) { s.Status = StatusDraft },
			policy:  FullPolicyWaitlist,
			wantErr: apperrors.ErrRegistrationClosed,
		},
		{
			name:    "cancelled event",
			mutate:  func(s *RegistrationSnapshot) { s.Status = StatusCancelled },
			policy:  FullPolicyWaitlist,
			wantErr: apperrors.ErrRegistrationClosed,
		},
		{
			name:    "deadline passed",
			mutate:  func(s *RegistrationSnapshot) { s.RegistrationDeadline = now.Add(-time.Second) },
			policy:  FullPolicyWaitlist,
			wantErr: apperrors.ErrRegistrationDeadline,
		},
		{
			name:    "already attending",
			mutate:  func(s *RegistrationSnapshot) { s.IsAttendee = true },
			policy:  FullPolicyWaitlist,
			wantErr: apperrors.ErrAlreadyRegistered,
		},
		{
			name:    "already waitlisted",
			mutate:  func(s *RegistrationSnapshot) { s.IsWaitlisted = true; s.AttendeeCount = 2 },
			policy:  FullPolicyWaitlist,
			wantErr: apperrors.ErrAlreadyRegistered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := open
			if tt.mutate != nil {
				tt.mutate(&s)
			}

			got, err := DecideRegistration(s, now, tt.policy)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Empty(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistrationNeverOverfills(t *testing.T) {
	now := time.Now()
	s := RegistrationSnapshot{Status: StatusPublished, MaxAttendees: 3, RegistrationDeadline: now.Add(time.Hour)}

	registered := 0
	for i := 0; i < 10; i++ {
		outcome, err := DecideRegistration(s, now, FullPolicyWaitlist)
		assert.NoError(t, err)
		if outcome == OutcomeRegistered {
			s.AttendeeCount++
			registered++
		}
		assert.GreaterOrEqual(t, s.AvailableSpots(), 0)
	}
	assert.Equal(t, 3, registered)
	assert.True(t, s.IsFull())
}

func TestCheckPromotion(t *testing.T) {
	s := RegistrationSnapshot{Status: StatusPublished, MaxAttendees: 1, AttendeeCount: 1}
	assert.ErrorIs(t, CheckPromotion(s), apperrors.ErrEventFull)

	s.AttendeeCount = 0
	assert.NoError(t, CheckPromotion(s))

	s.Status = StatusCompleted
	assert.ErrorIs(t, CheckPromotion(s), apperrors.ErrRegistrationClosed)
}

func TestRoleType(t *testing.T) {
	assert.True(t, RoleMember.Valid())
	assert.False(t, RoleType("owner").Valid())
	assert.False(t, RoleMember.CanOrganize())
	assert.True(t, RoleChapterLeader.CanOrganize())
	assert.True(t, RoleAdmin.CanOrganize())
	assert.True(t, FullPolicyReject.Valid())
	assert.False(t, FullEventPolicy("lottery").Valid())
}
