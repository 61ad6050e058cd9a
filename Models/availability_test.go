package Models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plannerWindow() (time.Time, []string) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return start, WindowDates(start)
}

func TestReplaceWeeklyPlannerOverwritesWindow(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, "doc@hms.local")
	start, days := plannerWindow()

	first := []PlannerEntry{
		{Day: days[0], SlotLabel: SlotMorning},
		{Day: days[1], SlotLabel: SlotEvening},
	}
	require.NoError(t, ReplaceWeeklyPlanner(db, doctor.ID, start, first))

	slots, err := WeeklyPlanner(db, doctor.ID, start)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	// A second submission replaces the first outright.
	second := []PlannerEntry{
		{Day: days[2], SlotLabel: SlotMorning},
	}
	require.NoError(t, ReplaceWeeklyPlanner(db, doctor.ID, start, second))

	slots, err = WeeklyPlanner(db, doctor.ID, start)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, days[2], slots[0].Day)
	assert.True(t, slots[0].IsOpen)
}

func TestReplaceWeeklyPlannerIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, "doc@hms.local")
	start, days := plannerWindow()

	entries := []PlannerEntry{
		{Day: days[0], SlotLabel: SlotMorning},
		{Day: days[0], SlotLabel: SlotEvening},
	}
	require.NoError(t, ReplaceWeeklyPlanner(db, doctor.ID, start, entries))
	require.NoError(t, ReplaceWeeklyPlanner(db, doctor.ID, start, entries))

	slots, err := WeeklyPlanner(db, doctor.ID, start)
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}

func TestReplaceWeeklyPlannerKeepsBookedSlots(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, "doc@hms.local")
	patient := createTestPatient(t, db, "pat@hms.local")
	start, days := plannerWindow()

	require.NoError(t, ReplaceWeeklyPlanner(db, doctor.ID, start, []PlannerEntry{
		{Day: days[0], SlotLabel: SlotMorning},
		{Day: days[1], SlotLabel: SlotEvening},
	}))

	slots, err := WeeklyPlanner(db, doctor.ID, start)
	require.NoError(t, err)
	var booked DoctorAvailability
	for _, slot := range slots {
		if slot.Day == days[0] {
			booked = slot
		}
	}
	_, err = BookSlot(db, patient, booked.ID, "Checkup")
	require.NoError(t, err)

	// Resubmit a planner that drops the booked slot entirely.
	require.NoError(t, ReplaceWeeklyPlanner(db, doctor.ID, start, []PlannerEntry{
		{Day: days[3], SlotLabel: SlotMorning},
	}))

	slots, err = WeeklyPlanner(db, doctor.ID, start)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	var kept *DoctorAvailability
	for i := range slots {
		if slots[i].ID == booked.ID {
			kept = &slots[i]
		}
	}
	require.NotNil(t, kept, "slot with an active booking must survive the overwrite")
	assert.False(t, kept.IsOpen, "pinned slot must stay closed")
}

func TestReplaceWeeklyPlannerValidation(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, "doc@hms.local")
	start, days := plannerWindow()

	err := ReplaceWeeklyPlanner(db, doctor.ID, start, []PlannerEntry{
		{Day: days[0], SlotLabel: "10:00 - 11:00 am"},
	})
	assert.ErrorIs(t, err, ErrInvalidSlotLabel)

	err = ReplaceWeeklyPlanner(db, doctor.ID, start, []PlannerEntry{
		{Day: "2030-01-01", SlotLabel: SlotMorning},
	})
	assert.Error(t, err)
}

func TestOpenSlotsExcludesClaimed(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, "doc@hms.local")
	patient := createTestPatient(t, db, "pat@hms.local")
	start, days := plannerWindow()

	require.NoError(t, ReplaceWeeklyPlanner(db, doctor.ID, start, []PlannerEntry{
		{Day: days[0], SlotLabel: SlotMorning},
		{Day: days[0], SlotLabel: SlotEvening},
	}))

	slots, err := OpenSlots(db, doctor.ID, start)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	_, err = BookSlot(db, patient, slots[0].ID, "Checkup")
	require.NoError(t, err)

	slots, err = OpenSlots(db, doctor.ID, start)
	require.NoError(t, err)
	assert.Len(t, slots, 1)
}

func TestCloseExpiredSlots(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, "doc@hms.local")

	createOpenSlot(t, db, doctor.ID, "2026-08-20", SlotMorning)
	createOpenSlot(t, db, doctor.ID, "2026-08-25", SlotMorning)

	closed, err := CloseExpiredSlots(db, "2026-08-23")
	require.NoError(t, err)
	assert.EqualValues(t, 1, closed)

	var open int64
	require.NoError(t, db.Model(&DoctorAvailability{}).Where("is_open = ?", true).Count(&open).Error)
	assert.EqualValues(t, 1, open)
}
