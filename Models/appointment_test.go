package Models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBookSlotClaimsTheSlot(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, "doc@hms.local")
	patient := createTestPatient(t, db, "pat@hms.local")
	slot := createOpenSlot(t, db, doctor.ID, "2026-09-01", SlotMorning)

	appointment, err := BookSlot(db, patient, slot.ID, "Back pain")
	require.NoError(t, err)

	assert.Equal(t, StatusBooked, appointment.Status)
	assert.Equal(t, patient.ID, appointment.PatientID)
	assert.Equal(t, doctor.ID, appointment.DoctorID)
	assert.Equal(t, slot.Day, appointment.Date)
	assert.Equal(t, slot.SlotLabel, appointment.SlotLabel)

	var reloaded DoctorAvailability
	require.NoError(t, db.First(&reloaded, slot.ID).Error)
	assert.False(t, reloaded.IsOpen, "booked slot must be closed")

	var events int64
	require.NoError(t, db.Model(&TimelineEvent{}).Where("appointment_id = ?", appointment.ID).Count(&events).Error)
	assert.EqualValues(t, 1, events)
}

func TestBookSlotRejectsClosedSlot(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, "doc@hms.local")
	first := createTestPatient(t, db, "first@hms.local")
	second := createTestPatient(t, db, "second@hms.local")
	slot := createOpenSlot(t, db, doctor.ID, "2026-09-01", SlotEvening)

	_, err := BookSlot(db, first, slot.ID, "Checkup")
	require.NoError(t, err)

	_, err = BookSlot(db, second, slot.ID, "Checkup")
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// The loser must leave no appointment row behind.
	var count int64
	require.NoError(t, db.Model(&Appointment{}).Where("patient_id = ?", second.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestBookSlotRejectsDeactivatedDoctor(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, "doc@hms.local")
	patient := createTestPatient(t, db, "pat@hms.local")
	slot := createOpenSlot(t, db, doctor.ID, "2026-09-10", SlotMorning)

	require.NoError(t, db.Model(&User{}).Where("id = ?", doctor.ID).Update("is_active", false).Error)

	_, err := BookSlot(db, patient, slot.ID, "Checkup")
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	var reloaded DoctorAvailability
	require.NoError(t, db.First(&reloaded, slot.ID).Error)
	assert.True(t, reloaded.IsOpen, "slot must not be claimed")

	var count int64
	require.NoError(t, db.Model(&Appointment{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestBookSlotMissingSlot(t *testing.T) {
	db := newTestDB(t)
	patient := createTestPatient(t, db, "pat@hms.local")

	_, err := BookSlot(db, patient, 9999, "Checkup")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCancelAppointmentReopensSlot(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, "doc@hms.local")
	patient := createTestPatient(t, db, "pat@hms.local")
	slot := createOpenSlot(t, db, doctor.ID, "2026-09-02", SlotMorning)

	appointment, err := BookSlot(db, patient, slot.ID, "Follow-up")
	require.NoError(t, err)

	require.NoError(t, CancelAppointment(db, appointment.ID, patient))

	var reloadedAppt Appointment
	require.NoError(t, db.First(&reloadedAppt, appointment.ID).Error)
	assert.Equal(t, StatusCancelled, reloadedAppt.Status)
	assert.Equal(t, RolePatient, reloadedAppt.CancelledBy)

	var reloadedSlot DoctorAvailability
	require.NoError(t, db.First(&reloadedSlot, slot.ID).Error)
	assert.True(t, reloadedSlot.IsOpen, "cancelled slot must reopen")

	// The freed slot is bookable again, by anyone.
	other := createTestPatient(t, db, "other@hms.local")
	rebooked, err := BookSlot(db, other, slot.ID, "New complaint")
	require.NoError(t, err)
	assert.Equal(t, StatusBooked, rebooked.Status)
}

func TestCancelAppointmentIsRoleScoped(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, "doc@hms.local")
	patient := createTestPatient(t, db, "pat@hms.local")
	stranger := createTestPatient(t, db, "stranger@hms.local")
	slot := createOpenSlot(t, db, doctor.ID, "2026-09-03", SlotMorning)

	appointment, err := BookSlot(db, patient, slot.ID, "Checkup")
	require.NoError(t, err)

	err = CancelAppointment(db, appointment.ID, stranger)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Admins are unrestricted.
	admin := User{Role: RoleAdmin, FullName: "Admin", Email: "a@hms.local", Password: "x", IsActive: true}
	_, err = admin.SaveUser(db)
	require.NoError(t, err)
	require.NoError(t, CancelAppointment(db, appointment.ID, admin))

	var reloaded Appointment
	require.NoError(t, db.First(&reloaded, appointment.ID).Error)
	assert.Equal(t, RoleAdmin, reloaded.CancelledBy)
}

func TestCancelAppointmentRejectsClosedStates(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, "doc@hms.local")
	patient := createTestPatient(t, db, "pat@hms.local")
	slot := createOpenSlot(t, db, doctor.ID, "2026-09-04", SlotEvening)

	appointment, err := BookSlot(db, patient, slot.ID, "Checkup")
	require.NoError(t, err)
	require.NoError(t, CancelAppointment(db, appointment.ID, patient))

	err = CancelAppointment(db, appointment.ID, patient)
	assert.ErrorIs(t, err, ErrAppointmentClosed)
}

func TestCompleteAppointmentCreatesDefaultRecord(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, "doc@hms.local")
	patient := createTestPatient(t, db, "pat@hms.local")
	slot := createOpenSlot(t, db, doctor.ID, "2026-09-05", SlotMorning)

	appointment, err := BookSlot(db, patient, slot.ID, "Checkup")
	require.NoError(t, err)

	require.NoError(t, CompleteAppointment(db, appointment.ID, doctor))

	var reloaded Appointment
	require.NoError(t, db.First(&reloaded, appointment.ID).Error)
	assert.Equal(t, StatusCompleted, reloaded.Status)

	var record TreatmentRecord
	require.NoError(t, db.Where("appointment_id = ?", appointment.ID).First(&record).Error)
	assert.Equal(t, "In-person", record.VisitType)

	var reloadedSlot DoctorAvailability
	require.NoError(t, db.First(&reloadedSlot, slot.ID).Error)
	assert.True(t, reloadedSlot.IsOpen)

	err = CompleteAppointment(db, appointment.ID, doctor)
	assert.ErrorIs(t, err, ErrAppointmentClosed)
}

func TestCompleteAppointmentOnlyOwnRows(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, "doc@hms.local")
	other := createTestDoctor(t, db, "other@hms.local")
	patient := createTestPatient(t, db, "pat@hms.local")
	slot := createOpenSlot(t, db, doctor.ID, "2026-09-06", SlotMorning)

	appointment, err := BookSlot(db, patient, slot.ID, "Checkup")
	require.NoError(t, err)

	err = CompleteAppointment(db, appointment.ID, other)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAttachNames(t *testing.T) {
	db := newTestDB(t)
	doctor := createTestDoctor(t, db, "doc@hms.local")
	patient := createTestPatient(t, db, "pat@hms.local")
	slot := createOpenSlot(t, db, doctor.ID, "2026-09-07", SlotMorning)

	appointment, err := BookSlot(db, patient, slot.ID, "Checkup")
	require.NoError(t, err)

	appointments := []Appointment{appointment}
	require.NoError(t, AttachNames(db, appointments))
	assert.Equal(t, doctor.FullName, appointments[0].DoctorName)
	assert.Equal(t, patient.FullName, appointments[0].PatientName)
}
