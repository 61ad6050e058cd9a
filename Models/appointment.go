package Models

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

const (
	StatusBooked    = "Booked"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

var (
	// ErrSlotUnavailable means the slot was closed or claimed by a
	// concurrent booking. Surfaced to the user as a conflict.
	ErrSlotUnavailable = errors.New("slot unavailable")
	// ErrAppointmentClosed means the appointment already left the
	// Booked state; Completed and Cancelled are terminal.
	ErrAppointmentClosed = errors.New("appointment already completed or cancelled")
)

type Appointment struct {
	gorm.Model
	PatientID   uint   `json:"patient_id" gorm:"not null"`
	DoctorID    uint   `json:"doctor_id" gorm:"not null;index:uniq_active_booking,unique,where:status = 'Booked'"`
	Date        string `json:"date" gorm:"size:10;not null;index:uniq_active_booking,unique,where:status = 'Booked'"`
	SlotLabel   string `json:"slot_label" gorm:"size:50;not null;index:uniq_active_booking,unique,where:status = 'Booked'"`
	Status      string `json:"status" gorm:"size:20;default:Booked"`
	Reason      string `json:"reason"`
	CancelledBy string `json:"cancelled_by" gorm:"size:20"`

	PatientName string `json:"patient_name" gorm:"-"`
	DoctorName  string `json:"doctor_name" gorm:"-"`
}

// TimelineEvent is a short audit line describing what happened to an
// appointment and who did it.
type TimelineEvent struct {
	gorm.Model
	AppointmentID uint   `json:"appointment_id" gorm:"not null;index"`
	ActorRole     string `json:"actor_role" gorm:"size:20"`
	ActorName     string `json:"actor_name" gorm:"size:120"`
	Message       string `json:"message" gorm:"not null"`
}

func recordTimelineEvent(tx *gorm.DB, appointmentID uint, actorRole, actorName, message string) error {
	event := TimelineEvent{
		AppointmentID: appointmentID,
		ActorRole:     actorRole,
		ActorName:     actorName,
		Message:       message,
	}
	return tx.Create(&event).Error
}

func reopenAvailabilitySlot(tx *gorm.DB, appointment *Appointment) error {
	return tx.Model(&DoctorAvailability{}).
		Where("doctor_id = ? AND day = ? AND slot_label = ?", appointment.DoctorID, appointment.Date, appointment.SlotLabel).
		Update("is_open", true).Error
}

// BookSlot turns an open availability slot into a Booked appointment for
// the patient. The slot claim is a guarded UPDATE and the active-booking
// unique index backs it, so of two concurrent bookings exactly one wins
// and the other gets ErrSlotUnavailable. A deactivated doctor's slots
// cannot be booked even while they remain in the table.
func BookSlot(db *gorm.DB, patient User, availabilityID uint, reason string) (Appointment, error) {
	var appointment Appointment

	err := db.Transaction(func(tx *gorm.DB) error {
		var slot DoctorAvailability
		if err := tx.First(&slot, availabilityID).Error; err != nil {
			return err
		}

		var doctor User
		if err := tx.Where("id = ? AND role = ? AND is_active = ?", slot.DoctorID, RoleDoctor, true).
			First(&doctor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSlotUnavailable
			}
			return err
		}

		claim := tx.Model(&DoctorAvailability{}).
			Where("id = ? AND is_open = ?", availabilityID, true).
			Update("is_open", false)
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return ErrSlotUnavailable
		}

		appointment = Appointment{
			PatientID: patient.ID,
			DoctorID:  slot.DoctorID,
			Date:      slot.Day,
			SlotLabel: slot.SlotLabel,
			Status:    StatusBooked,
			Reason:    reason,
		}
		if err := tx.Create(&appointment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSlotUnavailable
			}
			return err
		}

		return recordTimelineEvent(tx, appointment.ID, RolePatient, patient.FullName,
			fmt.Sprintf("%s booked %s on %s.", patient.FullName, slot.SlotLabel, slot.Day))
	})

	return appointment, err
}

// CancelAppointment moves a Booked appointment to Cancelled and reopens
// the matching availability slot in the same transaction. The actor's
// role scopes which rows may be touched: doctors and patients can only
// cancel their own appointments, admins are unrestricted.
func CancelAppointment(db *gorm.DB, appointmentID uint, actor User) error {
	return db.Transaction(func(tx *gorm.DB) error {
		query := tx.Where("id = ?", appointmentID)
		switch actor.Role {
		case RoleDoctor:
			query = query.Where("doctor_id = ?", actor.ID)
		case RolePatient:
			query = query.Where("patient_id = ?", actor.ID)
		}

		var appointment Appointment
		if err := query.First(&appointment).Error; err != nil {
			return err
		}
		if appointment.Status != StatusBooked {
			return ErrAppointmentClosed
		}

		if err := tx.Model(&appointment).Updates(map[string]interface{}{
			"status":       StatusCancelled,
			"cancelled_by": actor.Role,
		}).Error; err != nil {
			return err
		}

		if err := reopenAvailabilitySlot(tx, &appointment); err != nil {
			return err
		}

		return recordTimelineEvent(tx, appointment.ID, actor.Role, actor.FullName,
			fmt.Sprintf("%s cancelled %s on %s.", actor.FullName, appointment.SlotLabel, appointment.Date))
	})
}

// CompleteAppointment moves a Booked appointment to Completed. A default
// treatment record is created when the doctor never filled one in, so
// every completed visit shows up in the patient's history.
func CompleteAppointment(db *gorm.DB, appointmentID uint, doctor User) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var appointment Appointment
		if err := tx.Where("id = ? AND doctor_id = ?", appointmentID, doctor.ID).First(&appointment).Error; err != nil {
			return err
		}
		if appointment.Status != StatusBooked {
			return ErrAppointmentClosed
		}

		var record TreatmentRecord
		err := tx.Where("appointment_id = ?", appointment.ID).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record = TreatmentRecord{AppointmentID: appointment.ID, VisitType: "In-person"}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if err := tx.Model(&appointment).Updates(map[string]interface{}{
			"status":       StatusCompleted,
			"cancelled_by": "",
		}).Error; err != nil {
			return err
		}

		if err := reopenAvailabilitySlot(tx, &appointment); err != nil {
			return err
		}

		return recordTimelineEvent(tx, appointment.ID, RoleDoctor, doctor.FullName,
			fmt.Sprintf("Dr. %s marked the visit on %s complete.", doctor.FullName, appointment.Date))
	})
}

// AttachNames fills the transient patient/doctor name fields for display.
func AttachNames(db *gorm.DB, appointments []Appointment) error {
	ids := make(map[uint]struct{})
	for _, appt := range appointments {
		ids[appt.PatientID] = struct{}{}
		ids[appt.DoctorID] = struct{}{}
	}
	if len(ids) == 0 {
		return nil
	}
	idList := make([]uint, 0, len(ids))
	for id := range ids {
		idList = append(idList, id)
	}
	var users []User
	if err := db.Select("id, full_name").Where("id IN ?", idList).Find(&users).Error; err != nil {
		return err
	}
	names := make(map[uint]string, len(users))
	for _, user := range users {
		names[user.ID] = user.FullName
	}
	for index := range appointments {
		appointments[index].PatientName = names[appointments[index].PatientID]
		appointments[index].DoctorName = names[appointments[index].DoctorID]
	}
	return nil
}
