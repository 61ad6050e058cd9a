package Models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNoTreatmentRecord means an edit targeted an appointment that never
// had treatment details saved.
var ErrNoTreatmentRecord = errors.New("no treatment record for this appointment")

// TreatmentRecord holds the visit details for exactly one appointment.
// The unique index on AppointmentID enforces the one-to-one link at the
// storage layer; no soft delete so the index stays authoritative.
type TreatmentRecord struct {
	ID            uint      `json:"id" gorm:"primarykey"`
	AppointmentID uint      `json:"appointment_id" gorm:"not null;uniqueIndex"`
	VisitType     string    `json:"visit_type" gorm:"size:50"`
	TestDone      string    `json:"test_done"`
	Diagnosis     string    `json:"diagnosis"`
	Prescription  string    `json:"prescription"`
	Medicines     string    `json:"medicines"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type TreatmentInput struct {
	VisitType    string `json:"visit_type"`
	TestDone     string `json:"test_done"`
	Diagnosis    string `json:"diagnosis"`
	Prescription string `json:"prescription"`
	Medicines    string `json:"medicines"`
	Notes        string `json:"notes"`
}

func (in TreatmentInput) fields() map[string]interface{} {
	return map[string]interface{}{
		"visit_type":   in.VisitType,
		"test_done":    in.TestDone,
		"diagnosis":    in.Diagnosis,
		"prescription": in.Prescription,
		"medicines":    in.Medicines,
		"notes":        in.Notes,
	}
}

// SaveTreatmentRecord upserts the treatment details for one of the
// doctor's appointments: create on first save, update the same row on
// every later save. Saving details on a Booked appointment also marks
// the visit complete and reopens the slot, mirroring the clinic flow
// where filled-in details mean the visit happened.
func SaveTreatmentRecord(db *gorm.DB, appointmentID uint, doctor User, input TreatmentInput) (TreatmentRecord, error) {
	var record TreatmentRecord

	err := db.Transaction(func(tx *gorm.DB) error {
		var appointment Appointment
		if err := tx.Where("id = ? AND doctor_id = ?", appointmentID, doctor.ID).First(&appointment).Error; err != nil {
			return err
		}

		// Insert-or-ignore keyed on appointment_id: a concurrent save
		// must not abort the transaction, and both writers end up
		// updating the same row.
		record = TreatmentRecord{AppointmentID: appointment.ID}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "appointment_id"}},
			DoNothing: true,
		}).Create(&record).Error; err != nil {
			return err
		}
		if err := tx.Where("appointment_id = ?", appointment.ID).First(&record).Error; err != nil {
			return err
		}

		if err := tx.Model(&record).Updates(input.fields()).Error; err != nil {
			return err
		}

		if appointment.Status == StatusBooked {
			if err := tx.Model(&appointment).Updates(map[string]interface{}{
				"status":       StatusCompleted,
				"cancelled_by": "",
			}).Error; err != nil {
				return err
			}
			if err := reopenAvailabilitySlot(tx, &appointment); err != nil {
				return err
			}
			if err := recordTimelineEvent(tx, appointment.ID, RoleDoctor, doctor.FullName,
				fmt.Sprintf("Treatment details saved and visit marked complete by Dr. %s.", doctor.FullName)); err != nil {
				return err
			}
		}

		return tx.Where("appointment_id = ?", appointment.ID).First(&record).Error
	})

	return record, err
}

// UpdateTreatmentRecord edits an existing record only; it never creates one.
func UpdateTreatmentRecord(db *gorm.DB, appointmentID uint, doctor User, input TreatmentInput) (TreatmentRecord, error) {
	var record TreatmentRecord

	err := db.Transaction(func(tx *gorm.DB) error {
		var appointment Appointment
		if err := tx.Where("id = ? AND doctor_id = ?", appointmentID, doctor.ID).First(&appointment).Error; err != nil {
			return err
		}

		if err := tx.Where("appointment_id = ?", appointment.ID).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoTreatmentRecord
			}
			return err
		}

		if err := tx.Model(&record).Updates(input.fields()).Error; err != nil {
			return err
		}
		return tx.First(&record, record.ID).Error
	})

	return record, err
}

// HistoryEntry is one appointment joined with its treatment record plus
// the doctor/department identification the patient view needs.
type HistoryEntry struct {
	AppointmentID  uint      `json:"appointment_id"`
	Date           string    `json:"date"`
	SlotLabel      string    `json:"slot_label"`
	Status         string    `json:"status"`
	Reason         string    `json:"reason"`
	VisitType      string    `json:"visit_type"`
	TestDone       string    `json:"test_done"`
	Diagnosis      string    `json:"diagnosis"`
	Prescription   string    `json:"prescription"`
	Medicines      string    `json:"medicines"`
	Notes          string    `json:"notes"`
	RecordedAt     time.Time `json:"recorded_at"`
	DoctorName     string    `json:"doctor_name"`
	Specialization string    `json:"specialization"`
	DepartmentName string    `json:"department_name"`
}

const historySelect = "appointments.id AS appointment_id, appointments.date, appointments.slot_label, " +
	"appointments.status, appointments.reason, treatment_records.visit_type, treatment_records.test_done, " +
	"treatment_records.diagnosis, treatment_records.prescription, treatment_records.medicines, " +
	"treatment_records.notes, treatment_records.updated_at AS recorded_at, users.full_name AS doctor_name, " +
	"users.specialization, departments.name AS department_name"

func historyQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&Appointment{}).
		Select(historySelect).
		Joins("JOIN treatment_records ON treatment_records.appointment_id = appointments.id").
		Joins("JOIN users ON users.id = appointments.doctor_id").
		Joins("LEFT JOIN departments ON departments.id = users.department_id").
		Order("appointments.date DESC, appointments.id DESC")
}

// DoctorPatientHistory lists one patient's visits with one doctor. Used
// scoped by the logged-in doctor and, unrestricted, by the admin view.
func DoctorPatientHistory(db *gorm.DB, doctorID, patientID uint) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := historyQuery(db).
		Where("appointments.doctor_id = ? AND appointments.patient_id = ?", doctorID, patientID).
		Scan(&entries).Error
	return entries, err
}

// PatientHistory lists the patient's visits across all doctors.
func PatientHistory(db *gorm.DB, patientID uint) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := historyQuery(db).
		Where("appointments.patient_id = ?", patientID).
		Scan(&entries).Error
	return entries, err
}
