package Controllers

import (
	"log"
	"net/http"
	"time"

	"HospitalMS/Middleware"
	"HospitalMS/Models"
	"HospitalMS/SSE"

	"github.com/gin-gonic/gin"
)

// FetchWeeklyPlanner returns the logged-in doctor's slots for the next
// seven days.
func FetchWeeklyPlanner(c *gin.Context) {
	doctor, ok := Middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	slots, err := Models.WeeklyPlanner(Models.DB, doctor.ID, time.Now())
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, slots)
}

// SubmitWeeklyPlanner replaces the doctor's 7-day grid with the
// submitted set. Slots holding an active booking are left untouched.
func SubmitWeeklyPlanner(c *gin.Context) {
	doctor, ok := Middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		Entries []Models.PlannerEntry `json:"entries"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := Models.ReplaceWeeklyPlanner(Models.DB, doctor.ID, time.Now(), input.Entries); err != nil {
		respondTransitionError(c, err)
		return
	}

	SSE.Broadcaster.Broadcast("refresh")
	c.JSON(http.StatusOK, gin.H{"message": "Availability updated for next 7 days"})
}

// FetchDoctorAppointments lists the doctor's upcoming appointments.
func FetchDoctorAppointments(c *gin.Context) {
	doctor, ok := Middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var appointments []Models.Appointment
	if err := Models.DB.Model(&Models.Appointment{}).
		Where("doctor_id = ? AND date >= ?", doctor.ID, today()).
		Order("date ASC").
		Find(&appointments).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Models.AttachNames(Models.DB, appointments); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, appointments)
}

// DoctorDashboard bundles the upcoming visits, recent activity, treated
// patients and the appointment timeline feed.
func DoctorDashboard(c *gin.Context) {
	doctor, ok := Middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var upcoming []Models.Appointment
	if err := Models.DB.Model(&Models.Appointment{}).
		Where("doctor_id = ? AND status = ? AND date >= ?", doctor.ID, Models.StatusBooked, today()).
		Order("date ASC").
		Find(&upcoming).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var recent []Models.Appointment
	if err := Models.DB.Model(&Models.Appointment{}).
		Where("doctor_id = ? AND status IN ?", doctor.ID, []string{Models.StatusCancelled, Models.StatusCompleted}).
		Order("updated_at DESC").
		Limit(5).
		Find(&recent).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var timeline []Models.TimelineEvent
	if err := Models.DB.Model(&Models.TimelineEvent{}).
		Joins("JOIN appointments ON appointments.id = timeline_events.appointment_id").
		Where("appointments.doctor_id = ?", doctor.ID).
		Order("timeline_events.created_at DESC").
		Limit(10).
		Find(&timeline).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patients, err := assignedPatients(doctor.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := Models.AttachNames(Models.DB, upcoming); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Models.AttachNames(Models.DB, recent); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upcoming":        upcoming,
		"recent_activity": recent,
		"timeline_events": timeline,
		"patients":        patients,
	})
}

func assignedPatients(doctorID uint) ([]Models.User, error) {
	var patients []Models.User
	err := Models.DB.Model(&Models.User{}).
		Select("DISTINCT users.id, users.full_name, users.email, users.phone").
		Joins("JOIN appointments ON appointments.patient_id = users.id").
		Where("appointments.doctor_id = ?", doctorID).
		Find(&patients).Error
	return patients, err
}

// FetchAssignedPatients lists every patient who ever had an appointment
// with the logged-in doctor.
func FetchAssignedPatients(c *gin.Context) {
	doctor, ok := Middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	patients, err := assignedPatients(doctor.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, patients)
}

// MarkAppointmentAsCompleted moves a Booked appointment to Completed,
// creating a default treatment record when none was saved.
func MarkAppointmentAsCompleted(c *gin.Context) {
	doctor, ok := Middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		AppointmentID uint `json:"appointment_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := Models.CompleteAppointment(Models.DB, input.AppointmentID, doctor); err != nil {
		respondTransitionError(c, err)
		return
	}

	SSE.Broadcaster.Broadcast("refresh")
	c.JSON(http.StatusOK, gin.H{"message": "Appointment marked as completed"})
}

// CancelDoctorAppointment cancels one of the doctor's own appointments
// and reopens the slot.
func CancelDoctorAppointment(c *gin.Context) {
	doctor, ok := Middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		AppointmentID uint `json:"appointment_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := Models.CancelAppointment(Models.DB, input.AppointmentID, doctor); err != nil {
		respondTransitionError(c, err)
		return
	}

	SSE.Broadcaster.Broadcast("refresh")
	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled"})
}

// SaveTreatment upserts the treatment details for an appointment owned
// by the logged-in doctor.
func SaveTreatment(c *gin.Context) {
	doctor, ok := Middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		AppointmentID uint `json:"appointment_id" binding:"required"`
		Models.TreatmentInput
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := Models.SaveTreatmentRecord(Models.DB, input.AppointmentID, doctor, input.TreatmentInput)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	SSE.Broadcaster.Broadcast("refresh")
	c.JSON(http.StatusOK, gin.H{"message": "Treatment record saved. Patient history has been updated.", "record": record})
}

// EditTreatment updates an existing treatment record without touching
// the appointment status.
func EditTreatment(c *gin.Context) {
	doctor, ok := Middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		AppointmentID uint `json:"appointment_id" binding:"required"`
		Models.TreatmentInput
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := Models.UpdateTreatmentRecord(Models.DB, input.AppointmentID, doctor, input.TreatmentInput)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Treatment record updated successfully", "record": record})
}

// FetchDoctorPatientHistory lists one patient's visits with the
// logged-in doctor only; other doctors' records never leak here.
func FetchDoctorPatientHistory(c *gin.Context) {
	doctor, ok := Middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		PatientID uint `json:"patient_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := Models.GetUserByRole(Models.DB, input.PatientID, Models.RolePatient); err != nil {
		respondTransitionError(c, err)
		return
	}

	history, err := Models.DoctorPatientHistory(Models.DB, doctor.ID, input.PatientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, history)
}
