package Controllers

import (
	"net/http"
	"time"

	"HospitalMS/Middleware"
	"HospitalMS/Models"
	"HospitalMS/SSE"

	"github.com/gin-gonic/gin"
)

// FetchDepartments lists all departments.
func FetchDepartments(c *gin.Context) {
	var departments []Models.Department
	if err := Models.DB.Find(&departments).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, departments)
}

// FetchDepartmentDetail returns one department with its active doctors.
func FetchDepartmentDetail(c *gin.Context) {
	var input struct {
		ID uint `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var department Models.Department
	if err := Models.DB.First(&department, input.ID).Error; err != nil {
		respondTransitionError(c, err)
		return
	}

	var doctors []Models.User
	if err := Models.DB.Where("role = ? AND department_id = ? AND is_active = ?", Models.RoleDoctor, department.ID, true).
		Find(&doctors).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for index := range doctors {
		doctors[index].PrepareGive()
	}

	c.JSON(http.StatusOK, gin.H{"department": department, "doctors": doctors})
}

// FetchActiveDoctors is the patient-facing doctor directory with
// optional specialization and department filters.
func FetchActiveDoctors(c *gin.Context) {
	query := Models.DB.Model(&Models.User{}).
		Where("role = ? AND is_active = ?", Models.RoleDoctor, true)

	if specialization := c.Query("specialization"); specialization != "" {
		query = query.Where("specialization ILIKE ?", "%"+specialization+"%")
	}
	if departmentID := c.Query("department_id"); departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}

	var doctors []Models.User
	if err := query.Order("full_name").Find(&doctors).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for index := range doctors {
		doctors[index].PrepareGive()
	}
	c.JSON(http.StatusOK, doctors)
}

// FetchDoctorProfile returns a single active doctor's public profile.
func FetchDoctorProfile(c *gin.Context) {
	var input struct {
		DoctorID uint `json:"doctor_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var doctor Models.User
	if err := Models.DB.Where("id = ? AND role = ? AND is_active = ?", input.DoctorID, Models.RoleDoctor, true).
		First(&doctor).Error; err != nil {
		respondTransitionError(c, err)
		return
	}
	doctor.PrepareGive()
	c.JSON(http.StatusOK, doctor)
}

// FetchDoctorAvailability shows a doctor's slots for the next 7 days,
// both open and already booked, so the grid renders completely.
func FetchDoctorAvailability(c *gin.Context) {
	var input struct {
		DoctorID uint `json:"doctor_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var doctor Models.User
	if err := Models.DB.Where("id = ? AND role = ? AND is_active = ?", input.DoctorID, Models.RoleDoctor, true).
		First(&doctor).Error; err != nil {
		respondTransitionError(c, err)
		return
	}

	slots, err := Models.WeeklyPlanner(Models.DB, input.DoctorID, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, slots)
}

// BookAppointment claims an open slot for the logged-in patient. The
// losing side of a booking race gets a conflict, never a second row.
func BookAppointment(c *gin.Context) {
	patient, ok := Middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		AvailabilityID uint   `json:"availability_id" binding:"required"`
		Reason         string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appointment, err := Models.BookSlot(Models.DB, patient, input.AvailabilityID, input.Reason)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	SSE.Broadcaster.Broadcast("refresh")
	c.JSON(http.StatusOK, gin.H{
		"message":        "Appointment booked successfully",
		"appointment_id": appointment.ID,
	})
}

// CancelPatientAppointment cancels the patient's own Booked appointment
// and reopens the slot for others.
func CancelPatientAppointment(c *gin.Context) {
	patient, ok := Middleware.CurrentUser(c)
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

	if err := Models.CancelAppointment(Models.DB, input.AppointmentID, patient); err != nil {
		respondTransitionError(c, err)
		return
	}

	SSE.Broadcaster.Broadcast("refresh")
	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled"})
}

// PatientDashboard returns upcoming bookings and past visits.
func PatientDashboard(c *gin.Context) {
	patient, ok := Middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var upcoming []Models.Appointment
	if err := Models.DB.Model(&Models.Appointment{}).
		Where("patient_id = ? AND status = ? AND date >= ?", patient.ID, Models.StatusBooked, today()).
		Order("date ASC").
		Find(&upcoming).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var past []Models.Appointment
	if err := Models.DB.Model(&Models.Appointment{}).
		Where("patient_id = ? AND date < ?", patient.ID, today()).
		Order("date DESC").
		Find(&past).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := Models.AttachNames(Models.DB, upcoming); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Models.AttachNames(Models.DB, past); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"upcoming": upcoming, "history": past})
}

// FetchPatientHistory lists the logged-in patient's visits across all
// doctors, joined with treatment records and department details.
func FetchPatientHistory(c *gin.Context) {
	patient, ok := Middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	history, err := Models.PatientHistory(Models.DB, patient.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, history)
}
