package Controllers

import (
	"log"
	"net/http"

	"HospitalMS/Models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DoctorInput struct {
	FullName        string `json:"full_name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
	Specialization  string `json:"specialization"`
	ExperienceYears int    `json:"experience_years"`
	Bio             string `json:"bio"`
	DepartmentID    *uint  `json:"department_id"`
	Password        string `json:"password"`
}

// RegisterDoctor creates a doctor account with a temporary password the
// doctor is expected to change from the profile page.
func RegisterDoctor(c *gin.Context) {
	var input DoctorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var count int64
	if err := Models.DB.Model(&Models.User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check email"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists. Choose a different email."})
		return
	}

	password := input.Password
	if password == "" {
		password = "doctor123"
	}

	doctor := Models.User{
		Role:            Models.RoleDoctor,
		FullName:        input.FullName,
		Email:           input.Email,
		Phone:           input.Phone,
		Specialization:  input.Specialization,
		ExperienceYears: input.ExperienceYears,
		Bio:             input.Bio,
		DepartmentID:    input.DepartmentID,
		Password:        password,
		IsActive:        true,
	}
	if _, err := doctor.SaveUser(Models.DB); err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed To Register Doctor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Doctor profile created", "doctor_id": doctor.ID})
}

// FetchDoctors lists doctors, optionally filtered by name or
// specialization via ?q=.
func FetchDoctors(c *gin.Context) {
	query := Models.DB.Model(&Models.User{}).Where("role = ?", Models.RoleDoctor)
	if search := c.Query("q"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("full_name ILIKE ? OR specialization ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
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

type UpdateDoctorInput struct {
	ID              uint   `json:"id" binding:"required"`
	FullName        string `json:"full_name" binding:"required"`
	Phone           string `json:"phone"`
	Specialization  string `json:"specialization"`
	ExperienceYears int    `json:"experience_years"`
	Bio             string `json:"bio"`
	DepartmentID    *uint  `json:"department_id"`
	IsActive        bool   `json:"is_active"`
}

func UpdateDoctor(c *gin.Context) {
	var input UpdateDoctorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doctor, err := Models.GetUserByRole(Models.DB, input.ID, Models.RoleDoctor)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	if err := Models.DB.Model(&Models.User{}).Where("id = ?", doctor.ID).Updates(map[string]interface{}{
		"full_name":        input.FullName,
		"phone":            input.Phone,
		"specialization":   input.Specialization,
		"experience_years": input.ExperienceYears,
		"bio":              input.Bio,
		"department_id":    input.DepartmentID,
		"is_active":        input.IsActive,
	}).Error; err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to update doctor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Doctor updated"})
}

// DeleteDoctor removes the doctor together with their appointments,
// treatment records and availability slots in one transaction.
func DeleteDoctor(c *gin.Context) {
	var input struct {
		ID uint `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doctor, err := Models.GetUserByRole(Models.DB, input.ID, Models.RoleDoctor)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	tx := Models.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := deleteAppointmentsFor(tx, "doctor_id = ?", doctor.ID); err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to delete appointments"})
		return
	}
	if err := tx.Where("doctor_id = ?", doctor.ID).Delete(&Models.DoctorAvailability{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to delete availability"})
		return
	}
	if err := tx.Unscoped().Delete(&Models.User{}, doctor.ID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to delete doctor"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Doctor and all related data deleted"})
}

// deleteAppointmentsFor hard-deletes appointments matching the condition
// plus their treatment records and timeline events.
func deleteAppointmentsFor(tx *gorm.DB, condition string, id uint) error {
	var appointmentIDs []uint
	if err := tx.Model(&Models.Appointment{}).Where(condition, id).Pluck("id", &appointmentIDs).Error; err != nil {
		return err
	}
	if len(appointmentIDs) == 0 {
		return nil
	}
	if err := tx.Where("appointment_id IN ?", appointmentIDs).Delete(&Models.TreatmentRecord{}).Error; err != nil {
		return err
	}
	if err := tx.Unscoped().Where("appointment_id IN ?", appointmentIDs).Delete(&Models.TimelineEvent{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Where("id IN ?", appointmentIDs).Delete(&Models.Appointment{}).Error
}

func ToggleDoctorBlacklist(c *gin.Context) {
	toggleBlacklist(c, Models.RoleDoctor)
}

func TogglePatientBlacklist(c *gin.Context) {
	toggleBlacklist(c, Models.RolePatient)
}

func toggleBlacklist(c *gin.Context, role string) {
	var input struct {
		ID uint `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user Models.User
	if err := Models.DB.Where("id = ? AND role = ?", input.ID, role).First(&user).Error; err != nil {
		respondTransitionError(c, err)
		return
	}

	if err := Models.DB.Model(&user).Update("is_blacklisted", !user.IsBlacklisted).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action := "blacklisted"
	if user.IsBlacklisted {
		action = "removed from blacklist"
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account " + action})
}

// FetchPatients lists patients, optionally filtered by name, email or
// phone via ?q=.
func FetchPatients(c *gin.Context) {
	query := Models.DB.Model(&Models.User{}).Where("role = ?", Models.RolePatient)
	if search := c.Query("q"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", pattern, pattern, pattern)
	}

	var patients []Models.User
	if err := query.Order("full_name").Find(&patients).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for index := range patients {
		patients[index].PrepareGive()
	}
	c.JSON(http.StatusOK, patients)
}

type UpdatePatientInput struct {
	ID       uint   `json:"id" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"is_active"`
}

func UpdatePatient(c *gin.Context) {
	var input UpdatePatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patient, err := Models.GetUserByRole(Models.DB, input.ID, Models.RolePatient)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	if err := Models.DB.Model(&Models.User{}).Where("id = ?", patient.ID).Updates(map[string]interface{}{
		"full_name": input.FullName,
		"phone":     input.Phone,
		"is_active": input.IsActive,
	}).Error; err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to update patient"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Patient profile updated"})
}

// DeletePatient removes the patient and all dependent appointment data
// in one transaction.
func DeletePatient(c *gin.Context) {
	var input struct {
		ID uint `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patient, err := Models.GetUserByRole(Models.DB, input.ID, Models.RolePatient)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	tx := Models.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := deleteAppointmentsFor(tx, "patient_id = ?", patient.ID); err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to delete appointments"})
		return
	}
	if err := tx.Unscoped().Delete(&Models.User{}, patient.ID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to delete patient"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Patient and all related data deleted"})
}

// FetchAllAppointments lists every appointment with an
// all/upcoming/past filter, newest first.
func FetchAllAppointments(c *gin.Context) {
	query := Models.DB.Model(&Models.Appointment{})
	switch c.DefaultQuery("filter", "all") {
	case "upcoming":
		query = query.Where("date >= ?", today())
	case "past":
		query = query.Where("date < ?", today())
	}

	var appointments []Models.Appointment
	if err := query.Order("date DESC, created_at DESC").Find(&appointments).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Models.AttachNames(Models.DB, appointments); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, appointments)
}

// AdminPatientHistory joins one (patient, doctor) pair's appointments
// with treatment records; the admin sees every doctor's records.
func AdminPatientHistory(c *gin.Context) {
	var input struct {
		PatientID uint `json:"patient_id" binding:"required"`
		DoctorID  uint `json:"doctor_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := Models.GetUserByRole(Models.DB, input.PatientID, Models.RolePatient); err != nil {
		respondTransitionError(c, err)
		return
	}
	if _, err := Models.GetUserByRole(Models.DB, input.DoctorID, Models.RoleDoctor); err != nil {
		respondTransitionError(c, err)
		return
	}

	history, err := Models.DoctorPatientHistory(Models.DB, input.DoctorID, input.PatientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, history)
}
