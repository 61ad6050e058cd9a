package Controllers

import (
	"log"
	"net/http"

	"HospitalMS/Middleware"
	"HospitalMS/Models"
	"HospitalMS/Utils/Token"

	"github.com/gin-gonic/gin"
)

const sessionMaxAge = 3600 * 24

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterInput struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

// Register creates a patient account. Doctor accounts are created by the
// admin, never through self-registration.
func Register(c *gin.Context) {
	var input RegisterInput
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
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered. Please log in."})
		return
	}

	user := Models.User{
		Role:     Models.RolePatient,
		FullName: input.FullName,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: input.Password,
		IsActive: true,
	}
	if _, err := user.SaveUser(Models.DB); err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to register"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registration successful. Please log in."})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := Models.LoginCheck(Models.DB, input.Email, input.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email or password is incorrect."})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive. Contact the administrator."})
		return
	}
	if user.IsBlacklisted {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is blacklisted. Contact the administrator."})
		return
	}

	c.SetCookie(Token.CookieName, token, sessionMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Login Successful", "jwt": token, "role": user.Role})
}

func Logout(c *gin.Context) {
	c.SetCookie(Token.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func CurrentUser(c *gin.Context) {
	user, ok := Middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success", "data": user})
}

type ProfileInput struct {
	FullName        string `json:"full_name" binding:"required"`
	Phone           string `json:"phone"`
	Specialization  string `json:"specialization"`
	ExperienceYears int    `json:"experience_years"`
	Bio             string `json:"bio"`
	DepartmentID    *uint  `json:"department_id"`
}

// UpdateProfile lets any account edit its own contact fields; doctors
// may also maintain their clinical profile.
func UpdateProfile(c *gin.Context) {
	user, ok := Middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"full_name": input.FullName,
		"phone":     input.Phone,
	}
	if user.Role == Models.RoleDoctor {
		updates["specialization"] = input.Specialization
		updates["experience_years"] = input.ExperienceYears
		updates["bio"] = input.Bio
		updates["department_id"] = input.DepartmentID
	}

	if err := Models.DB.Model(&Models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

// Home is the public landing payload: departments plus headline counts.
func Home(c *gin.Context) {
	var departments []Models.Department
	if err := Models.DB.Find(&departments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var doctors, patients, appointments int64
	Models.DB.Model(&Models.User{}).Where("role = ?", Models.RoleDoctor).Count(&doctors)
	Models.DB.Model(&Models.User{}).Where("role = ?", Models.RolePatient).Count(&patients)
	Models.DB.Model(&Models.Appointment{}).Count(&appointments)

	c.JSON(http.StatusOK, gin.H{
		"departments": departments,
		"stats": gin.H{
			"doctors":      doctors,
			"patients":     patients,
			"appointments": appointments,
		},
	})
}
