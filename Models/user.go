package Models

import (
	"HospitalMS/Utils/Token"
	"errors"
	"html"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RolePatient = "patient"

	DefaultAdminEmail = "admin@hms.local"
)

type User struct {
	gorm.Model
	Role            string `json:"role" gorm:"size:20;not null"`
	FullName        string `json:"full_name" gorm:"size:120;not null"`
	Email           string `json:"email" gorm:"size:120;not null;unique"`
	Phone           string `json:"phone" gorm:"size:50"`
	Password        string `json:"password" gorm:"size:255;not null"`
	Specialization  string `json:"specialization" gorm:"size:120"`
	ExperienceYears int    `json:"experience_years"`
	Bio             string `json:"bio"`
	DepartmentID    *uint  `json:"department_id" gorm:"default:null"`
	IsActive        bool   `json:"is_active" gorm:"default:true"`
	IsBlacklisted   bool   `json:"is_blacklisted"`
}

func GetUserByID(db *gorm.DB, uid uint) (User, error) {
	var user User

	if err := db.First(&user, uid).Error; err != nil {
		return user, errors.New("user not found")
	}

	user.PrepareGive()

	return user, nil
}

// GetUserByRole loads a user and verifies it holds the expected role.
func GetUserByRole(db *gorm.DB, uid uint, role string) (User, error) {
	var user User
	if err := db.Where("id = ? AND role = ?", uid, role).First(&user).Error; err != nil {
		return user, err
	}
	user.PrepareGive()
	return user, nil
}

func (user *User) PrepareGive() {
	user.Password = ""
}

func VerifyPassword(password, hashedPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func LoginCheck(db *gorm.DB, email string, password string) (User, string, error) {

	var err error

	user := User{}

	err = db.Model(User{}).Where("email = ?", email).Take(&user).Error

	if err != nil {
		return User{}, "", err
	}

	err = VerifyPassword(password, user.Password)

	if err != nil {
		return User{}, "", err
	}

	token, err := Token.GenerateToken(user.ID, user.Role)

	if err != nil {
		return User{}, "", err
	}

	user.PrepareGive()
	return user, token, nil
}

func (user *User) SaveUser(db *gorm.DB) (*User, error) {

	if err := user.BeforeSave(); err != nil {
		return &User{}, err
	}

	if err := db.Create(&user).Error; err != nil {
		return &User{}, err
	}

	return user, nil
}

func (user *User) BeforeSave() error {

	// turn password into hash
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(user.Password)), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)

	// remove spaces in email
	user.Email = html.EscapeString(strings.TrimSpace(user.Email))

	return nil
}
