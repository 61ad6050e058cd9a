package Models

import (
	"gorm.io/gorm"
)

type Department struct {
	gorm.Model
	Name        string `json:"name" gorm:"size:100;not null;unique"`
	Description string `json:"description"`
	Doctors     []User `json:"doctors,omitempty" gorm:"foreignKey:DepartmentID"`
}

// DefaultDepartments returns the reference departments seeded on startup.
func DefaultDepartments() []Department {
	return []Department{
		{Name: "Cardiology", Description: "Heart and blood vessel care."},
		{Name: "Neurology", Description: "Brain and nervous system."},
		{Name: "Oncology", Description: "Cancer diagnosis and treatment."},
		{Name: "Pediatrics", Description: "Child health and wellness."},
		{Name: "Orthopedics", Description: "Bone, joint, and muscle treatment."},
		{Name: "Dermatology", Description: "Skin, hair, and nail care."},
		{Name: "Psychiatry", Description: "Mental health and behavioral disorders."},
		{Name: "Gastroenterology", Description: "Digestive system and liver care."},
		{Name: "Ophthalmology", Description: "Eye and vision care."},
		{Name: "ENT", Description: "Ear, nose, and throat specialists."},
		{Name: "Urology", Description: "Urinary tract and male reproductive health."},
		{Name: "Gynecology", Description: "Women's reproductive health care."},
	}
}
