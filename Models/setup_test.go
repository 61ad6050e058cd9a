package Models

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := MigrateAll(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func createTestDoctor(t *testing.T, db *gorm.DB, email string) User {
	t.Helper()

	doctor := User{
		Role:           RoleDoctor,
		FullName:       "Dr. Test",
		Email:          email,
		Password:       "doctor123",
		Specialization: "Cardiology",
		IsActive:       true,
	}
	if _, err := doctor.SaveUser(db); err != nil {
		t.Fatalf("creating test doctor: %v", err)
	}
	return doctor
}

func createTestPatient(t *testing.T, db *gorm.DB, email string) User {
	t.Helper()

	patient := User{
		Role:     RolePatient,
		FullName: "Test Patient",
		Email:    email,
		Password: "patient123",
		IsActive: true,
	}
	if _, err := patient.SaveUser(db); err != nil {
		t.Fatalf("creating test patient: %v", err)
	}
	return patient
}

func createOpenSlot(t *testing.T, db *gorm.DB, doctorID uint, day, label string) DoctorAvailability {
	t.Helper()

	slot := DoctorAvailability{
		DoctorID:  doctorID,
		Day:       day,
		SlotLabel: label,
		IsOpen:    true,
	}
	if err := db.Create(&slot).Error; err != nil {
		t.Fatalf("creating test slot: %v", err)
	}
	return slot
}
