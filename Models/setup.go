package Models

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDataBase() {

	err := godotenv.Load(".env")

	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	DbHost := os.Getenv("DB_HOST")
	DbUser := os.Getenv("DB_USER")
	DbPassword := os.Getenv("DB_PASSWORD")
	DbName := os.Getenv("DB_NAME")
	DbPort := os.Getenv("DB_PORT")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable", DbHost, DbUser, DbPassword, DbName, DbPort)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})

	if err != nil {
		log.Fatal("connection error:", err)
	}

	if err := MigrateAll(DB); err != nil {
		log.Fatal("migration error:", err)
	}

	if err := SeedDefaults(DB); err != nil {
		log.Fatal("seed error:", err)
	}
}

// MigrateAll migrates tables in dependency order so foreign keys resolve.
func MigrateAll(db *gorm.DB) error {
	// First models with no dependencies
	if err := db.AutoMigrate(&Department{}); err != nil {
		return err
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		return err
	}

	// Then models referencing users
	if err := db.AutoMigrate(&DoctorAvailability{}); err != nil {
		return err
	}
	if err := db.AutoMigrate(&Appointment{}); err != nil {
		return err
	}

	// Finally models referencing appointments
	if err := db.AutoMigrate(&TreatmentRecord{}); err != nil {
		return err
	}
	return db.AutoMigrate(&TimelineEvent{})
}

// SeedDefaults inserts the reference departments and the default admin
// account. Safe to run on every startup.
func SeedDefaults(db *gorm.DB) error {
	var existing []string
	if err := db.Model(&Department{}).Select("name").Find(&existing).Error; err != nil {
		return err
	}
	known := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		known[name] = struct{}{}
	}
	for _, dept := range DefaultDepartments() {
		if _, ok := known[dept.Name]; ok {
			continue
		}
		if err := db.Create(&dept).Error; err != nil {
			return err
		}
	}

	var count int64
	if err := db.Model(&User{}).Where("email = ?", DefaultAdminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		admin := User{
			Role:     RoleAdmin,
			FullName: "System Admin",
			Email:    DefaultAdminEmail,
			Phone:    "0000000000",
			Password: "admin123",
			IsActive: true,
		}
		if _, err := admin.SaveUser(db); err != nil {
			return err
		}
	}
	return nil
}
