package CronJobs

import (
	"log"
	"time"

	"HospitalMS/Models"

	"github.com/go-co-op/gocron"
	"gorm.io/gorm"
)

// AvailabilityJanitor closes availability slots whose day has passed so
// stale entries can never be booked.
type AvailabilityJanitor struct {
	DB *gorm.DB
}

func NewAvailabilityJanitor(db *gorm.DB) *AvailabilityJanitor {
	return &AvailabilityJanitor{
		DB: db,
	}
}

// StartJanitorCron sweeps once at startup and then nightly.
func (aj *AvailabilityJanitor) StartJanitorCron() *gocron.Scheduler {
	scheduler := gocron.NewScheduler(time.Local)

	scheduler.Every(1).Day().At("00:15").Do(func() {
		if err := aj.Sweep(); err != nil {
			log.Printf("Error closing expired slots: %v", err)
		}
	})

	scheduler.StartAsync()
	log.Println("Availability janitor cron job started")

	if err := aj.Sweep(); err != nil {
		log.Printf("Error closing expired slots: %v", err)
	}

	return scheduler
}

func (aj *AvailabilityJanitor) Sweep() error {
	today := time.Now().Format(Models.DayFormat)
	closed, err := Models.CloseExpiredSlots(aj.DB, today)
	if err != nil {
		return err
	}
	if closed > 0 {
		log.Printf("Closed %d expired availability slots", closed)
	}
	return nil
}
