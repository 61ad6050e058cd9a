package Models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	SlotMorning = "08:00 - 12:00 am"
	SlotEvening = "04:00 - 9:00 pm"

	DayFormat  = "2006-01-02"
	WindowDays = 7
)

// DoctorAvailability is one bookable (day, slot) unit of a doctor's week.
// No soft delete: planner submissions replace rows outright and the
// composite unique index must stay authoritative.
type DoctorAvailability struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	DoctorID  uint      `json:"doctor_id" gorm:"not null;uniqueIndex:uniq_slot_per_doctor"`
	Day       string    `json:"day" gorm:"size:10;not null;uniqueIndex:uniq_slot_per_doctor"`
	SlotLabel string    `json:"slot_label" gorm:"size:50;not null;uniqueIndex:uniq_slot_per_doctor"`
	IsOpen    bool      `json:"is_open" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PlannerEntry struct {
	Day       string `json:"day" binding:"required"`
	SlotLabel string `json:"slot_label" binding:"required"`
}

var ErrInvalidSlotLabel = errors.New("invalid slot label")

// WindowDates lists the days covered by a planner window, inclusive.
func WindowDates(start time.Time) []string {
	dates := make([]string, 0, WindowDays+1)
	for i := 0; i <= WindowDays; i++ {
		dates = append(dates, start.AddDate(0, 0, i).Format(DayFormat))
	}
	return dates
}

// ReplaceWeeklyPlanner overwrites the doctor's availability inside the
// window with exactly the submitted entries. Slots holding an active
// booking are pinned: they are neither removed nor reopened, whatever
// the submission says.
func ReplaceWeeklyPlanner(db *gorm.DB, doctorID uint, windowStart time.Time, entries []PlannerEntry) error {
	window := WindowDates(windowStart)
	windowEnd := window[len(window)-1]
	start := window[0]

	for _, entry := range entries {
		if entry.SlotLabel != SlotMorning && entry.SlotLabel != SlotEvening {
			return ErrInvalidSlotLabel
		}
		if entry.Day < start || entry.Day > windowEnd {
			return errors.New("day outside planner window")
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var booked []Appointment
		if err := tx.Model(&Appointment{}).
			Where("doctor_id = ? AND status = ? AND date >= ? AND date <= ?", doctorID, StatusBooked, start, windowEnd).
			Find(&booked).Error; err != nil {
			return err
		}
		pinned := make(map[string]struct{}, len(booked))
		for _, appt := range booked {
			pinned[appt.Date+"|"+appt.SlotLabel] = struct{}{}
		}

		// Clear everything in the window except pinned slots
		var current []DoctorAvailability
		if err := tx.Where("doctor_id = ? AND day >= ? AND day <= ?", doctorID, start, windowEnd).
			Find(&current).Error; err != nil {
			return err
		}
		for _, slot := range current {
			if _, ok := pinned[slot.Day+"|"+slot.SlotLabel]; ok {
				continue
			}
			if err := tx.Delete(&DoctorAvailability{}, slot.ID).Error; err != nil {
				return err
			}
		}

		for _, entry := range entries {
			if _, ok := pinned[entry.Day+"|"+entry.SlotLabel]; ok {
				continue
			}
			slot := DoctorAvailability{
				DoctorID:  doctorID,
				Day:       entry.Day,
				SlotLabel: entry.SlotLabel,
				IsOpen:    true,
			}
			if err := tx.Create(&slot).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// WeeklyPlanner returns the doctor's slots inside the window, oldest day first.
func WeeklyPlanner(db *gorm.DB, doctorID uint, windowStart time.Time) ([]DoctorAvailability, error) {
	window := WindowDates(windowStart)
	var slots []DoctorAvailability
	err := db.Where("doctor_id = ? AND day >= ? AND day <= ?", doctorID, window[0], window[len(window)-1]).
		Order("day asc, slot_label asc").
		Find(&slots).Error
	return slots, err
}

// OpenSlots returns only the still-bookable slots inside the window.
func OpenSlots(db *gorm.DB, doctorID uint, windowStart time.Time) ([]DoctorAvailability, error) {
	window := WindowDates(windowStart)
	var slots []DoctorAvailability
	err := db.Where("doctor_id = ? AND is_open = ? AND day >= ? AND day <= ?", doctorID, true, window[0], window[len(window)-1]).
		Order("day asc, slot_label asc").
		Find(&slots).Error
	return slots, err
}

// CloseExpiredSlots shuts open slots whose day already passed so stale
// entries cannot be booked. Used by the nightly janitor.
func CloseExpiredSlots(db *gorm.DB, today string) (int64, error) {
	res := db.Model(&DoctorAvailability{}).
		Where("is_open = ? AND day < ?", true, today).
		Update("is_open", false)
	return res.RowsAffected, res.Error
}
