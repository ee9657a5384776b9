package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FieldTrip marks an inclusive date range an employee spends off campus.
// Trips are never hard-deleted; IsActive=false is the tombstone.
type FieldTrip struct {
	FieldTripKey   string    `json:"fieldTripKey" gorm:"primaryKey;size:36"`
	EmployeeNumber string    `json:"employeeNumber" gorm:"size:64;index;not null"`
	StartDate      time.Time `json:"startDate" gorm:"type:date;not null"`
	EndDate        time.Time `json:"endDate" gorm:"type:date;not null;index"`
	Description    *string   `json:"description"`
	CreatedBy      string    `json:"createdBy"`
	IsActive       bool      `json:"isActive" gorm:"index"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	User *User `json:"user,omitempty" gorm:"foreignKey:EmployeeNumber;references:EmployeeNumber"`
}

func (f *FieldTrip) BeforeCreate(tx *gorm.DB) error {
	if f.FieldTripKey == "" {
		f.FieldTripKey = uuid.NewString()
	}
	return nil
}

// Covers reports whether day falls inside [StartDate, EndDate], the end date counting
// as the whole day.
func (f FieldTrip) Covers(day time.Time) bool {
	day = DateOnly(day)
	start := DateOnly(f.StartDate)
	endOfDay := DateOnly(f.EndDate).Add(24*time.Hour - time.Nanosecond)
	return !day.Before(start) && !day.After(endOfDay)
}
