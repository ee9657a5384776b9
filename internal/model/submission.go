package model

import (
	"time"

	"gorm.io/datatypes"
)

// UserStatistics is the per-user snapshot a PI hands over to HR.
type UserStatistics struct {
	Username  string  `json:"username"`
	TotalDays float64 `json:"totalDays"`
}

// HRRequest marks a period HR has asked a PI to submit.
type HRRequest struct {
	PIUsername  string    `gorm:"column:pi_username;primaryKey;size:128"`
	PeriodKey   string    `gorm:"primaryKey;size:16"`
	RequestedAt time.Time `gorm:"not null"`
}

// PISubmission stores the submitted snapshot for a PI and period.
type PISubmission struct {
	PIUsername  string         `gorm:"column:pi_username;primaryKey;size:128"`
	PeriodKey   string         `gorm:"primaryKey;size:16"`
	SubmittedAt time.Time      `gorm:"not null"`
	Statistics  datatypes.JSON `gorm:"not null"`
}
