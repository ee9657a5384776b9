package model

import "time"

// Calendar flags a single date as holiday and/or weekend.
type Calendar struct {
	Date        time.Time `json:"date" gorm:"primaryKey;type:date"`
	IsHoliday   bool      `json:"isHoliday"`
	IsWeekend   bool      `json:"isWeekend"`
	Description string    `json:"description"`
}

func (Calendar) TableName() string {
	return "calendars"
}
