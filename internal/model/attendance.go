package model

import "time"

type AttendanceType string

const (
	AttendanceFullDay AttendanceType = "FULL_DAY"
	AttendanceHalfDay AttendanceType = "HALF_DAY"
)

type LocationType string

const (
	LocationCampus    LocationType = "CAMPUS"
	LocationFieldTrip LocationType = "FIELDTRIP"
)

type AttendanceSession string

const (
	SessionForenoon  AttendanceSession = "FN"
	SessionAfternoon AttendanceSession = "AN"
)

// Attendance is one record per employee per calendar date.
type Attendance struct {
	EmployeeNumber string    `json:"employeeNumber" gorm:"primaryKey;size:64"`
	Date           time.Time `json:"date" gorm:"primaryKey;type:date"`

	CheckinTime    *time.Time        `json:"checkinTime"`
	CheckoutTime   *time.Time        `json:"checkoutTime"` // nil after auto-completion
	SessionType    AttendanceSession `json:"sessionType" gorm:"size:8"`
	AttendanceType AttendanceType    `json:"attendanceType" gorm:"size:16;index"`
	LocationType   LocationType      `json:"locationType" gorm:"size:16"`

	TakenLocation   *string  `json:"takenLocation"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	County          *string  `json:"county"`
	State           *string  `json:"state"`
	Postcode        *string  `json:"postcode"`
	LocationAddress *string  `json:"locationAddress"`

	PhotoURL      *string `json:"photoUrl"`
	AudioURL      *string `json:"audioUrl"`
	AudioDuration *int    `json:"audioDuration"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a Attendance) IsCheckedOut() bool {
	return a.CheckoutTime != nil
}
