package model

// User is a project staff member. The roster provider owns this data.
type User struct {
	EmployeeNumber string `json:"employeeNumber" gorm:"primaryKey;size:64"`
	Username       string `json:"username" gorm:"size:128;uniqueIndex;not null"`
	EmpClass       string `json:"empClass" gorm:"size:64"`
	Email          string `json:"email"`

	// Relations
	UserProjects []UserProject `json:"userProjects,omitempty" gorm:"foreignKey:EmployeeNumber;references:EmployeeNumber"`
	Attendances  []Attendance  `json:"attendances,omitempty" gorm:"foreignKey:EmployeeNumber;references:EmployeeNumber"`
	FieldTrips   []FieldTrip   `json:"fieldTrips,omitempty" gorm:"foreignKey:EmployeeNumber;references:EmployeeNumber"`
}

type Project struct {
	ProjectCode string `json:"projectCode" gorm:"primaryKey;size:64"`
	Department  string `json:"department"`
}

type UserProject struct {
	EmployeeNumber string  `json:"employeeNumber" gorm:"primaryKey;size:64"`
	ProjectCode    string  `json:"projectCode" gorm:"primaryKey;size:64"`
	Project        Project `json:"project" gorm:"foreignKey:ProjectCode;references:ProjectCode"`
}
