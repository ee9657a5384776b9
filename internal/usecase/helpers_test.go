package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"project-attendance-backend/config"
	"project-attendance-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := config.ConnectDB(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file:" + name + "?mode=memory&cache=shared",
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

// seedStaff creates users attached to projectCode.
func seedStaff(t *testing.T, db *gorm.DB, projectCode string, users ...model.User) {
	t.Helper()
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Project{ProjectCode: projectCode, Department: "Dept " + projectCode}).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	for _, u := range users {
		u := u
		if err := db.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
		link := model.UserProject{EmployeeNumber: u.EmployeeNumber, ProjectCode: projectCode}
		if err := db.Omit(clause.Associations).Create(&link).Error; err != nil {
			t.Fatalf("seed link: %v", err)
		}
	}
}

func seedPI(t *testing.T, db *gorm.DB, username string, projects ...string) {
	t.Helper()
	if err := db.Omit(clause.Associations).Create(&model.PI{Username: username, Email: username + "@example.org"}).Error; err != nil {
		t.Fatalf("seed PI: %v", err)
	}
	for _, code := range projects {
		if err := db.Create(&model.PIProjectRelation{Username: username, ProjectCode: code}).Error; err != nil {
			t.Fatalf("seed PI project: %v", err)
		}
	}
}

func seedAttendance(t *testing.T, db *gorm.DB, rows ...model.Attendance) {
	t.Helper()
	for _, a := range rows {
		a := a
		if err := db.Create(&a).Error; err != nil {
			t.Fatalf("seed attendance: %v", err)
		}
	}
}

func attendanceOf(t *testing.T, db *gorm.DB, employee string, date time.Time) *model.Attendance {
	t.Helper()
	var a model.Attendance
	err := db.Where("employee_number = ? AND date = ?", employee, model.DateOnly(date)).First(&a).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		t.Fatalf("load attendance: %v", err)
	}
	return &a
}

var bg = context.Background()
