package database

import (
	"context"
	"fmt"
	"log"

	"project-attendance-backend/internal/model"
	"project-attendance-backend/internal/repository"
	"project-attendance-backend/internal/usecase"

	"gorm.io/gorm"
)

// SeedAll flags the weekends of year and loads a small sample roster. Running it
// again does not duplicate anything.
func SeedAll(ctx context.Context, db *gorm.DB, year int) error {
	db = db.WithContext(ctx)

	// 1. Weekend flags
	calendar := usecase.NewCalendarUsecase(repository.NewCalendarRepository(db))
	n, err := calendar.SeedWeekends(ctx, year)
	if err != nil {
		return fmt.Errorf("seed weekends: %w", err)
	}
	log.Printf("[SEED] %d weekend day(s) flagged for %d", n, year)

	// 2. Projects
	projects := []model.Project{
		{ProjectCode: "PRJ-001", Department: "Computer Science"},
		{ProjectCode: "PRJ-002", Department: "Electrical Engineering"},
	}
	for _, p := range projects {
		if err := db.FirstOrCreate(&p, model.Project{ProjectCode: p.ProjectCode}).Error; err != nil {
			return fmt.Errorf("seed project %s: %w", p.ProjectCode, err)
		}
	}

	// 3. Staff and their project links
	staff := []struct {
		user    model.User
		project string
	}{
		{model.User{EmployeeNumber: "EMP001", Username: "alice", EmpClass: "Research Associate", Email: "alice@example.org"}, "PRJ-001"},
		{model.User{EmployeeNumber: "EMP002", Username: "bob", EmpClass: "Project Assistant", Email: "bob@example.org"}, "PRJ-001"},
		{model.User{EmployeeNumber: "EMP003", Username: "carol", EmpClass: "Research Fellow", Email: "carol@example.org"}, "PRJ-002"},
	}
	for _, s := range staff {
		u := s.user
		if err := db.FirstOrCreate(&u, model.User{EmployeeNumber: u.EmployeeNumber}).Error; err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
		link := model.UserProject{EmployeeNumber: u.EmployeeNumber, ProjectCode: s.project}
		if err := db.Omit("Project").FirstOrCreate(&link, link).Error; err != nil {
			return fmt.Errorf("seed project link %s: %w", u.Username, err)
		}
	}

	// 4. PIs
	pis := []model.PIProjectRelation{
		{Username: "pi.sharma", ProjectCode: "PRJ-001"},
		{Username: "pi.rao", ProjectCode: "PRJ-002"},
	}
	for _, rel := range pis {
		pi := model.PI{Username: rel.Username, Email: rel.Username + "@example.org"}
		if err := db.Omit("Projects").FirstOrCreate(&pi, model.PI{Username: pi.Username}).Error; err != nil {
			return fmt.Errorf("seed PI %s: %w", pi.Username, err)
		}
		link := rel
		if err := db.FirstOrCreate(&link, rel).Error; err != nil {
			return fmt.Errorf("seed PI project %s: %w", rel.Username, err)
		}
	}
	log.Printf("[SEED] %d staff, %d PI(s) ready", len(staff), len(pis))
	return nil
}
