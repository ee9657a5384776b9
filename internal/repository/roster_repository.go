package repository

import (
	"context"

	"project-attendance-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RosterRepository interface {
	GetPIUsernames(ctx context.Context) ([]string, error)
	ListPIs(ctx context.Context) ([]model.PI, error)
	FindPI(ctx context.Context, username string) (*model.PI, error)
	FindUserByEmployeeNumber(ctx context.Context, employeeNumber string) (*model.User, error)
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUsersByProjects(ctx context.Context, projectCodes []string) ([]model.User, error)
	SyncPIs(ctx context.Context, pis []model.PI) (SyncResult, error)
}

type SyncResult struct {
	DeletedPIs       int64 `json:"deletedPis"`
	UpsertedPIs      int   `json:"upsertedPis"`
	DeletedRelations int64 `json:"deletedRelations"`
	CreatedRelations int   `json:"createdRelations"`
}

type rosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) RosterRepository {
	return &rosterRepository{db}
}

func (r *rosterRepository) GetPIUsernames(ctx context.Context) ([]string, error) {
	var usernames []string
	err := r.db.WithContext(ctx).Model(&model.PI{}).
		Order("username asc").
		Pluck("username", &usernames).Error
	return usernames, err
}

func (r *rosterRepository) ListPIs(ctx context.Context) ([]model.PI, error) {
	var pis []model.PI
	err := r.db.WithContext(ctx).Preload("Projects").Order("username asc").Find(&pis).Error
	return pis, err
}

func (r *rosterRepository) FindPI(ctx context.Context, username string) (*model.PI, error) {
	var pi model.PI
	err := r.db.WithContext(ctx).Preload("Projects").Where("username = ?", username).First(&pi).Error
	if err != nil {
		return nil, err
	}
	return &pi, nil
}

func (r *rosterRepository) FindUserByEmployeeNumber(ctx context.Context, employeeNumber string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("employee_number = ?", employeeNumber).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *rosterRepository) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsersByProjects returns staff attached to any of the projects, ordered by
// username, with only the matching project links preloaded.
func (r *rosterRepository) GetUsersByProjects(ctx context.Context, projectCodes []string) ([]model.User, error) {
	var users []model.User
	if len(projectCodes) == 0 {
		return users, nil
	}
	db := r.db.WithContext(ctx)
	members := db.Model(&model.UserProject{}).Select("employee_number").Where("project_code IN ?", projectCodes)
	err := db.
		Where("employee_number IN (?)", members).
		Preload("UserProjects", "project_code IN ?", projectCodes).
		Preload("UserProjects.Project").
		Order("username asc").
		Find(&users).Error
	return users, err
}

// SyncPIs makes the local PI table mirror pis in one transaction: stale PIs are
// removed, the rest upserted, and every PI-project link is rebuilt.
func (r *rosterRepository) SyncPIs(ctx context.Context, pis []model.PI) (SyncResult, error) {
	var result SyncResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		usernames := make([]string, 0, len(pis))
		for _, pi := range pis {
			usernames = append(usernames, pi.Username)
		}

		stale := tx.Where("1 = 1")
		if len(usernames) > 0 {
			stale = tx.Where("username NOT IN ?", usernames)
		}
		res := stale.Delete(&model.PI{})
		if res.Error != nil {
			return res.Error
		}
		result.DeletedPIs = res.RowsAffected

		for _, pi := range pis {
			row := model.PI{Username: pi.Username, Email: pi.Email}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "username"}},
				DoUpdates: clause.AssignmentColumns([]string{"email"}),
			}).Omit("Projects").Create(&row).Error; err != nil {
				return err
			}
			result.UpsertedPIs++
		}

		res = tx.Where("1 = 1").Delete(&model.PIProjectRelation{})
		if res.Error != nil {
			return res.Error
		}
		result.DeletedRelations = res.RowsAffected

		var relations []model.PIProjectRelation
		for _, pi := range pis {
			for _, rel := range pi.Projects {
				relations = append(relations, model.PIProjectRelation{Username: pi.Username, ProjectCode: rel.ProjectCode})
			}
		}
		if len(relations) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&relations).Error; err != nil {
				return err
			}
		}
		result.CreatedRelations = len(relations)
		return nil
	})
	return result, err
}
