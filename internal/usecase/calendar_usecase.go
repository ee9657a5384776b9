package usecase

import (
	"context"
	"log"
	"time"

	"project-attendance-backend/internal/apperror"
	"project-attendance-backend/internal/model"
	"project-attendance-backend/internal/repository"
)

type CalendarUsecase struct {
	repo repository.CalendarRepository
}

func NewCalendarUsecase(repo repository.CalendarRepository) *CalendarUsecase {
	return &CalendarUsecase{repo: repo}
}

// WorkingDays returns day-of-month(end) minus the holiday-or-weekend dates in
// [start, end]. Callers pass the last day of a month as end. The result is not
// clamped: a calendar with more flagged dates than days yields a negative count.
func (u *CalendarUsecase) WorkingDays(ctx context.Context, start, end time.Time) (int, error) {
	start, end = model.DateOnly(start), model.DateOnly(end)
	if end.Before(start) {
		return 0, apperror.InvalidInputf("end date %s is before start date %s", end.Format(model.DateLayout), start.Format(model.DateLayout))
	}

	totalDays := end.Day()
	nonWorking, err := u.repo.CountNonWorking(ctx, start, end)
	if err != nil {
		return 0, apperror.FromGorm(err, "calendar")
	}

	workingDays := totalDays - int(nonWorking)
	log.Printf("[CALENDAR] %s..%s total=%d holidaysAndWeekends=%d workingDays=%d",
		start.Format(model.DateLayout), end.Format(model.DateLayout), totalDays, nonWorking, workingDays)
	return workingDays, nil
}

func (u *CalendarUsecase) WorkingDaysForPeriod(ctx context.Context, period model.Period) (int, error) {
	if !period.Valid() {
		return 0, apperror.InvalidInputf("invalid period %s", period.Key())
	}
	start, end := period.Range()
	return u.WorkingDays(ctx, start, end)
}

func (u *CalendarUsecase) Days(ctx context.Context, period model.Period) ([]model.Calendar, error) {
	if !period.Valid() {
		return nil, apperror.InvalidInputf("invalid period %s", period.Key())
	}
	start, end := period.Range()
	days, err := u.repo.GetBetween(ctx, start, end)
	return days, apperror.FromGorm(err, "calendar")
}

func (u *CalendarUsecase) SetDays(ctx context.Context, days []model.Calendar) error {
	if len(days) == 0 {
		return apperror.InvalidInputf("at least one calendar day is required")
	}
	return apperror.FromGorm(u.repo.Upsert(ctx, days), "calendar")
}

func (u *CalendarUsecase) DeleteDay(ctx context.Context, date time.Time) error {
	deleted, err := u.repo.Delete(ctx, date)
	if err != nil {
		return apperror.FromGorm(err, "calendar")
	}
	if !deleted {
		return apperror.NotFoundf("calendar day %s not found", model.DateOnly(date).Format(model.DateLayout))
	}
	return nil
}

// SeedWeekends flags every Saturday and Sunday of year as weekend. Existing holiday
// flags on those dates are overwritten, so run it before entering holidays.
func (u *CalendarUsecase) SeedWeekends(ctx context.Context, year int) (int, error) {
	var days []model.Calendar
	for d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC); d.Year() == year; d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			days = append(days, model.Calendar{Date: d, IsWeekend: true, Description: wd.String()})
		}
	}
	if err := u.repo.Upsert(ctx, days); err != nil {
		return 0, apperror.FromGorm(err, "calendar")
	}
	return len(days), nil
}
