package usecase

import (
	"context"
	"log"
	"time"

	"project-attendance-backend/internal/apperror"
	"project-attendance-backend/internal/model"
	"project-attendance-backend/internal/repository"
)

type SubmissionState string

const (
	StateNone      SubmissionState = "none"
	StateRequested SubmissionState = "requested"
	StateSubmitted SubmissionState = "submitted"
	StatePending   SubmissionState = "pending"
)

// Notifier tells a PI that HR is waiting for data.
type Notifier interface {
	NotifyDataRequest(ctx context.Context, pi model.PI, period model.Period) error
}

// StatisticsSource computes the per-user snapshot a PI submits.
type StatisticsSource interface {
	TeamStatistics(ctx context.Context, projectCodes []string, period model.Period) ([]model.UserStatistics, error)
}

type RequestOutcome struct {
	PI     string          `json:"pi"`
	Status SubmissionState `json:"status"`
	Error  string          `json:"error,omitempty"`
}

type SubmissionUsecase struct {
	store    repository.SubmissionStore
	roster   repository.RosterRepository
	stats    StatisticsSource
	notifier Notifier
	now      func() time.Time
}

// NewSubmissionUsecase wires the workflow. notifier may be nil.
func NewSubmissionUsecase(store repository.SubmissionStore, roster repository.RosterRepository, stats StatisticsSource, notifier Notifier) *SubmissionUsecase {
	return &SubmissionUsecase{
		store:    store,
		roster:   roster,
		stats:    stats,
		notifier: notifier,
		now:      time.Now,
	}
}

// Request records a data request for every PI, replacing an earlier request for the
// same period. A failure for one PI does not stop the others.
func (u *SubmissionUsecase) Request(ctx context.Context, pis []string, period model.Period) ([]RequestOutcome, error) {
	if len(pis) == 0 {
		return nil, apperror.InvalidInputf("at least one PI is required")
	}
	if !period.Valid() {
		return nil, apperror.InvalidInputf("invalid period %s", period.Key())
	}

	at := u.now()
	outcomes := make([]RequestOutcome, 0, len(pis))
	for _, username := range pis {
		if username == "" {
			outcomes = append(outcomes, RequestOutcome{Status: StateNone, Error: "empty PI username"})
			continue
		}
		if err := u.store.SaveRequest(ctx, username, period.Key(), at); err != nil {
			log.Printf("[SUBMISSION] request %s for %s failed: %v", period.Key(), username, err)
			outcomes = append(outcomes, RequestOutcome{PI: username, Status: StateNone, Error: err.Error()})
			continue
		}
		outcomes = append(outcomes, RequestOutcome{PI: username, Status: StateRequested})
		u.notify(ctx, username, period)
	}

	log.Printf("[SUBMISSION] HR requested %s from %d PI(s)", period.Key(), len(pis))
	return outcomes, nil
}

func (u *SubmissionUsecase) notify(ctx context.Context, username string, period model.Period) {
	if u.notifier == nil {
		return
	}
	pi, err := u.roster.FindPI(ctx, username)
	if err != nil {
		log.Printf("[SUBMISSION] no roster entry for %s, skipping notification: %v", username, err)
		return
	}
	if err := u.notifier.NotifyDataRequest(ctx, *pi, period); err != nil {
		log.Printf("[SUBMISSION] notifying %s failed: %v", username, err)
	}
}

// Submit stores stats as the PI's answer for period. It fails with a Conflict when HR
// has not requested that period.
func (u *SubmissionUsecase) Submit(ctx context.Context, pi string, period model.Period, stats []model.UserStatistics) error {
	if pi == "" {
		return apperror.InvalidInputf("PI username is required")
	}
	if !period.Valid() {
		return apperror.InvalidInputf("invalid period %s", period.Key())
	}

	if err := u.store.Submit(ctx, pi, period.Key(), stats, u.now()); err != nil {
		if apperror.KindOf(err) != apperror.Unknown {
			return err
		}
		return apperror.Wrap(apperror.UpstreamUnavailable, err, "saving submission")
	}
	log.Printf("[SUBMISSION] %s submitted %s with %d user(s)", pi, period.Key(), len(stats))
	return nil
}

// SubmitTeam aggregates the team of the PI over period and submits it. When
// projectCodes is empty the PI's roster projects are used.
func (u *SubmissionUsecase) SubmitTeam(ctx context.Context, pi string, projectCodes []string, period model.Period) ([]model.UserStatistics, error) {
	if !period.Valid() {
		return nil, apperror.InvalidInputf("invalid period %s", period.Key())
	}
	requested, err := u.store.HasRequest(ctx, pi, period.Key())
	if err != nil {
		return nil, apperror.Wrap(apperror.UpstreamUnavailable, err, "reading requests")
	}
	if !requested {
		return nil, apperror.Conflictf("no active data request from HR for %s", period.Key())
	}

	if len(projectCodes) == 0 {
		record, err := u.roster.FindPI(ctx, pi)
		if err != nil {
			return nil, apperror.FromGorm(err, "PI "+pi)
		}
		projectCodes = record.ProjectCodes()
	}
	if len(projectCodes) == 0 {
		return nil, apperror.InvalidInputf("PI %s has no projects", pi)
	}

	stats, err := u.stats.TeamStatistics(ctx, projectCodes, period)
	if err != nil {
		return nil, err
	}
	if err := u.Submit(ctx, pi, period, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// Status derives the state of every roster PI for period.
func (u *SubmissionUsecase) Status(ctx context.Context, period model.Period) (map[string]SubmissionState, error) {
	if !period.Valid() {
		return nil, apperror.InvalidInputf("invalid period %s", period.Key())
	}
	pis, err := u.roster.GetPIUsernames(ctx)
	if err != nil {
		return nil, apperror.FromGorm(err, "PIs")
	}

	status := make(map[string]SubmissionState, len(pis))
	for _, pi := range pis {
		state, err := u.stateOf(ctx, pi, period.Key())
		if err != nil {
			return nil, err
		}
		status[pi] = state
	}
	return status, nil
}

func (u *SubmissionUsecase) stateOf(ctx context.Context, pi, key string) (SubmissionState, error) {
	stats, submitted, err := u.store.FindSubmission(ctx, pi, key)
	if err != nil {
		return StateNone, apperror.Wrap(apperror.UpstreamUnavailable, err, "reading submissions")
	}
	if submitted {
		if len(stats) > 0 {
			return StateSubmitted, nil
		}
		return StatePending, nil
	}

	requested, err := u.store.HasRequest(ctx, pi, key)
	if err != nil {
		return StateNone, apperror.Wrap(apperror.UpstreamUnavailable, err, "reading requests")
	}
	if requested {
		return StateRequested, nil
	}
	return StateNone, nil
}

// NotificationsFor lists the periods HR is still waiting on from pi.
func (u *SubmissionUsecase) NotificationsFor(ctx context.Context, pi string) ([]model.Period, error) {
	keys, err := u.store.RequestedPeriods(ctx, pi)
	if err != nil {
		return nil, apperror.Wrap(apperror.UpstreamUnavailable, err, "reading requests")
	}

	periods := make([]model.Period, 0, len(keys))
	for _, key := range keys {
		p, err := model.ParsePeriodKey(key)
		if err != nil {
			log.Printf("[SUBMISSION] skipping request %q for %s: %v", key, pi, err)
			continue
		}
		periods = append(periods, p)
	}
	return periods, nil
}

func (u *SubmissionUsecase) Snapshot(ctx context.Context, pi string, period model.Period) ([]model.UserStatistics, bool, error) {
	stats, ok, err := u.store.FindSubmission(ctx, pi, period.Key())
	if err != nil {
		return nil, false, apperror.Wrap(apperror.UpstreamUnavailable, err, "reading submissions")
	}
	return stats, ok, nil
}
