package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"project-attendance-backend/internal/apperror"
	"project-attendance-backend/internal/model"
)

type memorySubmissionStore struct {
	mu          sync.Mutex
	requests    map[string]map[string]time.Time
	submissions map[string]map[string][]model.UserStatistics
}

// NewMemorySubmissionStore keeps state for the lifetime of the process only. A single
// mutex guards both maps.
func NewMemorySubmissionStore() SubmissionStore {
	return &memorySubmissionStore{
		requests:    make(map[string]map[string]time.Time),
		submissions: make(map[string]map[string][]model.UserStatistics),
	}
}

func (s *memorySubmissionStore) SaveRequest(_ context.Context, pi, periodKey string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.requests[pi] == nil {
		s.requests[pi] = make(map[string]time.Time)
	}
	s.requests[pi][periodKey] = at
	return nil
}

func (s *memorySubmissionStore) HasRequest(_ context.Context, pi, periodKey string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.requests[pi][periodKey]
	return ok, nil
}

func (s *memorySubmissionStore) RequestedPeriods(_ context.Context, pi string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.requests[pi]))
	for key := range s.requests[pi] {
		keys = append(keys, key)
	}
	reqs := s.requests[pi]
	sort.Slice(keys, func(i, j int) bool {
		if reqs[keys[i]].Equal(reqs[keys[j]]) {
			return keys[i] < keys[j]
		}
		return reqs[keys[i]].Before(reqs[keys[j]])
	})
	return keys, nil
}

func (s *memorySubmissionStore) Submit(_ context.Context, pi, periodKey string, stats []model.UserStatistics, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[pi][periodKey]; !ok {
		return apperror.Conflictf("no active data request from HR for %s (%s)", pi, periodKey)
	}

	snapshot := make([]model.UserStatistics, len(stats))
	copy(snapshot, stats)

	if s.submissions[pi] == nil {
		s.submissions[pi] = make(map[string][]model.UserStatistics)
	}
	s.submissions[pi][periodKey] = snapshot
	delete(s.requests[pi], periodKey)
	return nil
}

func (s *memorySubmissionStore) FindSubmission(_ context.Context, pi, periodKey string) ([]model.UserStatistics, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, ok := s.submissions[pi][periodKey]
	if !ok {
		return nil, false, nil
	}
	out := make([]model.UserStatistics, len(stats))
	copy(out, stats)
	return out, true, nil
}
