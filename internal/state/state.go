package state

import (
	"sync"
	"time"

	"survey-dashboard/internal/survey"

	"github.com/google/uuid"
)

// DataFrame represents a loaded CSV file (or database table) before normalisation
type DataFrame struct {
	Headers  []string
	Rows     [][]string
	FileName string
	Source   string // "csv" or "postgres"
}

// Dataset is a normalised upload. It lives until the next upload replaces it.
type Dataset struct {
	ID       string
	FileName string
	Source   string
	LoadedAt time.Time
	Table    *survey.Table
}

// AppState holds the single active dataset of the session
type AppState struct {
	mu      sync.RWMutex
	current *Dataset
}

func NewAppState() *AppState {
	return &AppState{}
}

// Replace discards the current dataset and installs a new one under a fresh ID
func (s *AppState) Replace(fileName, source string, table *survey.Table) *Dataset {
	ds := &Dataset{
		ID:       uuid.NewString(),
		FileName: fileName,
		Source:   source,
		LoadedAt: time.Now().UTC(),
		Table:    table,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ds
	return ds
}

// Current returns the active dataset, or nil
func (s *AppState) Current() *Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Get returns the active dataset if its ID matches. IDs of replaced uploads
// are not found.
func (s *AppState) Get(id string) (*Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil || s.current.ID != id {
		return nil, false
	}
	return s.current, true
}

// Clear drops the active dataset
func (s *AppState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}
