package ui

import (
	"sync"

	"github.com/google/uuid"

	"comparador/domain/catalog"
	"comparador/domain/table"
)

// Session holds the single-user state of the dashboard: the loaded tables,
// the catalog caches and the one-shot flash messages. All methods are safe
// for concurrent use.
type Session struct {
	mu sync.RWMutex

	ID string

	institutions []string
	datasetsOrg  string
	datasets     []catalog.Dataset
	resources    map[string][]catalog.Resource

	local  *table.Table
	remote *table.Table

	notice  string
	warning string
}

func NewSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		resources: make(map[string][]catalog.Resource),
	}
}

func (s *Session) Institutions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.institutions
}

func (s *Session) SetInstitutions(orgs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.institutions = orgs
}

// Datasets returns the cached dataset list and the organization it belongs to
func (s *Session) Datasets() (string, []catalog.Dataset) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.datasetsOrg, s.datasets
}

// SetDatasets caches the dataset list for one organization. Switching
// organizations invalidates the resource cache too.
func (s *Session) SetDatasets(org string, datasets []catalog.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.datasetsOrg != org {
		s.resources = make(map[string][]catalog.Resource)
	}
	s.datasetsOrg = org
	s.datasets = datasets
}

func (s *Session) Resources(datasetID string) ([]catalog.Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.resources[datasetID]
	return res, ok
}

func (s *Session) SetResources(datasetID string, resources []catalog.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[datasetID] = resources
}

func (s *Session) Local() *table.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.local
}

func (s *Session) SetLocal(t *table.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.local = t
}

func (s *Session) Remote() *table.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remote
}

func (s *Session) SetRemote(t *table.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remote = t
}

func (s *Session) SetNotice(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = msg
}

func (s *Session) SetWarning(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warning = msg
}

// TakeMessages returns and clears the flash messages
func (s *Session) TakeMessages() (notice, warning string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	notice, warning = s.notice, s.warning
	s.notice, s.warning = "", ""
	return notice, warning
}
