package store

import (
	"sync"

	"github.com/ldi/taskdeck/pkg/models"
)

type StagedItems struct {
	Members  []*models.Member  `json:"members"`
	Projects []*models.Project `json:"projects"`
	Tasks    []*models.Task    `json:"tasks"`
}

func newStagedItems() *StagedItems {
	return &StagedItems{
		Members:  []*models.Member{},
		Projects: []*models.Project{},
		Tasks:    []*models.Task{},
	}
}

// StagingManager provides thread-safe in-memory storage for staged upserts,
// keyed by session id.
type StagingManager struct {
	mu     sync.RWMutex
	staged map[string]*StagedItems
}

func NewStagingManager() *StagingManager {
	return &StagingManager{
		staged: make(map[string]*StagedItems),
	}
}

func (sm *StagingManager) session(sessionID string) *StagedItems {
	if sm.staged[sessionID] == nil {
		sm.staged[sessionID] = newStagedItems()
	}
	return sm.staged[sessionID]
}

func (sm *StagingManager) AddMember(sessionID string, member *models.Member) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	items := sm.session(sessionID)
	items.Members = append(items.Members, member)
}

func (sm *StagingManager) AddProject(sessionID string, project *models.Project) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	items := sm.session(sessionID)
	items.Projects = append(items.Projects, project)
}

func (sm *StagingManager) AddTask(sessionID string, task *models.Task) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	items := sm.session(sessionID)
	items.Tasks = append(items.Tasks, task)
}

func (sm *StagingManager) GetAndClear(sessionID string) *StagedItems {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	items, ok := sm.staged[sessionID]
	if !ok {
		return newStagedItems()
	}

	delete(sm.staged, sessionID)
	return items
}

func (sm *StagingManager) Peek(sessionID string) *StagedItems {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	items, ok := sm.staged[sessionID]
	if !ok {
		return newStagedItems()
	}

	return &StagedItems{
		Members:  append([]*models.Member{}, items.Members...),
		Projects: append([]*models.Project{}, items.Projects...),
		Tasks:    append([]*models.Task{}, items.Tasks...),
	}
}
