package store

import (
	"context"
	"fmt"
)

// CommitBatch applies every upsert staged under sessionID as one unit.
// The staged items are consumed whether or not the commit succeeds.
func (s *Store) CommitBatch(ctx context.Context, sessionID string) error {
	return s.ApplyBatch(ctx, s.Staging.GetAndClear(sessionID))
}

// ApplyBatch validates all items first (members, then projects, then tasks,
// with references resolved against the store and the batch itself) and only
// then writes them. On error the store is left untouched. The project/task
// index is rebuilt once and a single change event fires.
func (s *Store) ApplyBatch(ctx context.Context, items *StagedItems) error {
	if items == nil {
		return nil
	}

	s.mu.Lock()
	if err := s.prepareBatchLocked(items); err != nil {
		s.mu.Unlock()
		return err
	}

	// 1. Members
	for _, m := range items.Members {
		if err := s.upsertMemberLocked(m); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to apply staged member %s: %w", m.ID, err)
		}
	}

	// 2. Projects
	for _, p := range items.Projects {
		if err := s.upsertProjectLocked(p); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to apply staged project %s: %w", p.ID, err)
		}
	}

	// 3. Tasks
	for _, t := range items.Tasks {
		if err := s.upsertTaskLocked(t); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to apply staged task %s: %w", t.ID, err)
		}
	}

	s.rebuildLocked()
	s.mu.Unlock()

	s.logger.Debug("batch committed",
		"members", len(items.Members),
		"projects", len(items.Projects),
		"tasks", len(items.Tasks),
	)
	s.triggerChange(ctx)
	return nil
}

// prepareBatchLocked runs every check the apply phase would run, so that
// applying cannot fail halfway. Ids and timestamps are assigned on apply,
// leaving a rejected batch unmodified.
func (s *Store) prepareBatchLocked(items *StagedItems) error {
	pending := &refSet{
		members:  make(map[string]bool, len(items.Members)),
		projects: make(map[string]bool, len(items.Projects)),
	}

	for _, m := range items.Members {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("failed to stage member %s: %w", m.Name, err)
		}
		if m.ID != "" {
			pending.members[m.ID] = true
		}
	}

	for _, p := range items.Projects {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("failed to stage project %s: %w", p.Title, err)
		}
		if err := s.checkProjectRefs(p, pending); err != nil {
			return fmt.Errorf("failed to stage project %s: %w", p.Title, err)
		}
		if p.ID != "" {
			pending.projects[p.ID] = true
		}
	}

	for _, t := range items.Tasks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("failed to stage task %s: %w", t.Title, err)
		}
		if err := s.checkTaskRefs(t, pending); err != nil {
			return fmt.Errorf("failed to stage task %s: %w", t.Title, err)
		}
	}

	return nil
}
