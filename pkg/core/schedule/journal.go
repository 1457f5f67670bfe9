// Package schedule holds the in-memory editing model for a schedule period:
// the edit journal that accumulates pending changes before a batch save, and
// the expansion of template weekday rules into concrete dates.
package schedule

import (
	"github.com/google/uuid"

	"github.com/zmiana/zmiana/pkg/core/model"
)

// Journal is an explicit change-set of pending schedule edits: inserts,
// updates and deletes kept separately and reconciled against storage in one
// batch. Validators only ever see the Active view.
type Journal struct {
	inserts []model.Shift
	updates []model.Shift
	deletes []string

	insertIdx map[string]int
	updateIdx map[string]int
	deleted   map[string]bool
}

// NewJournal creates an empty edit journal
func NewJournal() *Journal {
	return &Journal{
		insertIdx: make(map[string]int),
		updateIdx: make(map[string]int),
		deleted:   make(map[string]bool),
	}
}

// Add records a new shift. A missing ID is assigned a fresh UUID.
// Returns the shift as recorded.
func (j *Journal) Add(shift model.Shift) model.Shift {
	if shift.ID == "" {
		shift.ID = uuid.NewString()
	}
	j.insertIdx[shift.ID] = len(j.inserts)
	j.inserts = append(j.inserts, shift)
	return shift
}

// Update records a modification to an existing shift. Updating a shift that
// was added in this session rewrites the pending insert instead.
func (j *Journal) Update(shift model.Shift) {
	if idx, ok := j.insertIdx[shift.ID]; ok {
		j.inserts[idx] = shift
		return
	}
	if idx, ok := j.updateIdx[shift.ID]; ok {
		j.updates[idx] = shift
		return
	}
	j.updateIdx[shift.ID] = len(j.updates)
	j.updates = append(j.updates, shift)
}

// Remove records a deletion. Removing a shift that was added in this session
// simply drops the pending insert; nothing reaches storage for it.
func (j *Journal) Remove(id string) {
	if idx, ok := j.insertIdx[id]; ok {
		delete(j.insertIdx, id)
		j.inserts = append(j.inserts[:idx], j.inserts[idx+1:]...)
		for shiftID, i := range j.insertIdx {
			if i > idx {
				j.insertIdx[shiftID] = i - 1
			}
		}
		return
	}
	if idx, ok := j.updateIdx[id]; ok {
		delete(j.updateIdx, id)
		j.updates = append(j.updates[:idx], j.updates[idx+1:]...)
		for shiftID, i := range j.updateIdx {
			if i > idx {
				j.updateIdx[shiftID] = i - 1
			}
		}
	}
	if j.deleted[id] {
		return
	}
	j.deleted[id] = true
	j.deletes = append(j.deletes, id)
}

// Active merges the journal onto the persisted base set and returns the
// shifts currently visible to validators: base minus deletions, with pending
// updates applied, plus pending inserts.
func (j *Journal) Active(base []model.Shift) []model.Shift {
	active := make([]model.Shift, 0, len(base)+len(j.inserts))
	for _, s := range base {
		if j.deleted[s.ID] {
			continue
		}
		if idx, ok := j.updateIdx[s.ID]; ok {
			active = append(active, j.updates[idx])
			continue
		}
		active = append(active, s)
	}
	active = append(active, j.inserts...)
	return active
}

// Changes is the batch handed to storage for reconciliation
type Changes struct {
	Inserts []model.Shift
	Updates []model.Shift
	Deletes []string
}

// Changes returns the accumulated change-set
func (j *Journal) Changes() Changes {
	return Changes{
		Inserts: j.inserts,
		Updates: j.updates,
		Deletes: j.deletes,
	}
}

// Empty reports whether the journal has no pending changes
func (j *Journal) Empty() bool {
	return len(j.inserts) == 0 && len(j.updates) == 0 && len(j.deletes) == 0
}
