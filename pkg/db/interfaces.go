// Package db defines the storage interfaces the services consume. The core
// never touches these; it only sees in-memory snapshots loaded through them.
package db

import (
	"context"

	"github.com/zmiana/zmiana/pkg/core/model"
	"github.com/zmiana/zmiana/pkg/core/schedule"
)

// Database defines the full set of storage operations.
// postgres.DB implements this interface.
type Database interface {
	GetEmployees(ctx context.Context) ([]model.Employee, error)
	GetTemplates(ctx context.Context) ([]model.ShiftTemplate, error)
	GetTemplateAssignments(ctx context.Context) ([]model.TemplateAssignment, error)
	GetAbsences(ctx context.Context, from, to string) ([]model.Absence, error)
	GetShifts(ctx context.Context, from, to string) ([]model.Shift, error)
	ApplyShiftChanges(ctx context.Context, changes schedule.Changes) error
}
