package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zmiana/zmiana/internal/config"
	"github.com/zmiana/zmiana/pkg/core/compliance"
	"github.com/zmiana/zmiana/pkg/core/model"
)

// ReviewResult contains the full violation scan for a month
type ReviewResult struct {
	Year       int
	Month      int
	ShiftCount int
	Violations []model.Violation
	DataErrors []model.DataError
}

// ReviewSchedule loads the month's schedule snapshot and runs the
// schedule-wide violation detector over it
func ReviewSchedule(
	ctx context.Context,
	store SnapshotStore,
	cfg *config.Config,
	logger *zap.Logger,
	year, month int,
) (*ReviewResult, error) {
	logger.Debug("Starting reviewSchedule", zap.Int("year", year), zap.Int("month", month))

	snapshot, err := loadSnapshot(ctx, store, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule snapshot: %w", err)
	}
	logger.Debug("Snapshot loaded",
		zap.Int("employees", len(snapshot.Employees)),
		zap.Int("shifts", len(snapshot.Shifts)),
		zap.Int("absences", len(snapshot.Absences)))

	report := compliance.Detect(compliance.DetectInput{
		Shifts:    snapshot.Shifts,
		Employees: snapshot.Employees,
		Absences:  snapshot.Absences,
		Templates: snapshot.Templates,
		Rules:     rulesFromConfig(cfg),
	})

	for _, dataErr := range report.DataErrors {
		logger.Warn("Skipped employee during scan",
			zap.String("employee_id", dataErr.EmployeeID),
			zap.Error(dataErr.Err))
	}

	logger.Info("Schedule reviewed",
		zap.Int("year", year),
		zap.Int("month", month),
		zap.Int("violations", len(report.Violations)))

	return &ReviewResult{
		Year:       year,
		Month:      month,
		ShiftCount: len(snapshot.Shifts),
		Violations: report.Violations,
		DataErrors: report.DataErrors,
	}, nil
}
