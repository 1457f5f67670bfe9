package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zmiana/zmiana/internal/config"
	"github.com/zmiana/zmiana/pkg/core/model"
	"github.com/zmiana/zmiana/pkg/core/suggest"
)

// SuggestCoverResult contains the ranked candidate list for a vacancy
type SuggestCoverResult struct {
	Vacancy     suggest.Vacancy
	Suggestions []model.Suggestion
}

// SuggestCover ranks candidate employees to fill the given vacancy. When
// templateID is set, the vacancy's times are taken from the template;
// otherwise startTime/endTime describe a bespoke shift.
func SuggestCover(
	ctx context.Context,
	store SnapshotStore,
	cfg *config.Config,
	logger *zap.Logger,
	date, templateID, startTime, endTime string,
	breakMinutes int,
) (*SuggestCoverResult, error) {
	logger.Debug("Starting suggestCover",
		zap.String("date", date),
		zap.String("template_id", templateID))

	year, month, err := monthOf(date)
	if err != nil {
		return nil, err
	}

	snapshot, err := loadSnapshot(ctx, store, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule snapshot: %w", err)
	}

	vacancy := suggest.Vacancy{
		Date:         date,
		StartTime:    startTime,
		EndTime:      endTime,
		BreakMinutes: breakMinutes,
		TemplateID:   templateID,
	}
	if templateID != "" {
		template, err := findTemplate(snapshot.Templates, templateID)
		if err != nil {
			return nil, err
		}
		vacancy.StartTime = template.StartTime
		vacancy.EndTime = template.EndTime
		vacancy.BreakMinutes = template.BreakMinutes
	}

	rules := rulesFromConfig(cfg)
	suggestions, err := suggest.Rank(suggest.Input{
		Vacancy:      vacancy,
		Employees:    snapshot.Employees,
		ActiveShifts: snapshot.Shifts,
		Absences:     snapshot.Absences,
		Assignments:  snapshot.Assignments,
		Templates:    snapshot.Templates,
		Hours:        monthlyHours(snapshot, rules.FullTimeMonthlyHours),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rank candidates: %w", err)
	}

	logger.Info("Cover suggestions ranked",
		zap.String("date", date),
		zap.Int("candidates", len(suggestions)))

	return &SuggestCoverResult{Vacancy: vacancy, Suggestions: suggestions}, nil
}
