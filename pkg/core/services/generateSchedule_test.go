package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zmiana/zmiana/internal/config"
	"github.com/zmiana/zmiana/pkg/clients/generatorclient"
	"github.com/zmiana/zmiana/pkg/core/model"
)

// mockGenerator implements GeneratorClient
type mockGenerator struct {
	request  generatorclient.GenerateRequest
	response *generatorclient.GenerateResponse
	err      error
}

func (m *mockGenerator) Generate(ctx context.Context, request generatorclient.GenerateRequest) (*generatorclient.GenerateResponse, error) {
	m.request = request
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func generateStore() *mockStore {
	two := 2
	return &mockStore{
		employees: []model.Employee{
			{ID: "e1", FirstName: "Anna", LastName: "Kowalska", EmploymentType: model.EmploymentFull},
			{ID: "e2", FirstName: "Piotr", LastName: "Nowak", EmploymentType: model.EmploymentHalf},
		},
		templates: []model.ShiftTemplate{
			{ID: "t-day", Name: "Day", StartTime: "08:00", EndTime: "16:00", MinEmployees: 1, MaxEmployees: &two},
		},
		assignments: []model.TemplateAssignment{
			{EmployeeID: "e1", TemplateID: "t-day"},
		},
	}
}

func TestGenerateSchedule_SavesAndScans(t *testing.T) {
	store := generateStore()
	client := &mockGenerator{
		response: &generatorclient.GenerateResponse{
			Success: true,
			Schedule: []generatorclient.GeneratedShift{
				{EmployeeID: "e1", Date: "2026-02-02", StartTime: "08:00", EndTime: "16:00"},
				// 12h shift the generator should not have produced
				{EmployeeID: "e2", Date: "2026-02-03", StartTime: "06:00", EndTime: "18:00"},
			},
		},
	}

	result, err := GenerateSchedule(context.Background(), store, client, nil, zap.NewNop(), 2026, 2, false)
	require.NoError(t, err)

	require.Len(t, result.Generated, 2)
	assert.NotEmpty(t, result.Generated[0].ID)
	assert.False(t, result.DryRun)

	// The generator's output still goes through the detector
	require.Len(t, result.Violations, 1)
	assert.Equal(t, model.ViolationDailyHours, result.Violations[0].Kind)

	require.Len(t, store.applied, 1)
	assert.Len(t, store.applied[0].Inserts, 2)
}

func TestGenerateSchedule_DryRunWritesNothing(t *testing.T) {
	store := generateStore()
	client := &mockGenerator{
		response: &generatorclient.GenerateResponse{
			Success: true,
			Schedule: []generatorclient.GeneratedShift{
				{EmployeeID: "e1", Date: "2026-02-02", StartTime: "08:00", EndTime: "16:00"},
			},
		},
	}

	result, err := GenerateSchedule(context.Background(), store, client, nil, zap.NewNop(), 2026, 2, true)
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Len(t, result.Generated, 1)
	assert.Empty(t, store.applied)
}

func TestGenerateSchedule_RequestCalendar(t *testing.T) {
	store := generateStore()
	client := &mockGenerator{response: &generatorclient.GenerateResponse{Success: true}}
	cfg := &config.Config{
		Holidays:       []string{"2026-02-11", "2026-06-04"},
		TradingSundays: []string{"2026-02-08"},
	}

	_, err := GenerateSchedule(context.Background(), store, client, cfg, zap.NewNop(), 2026, 2, true)
	require.NoError(t, err)

	request := client.request
	assert.Equal(t, 2026, request.Year)
	assert.Equal(t, 2, request.Month)

	// February 2026 has 20 weekdays; the holiday on the 11th is removed
	assert.Len(t, request.WorkDays, 19)
	assert.NotContains(t, request.WorkDays, "2026-02-11")
	assert.Equal(t, []string{"2026-02-07", "2026-02-14", "2026-02-21", "2026-02-28"}, request.SaturdayDays)
	assert.Equal(t, []string{"2026-02-11"}, request.Holidays, "only this month's holidays are sent")
	assert.Equal(t, []string{"2026-02-08"}, request.TradingSundays)

	require.Len(t, request.Employees, 2)
	assert.Equal(t, "Anna Kowalska", request.Employees[0].Name)
	assert.Equal(t, 160.0, request.Employees[0].RequiredHours)
	assert.Equal(t, []string{"t-day"}, request.Employees[0].TemplateIDs)
	assert.Equal(t, 80.0, request.Employees[1].RequiredHours)
	assert.Empty(t, request.Employees[1].TemplateIDs)

	require.Len(t, request.Templates, 1)
	assert.Equal(t, "t-day", request.Templates[0].ID)
	require.NotNil(t, request.Templates[0].MaxEmployees)
	assert.Equal(t, 2, *request.Templates[0].MaxEmployees)
}

func TestGenerateSchedule_GeneratorError(t *testing.T) {
	store := generateStore()
	client := &mockGenerator{err: errors.New("generation failed: not enough staff")}

	_, err := GenerateSchedule(context.Background(), store, client, nil, zap.NewNop(), 2026, 2, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not enough staff")
	assert.Empty(t, store.applied)
}
