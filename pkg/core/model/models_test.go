package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequiredMonthlyHours(t *testing.T) {
	tests := []struct {
		employee Employee
		expected float64
	}{
		{Employee{EmploymentType: EmploymentFull}, 160},
		{Employee{EmploymentType: EmploymentThreeQuarter}, 120},
		{Employee{EmploymentType: EmploymentHalf}, 80},
		{Employee{EmploymentType: EmploymentOneThird}, 160.0 / 3},
		{Employee{EmploymentType: EmploymentCustom, CustomHours: 100}, 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.employee.RequiredMonthlyHours(160), string(tt.employee.EmploymentType))
	}
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Anna Kowalska", Employee{FirstName: "Anna", LastName: "Kowalska"}.FullName())
	assert.Equal(t, "Anna", Employee{FirstName: "Anna"}.FullName())
	assert.Equal(t, "Kowalska", Employee{LastName: "Kowalska"}.FullName())
}

func TestEmploymentTypeIsValid(t *testing.T) {
	assert.True(t, EmploymentFull.IsValid())
	assert.True(t, EmploymentCustom.IsValid())
	assert.False(t, EmploymentType("quarter").IsValid())
}

func TestAppliesOn(t *testing.T) {
	unrestricted := ShiftTemplate{ID: "t1"}
	assert.True(t, unrestricted.AppliesOn(time.Sunday))

	weekdaysOnly := ShiftTemplate{ID: "t2", Weekdays: []time.Weekday{time.Monday, time.Wednesday}}
	assert.True(t, weekdaysOnly.AppliesOn(time.Monday))
	assert.False(t, weekdaysOnly.AppliesOn(time.Tuesday))
}
