package schedule

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/zmiana/zmiana/pkg/core/calendar"
	"github.com/zmiana/zmiana/pkg/core/model"
)

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// TemplateOccurrences expands a template's applicable weekdays into the
// concrete dates of a month. A template without weekday restrictions occurs
// every day of the month.
func TemplateOccurrences(template model.ShiftTemplate, year, month int) ([]string, error) {
	first, last := calendar.MonthRange(year, month)

	option := rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: first,
		Until:   last,
	}
	if len(template.Weekdays) > 0 {
		option.Freq = rrule.WEEKLY
		for _, wd := range template.Weekdays {
			option.Byweekday = append(option.Byweekday, rruleWeekdays[wd])
		}
	}

	rule, err := rrule.NewRRule(option)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", template.ID, err)
	}

	occurrences := rule.All()
	dates := make([]string, 0, len(occurrences))
	for _, occ := range occurrences {
		dates = append(dates, calendar.FormatDate(occ))
	}
	return dates, nil
}
