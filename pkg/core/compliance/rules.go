// Package compliance implements the Polish labour-law checks over a work
// schedule: single-assignment blocking validation, the non-blocking rest
// advisory, and the schedule-wide violation scan.
package compliance

// =============================================================================
// LABOUR RULES CONFIGURATION
// =============================================================================
// Thresholds follow the Polish Kodeks Pracy. The consecutive-days limit and
// the full-time monthly baseline are recommendations and can be overridden
// through application config; the rest are statutory.
// =============================================================================

const (
	// MinDailyRestHours - minimum continuous rest between two shifts
	// of the same employee (art. 132 KP)
	MinDailyRestHours = 11.0

	// MinWeeklyRestHours - minimum continuous rest within a Mon-Sun week
	// (art. 133 KP)
	MinWeeklyRestHours = 35.0

	// MaxDailyHours - standard daily working time; longer shifts are
	// reported as overtime warnings, not blocked
	MaxDailyHours = 8.0

	// MaxWeeklyHours - maximum average weekly working time including
	// overtime (art. 131 KP)
	MaxWeeklyHours = 48.0

	// DefaultMaxConsecutiveDays - recommended maximum run of consecutive
	// work days. A soft warning, not a hard block.
	DefaultMaxConsecutiveDays = 6

	// DefaultFullTimeMonthlyHours - baseline monthly hours for a full-time
	// employee, from which fractional employment budgets derive
	DefaultFullTimeMonthlyHours = 160.0
)

// Rules carries the configurable thresholds into the detector and ranker
type Rules struct {
	// MaxConsecutiveDays is the recommended maximum run of work days
	MaxConsecutiveDays int
	// FullTimeMonthlyHours is the full-time monthly baseline
	FullTimeMonthlyHours float64
}

// DefaultRules returns the statutory defaults
func DefaultRules() Rules {
	return Rules{
		MaxConsecutiveDays:   DefaultMaxConsecutiveDays,
		FullTimeMonthlyHours: DefaultFullTimeMonthlyHours,
	}
}
