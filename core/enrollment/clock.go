package enrollment

import (
	"time"

	"github.com/trezcool/equilibrar/core/program"
)

// CurrentWeek derives a patient's program week from the enrollment start
// date. Elapsed time is counted in whole days rounded up, and every 7 days
// advance the week by one: days 0-6 are week 1, days 7-13 week 2 and so on.
// The result is clamped to [1, ProgramWeeks] so future start dates and stale
// enrollments keep producing a usable week.
func CurrentWeek(startDate, now time.Time) int {
	elapsed := now.Sub(startDate)
	days := int(elapsed / (24 * time.Hour))
	if elapsed%(24*time.Hour) > 0 {
		days++
	}
	week := days/7 + 1
	if week < 1 {
		return 1
	}
	if week > program.ProgramWeeks {
		return program.ProgramWeeks
	}
	return week
}
