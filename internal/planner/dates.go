package planner

import (
	"time"

	"pantry-planner/internal/mealplan"
)

// maxPlanDays bounds the range a single plan may cover.
const maxPlanDays = 366

// DateRange lists every calendar date from start to end inclusive, both in
// YYYY-MM-DD form. Unparseable dates, end before start and ranges longer
// than maxPlanDays all yield an empty list.
func DateRange(start, end string) []string {
	dates := []string{}
	from, err := time.Parse(mealplan.DateLayout, start)
	if err != nil {
		return dates
	}
	to, err := time.Parse(mealplan.DateLayout, end)
	if err != nil || to.Before(from) {
		return dates
	}
	if int(to.Sub(from).Hours()/24)+1 > maxPlanDays {
		return dates
	}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(mealplan.DateLayout))
	}
	return dates
}
