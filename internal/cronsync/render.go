package cronsync

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"

	"blocksched/internal/planner"
	"blocksched/internal/schedule"
)

// Marker tags every crontab line owned by this tool. The owner name follows
// the colon so a line can be traced back to its schedule.
const Marker = "# blocksched:"

// fieldParser accepts exactly the classic 5-field crontab syntax.
var fieldParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// cronDays renders a day set in crontab day-of-week numbering
// (Sunday=0 .. Saturday=6), ascending.
func cronDays(s schedule.DaySet) string {
	nums := make([]string, 0, 7)
	if s.Has(schedule.Sunday) {
		nums = append(nums, "0")
	}
	for d := schedule.Monday; d <= schedule.Saturday; d++ {
		if s.Has(d) {
			nums = append(nums, strconv.Itoa(int(d)))
		}
	}
	return strings.Join(nums, ",")
}

// Expression renders the 5-field cron expression for one entry and validates
// it with a strict parser; a bad render aborts rather than producing a line
// cron would reject or, worse, misread.
func Expression(e planner.Entry) (string, error) {
	days := cronDays(e.Days)
	if days == "" {
		return "", fmt.Errorf("entry for %q has an empty day set", e.Owner)
	}
	expr := fmt.Sprintf("%d %d * * %s", e.At.Min(), e.At.Hour(), days)
	if _, err := fieldParser.Parse(expr); err != nil {
		return "", fmt.Errorf("rendered expression %q for %q: %w", expr, e.Owner, err)
	}
	return expr, nil
}

// Render produces the full crontab line for one entry.
func Render(e planner.Entry, execPath string) (string, error) {
	expr, err := Expression(e)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s schedule run %s %s %s%s",
		expr, execPath, e.Owner, e.Action, Marker, e.Owner), nil
}

// Owned reports whether a crontab line was installed by this tool.
func Owned(line string) bool {
	return strings.Contains(line, Marker)
}
