// Package planner converts the start of the next event into a one-shot trigger.
package planner

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"
)

// TriggerSpec is a single point in time, at minute resolution, in UTC. Since the year is pinned, the
// corresponding schedule expression fires exactly once.
type TriggerSpec struct {
	Minute int
	Hour   int
	Day    int
	Month  time.Month
	Year   int
}

// Plan returns the TriggerSpec for the provided timestamp. Seconds are dropped, not rounded.
func Plan(start time.Time) TriggerSpec {
	utc := start.UTC()
	return TriggerSpec{
		Minute: utc.Minute(),
		Hour:   utc.Hour(),
		Day:    utc.Day(),
		Month:  utc.Month(),
		Year:   utc.Year(),
	}
}

// Time returns the point in time at which the trigger fires.
func (t TriggerSpec) Time() time.Time {
	return time.Date(t.Year, t.Month, t.Day, t.Hour, t.Minute, 0, 0, time.UTC)
}

// Fields returns the trigger as "minute hour day month ? year".
func (t TriggerSpec) Fields() string {
	return fmt.Sprintf("%d %d %d %d ? %d", t.Minute, t.Hour, t.Day, int(t.Month), t.Year)
}

// Expression returns the trigger as a schedule expression: "cron(minute hour day month ? year)".
func (t TriggerSpec) Expression() string {
	return "cron(" + t.Fields() + ")"
}

func (t TriggerSpec) String() string {
	return t.Expression()
}

func (t TriggerSpec) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("expression", t.Expression()),
		slog.Time("at", t.Time()),
	)
}

var expressionRE = regexp.MustCompile(`^cron\((\d{1,2}) (\d{1,2}) (\d{1,2}) (\d{1,2}) \? (\d{4})\)$`)

// ParseExpression parses a one-shot schedule expression, as produced by TriggerSpec.Expression.
func ParseExpression(expression string) (TriggerSpec, error) {
	matches := expressionRE.FindStringSubmatch(expression)
	if matches == nil {
		return TriggerSpec{}, fmt.Errorf("not a one-shot schedule expression: %q", expression)
	}
	var fields [5]int
	for i := range fields {
		fields[i], _ = strconv.Atoi(matches[i+1])
	}
	t := TriggerSpec{
		Minute: fields[0],
		Hour:   fields[1],
		Day:    fields[2],
		Month:  time.Month(fields[3]),
		Year:   fields[4],
	}
	if Plan(t.Time()) != t {
		return TriggerSpec{}, fmt.Errorf("invalid date in schedule expression: %q", expression)
	}
	return t, nil
}
