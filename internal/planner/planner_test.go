package planner_test

import (
	"github.com/clambin/aws4home/internal/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestPlan(t *testing.T) {
	cest := time.FixedZone("CEST", 2*3600)

	tests := []struct {
		name       string
		start      time.Time
		want       planner.TriggerSpec
		expression string
	}{
		{
			name:       "utc",
			start:      time.Date(2022, time.October, 2, 19, 44, 0, 0, time.UTC),
			want:       planner.TriggerSpec{Minute: 44, Hour: 19, Day: 2, Month: time.October, Year: 2022},
			expression: "cron(44 19 2 10 ? 2022)",
		},
		{
			name:       "local",
			start:      time.Date(2022, time.October, 2, 19, 44, 0, 0, cest),
			want:       planner.TriggerSpec{Minute: 44, Hour: 17, Day: 2, Month: time.October, Year: 2022},
			expression: "cron(44 17 2 10 ? 2022)",
		},
		{
			name:       "seconds are dropped",
			start:      time.Date(2022, time.October, 2, 19, 44, 59, 999, time.UTC),
			want:       planner.TriggerSpec{Minute: 44, Hour: 19, Day: 2, Month: time.October, Year: 2022},
			expression: "cron(44 19 2 10 ? 2022)",
		},
		{
			name:       "local time crosses new year in utc",
			start:      time.Date(2024, time.January, 1, 1, 5, 0, 0, cest),
			want:       planner.TriggerSpec{Minute: 5, Hour: 23, Day: 31, Month: time.December, Year: 2023},
			expression: "cron(5 23 31 12 ? 2023)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := planner.Plan(tt.start)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.expression, got.Expression())
			assert.Equal(t, tt.start.Truncate(time.Minute).UTC(), got.Time())

			parsed, err := planner.ParseExpression(got.Expression())
			require.NoError(t, err)
			assert.Equal(t, got, parsed)
		})
	}
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		wantErr    assert.ErrorAssertionFunc
	}{
		{name: "valid", expression: "cron(0 0 29 2 ? 2024)", wantErr: assert.NoError},
		{name: "recurring", expression: "cron(0 12 * * ? *)", wantErr: assert.Error},
		{name: "rate", expression: "rate(15 minutes)", wantErr: assert.Error},
		{name: "invalid date", expression: "cron(0 0 29 2 ? 2023)", wantErr: assert.Error},
		{name: "invalid hour", expression: "cron(0 25 1 2 ? 2023)", wantErr: assert.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := planner.ParseExpression(tt.expression)
			tt.wantErr(t, err)
		})
	}
}
