package source_test

import (
	"github.com/clambin/aws4home/internal/event"
	"github.com/clambin/aws4home/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestPassPredictor_Fetch(t *testing.T) {
	cest := time.FixedZone("CEST", 2*3600)

	tests := []struct {
		name      string
		format    source.Format
		response  string
		wantQuery url.Values
		want      event.Events
		wantErr   error
	}{
		{
			name:   "astroviewer",
			format: source.Astroviewer,
			response: `{"passes": [
	{"begin": "20221002194400", "end": "20221002195013", "mag": -2.1},
	{"begin": "20221003185914", "end": "20221003190222"}
]}`,
			wantQuery: url.Values{"key": {"1"}, "lat": {"50.85"}, "lon": {"4.35"}, "tz": {"CEST"}},
			want: event.Events{
				{Start: time.Date(2022, time.October, 2, 19, 44, 0, 0, cest), End: time.Date(2022, time.October, 2, 19, 50, 13, 0, cest)},
				{Start: time.Date(2022, time.October, 3, 18, 59, 14, 0, cest), End: time.Date(2022, time.October, 3, 19, 2, 22, 0, cest)},
			},
		},
		{
			name:      "astroviewer: invalid timestamp",
			format:    source.Astroviewer,
			response:  `{"passes": [ {"begin": "2022-10-02 19:44", "end": "20221002195013"} ]}`,
			wantQuery: url.Values{"key": {"1"}, "lat": {"50.85"}, "lon": {"4.35"}, "tz": {"CEST"}},
			wantErr:   source.ErrParse,
		},
		{
			name:      "astroviewer: malformed body",
			format:    source.Astroviewer,
			response:  `{"passes": [`,
			wantQuery: url.Values{"key": {"1"}, "lat": {"50.85"}, "lon": {"4.35"}, "tz": {"CEST"}},
			wantErr:   source.ErrSourceUnavailable,
		},
		{
			name:      "open-notify",
			format:    source.OpenNotify,
			response:  `{"message": "success", "response": [ {"duration": 373, "risetime": 1664732640} ]}`,
			wantQuery: url.Values{"key": {"1"}, "lat": {"50.85"}, "lon": {"4.35"}, "alt": {"100"}},
			want: event.Events{
				{Start: time.Date(2022, time.October, 2, 19, 44, 0, 0, cest), End: time.Date(2022, time.October, 2, 19, 50, 13, 0, cest)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantQuery, r.URL.Query())
				_, _ = w.Write([]byte(tt.response))
			}))
			defer s.Close()

			p := source.PassPredictor{
				HTTPClient: s.Client(),
				URL:        s.URL + "/predictor.php?key=1",
				Format:     tt.format,
				Latitude:   50.85,
				Longitude:  4.35,
				Altitude:   100,
				Location:   cest,
			}
			got, err := p.Fetch(t.Context())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.True(t, tt.want[i].Start.Equal(got[i].Start), got[i].Start)
				assert.True(t, tt.want[i].End.Equal(got[i].End), got[i].End)
			}
		})
	}
}

func TestPassPredictor_Fetch_Unavailable(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer s.Close()

	_, err := source.PassPredictor{HTTPClient: s.Client(), URL: s.URL}.Fetch(t.Context())
	assert.ErrorIs(t, err, source.ErrSourceUnavailable)
}

func TestParseFormat(t *testing.T) {
	for _, f := range []source.Format{source.Astroviewer, source.OpenNotify} {
		got, err := source.ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := source.ParseFormat("n2yo")
	assert.Error(t, err)

	var f source.Format
	require.NoError(t, f.UnmarshalText([]byte("open-notify")))
	assert.Equal(t, source.OpenNotify, f)
}
