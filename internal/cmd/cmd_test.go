package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/clambin/aws4home/internal/configuration"
	"github.com/clambin/aws4home/internal/planner"
	"github.com/clambin/go-common/charmer"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newViper(t *testing.T, content string) *viper.Viper {
	t.Helper()
	v := viper.New()
	require.NoError(t, charmer.SetDefaults(v, configuration.Arguments))
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(content)))
	return v
}

func Test_showConfig(t *testing.T) {
	v := newViper(t, "timezone: UTC\nslack:\n  token: xoxb-1234\n  channel: C123\n")

	var out bytes.Buffer
	require.NoError(t, showConfig(&out, v, "yaml"))
	assert.Contains(t, out.String(), "timezone: UTC\n")
	assert.Contains(t, out.String(), "  policy: near\n")
	assert.NotContains(t, out.String(), "xoxb-1234")

	out.Reset()
	require.NoError(t, showConfig(&out, v, "json"))
	var cfg map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &cfg))
	assert.Equal(t, "UTC", cfg["timezone"])

	assert.Error(t, showConfig(&out, v, "toml"))
}

func Test_showTrigger(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	spec := planner.TriggerSpec{Minute: 30, Hour: 19, Day: 2, Month: time.October, Year: 2022}

	var out bytes.Buffer
	require.NoError(t, showTrigger(&out, "iss", spec, loc))
	assert.Equal(t, "iss: cron(30 19 2 10 ? 2022) (Sun, 02 Oct 2022 21:30:00 CEST)\n", out.String())
}

func Test_readPayload(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		want    string
		wantErr assert.ErrorAssertionFunc
	}{
		{name: "none", wantErr: assert.NoError},
		{name: "argument", args: []string{`{"door":"open"}`}, want: `{"door":"open"}`, wantErr: assert.NoError},
		{name: "stdin", stdin: `"closed"`, args: []string{"-"}, want: `"closed"`, wantErr: assert.NoError},
		{name: "invalid", args: []string{"open"}, wantErr: assert.Error},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := readPayload(strings.NewReader(tt.stdin), tt.args)
			tt.wantErr(t, err)
			assert.Equal(t, tt.want, string(payload))
		})
	}
}

type fakeInvoker struct {
	name    string
	payload json.RawMessage
}

func (f *fakeInvoker) Invoke(_ context.Context, name string, payload json.RawMessage) error {
	f.name = name
	f.payload = payload
	return nil
}

func Test_lambdaHandler(t *testing.T) {
	var i fakeInvoker
	h := lambdaHandler(&i, "garagedoor")
	require.NoError(t, h(t.Context(), json.RawMessage(`{"state":"open"}`)))
	assert.Equal(t, "garagedoor", i.name)
	assert.JSONEq(t, `{"state":"open"}`, string(i.payload))
}

func Test_newApp(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")
	t.Setenv("AWS_REGION", "eu-west-1")

	v := newViper(t, "timezone: UTC\nbus:\n  kind: log\nstore:\n  kind: memory\n")
	l := slog.New(slog.DiscardHandler)

	a, closer, err := newApp(t.Context(), v, nil, l, forNotifiers(configuration.LunarLander))
	require.NoError(t, err)
	t.Cleanup(closer)
	require.NoError(t, a.Invoke(t.Context(), configuration.LunarLander, nil))

	_, closer, err = newApp(t.Context(), v, nil, l, forNotifiers(configuration.Bond))
	assert.Error(t, err)
	closer()

	_, closer, err = newApp(t.Context(), v, nil, l, forNotifiers(""))
	assert.Error(t, err)
	closer()
}

func Test_newApp_Serve(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")
	t.Setenv("AWS_REGION", "eu-west-1")
	l := slog.New(slog.DiscardHandler)

	v := newViper(t, "timezone: UTC\nbus:\n  kind: log\nserve:\n  notifiers: [lunarlander]\n")
	_, closer, err := newApp(t.Context(), v, nil, l, configuration.Configuration.ValidateServe)
	require.NoError(t, err)
	closer()

	v = newViper(t, "timezone: UTC\nbus:\n  kind: log\nserve:\n  notifiers: [lunarlander, garagedoor]\n")
	_, closer, err = newApp(t.Context(), v, nil, l, configuration.Configuration.ValidateServe)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "garagedoor requires a payload")
	closer()
}
