package state_test

import (
	"context"
	"errors"
	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/clambin/aws4home/internal/state"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"
)

type store interface {
	Read(context.Context, string) (state.CycleState, error)
	Write(context.Context, string, state.CycleState) error
}

func TestStores_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)

	stores := map[string]store{
		"route53": &state.Route53{Client: newFakeRoute53("example.com."), HostedZoneID: "Z123"},
		"redis":   state.Redis{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})},
		"memory":  &state.Memory{},
	}

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()

			_, err := s.Read(ctx, "iss")
			assert.ErrorIs(t, err, state.ErrStoreUnavailable)

			cet := time.FixedZone("CET", 60*60)
			for _, tt := range []struct {
				write state.CycleState
				want  state.CycleState
			}{
				{
					write: state.CycleState{Duration: 373 * time.Second, Start: time.Date(2022, time.October, 2, 17, 44, 0, 0, time.UTC)},
					want:  state.CycleState{Duration: 373 * time.Second, Start: time.Date(2022, time.October, 2, 17, 44, 0, 0, time.UTC)},
				},
				{
					write: state.CycleState{Duration: 0, Start: time.Date(2024, time.March, 1, 20, 15, 0, 0, cet)},
					want:  state.CycleState{Duration: 0, Start: time.Date(2024, time.March, 1, 19, 15, 0, 0, time.UTC)},
				},
				{
					write: state.CycleState{Duration: 7200 * time.Second},
					want:  state.CycleState{Duration: 7200 * time.Second},
				},
			} {
				require.NoError(t, s.Write(ctx, "iss", tt.write))
				got, err := s.Read(ctx, "iss")
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			_, err = s.Read(ctx, "bond")
			assert.ErrorIs(t, err, state.ErrStoreUnavailable)
		})
	}
}

func TestRoute53_Records(t *testing.T) {
	r53 := newFakeRoute53("example.com.")
	s := state.Route53{Client: r53, HostedZoneID: "Z123"}

	start := time.Date(2022, time.October, 2, 17, 44, 0, 0, time.UTC)
	require.NoError(t, s.Write(t.Context(), "iss", state.CycleState{Duration: 373 * time.Second, Start: start}))

	assert.Equal(t, map[string]string{
		"duration.iss.example.com.": `"373"`,
		"risetime.iss.example.com.": `"2022-10-02T17:44:00Z"`,
	}, r53.records)
	assert.Equal(t, 1, r53.changes)
	assert.Equal(t, 1, r53.zoneLookups)

	_, err := s.Read(t.Context(), "iss")
	require.NoError(t, err)
	assert.Equal(t, 1, r53.zoneLookups, "zone name should be cached")
}

func TestRoute53_Read(t *testing.T) {
	tests := []struct {
		name    string
		records map[string]string
		want    state.CycleState
		wantErr bool
	}{
		{
			name:    "initial record only holds the duration",
			records: map[string]string{"duration.iss.example.com.": `"0"`},
			want:    state.CycleState{},
		},
		{
			name: "older start time format",
			records: map[string]string{
				"duration.iss.example.com.": `"373"`,
				"risetime.iss.example.com.": `"2022-10-02 19:44:00+02:00"`,
			},
			want: state.CycleState{Duration: 373 * time.Second, Start: time.Date(2022, time.October, 2, 17, 44, 0, 0, time.UTC)},
		},
		{
			name:    "invalid duration",
			records: map[string]string{"duration.iss.example.com.": `"soon"`},
			wantErr: true,
		},
		{
			name: "invalid start time",
			records: map[string]string{
				"duration.iss.example.com.": `"373"`,
				"risetime.iss.example.com.": `"tomorrow"`,
			},
			wantErr: true,
		},
		{
			name:    "other record follows the requested name",
			records: map[string]string{"duration.iss2.example.com.": `"373"`},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r53 := newFakeRoute53("example.com.")
			r53.records = tt.records
			got, err := (&state.Route53{Client: r53, HostedZoneID: "Z123"}).Read(t.Context(), "iss")
			if tt.wantErr {
				assert.ErrorIs(t, err, state.ErrStoreUnavailable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoute53_Unavailable(t *testing.T) {
	r53 := newFakeRoute53("example.com.")
	r53.err = errors.New("access denied")
	s := state.Route53{Client: r53, HostedZoneID: "Z123"}

	_, err := s.Read(t.Context(), "iss")
	assert.ErrorIs(t, err, state.ErrStoreUnavailable)
	assert.ErrorIs(t, s.Write(t.Context(), "iss", state.CycleState{}), state.ErrStoreUnavailable)
}

func TestRedis_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	s := state.Redis{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()}), Namespace: "test"}
	require.NoError(t, s.Write(t.Context(), "iss", state.CycleState{Duration: time.Minute}))
	assert.Equal(t, "60", mr.HGet("test:iss", "duration"))

	mr.Close()
	_, err := s.Read(t.Context(), "iss")
	assert.ErrorIs(t, err, state.ErrStoreUnavailable)
	assert.ErrorIs(t, s.Write(t.Context(), "iss", state.CycleState{}), state.ErrStoreUnavailable)
}

func TestRecordName(t *testing.T) {
	assert.Equal(t, "duration.iss.example.com.", state.RecordName("duration", "iss", "example.com."))
}

var _ state.Route53API = &fakeRoute53{}

// fakeRoute53 emulates a single hosted zone. Records are listed in lexicographical order.
type fakeRoute53 struct {
	zone        string
	records     map[string]string
	err         error
	changes     int
	zoneLookups int
	lock        sync.Mutex
}

func newFakeRoute53(zone string) *fakeRoute53 {
	return &fakeRoute53{zone: zone, records: make(map[string]string)}
}

func (f *fakeRoute53) GetHostedZone(_ context.Context, input *route53.GetHostedZoneInput, _ ...func(*route53.Options)) (*route53.GetHostedZoneOutput, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.zoneLookups++
	return &route53.GetHostedZoneOutput{HostedZone: &types.HostedZone{Id: input.Id, Name: aws.String(f.zone)}}, nil
}

func (f *fakeRoute53) ListResourceRecordSets(_ context.Context, input *route53.ListResourceRecordSetsInput, _ ...func(*route53.Options)) (*route53.ListResourceRecordSetsOutput, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	names := make([]string, 0, len(f.records))
	for name := range f.records {
		if strings.Compare(name, aws.ToString(input.StartRecordName)) >= 0 {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	var output route53.ListResourceRecordSetsOutput
	for _, name := range names[:min(len(names), int(aws.ToInt32(input.MaxItems)))] {
		output.ResourceRecordSets = append(output.ResourceRecordSets, types.ResourceRecordSet{
			Name:            aws.String(name),
			Type:            types.RRTypeTxt,
			ResourceRecords: []types.ResourceRecord{{Value: aws.String(f.records[name])}},
		})
	}
	return &output, nil
}

func (f *fakeRoute53) ChangeResourceRecordSets(_ context.Context, input *route53.ChangeResourceRecordSetsInput, _ ...func(*route53.Options)) (*route53.ChangeResourceRecordSetsOutput, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.changes++
	for _, change := range input.ChangeBatch.Changes {
		if change.Action != types.ChangeActionUpsert {
			continue
		}
		f.records[aws.ToString(change.ResourceRecordSet.Name)] = aws.ToString(change.ResourceRecordSet.ResourceRecords[0].Value)
	}
	return &route53.ChangeResourceRecordSetsOutput{}, nil
}
