package state

import (
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"
	"strings"
	"sync"
)

// Route53API is the subset of the Route 53 client used by Route53.
type Route53API interface {
	GetHostedZone(context.Context, *route53.GetHostedZoneInput, ...func(*route53.Options)) (*route53.GetHostedZoneOutput, error)
	ListResourceRecordSets(context.Context, *route53.ListResourceRecordSetsInput, ...func(*route53.Options)) (*route53.ListResourceRecordSetsOutput, error)
	ChangeResourceRecordSets(context.Context, *route53.ChangeResourceRecordSetsInput, ...func(*route53.Options)) (*route53.ChangeResourceRecordSetsOutput, error)
}

// DefaultTTL is the TTL of the TXT records written by Route53.
const DefaultTTL = 300

// Route53 stores a notifier's state as TXT records in a hosted zone: duration.<prefix>.<zone> and
// risetime.<prefix>.<zone>. Both records are written in a single change batch.
type Route53 struct {
	Client       Route53API
	HostedZoneID string
	TTL          int64
	zoneName     string
	lock         sync.Mutex
}

// Read returns the state of the notifier identified by prefix. The duration record must exist. A missing
// risetime record results in a zero start time.
func (r *Route53) Read(ctx context.Context, prefix string) (CycleState, error) {
	zone, err := r.getZoneName(ctx)
	if err != nil {
		return CycleState{}, err
	}

	value, found, err := r.readRecord(ctx, RecordName(durationField, prefix, zone))
	if err != nil {
		return CycleState{}, err
	}
	if !found {
		return CycleState{}, fmt.Errorf("%w: %s not found", ErrStoreUnavailable, RecordName(durationField, prefix, zone))
	}
	var s CycleState
	if s.Duration, err = parseDuration(value); err != nil {
		return CycleState{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if value, found, err = r.readRecord(ctx, RecordName(startField, prefix, zone)); err != nil {
		return CycleState{}, err
	}
	if found {
		if s.Start, err = parseStart(value); err != nil {
			return CycleState{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
	}
	return s, nil
}

// Write upserts the state of the notifier identified by prefix.
func (r *Route53) Write(ctx context.Context, prefix string, s CycleState) error {
	zone, err := r.getZoneName(ctx)
	if err != nil {
		return err
	}
	_, err = r.Client.ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(r.HostedZoneID),
		ChangeBatch: &types.ChangeBatch{
			Comment: aws.String("next event for " + prefix),
			Changes: []types.Change{
				r.upsert(RecordName(durationField, prefix, zone), formatDuration(s.Duration)),
				r.upsert(RecordName(startField, prefix, zone), formatStart(s.Start)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: change records: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *Route53) getZoneName(ctx context.Context) (string, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.zoneName != "" {
		return r.zoneName, nil
	}
	out, err := r.Client.GetHostedZone(ctx, &route53.GetHostedZoneInput{Id: aws.String(r.HostedZoneID)})
	if err != nil {
		return "", fmt.Errorf("%w: hosted zone: %w", ErrStoreUnavailable, err)
	}
	if out.HostedZone == nil || aws.ToString(out.HostedZone.Name) == "" {
		return "", fmt.Errorf("%w: hosted zone %s has no name", ErrStoreUnavailable, r.HostedZoneID)
	}
	r.zoneName = aws.ToString(out.HostedZone.Name)
	return r.zoneName, nil
}

func (r *Route53) readRecord(ctx context.Context, name string) (string, bool, error) {
	out, err := r.Client.ListResourceRecordSets(ctx, &route53.ListResourceRecordSetsInput{
		HostedZoneId:    aws.String(r.HostedZoneID),
		StartRecordName: aws.String(name),
		StartRecordType: types.RRTypeTxt,
		MaxItems:        aws.Int32(1),
	})
	if err != nil {
		return "", false, fmt.Errorf("%w: list records: %w", ErrStoreUnavailable, err)
	}
	// the listing starts at the requested name, but returns the next record if that name doesn't exist.
	if len(out.ResourceRecordSets) == 0 {
		return "", false, nil
	}
	set := out.ResourceRecordSets[0]
	if !sameRecordName(aws.ToString(set.Name), name) || set.Type != types.RRTypeTxt || len(set.ResourceRecords) == 0 {
		return "", false, nil
	}
	return aws.ToString(set.ResourceRecords[0].Value), true, nil
}

func (r *Route53) upsert(name, value string) types.Change {
	ttl := r.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return types.Change{
		Action: types.ChangeActionUpsert,
		ResourceRecordSet: &types.ResourceRecordSet{
			Name:            aws.String(name),
			Type:            types.RRTypeTxt,
			TTL:             aws.Int64(ttl),
			ResourceRecords: []types.ResourceRecord{{Value: aws.String(`"` + value + `"`)}},
		},
	}
}

func sameRecordName(a, b string) bool {
	return strings.EqualFold(strings.TrimSuffix(a, "."), strings.TrimSuffix(b, "."))
}
