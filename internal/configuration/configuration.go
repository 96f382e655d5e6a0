// Package configuration builds the application's configuration from viper.
package configuration

import (
	"errors"
	"fmt"
	"github.com/clambin/aws4home/internal/selector"
	"github.com/clambin/aws4home/internal/source"
	"github.com/clambin/go-common/charmer"
	"github.com/clambin/go-common/set"
	"github.com/spf13/viper"
	"time"
)

// Notifier names
const (
	ISS         = "iss"
	Bond        = "bond"
	LunarLander = "lunarlander"
	GarageDoor  = "garagedoor"
)

var (
	Notifiers = set.New(ISS, Bond, LunarLander, GarageDoor)
	// Scheduled holds the notifiers that run on a schedule. The others only run when invoked with a payload.
	Scheduled = set.New(ISS, Bond, LunarLander)

	busKinds     = set.New("iot", "nats", "log")
	storeKinds   = set.New("route53", "redis", "memory")
	triggerKinds = set.New("eventbridge", "local")
)

// Arguments holds the configuration keys, with their default value.
var Arguments = charmer.Arguments{
	"debug":                      {Default: false, Help: "Log debug messages"},
	"timezone":                   {Default: "Europe/Brussels", Help: "Time zone of all event sources"},
	"aws.region":                 {Default: "", Help: "AWS region (default: from the environment)"},
	"aws.endpoint":               {Default: "", Help: "Override the AWS endpoint"},
	"aws.accessKeyID":            {Default: "", Help: "AWS access key ID (default: from the environment)"},
	"aws.secretAccessKey":        {Default: "", Help: "AWS secret access key"},
	"bus.kind":                   {Default: "iot", Help: "Device bus (iot, nats, log)"},
	"bus.topic":                  {Default: "aws4home/display", Help: "Topic to publish notifications on"},
	"bus.nats.url":               {Default: "nats://localhost:4222", Help: "NATS server URL"},
	"store.kind":                 {Default: "route53", Help: "State store (route53, redis, memory)"},
	"store.route53.hostedZoneID": {Default: "", Help: "Route53 hosted zone holding the state records"},
	"store.redis.addr":           {Default: "localhost:6379", Help: "Redis address"},
	"store.redis.namespace":      {Default: "aws4home", Help: "Prefix of all Redis keys"},
	"trigger.kind":               {Default: "eventbridge", Help: "Trigger applicator (eventbridge, local)"},
	"slack.token":                {Default: "", Help: "Slack token. If set, notifications are also posted to Slack"},
	"slack.channel":              {Default: "", Help: "Slack channel"},
	"iss.prefix":                 {Default: "iss", Help: "ISS notifier ID"},
	"iss.url":                    {Default: "", Help: "ISS pass prediction URL"},
	"iss.format":                 {Default: "astroviewer", Help: "ISS pass prediction format (astroviewer, open-notify)"},
	"iss.latitude":               {Default: 0.0, Help: "Observer latitude"},
	"iss.longitude":              {Default: 0.0, Help: "Observer longitude"},
	"iss.altitude":               {Default: 0.0, Help: "Observer altitude (open-notify only)"},
	"iss.policy":                 {Default: "near", Help: "ISS selection policy (first, near, lookahead)"},
	"iss.threshold":              {Default: 5 * time.Minute, Help: "Minimum lead time of the next pass"},
	"iss.pattern":                {Default: "iss.gif", Help: "ISS display pattern"},
	"iss.schedule":               {Default: "@every 15m", Help: "ISS bootstrap schedule (serve only)"},
	"bond.prefix":                {Default: "bond", Help: "Bond notifier ID"},
	"bond.url":                   {Default: "", Help: "TV programme URL"},
	"bond.pattern":               {Default: "bond", Help: "Bond display pattern"},
	"bond.duration":              {Default: 2 * time.Hour, Help: "Bond display duration"},
	"bond.policy":                {Default: "first", Help: "Bond selection policy (first, near, lookahead)"},
	"bond.table":                 {Default: source.DefaultProgrammeTable, Help: "Index of the programme table on the page"},
	"bond.schedule":              {Default: "@every 168h", Help: "Bond bootstrap schedule (serve only)"},
	"lunarlander.prefix":         {Default: "lunar-lander", Help: "Lunar lander notifier ID"},
	"lunarlander.pattern":        {Default: "lunar-lander", Help: "Lunar lander display pattern"},
	"lunarlander.duration":       {Default: 10 * time.Minute, Help: "Lunar lander display duration"},
	"lunarlander.schedule":       {Default: "17 20 * * *", Help: "Lunar lander schedule (serve only)"},
	"garagedoor.thing":           {Default: "garagedoor", Help: "IoT thing of the garage door"},
	"garagedoor.shadow":          {Default: "garagedoor_1", Help: "Named shadow of the garage door"},
	"serve.metrics.addr":         {Default: ":9090", Help: "Address of Prometheus metrics endpoint"},
	"serve.health.addr":          {Default: ":8080", Help: "Address of /health endpoint"},
	"serve.notifiers":            {Default: []string{ISS, Bond, LunarLander}, Help: "Notifiers to run"},
}

type Configuration struct {
	Debug       bool        `yaml:"debug" json:"debug"`
	Timezone    string      `yaml:"timezone" json:"timezone"`
	AWS         AWS         `yaml:"aws" json:"aws"`
	Bus         Bus         `yaml:"bus" json:"bus"`
	Store       Store       `yaml:"store" json:"store"`
	Trigger     Trigger     `yaml:"trigger" json:"trigger"`
	Slack       Slack       `yaml:"slack" json:"slack"`
	ISS         ISSConfig   `yaml:"iss" json:"iss"`
	Bond        BondConfig  `yaml:"bond" json:"bond"`
	LunarLander FixedConfig `yaml:"lunarlander" json:"lunarlander"`
	GarageDoor  DoorConfig  `yaml:"garagedoor" json:"garagedoor"`
	Serve       Serve       `yaml:"serve" json:"serve"`
}

type AWS struct {
	Region          string `yaml:"region,omitempty" json:"region,omitempty"`
	Endpoint        string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	AccessKeyID     string `yaml:"accessKeyID,omitempty" json:"accessKeyID,omitempty"`
	SecretAccessKey string `yaml:"secretAccessKey,omitempty" json:"secretAccessKey,omitempty"`
}

type Bus struct {
	Kind  string `yaml:"kind" json:"kind"`
	Topic string `yaml:"topic" json:"topic"`
	NATS  struct {
		URL string `yaml:"url" json:"url"`
	} `yaml:"nats" json:"nats"`
}

type Store struct {
	Kind    string `yaml:"kind" json:"kind"`
	Route53 struct {
		HostedZoneID string `yaml:"hostedZoneID" json:"hostedZoneID"`
	} `yaml:"route53" json:"route53"`
	Redis struct {
		Addr      string `yaml:"addr" json:"addr"`
		Namespace string `yaml:"namespace" json:"namespace"`
	} `yaml:"redis" json:"redis"`
}

type Trigger struct {
	Kind string `yaml:"kind" json:"kind"`
}

type Slack struct {
	Token   string `yaml:"token,omitempty" json:"token,omitempty"`
	Channel string `yaml:"channel,omitempty" json:"channel,omitempty"`
}

type ISSConfig struct {
	Prefix    string          `yaml:"prefix" json:"prefix"`
	URL       string          `yaml:"url" json:"url"`
	Format    source.Format   `yaml:"format" json:"format"`
	Latitude  float64         `yaml:"latitude" json:"latitude"`
	Longitude float64         `yaml:"longitude" json:"longitude"`
	Altitude  float64         `yaml:"altitude" json:"altitude"`
	Policy    selector.Policy `yaml:"policy" json:"policy"`
	Threshold time.Duration   `yaml:"threshold" json:"threshold"`
	Pattern   string          `yaml:"pattern" json:"pattern"`
	Schedule  string          `yaml:"schedule" json:"schedule"`
}

type BondConfig struct {
	Prefix   string          `yaml:"prefix" json:"prefix"`
	URL      string          `yaml:"url" json:"url"`
	Pattern  string          `yaml:"pattern" json:"pattern"`
	Duration time.Duration   `yaml:"duration" json:"duration"`
	Policy   selector.Policy `yaml:"policy" json:"policy"`
	Table    int             `yaml:"table" json:"table"`
	Schedule string          `yaml:"schedule" json:"schedule"`
}

type FixedConfig struct {
	Prefix   string        `yaml:"prefix" json:"prefix"`
	Pattern  string        `yaml:"pattern" json:"pattern"`
	Duration time.Duration `yaml:"duration" json:"duration"`
	Schedule string        `yaml:"schedule" json:"schedule"`
}

type DoorConfig struct {
	Thing  string `yaml:"thing" json:"thing"`
	Shadow string `yaml:"shadow,omitempty" json:"shadow,omitempty"`
}

type Serve struct {
	Metrics struct {
		Addr string `yaml:"addr" json:"addr"`
	} `yaml:"metrics" json:"metrics"`
	Health struct {
		Addr string `yaml:"addr" json:"addr"`
	} `yaml:"health" json:"health"`
	Notifiers []string `yaml:"notifiers" json:"notifiers"`
}

// Load returns the Configuration held by v. It does not validate the configuration.
func Load(v *viper.Viper) (Configuration, error) {
	cfg := Configuration{
		Debug:    v.GetBool("debug"),
		Timezone: v.GetString("timezone"),
		AWS: AWS{
			Region:          v.GetString("aws.region"),
			Endpoint:        v.GetString("aws.endpoint"),
			AccessKeyID:     v.GetString("aws.accessKeyID"),
			SecretAccessKey: v.GetString("aws.secretAccessKey"),
		},
		Trigger: Trigger{Kind: v.GetString("trigger.kind")},
		Slack: Slack{
			Token:   v.GetString("slack.token"),
			Channel: v.GetString("slack.channel"),
		},
		ISS: ISSConfig{
			Prefix:    v.GetString("iss.prefix"),
			URL:       v.GetString("iss.url"),
			Latitude:  v.GetFloat64("iss.latitude"),
			Longitude: v.GetFloat64("iss.longitude"),
			Altitude:  v.GetFloat64("iss.altitude"),
			Threshold: v.GetDuration("iss.threshold"),
			Pattern:   v.GetString("iss.pattern"),
			Schedule:  v.GetString("iss.schedule"),
		},
		Bond: BondConfig{
			Prefix:   v.GetString("bond.prefix"),
			URL:      v.GetString("bond.url"),
			Pattern:  v.GetString("bond.pattern"),
			Duration: v.GetDuration("bond.duration"),
			Table:    v.GetInt("bond.table"),
			Schedule: v.GetString("bond.schedule"),
		},
		LunarLander: FixedConfig{
			Prefix:   v.GetString("lunarlander.prefix"),
			Pattern:  v.GetString("lunarlander.pattern"),
			Duration: v.GetDuration("lunarlander.duration"),
			Schedule: v.GetString("lunarlander.schedule"),
		},
		GarageDoor: DoorConfig{
			Thing:  v.GetString("garagedoor.thing"),
			Shadow: v.GetString("garagedoor.shadow"),
		},
	}
	cfg.Bus.Kind = v.GetString("bus.kind")
	cfg.Bus.Topic = v.GetString("bus.topic")
	cfg.Bus.NATS.URL = v.GetString("bus.nats.url")
	cfg.Store.Kind = v.GetString("store.kind")
	cfg.Store.Route53.HostedZoneID = v.GetString("store.route53.hostedZoneID")
	cfg.Store.Redis.Addr = v.GetString("store.redis.addr")
	cfg.Store.Redis.Namespace = v.GetString("store.redis.namespace")
	cfg.Serve.Metrics.Addr = v.GetString("serve.metrics.addr")
	cfg.Serve.Health.Addr = v.GetString("serve.health.addr")
	cfg.Serve.Notifiers = v.GetStringSlice("serve.notifiers")

	var err error
	if cfg.ISS.Format, err = source.ParseFormat(v.GetString("iss.format")); err != nil {
		return cfg, fmt.Errorf("iss.format: %w", err)
	}
	if cfg.ISS.Policy, err = selector.ParsePolicy(v.GetString("iss.policy")); err != nil {
		return cfg, fmt.Errorf("iss.policy: %w", err)
	}
	if cfg.Bond.Policy, err = selector.ParsePolicy(v.GetString("bond.policy")); err != nil {
		return cfg, fmt.Errorf("bond.policy: %w", err)
	}
	return cfg, nil
}

// Location returns the configured time zone.
func (c Configuration) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Validate checks the shared configuration and the configuration of the provided notifiers.
func (c Configuration) Validate(notifiers ...string) error {
	var errs []error
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if !busKinds.Contains(c.Bus.Kind) {
		errs = append(errs, fmt.Errorf("bus.kind: invalid kind %q", c.Bus.Kind))
	}
	if c.Bus.Topic == "" {
		errs = append(errs, errors.New("bus.topic: missing"))
	}
	if !storeKinds.Contains(c.Store.Kind) {
		errs = append(errs, fmt.Errorf("store.kind: invalid kind %q", c.Store.Kind))
	}
	if !triggerKinds.Contains(c.Trigger.Kind) {
		errs = append(errs, fmt.Errorf("trigger.kind: invalid kind %q", c.Trigger.Kind))
	}
	if c.Slack.Token != "" && c.Slack.Channel == "" {
		errs = append(errs, errors.New("slack.channel: missing"))
	}
	for name := range set.New(notifiers...) {
		errs = append(errs, c.ValidateNotifier(name))
	}
	return errors.Join(errs...)
}

// ValidateServe checks the configuration for running serve.notifiers locally. Notifiers that need a payload
// can't be scheduled.
func (c Configuration) ValidateServe() error {
	errs := []error{c.Validate(c.Serve.Notifiers...)}
	for _, name := range c.Serve.Notifiers {
		if Notifiers.Contains(name) && !Scheduled.Contains(name) {
			errs = append(errs, fmt.Errorf("serve.notifiers: %s requires a payload and can't be scheduled", name))
		}
	}
	return errors.Join(errs...)
}

// ValidateNotifier checks the configuration of the named notifier.
func (c Configuration) ValidateNotifier(name string) error {
	var errs []error
	switch name {
	case ISS:
		if c.ISS.Prefix == "" {
			errs = append(errs, errors.New("iss.prefix: missing"))
		}
		if c.ISS.URL == "" {
			errs = append(errs, errors.New("iss.url: missing"))
		}
		if c.ISS.Threshold <= 0 && c.ISS.Policy != selector.FirstFuture {
			errs = append(errs, fmt.Errorf("iss.threshold: must be positive, got %s", c.ISS.Threshold))
		}
		if c.Store.Kind == "route53" && c.Store.Route53.HostedZoneID == "" {
			errs = append(errs, errors.New("store.route53.hostedZoneID: missing"))
		}
	case Bond:
		if c.Bond.Prefix == "" {
			errs = append(errs, errors.New("bond.prefix: missing"))
		}
		if c.Bond.URL == "" {
			errs = append(errs, errors.New("bond.url: missing"))
		}
		if c.Bond.Table < 0 {
			errs = append(errs, fmt.Errorf("bond.table: invalid index %d", c.Bond.Table))
		}
	case LunarLander:
		if c.LunarLander.Prefix == "" {
			errs = append(errs, errors.New("lunarlander.prefix: missing"))
		}
	case GarageDoor:
		if c.GarageDoor.Thing == "" {
			errs = append(errs, errors.New("garagedoor.thing: missing"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid notifier %q", name))
	}
	return errors.Join(errs...)
}

// Redacted returns a copy of the configuration with all secrets masked.
func (c Configuration) Redacted() Configuration {
	const mask = "********"
	if c.AWS.SecretAccessKey != "" {
		c.AWS.SecretAccessKey = mask
	}
	if c.Slack.Token != "" {
		c.Slack.Token = mask
	}
	return c
}
