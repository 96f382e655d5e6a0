// Package app assembles the notifiers from the configuration and runs them.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/clambin/aws4home/internal/configuration"
	"github.com/clambin/aws4home/internal/health"
	"github.com/clambin/aws4home/internal/notifier"
	"github.com/clambin/aws4home/internal/planner"
	"github.com/clambin/aws4home/internal/publisher"
	"github.com/clambin/aws4home/internal/selector"
	"github.com/clambin/aws4home/internal/shadow"
	"github.com/clambin/aws4home/internal/source"
	"github.com/clambin/aws4home/internal/state"
	"github.com/clambin/aws4home/internal/trigger"
	"github.com/clambin/aws4home/pkg/pubsub"
	"github.com/clambin/aws4home/pkg/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"log/slog"
	"net/http"
	"time"
)

const sourceTimeout = 30 * time.Second

// ErrPayloadRequired indicates that the notifier can only be invoked with a payload.
var ErrPayloadRequired = errors.New("notifier requires a payload")

// ErrNoTriggerState indicates that the configured trigger kind cannot be read back from another process.
var ErrNoTriggerState = errors.New("trigger kind local keeps no state across processes")

// App builds notifiers from the configuration.
type App struct {
	cfg      configuration.Configuration
	clients  Clients
	location *time.Location
	metrics  *notifier.Metrics
	results  *pubsub.Publisher[notifier.Result]
	http     *http.Client
	logger   *slog.Logger
}

// New returns an App for a validated configuration. If registry is not nil, the notifier and source metrics
// are registered with it.
func New(cfg configuration.Configuration, clients Clients, registry prometheus.Registerer, logger *slog.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	a := App{
		cfg:      cfg,
		clients:  clients,
		location: loc,
		metrics:  notifier.NewMetrics("aws4home", "notifier", nil),
		results:  pubsub.New[notifier.Result](logger.With("component", "pubsub")),
		logger:   logger,
	}
	requestMetrics := source.NewRequestMetrics("aws4home", "source", nil)
	if registry != nil {
		registry.MustRegister(a.metrics, requestMetrics)
	}
	a.http = clients.HTTP
	if a.http == nil {
		a.http = source.NewHTTPClient(requestMetrics, sourceTimeout)
	}
	return &a, nil
}

// Location returns the configured time zone.
func (a *App) Location() *time.Location {
	return a.location
}

// Results returns the publisher of all invocation results.
func (a *App) Results() *pubsub.Publisher[notifier.Result] {
	return a.results
}

// Invoke runs the named notifier once. The garage door mirror needs a payload, all other notifiers ignore it.
func (a *App) Invoke(ctx context.Context, name string, payload json.RawMessage) error {
	if name == configuration.GarageDoor {
		if len(payload) == 0 {
			return ErrPayloadRequired
		}
		return a.Mirror().Mirror(ctx, payload)
	}
	applicator, err := a.Applicator()
	if err != nil {
		return err
	}
	task, _, err := a.Notifier(name, applicator)
	if err != nil {
		return err
	}
	if l, ok := applicator.(*trigger.Local); ok {
		if err = l.Register(a.id(name), "", task); err != nil {
			return err
		}
	}
	return task.Run(ctx)
}

// Notifier returns the named notifier and its bootstrap schedule.
func (a *App) Notifier(name string, applicator notifier.Applicator) (scheduler.Task, string, error) {
	logger := a.logger.With("notifier", name)
	switch name {
	case configuration.ISS:
		store, err := a.Store()
		if err != nil {
			return nil, "", err
		}
		return &notifier.Rescheduling{
			Name:    a.cfg.ISS.Prefix,
			Pattern: a.cfg.ISS.Pattern,
			Topic:   a.cfg.Bus.Topic,
			Source: source.PassPredictor{
				HTTPClient: a.http,
				URL:        a.cfg.ISS.URL,
				Format:     a.cfg.ISS.Format,
				Latitude:   a.cfg.ISS.Latitude,
				Longitude:  a.cfg.ISS.Longitude,
				Altitude:   a.cfg.ISS.Altitude,
				Location:   a.location,
			},
			Selector:   selector.Selector{Policy: a.cfg.ISS.Policy, Threshold: a.cfg.ISS.Threshold},
			Store:      store,
			Applicator: applicator,
			Publisher:  a.Publisher(),
			Logger:     logger,
			Metrics:    a.metrics,
			Results:    a.results,
		}, a.cfg.ISS.Schedule, nil
	case configuration.Bond:
		return &notifier.Rescheduling{
			Name:     a.cfg.Bond.Prefix,
			Pattern:  a.cfg.Bond.Pattern,
			Topic:    a.cfg.Bus.Topic,
			Duration: a.cfg.Bond.Duration,
			Source: source.Programme{
				HTTPClient: a.http,
				URL:        a.cfg.Bond.URL,
				TableIndex: a.cfg.Bond.Table,
				Location:   a.location,
			},
			Selector:   selector.Selector{Policy: a.cfg.Bond.Policy},
			Applicator: applicator,
			Publisher:  a.Publisher(),
			Logger:     logger,
			Metrics:    a.metrics,
			Results:    a.results,
		}, a.cfg.Bond.Schedule, nil
	case configuration.LunarLander:
		return &notifier.Fixed{
			Name:      a.cfg.LunarLander.Prefix,
			Pattern:   a.cfg.LunarLander.Pattern,
			Topic:     a.cfg.Bus.Topic,
			Duration:  a.cfg.LunarLander.Duration,
			Publisher: a.Publisher(),
			Logger:    logger,
			Metrics:   a.metrics,
			Results:   a.results,
		}, a.cfg.LunarLander.Schedule, nil
	case configuration.GarageDoor:
		return nil, "", ErrPayloadRequired
	default:
		return nil, "", fmt.Errorf("invalid notifier %q", name)
	}
}

// Describer reads back a notifier's current trigger.
type Describer interface {
	Describe(ctx context.Context, id string) (planner.TriggerSpec, error)
}

// Trigger returns the trigger currently applied for a rescheduling notifier.
func (a *App) Trigger(ctx context.Context, name string) (planner.TriggerSpec, error) {
	if name != configuration.ISS && name != configuration.Bond {
		return planner.TriggerSpec{}, fmt.Errorf("notifier %q does not reschedule itself", name)
	}
	if a.cfg.Trigger.Kind == "local" {
		return planner.TriggerSpec{}, ErrNoTriggerState
	}
	applicator, err := a.Applicator()
	if err != nil {
		return planner.TriggerSpec{}, err
	}
	d, ok := applicator.(Describer)
	if !ok {
		return planner.TriggerSpec{}, fmt.Errorf("trigger %q cannot be described", a.cfg.Trigger.Kind)
	}
	return d.Describe(ctx, a.id(name))
}

// Mirror returns the garage door's shadow mirror.
func (a *App) Mirror() shadow.Mirror {
	return shadow.Mirror{
		Client:     a.clients.IoTData,
		ThingName:  a.cfg.GarageDoor.Thing,
		ShadowName: a.cfg.GarageDoor.Shadow,
		Field:      configuration.GarageDoor,
		Logger:     a.logger.With("notifier", configuration.GarageDoor),
	}
}

// Publisher returns the publisher for the configured bus. If Slack is configured, notifications are also
// posted to Slack.
func (a *App) Publisher() notifier.Publisher {
	var p publisher.Publishers
	switch a.cfg.Bus.Kind {
	case "iot":
		p = append(p, publisher.IoT{Client: a.clients.IoTData})
	case "nats":
		p = append(p, publisher.NATS{Conn: a.clients.NATS})
	default:
		p = append(p, publisher.SLog{Logger: a.logger.With("component", "bus")})
	}
	if a.clients.Slack != nil {
		p = append(p, publisher.Slack{Client: a.clients.Slack, Channel: a.cfg.Slack.Channel})
	}
	if len(p) == 1 {
		return p[0]
	}
	return p
}

// Store returns the configured state store.
func (a *App) Store() (notifier.Store, error) {
	switch a.cfg.Store.Kind {
	case "route53":
		return &state.Route53{Client: a.clients.Route53, HostedZoneID: a.cfg.Store.Route53.HostedZoneID}, nil
	case "redis":
		return state.Redis{Client: a.clients.Redis, Namespace: a.cfg.Store.Redis.Namespace}, nil
	case "memory":
		return &state.Memory{}, nil
	default:
		return nil, fmt.Errorf("invalid store %q", a.cfg.Store.Kind)
	}
}

// Applicator returns the configured trigger applicator.
func (a *App) Applicator() (notifier.Applicator, error) {
	switch a.cfg.Trigger.Kind {
	case "eventbridge":
		return trigger.EventBridge{Client: a.clients.EventBridge, Descriptions: map[string]string{
			a.cfg.ISS.Prefix:  "Scheduled trigger for the next ISS pass",
			a.cfg.Bond.Prefix: "Scheduled trigger for the next Bond movie",
		}}, nil
	case "local":
		return trigger.NewLocal(a.location, a.logger.With("component", "trigger")), nil
	default:
		return nil, fmt.Errorf("invalid trigger %q", a.cfg.Trigger.Kind)
	}
}

// Serve runs the configured notifiers until ctx is canceled. Each notifier fires on its bootstrap schedule
// until it reschedules itself. Serve also runs the health and metrics endpoints.
func (a *App) Serve(ctx context.Context) error {
	local := trigger.NewLocal(a.location, a.logger.With("component", "trigger"))
	for _, name := range a.cfg.Serve.Notifiers {
		task, schedule, err := a.Notifier(name, local)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err = local.Register(a.id(name), schedule, task); err != nil {
			return err
		}
		a.logger.Info("notifier registered", "notifier", name, "schedule", schedule)
	}

	h := health.New(a.results, a.logger.With("component", "health"))
	healthMux := http.NewServeMux()
	healthMux.Handle("/health", h)
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return local.Run(ctx) })
	g.Go(func() error { return h.Run(ctx) })
	g.Go(func() error { return runHTTPServer(ctx, a.cfg.Serve.Health.Addr, healthMux) })
	g.Go(func() error { return runHTTPServer(ctx, a.cfg.Serve.Metrics.Addr, metricsMux) })
	return g.Wait()
}

func (a *App) id(name string) string {
	switch name {
	case configuration.ISS:
		return a.cfg.ISS.Prefix
	case configuration.Bond:
		return a.cfg.Bond.Prefix
	case configuration.LunarLander:
		return a.cfg.LunarLander.Prefix
	default:
		return name
	}
}

func runHTTPServer(ctx context.Context, addr string, h http.Handler) error {
	s := http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}
