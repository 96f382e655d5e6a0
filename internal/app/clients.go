package app

import (
	"context"
	"fmt"
	"github.com/clambin/aws4home/internal/awsclient"
	"github.com/clambin/aws4home/internal/configuration"
	"github.com/clambin/aws4home/internal/publisher"
	"github.com/clambin/aws4home/internal/shadow"
	"github.com/clambin/aws4home/internal/state"
	"github.com/clambin/aws4home/internal/trigger"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/slack-go/slack"
	"log/slog"
	"net/http"
)

// IoTDataAPI is the subset of the IoT data plane client used by the device bus and the shadow mirror.
type IoTDataAPI interface {
	publisher.IoTDataAPI
	shadow.ShadowAPI
}

// Clients holds the clients of the external services used by the notifiers. Only the clients needed by the
// configuration must be set.
type Clients struct {
	IoTData     IoTDataAPI
	EventBridge trigger.EventBridgeAPI
	Route53     state.Route53API
	Redis       redis.UniversalClient
	NATS        publisher.NATSConn
	Slack       publisher.SlackSender
	// HTTP is the client used by the event sources. If nil, App uses an instrumented client.
	HTTP *http.Client
}

// NewClients creates the clients needed by the configuration. The returned function closes any open connections.
func NewClients(ctx context.Context, cfg configuration.Configuration, logger *slog.Logger) (Clients, func(), error) {
	var c Clients
	var closers []func()
	closeAll := func() {
		for _, f := range closers {
			f()
		}
	}

	aws, err := awsclient.New(ctx, cfg.AWS, nil)
	if err != nil {
		return c, closeAll, err
	}
	// AWS clients don't connect until first use
	c.IoTData = aws.IoTData()
	c.EventBridge = aws.EventBridge()
	c.Route53 = aws.Route53()

	if cfg.Store.Kind == "redis" {
		rc := redis.NewClient(&redis.Options{Addr: cfg.Store.Redis.Addr})
		closers = append(closers, func() { _ = rc.Close() })
		c.Redis = rc
	}

	if cfg.Bus.Kind == "nats" {
		nc, err := nats.Connect(cfg.Bus.NATS.URL, nats.Name("aws4home"))
		if err != nil {
			return c, closeAll, fmt.Errorf("nats: %w", err)
		}
		closers = append(closers, func() {
			if err := nc.Drain(); err != nil {
				logger.Warn("failed to drain nats connection", "err", err)
			}
		})
		c.NATS = nc
	}

	if cfg.Slack.Token != "" {
		c.Slack = slack.New(cfg.Slack.Token)
	}
	return c, closeAll, nil
}
