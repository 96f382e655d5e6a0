// Package awsclient creates the AWS service clients.
package awsclient

import (
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/clambin/aws4home/internal/configuration"
)

// Clients creates AWS service clients from a shared configuration.
type Clients struct {
	Config aws.Config
}

// New loads the AWS configuration from the environment, overridden by the application's AWS configuration.
// If httpClient is not nil, all clients use it to send requests. A custom CA bundle (AWS_CA_BUNDLE) can only be
// applied to an *awshttp.BuildableClient.
func New(ctx context.Context, cfg configuration.AWS, httpClient aws.HTTPClient) (*Clients, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	if httpClient != nil {
		opts = append(opts, config.WithHTTPClient(httpClient))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	if cfg.Endpoint != "" {
		awsCfg.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return &Clients{Config: awsCfg}, nil
}

func (c *Clients) IoTData() *iotdataplane.Client {
	return iotdataplane.NewFromConfig(c.Config)
}

func (c *Clients) EventBridge() *eventbridge.Client {
	return eventbridge.NewFromConfig(c.Config)
}

func (c *Clients) Route53() *route53.Client {
	return route53.NewFromConfig(c.Config)
}
