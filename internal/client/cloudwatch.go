package client

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

// LogsAPI is the subset of the CloudWatch Logs API we use.
type LogsAPI interface {
	DescribeLogGroups(ctx context.Context, params *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error)
	DescribeLogStreams(ctx context.Context, params *cloudwatchlogs.DescribeLogStreamsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogStreamsOutput, error)
	GetLogEvents(ctx context.Context, params *cloudwatchlogs.GetLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.GetLogEventsOutput, error)
}

// AuthOptions selects region and credentials. Both fields are optional.
type AuthOptions struct {
	Region  string
	Profile string
}

// CloudWatchClient adapts the CloudWatch Logs API to typed pages.
type CloudWatchClient struct {
	client LogsAPI
}

// New wraps an existing LogsAPI implementation.
func New(api LogsAPI) *CloudWatchClient {
	return &CloudWatchClient{client: api}
}

// NewCloudWatchOptions builds config load options from AuthOptions and the
// environment. The profile comes from the options or AWS_PROFILE; static
// credentials from AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY are used only
// when no profile is selected.
func NewCloudWatchOptions(o AuthOptions) []func(*config.LoadOptions) error {
	var opts []func(*config.LoadOptions) error
	if o.Region != "" {
		opts = append(opts, config.WithRegion(o.Region))
	}
	profile := o.Profile
	if profile == "" {
		profile = os.Getenv("AWS_PROFILE")
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
		return opts
	}
	key, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if key != "" && secret != "" {
		provider := credentials.NewStaticCredentialsProvider(key, secret, os.Getenv("AWS_SESSION_TOKEN"))
		opts = append(opts, config.WithCredentialsProvider(provider))
	}
	return opts
}

// NewCloudWatchClient loads AWS configuration and returns a client.
// The SDK retryer is disabled: throttled calls surface as rate-limited
// FetchErrors and are retried by the paginator.
func NewCloudWatchClient(ctx context.Context, o AuthOptions) (*CloudWatchClient, error) {
	opts := NewCloudWatchOptions(o)
	opts = append(opts, config.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }))
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return New(cloudwatchlogs.NewFromConfig(cfg)), nil
}
