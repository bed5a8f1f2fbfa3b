package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/Nao-Mk2/aws-log-lister/internal/client"
	"github.com/Nao-Mk2/aws-log-lister/internal/inspector"
	"github.com/Nao-Mk2/aws-log-lister/internal/throttle"
)

// EnvPrefix prefixes the environment variables read by LoadEnv,
// e.g. AWS_LOG_LISTER_EVENT_PAGE_SIZE.
const EnvPrefix = "AWS_LOG_LISTER_"

// Options holds CLI options after applying defaults, environment and flags.
type Options struct {
	Profile string `koanf:"profile"`
	Region  string `koanf:"region"`

	Start  string `koanf:"start"`
	End    string `koanf:"end"`
	Prefix string `koanf:"prefix"`
	Match  string `koanf:"match"`

	Workers        int           `koanf:"workers" validate:"min=1,max=64"`
	ThrottleDelay  time.Duration `koanf:"throttle_delay" validate:"gt=0"`
	GroupPageSize  int32         `koanf:"group_page_size" validate:"min=1,max=50"`
	StreamPageSize int32         `koanf:"stream_page_size" validate:"min=1,max=50"`
	EventPageSize  int32         `koanf:"event_page_size" validate:"min=1,max=10000"`

	Debug bool `koanf:"debug"`
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() *Options {
	cfg := inspector.DefaultConfig()
	return &Options{
		Region:         os.Getenv("AWS_REGION"),
		Workers:        cfg.Workers,
		ThrottleDelay:  throttle.DefaultDelay,
		GroupPageSize:  cfg.GroupPageSize,
		StreamPageSize: cfg.StreamPageSize,
		EventPageSize:  cfg.EventPageSize,
	}
}

// LoadEnv overlays AWS_LOG_LISTER_* environment variables onto o.
// Variables that are not set leave the current value untouched.
func (o *Options) LoadEnv() error {
	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return fmt.Errorf("load environment: %w", err)
	}
	if err := k.Unmarshal("", o); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// Validate checks value ranges.
func (o *Options) Validate() error {
	if err := validator.New().Struct(o); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

// BindGlobalFlags registers flags shared by all subcommands. Current
// values become the flag defaults, so flags override the environment.
func (o *Options) BindGlobalFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Profile, "profile", "p", o.Profile, "AWS shared config profile (or set AWS_PROFILE)")
	fs.StringVar(&o.Region, "region", o.Region, "AWS region (optional; falls back to AWS defaults)")
	fs.DurationVar(&o.ThrottleDelay, "throttle-delay", o.ThrottleDelay, "Pause before retrying a throttled request")
	fs.BoolVar(&o.Debug, "debug", o.Debug, "Log every fetched page to stderr")
}

// BindGroupFlags registers flags of the groups subcommand.
func (o *Options) BindGroupFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Prefix, "prefix", o.Prefix, "Only list log groups whose name starts with this prefix")
	fs.Int32Var(&o.GroupPageSize, "page-size", o.GroupPageSize, "Log groups requested per page (1-50)")
}

// BindStreamFlags registers flags of the streams subcommand.
func (o *Options) BindStreamFlags(fs *pflag.FlagSet) {
	fs.Int32Var(&o.StreamPageSize, "page-size", o.StreamPageSize, "Log streams requested per page (1-50)")
}

// BindEventFlags registers flags of the events subcommand.
func (o *Options) BindEventFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Start, "start", "s", o.Start, `Only show events newer than this, e.g. "2 hours ago" or 90m (default 1 hour ago)`)
	fs.StringVarP(&o.End, "end", "e", o.End, `Only show events older than this, e.g. "10 minutes ago" (default now)`)
	fs.StringVar(&o.Match, "match", o.Match, "JMESPath expression; only events whose message matches are shown")
	fs.IntVar(&o.Workers, "workers", o.Workers, "Streams fetched concurrently (output order is unchanged)")
	fs.Int32Var(&o.EventPageSize, "limit", o.EventPageSize, "Events requested per page (1-10000)")
}

// AuthOptions returns the credentials selection for the AWS client.
func (o *Options) AuthOptions() client.AuthOptions {
	return client.AuthOptions{Region: o.Region, Profile: o.Profile}
}

// InspectorConfig maps options onto the inspector configuration. The
// matcher is compiled by the caller.
func (o *Options) InspectorConfig() inspector.Config {
	cfg := inspector.DefaultConfig()
	cfg.GroupPageSize = o.GroupPageSize
	cfg.StreamPageSize = o.StreamPageSize
	cfg.EventPageSize = o.EventPageSize
	cfg.GroupPrefix = o.Prefix
	cfg.Workers = o.Workers
	cfg.ThrottleDelay = o.ThrottleDelay
	return cfg
}

// NewLogger returns the diagnostic logger writing human-readable lines to w.
func NewLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}
