package inspector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nao-Mk2/aws-log-lister/internal/client"
	"github.com/Nao-Mk2/aws-log-lister/internal/match"
	"github.com/Nao-Mk2/aws-log-lister/internal/model"
	"github.com/Nao-Mk2/aws-log-lister/internal/pager"
	"github.com/Nao-Mk2/aws-log-lister/internal/throttle"
	"github.com/Nao-Mk2/aws-log-lister/internal/window"
)

// LogsSource is the paged remote API the Inspector reads from.
type LogsSource interface {
	DescribeGroups(ctx context.Context, q client.GroupsQuery, token *string) (model.Page[model.LogGroup], error)
	DescribeStreams(ctx context.Context, q client.StreamsQuery, token *string) (model.Page[model.LogStream], error)
	GetEvents(ctx context.Context, q client.EventsQuery, token *string) (model.Page[model.LogEvent], error)
}

// Config tunes an Inspector. Zero fields take the defaults of DefaultConfig.
type Config struct {
	GroupPageSize  int32
	StreamPageSize int32
	EventPageSize  int32
	// GroupPrefix restricts ListGroups to names with this prefix.
	GroupPrefix string
	// Workers is the number of streams whose events are fetched at once.
	// Output order does not depend on it.
	Workers       int
	ThrottleDelay time.Duration
	// Matcher, when set, keeps only events whose message matches.
	Matcher *match.Matcher
	// Now is the clock used to resolve event windows.
	Now func() time.Time
}

// DefaultConfig returns the page sizes and delays CloudWatch Logs is queried with.
func DefaultConfig() Config {
	return Config{
		GroupPageSize:  50,
		StreamPageSize: 50,
		EventPageSize:  10000,
		Workers:        1,
		ThrottleDelay:  throttle.DefaultDelay,
		Now:            time.Now,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.GroupPageSize <= 0 {
		c.GroupPageSize = d.GroupPageSize
	}
	if c.StreamPageSize <= 0 {
		c.StreamPageSize = d.StreamPageSize
	}
	if c.EventPageSize <= 0 {
		c.EventPageSize = d.EventPageSize
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.ThrottleDelay <= 0 {
		c.ThrottleDelay = d.ThrottleDelay
	}
	if c.Now == nil {
		c.Now = d.Now
	}
	return c
}

// Inspector lists groups, streams and events. Results go to out, one per
// line; diagnostics go to the logger.
type Inspector struct {
	source   LogsSource
	out      io.Writer
	logger   zerolog.Logger
	cfg      Config
	throttle pager.Waiter
	resolver *window.Resolver
}

// New creates an Inspector.
func New(source LogsSource, out io.Writer, logger zerolog.Logger, cfg Config) *Inspector {
	cfg = cfg.withDefaults()
	return &Inspector{
		source:   source,
		out:      out,
		logger:   logger,
		cfg:      cfg,
		throttle: throttle.New(cfg.ThrottleDelay),
		resolver: window.NewResolver(cfg.Now, logger),
	}
}

// SetThrottle replaces the wait used before retrying throttled requests.
func (in *Inspector) SetThrottle(w pager.Waiter) { in.throttle = w }

// ListGroups writes the name of every log group.
func (in *Inspector) ListGroups(ctx context.Context) error {
	q := client.GroupsQuery{Limit: in.cfg.GroupPageSize, Prefix: in.cfg.GroupPrefix}
	p := pager.New[model.LogGroup]("log groups", pager.UntilNoToken, in.throttle, in.logger)
	groups, err := p.Run(ctx, func(ctx context.Context, token *string) (model.Page[model.LogGroup], error) {
		return in.source.DescribeGroups(ctx, q, token)
	})
	if err := in.report(ctx, err, in.logger.With().Str("resource", "log groups").Logger()); err != nil {
		return err
	}
	names, err := names("log group", groups, func(g model.LogGroup) *string { return g.Name })
	if err != nil {
		return err
	}
	return in.writeLines(names)
}

// ListStreams writes the name of every stream of group.
func (in *Inspector) ListStreams(ctx context.Context, group string) error {
	streams, err := in.streams(ctx, group)
	if err != nil {
		return err
	}
	return in.writeLines(streams)
}

// ListEvents writes the events of every stream of group within the window
// resolved from start and end, as "ingestionTime message timestamp".
// Events are written in stream order, then in the order they were read.
func (in *Inspector) ListEvents(ctx context.Context, group, start, end string) error {
	w := in.resolver.Resolve(start, end)
	streams, err := in.streams(ctx, group)
	if err != nil {
		return err
	}
	perStream, err := in.collectEvents(ctx, group, streams, w)
	if err != nil {
		return err
	}
	for _, events := range perStream {
		for _, e := range events {
			if !e.Complete() {
				continue
			}
			if in.cfg.Matcher != nil && !in.cfg.Matcher.Match(*e.Message) {
				continue
			}
			if _, err := fmt.Fprintf(in.out, "%d %s %d\n", *e.IngestionTime, *e.Message, *e.Timestamp); err != nil {
				return fmt.Errorf("write event: %w", err)
			}
		}
	}
	return nil
}

func (in *Inspector) streams(ctx context.Context, group string) ([]string, error) {
	q := client.StreamsQuery{Group: group, Limit: in.cfg.StreamPageSize}
	p := pager.New[model.LogStream]("log streams", pager.UntilNoToken, in.throttle, in.logger)
	streams, err := p.Run(ctx, func(ctx context.Context, token *string) (model.Page[model.LogStream], error) {
		return in.source.DescribeStreams(ctx, q, token)
	})
	if err := in.report(ctx, err, in.logger.With().Str("resource", "log streams").Str("group", group).Logger()); err != nil {
		return nil, err
	}
	return names("log stream", streams, func(s model.LogStream) *string { return s.Name })
}

func (in *Inspector) streamEvents(ctx context.Context, group, stream string, w model.TimeWindow) ([]model.LogEvent, error) {
	q := client.EventsQuery{Group: group, Stream: stream, Window: w, Limit: in.cfg.EventPageSize}
	p := pager.New[model.LogEvent]("log events", pager.ForwardToken, in.throttle, in.logger)
	events, err := p.Run(ctx, func(ctx context.Context, token *string) (model.Page[model.LogEvent], error) {
		return in.source.GetEvents(ctx, q, token)
	})
	if err := in.report(ctx, err, in.logger.With().Str("resource", "log events").Str("group", group).Str("stream", stream).Logger()); err != nil {
		return nil, err
	}
	return events, nil
}

// report logs a failed pagination run. Only cancellation is returned to
// the caller; other failures keep the partial results.
func (in *Inspector) report(ctx context.Context, err error, logger zerolog.Logger) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	logger.Error().Err(err).Msg("fetch failed, keeping partial results")
	return nil
}

func (in *Inspector) writeLines(lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(in.out, l); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}

// names extracts the name of every item, failing on the first item without one.
func names[T any](resource string, items []T, name func(T) *string) ([]string, error) {
	out := make([]string, 0, len(items))
	for i, it := range items {
		n := name(it)
		if n == nil {
			return nil, &model.DataIntegrityError{Resource: resource, Index: i}
		}
		out = append(out, *n)
	}
	return out, nil
}
