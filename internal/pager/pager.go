// Package pager drives token-paginated API calls to completion.
//
// A run starts with no token, appends the items of each page and asks its
// Strategy whether to continue. Rate-limited fetches are retried with the
// same token after the throttle delay, without limit. Any other failure
// ends the run; the items gathered so far are returned with the error.
package pager

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Nao-Mk2/aws-log-lister/internal/model"
)

// Strategy decides how a run advances from one token to the next.
type Strategy int

const (
	// UntilNoToken continues while the returned token is present.
	UntilNoToken Strategy = iota
	// ForwardToken is for GetLogEvents forward tokens, which repeat at the
	// end of a stream. A repeated token ends the run unless the previous
	// fetch was throttled, in which case the run advances once more.
	ForwardToken
)

func (s Strategy) String() string {
	if s == ForwardToken {
		return "forward-token"
	}
	return "until-no-token"
}

// FetchFunc fetches the page addressed by token; a nil token is the first page.
type FetchFunc[T any] func(ctx context.Context, token *string) (model.Page[T], error)

// Waiter pauses before a throttled fetch is retried.
type Waiter interface {
	Wait(ctx context.Context) error
}

// Paginator runs FetchFunc until the source is exhausted.
type Paginator[T any] struct {
	Strategy Strategy
	Throttle Waiter
	Logger   zerolog.Logger
	// Resource names what is fetched, for debug output.
	Resource string
}

// New returns a Paginator for the given resource.
func New[T any](resource string, strategy Strategy, throttle Waiter, logger zerolog.Logger) *Paginator[T] {
	return &Paginator[T]{Strategy: strategy, Throttle: throttle, Logger: logger, Resource: resource}
}

// Run fetches every page and returns the concatenated items in request order.
// A non-nil error means the run stopped early; the returned items are the
// ones accumulated before the failure.
func (p *Paginator[T]) Run(ctx context.Context, fetch FetchFunc[T]) ([]T, error) {
	var (
		items   []T
		token   *string
		isRetry bool
		pages   int
	)
	for {
		if err := ctx.Err(); err != nil {
			return items, err
		}
		page, err := fetch(ctx, token)
		if err != nil {
			if !model.IsRateLimited(err) {
				return items, err
			}
			p.Logger.Debug().Str("resource", p.Resource).Int("page", pages).Msg("throttled, retrying same token")
			isRetry = true
			if werr := p.Throttle.Wait(ctx); werr != nil {
				return items, werr
			}
			continue
		}
		pages++
		items = append(items, page.Items...)
		p.Logger.Debug().
			Str("resource", p.Resource).
			Stringer("strategy", p.Strategy).
			Int("page", pages).
			Int("items", len(page.Items)).
			Msg("page fetched")

		next, ok := p.advance(token, page.NextToken, isRetry)
		isRetry = false
		if !ok {
			return items, nil
		}
		token = next
	}
}

func (p *Paginator[T]) advance(prev, next *string, isRetry bool) (*string, bool) {
	if p.Strategy == UntilNoToken {
		return next, present(next)
	}
	switch {
	case prev == nil:
		return next, present(next)
	case present(prev) && present(next) && *prev != *next:
		return next, true
	case isRetry:
		return next, present(next)
	default:
		return nil, false
	}
}

func present(s *string) bool { return s != nil && *s != "" }
