package client

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"github.com/Nao-Mk2/aws-log-lister/internal/model"
)

// GroupsQuery parameterizes DescribeLogGroups.
type GroupsQuery struct {
	Limit  int32
	Prefix string
}

// StreamsQuery parameterizes DescribeLogStreams for one group.
type StreamsQuery struct {
	Group string
	Limit int32
}

// EventsQuery parameterizes GetLogEvents for one stream.
type EventsQuery struct {
	Group  string
	Stream string
	Window model.TimeWindow
	Limit  int32
}

// DescribeGroups fetches one page of log groups.
func (c *CloudWatchClient) DescribeGroups(ctx context.Context, q GroupsQuery, token *string) (model.Page[model.LogGroup], error) {
	in := &cloudwatchlogs.DescribeLogGroupsInput{
		Limit:     aws.Int32(q.Limit),
		NextToken: token,
	}
	if q.Prefix != "" {
		in.LogGroupNamePrefix = aws.String(q.Prefix)
	}
	out, err := c.client.DescribeLogGroups(ctx, in)
	if err != nil {
		return model.Page[model.LogGroup]{}, Classify("DescribeLogGroups", err)
	}
	groups := make([]model.LogGroup, 0, len(out.LogGroups))
	for _, g := range out.LogGroups {
		groups = append(groups, model.LogGroup{Name: g.LogGroupName})
	}
	return model.Page[model.LogGroup]{Items: groups, NextToken: out.NextToken}, nil
}

// DescribeStreams fetches one page of the group's streams, oldest last event first.
func (c *CloudWatchClient) DescribeStreams(ctx context.Context, q StreamsQuery, token *string) (model.Page[model.LogStream], error) {
	out, err := c.client.DescribeLogStreams(ctx, &cloudwatchlogs.DescribeLogStreamsInput{
		LogGroupName: aws.String(q.Group),
		Limit:        aws.Int32(q.Limit),
		OrderBy:      types.OrderByLastEventTime,
		Descending:   aws.Bool(false),
		NextToken:    token,
	})
	if err != nil {
		return model.Page[model.LogStream]{}, Classify("DescribeLogStreams", err)
	}
	streams := make([]model.LogStream, 0, len(out.LogStreams))
	for _, s := range out.LogStreams {
		streams = append(streams, model.LogStream{Name: s.LogStreamName})
	}
	return model.Page[model.LogStream]{Items: streams, NextToken: out.NextToken}, nil
}

// GetEvents fetches one page of events read forward from the window start.
// The page token is the forward token.
func (c *CloudWatchClient) GetEvents(ctx context.Context, q EventsQuery, token *string) (model.Page[model.LogEvent], error) {
	out, err := c.client.GetLogEvents(ctx, &cloudwatchlogs.GetLogEventsInput{
		LogGroupName:  aws.String(q.Group),
		LogStreamName: aws.String(q.Stream),
		StartTime:     aws.Int64(q.Window.StartMillis()),
		EndTime:       aws.Int64(q.Window.EndMillis()),
		Limit:         aws.Int32(q.Limit),
		StartFromHead: aws.Bool(true),
		NextToken:     token,
	})
	if err != nil {
		return model.Page[model.LogEvent]{}, Classify("GetLogEvents", err)
	}
	events := make([]model.LogEvent, 0, len(out.Events))
	for _, e := range out.Events {
		events = append(events, model.LogEvent{
			IngestionTime: e.IngestionTime,
			Message:       e.Message,
			Timestamp:     e.Timestamp,
		})
	}
	return model.Page[model.LogEvent]{Items: events, NextToken: out.NextForwardToken}, nil
}
