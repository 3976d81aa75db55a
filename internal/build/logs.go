package build

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

// CloudWatchLogsAPI is the subset of the CloudWatch Logs client used for
// tailing build output.
type CloudWatchLogsAPI interface {
	GetLogEvents(ctx context.Context, params *cloudwatchlogs.GetLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.GetLogEventsOutput, error)
}

// LogTailer incrementally reads a build's CloudWatch log stream.
type LogTailer struct {
	client    CloudWatchLogsAPI
	group     string
	stream    string
	nextToken *string
}

// NewLogTailer creates a tailer for the given log group and stream.
func NewLogTailer(client CloudWatchLogsAPI, group, stream string) *LogTailer {
	return &LogTailer{client: client, group: group, stream: stream}
}

// Next returns log lines appended since the previous call.
func (t *LogTailer) Next(ctx context.Context) ([]string, error) {
	out, err := t.client.GetLogEvents(ctx, &cloudwatchlogs.GetLogEventsInput{
		LogGroupName:  aws.String(t.group),
		LogStreamName: aws.String(t.stream),
		NextToken:     t.nextToken,
		StartFromHead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get log events: %w", err)
	}

	lines := make([]string, 0, len(out.Events))
	for _, e := range out.Events {
		if e.Message != nil {
			lines = append(lines, *e.Message)
		}
	}
	t.nextToken = out.NextForwardToken
	return lines, nil
}
