package commands

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/deploykit/stackhook/internal/build"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	var (
		interval time.Duration
		region   string
		tailLogs bool
	)

	cmd := &cobra.Command{
		Use:   "watch <build-id>",
		Short: "Poll a build until it reaches a terminal state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(args[0], region, interval, tailLogs)
		},
	}
	cmd.Flags().DurationVarP(&interval, "interval", "i", 10*time.Second, "poll interval")
	cmd.Flags().StringVar(&region, "region", "", "AWS region override")
	cmd.Flags().BoolVar(&tailLogs, "logs", false, "tail the build's CloudWatch log stream")
	return cmd
}

func runWatch(buildID, region string, interval time.Duration, tailLogs bool) error {
	ctx := context.Background()

	starter, err := newStarter(ctx, region)
	if err != nil {
		return err
	}

	var logsClient build.CloudWatchLogsAPI
	if tailLogs {
		logsClient, err = newLogsClient(ctx, region)
		if err != nil {
			return err
		}
	}

	var tailer *build.LogTailer
	for {
		res, err := starter.CheckStatus(ctx, buildID)
		if err != nil {
			return fmt.Errorf("checking build status: %w", err)
		}

		if tailLogs && tailer == nil {
			group, stream, err := starter.LogLocation(ctx, buildID)
			if err != nil {
				return fmt.Errorf("locating build logs: %w", err)
			}
			if group != "" && stream != "" {
				tailer = build.NewLogTailer(logsClient, group, stream)
			}
		}
		if tailer != nil {
			lines, err := tailer.Next(ctx)
			if err != nil {
				return fmt.Errorf("tailing build logs: %w", err)
			}
			for _, line := range lines {
				fmt.Print(line)
			}
		}

		switch res.State {
		case build.CheckSucceeded:
			fmt.Printf("%s  %s\n", color.GreenString("SUCCEEDED"), res.Message)
			return nil
		case build.CheckFailed:
			fmt.Printf("%s  %s\n", color.RedString("FAILED"), res.Message)
			return fmt.Errorf("build %s failed: %s", buildID, res.Message)
		default:
			fmt.Printf("%s  %s\n", color.YellowString("RUNNING"), res.Message)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

func newLogsClient(ctx context.Context, region string) (build.CloudWatchLogsAPI, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return cloudwatchlogs.NewFromConfig(cfg), nil
}
