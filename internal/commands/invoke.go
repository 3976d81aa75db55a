// Package commands implements the stackhook CLI subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/deploykit/stackhook/internal/cfn"
	"github.com/deploykit/stackhook/internal/config"
	"github.com/deploykit/stackhook/internal/dispatch"
	"github.com/deploykit/stackhook/pkg/types"
)

// NewInvokeCmd creates the invoke command.
func NewInvokeCmd() *cobra.Command {
	var (
		requestType string
		physicalID  string
		legacyKey   bool
	)

	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Send a synthetic lifecycle event through the dispatcher",
		Long: `Invoke builds a synthetic Create/Update/Delete lifecycle event from
stackhook.yaml and runs it through the real dispatcher against CodeBuild.
Useful for smoke-testing a project before wiring it into a stack.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoke(requestType, physicalID, legacyKey)
		},
	}
	cmd.Flags().StringVarP(&requestType, "request-type", "t", "Create", "lifecycle event type (Create, Update, Delete)")
	cmd.Flags().StringVar(&physicalID, "physical-id", "", "physical resource id carried by Update/Delete events")
	cmd.Flags().BoolVar(&legacyKey, "legacy-update-callback-key", false, "reproduce the original Update callback-key lookup")
	return cmd
}

func runInvoke(requestType, physicalID string, legacyKey bool) error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	starter, err := newStarter(ctx, cfg.Region)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	opts := []dispatch.Option{dispatch.WithLogger(logger)}
	if legacyKey {
		opts = append(opts, dispatch.WithLegacyUpdateCallbackKey())
	}
	d := dispatch.New(starter, opts...)

	ev := newLifecycleEvent(cfg, types.RequestType(requestType), physicalID)
	out := d.Dispatch(ctx, ev)

	if out.Response != nil {
		responder := cfn.NewResponder(cfn.WithLogger(logger))
		if err := responder.Send(ctx, ev.ResponseURL, out.Response); err != nil {
			return fmt.Errorf("sending response: %w", err)
		}
		printResponse(out.Response)
	} else if out.Err == nil {
		fmt.Println("response delegated to the build job")
	}

	if out.Err != nil {
		return fmt.Errorf("dispatch failed: %w", out.Err)
	}
	return nil
}

// newLifecycleEvent assembles a synthetic event from CLI configuration.
// Property values use the string form CloudFormation itself sends.
func newLifecycleEvent(cfg *config.Config, requestType types.RequestType, physicalID string) cfn.LifecycleEvent {
	return cfn.LifecycleEvent{
		RequestType:        requestType,
		LogicalResourceID:  "StackhookInvoke",
		RequestID:          ulid.Make().String(),
		StackID:            "stackhook-cli",
		PhysicalResourceID: physicalID,
		ResponseURL:        cfg.ResponseURL,
		ResourceProperties: map[string]interface{}{
			"ProjectName":       cfg.ProjectName,
			"BuildOnDelete":     fmt.Sprintf("%t", cfg.BuildOnDelete),
			"CodeBuildCallback": fmt.Sprintf("%t", cfg.CodeBuildCallback),
			"IgnoreUpdate":      fmt.Sprintf("%t", cfg.IgnoreUpdate),
		},
	}
}

func printResponse(resp *cfn.Response) {
	statusStr := color.GreenString(string(resp.Status))
	if resp.Status == types.StatusFailed {
		statusStr = color.RedString(string(resp.Status))
	}
	fmt.Printf("%s  %s\n", statusStr, resp.Reason)
	fmt.Printf("physical resource id: %s\n", resp.PhysicalResourceID)
}
