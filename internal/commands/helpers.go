package commands

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/codebuild"

	"github.com/deploykit/stackhook/internal/build"
)

// newStarter creates a CodeBuild starter, honoring a region override.
func newStarter(ctx context.Context, region string) (*build.Starter, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return build.NewStarter(ctx, build.WithClient(codebuild.NewFromConfig(cfg)))
}
