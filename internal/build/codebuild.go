// Package build starts and inspects CodeBuild jobs.
package build

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/codebuild"
	cbtypes "github.com/aws/aws-sdk-go-v2/service/codebuild/types"

	"github.com/deploykit/stackhook/internal/metrics"
)

// CodeBuildAPI is the subset of the CodeBuild client used by this package.
type CodeBuildAPI interface {
	StartBuild(ctx context.Context, params *codebuild.StartBuildInput, optFns ...func(*codebuild.Options)) (*codebuild.StartBuildOutput, error)
	BatchGetBuilds(ctx context.Context, params *codebuild.BatchGetBuildsInput, optFns ...func(*codebuild.Options)) (*codebuild.BatchGetBuildsOutput, error)
}

// EnvOverride is one plaintext environment variable override passed to a
// build. Order is preserved.
type EnvOverride struct {
	Name  string
	Value string
}

// StartResult identifies a started build.
type StartResult struct {
	ID     string // e.g. "my-project:f6e4ea2f-..."
	ARN    string
	Number int64
}

// Starter starts CodeBuild jobs.
type Starter struct {
	client CodeBuildAPI
}

// StarterOption configures a Starter.
type StarterOption func(*Starter)

// WithClient sets a custom CodeBuild client (useful for testing).
func WithClient(c CodeBuildAPI) StarterOption {
	return func(s *Starter) { s.client = c }
}

// NewStarter creates a Starter with the given options. Without an injected
// client, one is built from the default AWS config chain.
func NewStarter(ctx context.Context, opts ...StarterOption) (*Starter, error) {
	s := &Starter{}
	for _, o := range opts {
		o(s)
	}
	if s.client == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		s.client = codebuild.NewFromConfig(cfg)
	}
	return s, nil
}

// Start launches one build for the project with the given environment
// overrides. One attempt; failures are returned to the caller with no
// retry.
func (s *Starter) Start(ctx context.Context, project string, env []EnvOverride) (StartResult, error) {
	if project == "" {
		return StartResult{}, fmt.Errorf("start build: project name is required")
	}

	overrides := make([]cbtypes.EnvironmentVariable, 0, len(env))
	for _, e := range env {
		overrides = append(overrides, cbtypes.EnvironmentVariable{
			Name:  aws.String(e.Name),
			Value: aws.String(e.Value),
			Type:  cbtypes.EnvironmentVariableTypePlaintext,
		})
	}

	out, err := s.client.StartBuild(ctx, &codebuild.StartBuildInput{
		ProjectName:                  aws.String(project),
		EnvironmentVariablesOverride: overrides,
	})
	if err != nil {
		return StartResult{}, fmt.Errorf("start build: StartBuild failed: %w", err)
	}
	if out.Build == nil {
		return StartResult{}, fmt.Errorf("start build: StartBuild returned nil build")
	}

	res := StartResult{}
	if out.Build.Id != nil {
		res.ID = *out.Build.Id
	}
	if out.Build.Arn != nil {
		res.ARN = *out.Build.Arn
	}
	if out.Build.BuildNumber != nil {
		res.Number = *out.Build.BuildNumber
	}

	metrics.BuildsStarted.Add(1)
	return res, nil
}
