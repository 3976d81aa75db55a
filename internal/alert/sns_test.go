package alert

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploykit/stackhook/pkg/types"
)

type mockSNSClient struct {
	in  *sns.PublishInput
	err error
}

func (m *mockSNSClient) Publish(ctx context.Context, input *sns.PublishInput, opts ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.in = input
	return &sns.PublishOutput{}, m.err
}

func TestSNSSink_Send(t *testing.T) {
	client := &mockSNSClient{}
	sink, err := NewSNSSink("arn:aws:sns:us-east-1:123456789012:alerts", WithSNSClient(client))
	require.NoError(t, err)

	a := types.Alert{
		Level:     types.AlertLevelError,
		StackID:   "stack-1",
		LogicalID: "DeployResource",
		Message:   "Dispatch failed for DeployResource",
		Timestamp: time.Now(),
	}
	require.NoError(t, sink.Send(context.Background(), a))

	require.NotNil(t, client.in)
	assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:alerts", *client.in.TopicArn)
	assert.Equal(t, "[ERROR] DeployResource", *client.in.Subject)
	assert.Contains(t, *client.in.Message, `"Dispatch failed for DeployResource"`)
}

func TestSNSSink_SubjectTruncated(t *testing.T) {
	client := &mockSNSClient{}
	sink, err := NewSNSSink("arn:topic", WithSNSClient(client))
	require.NoError(t, err)

	a := types.Alert{
		Level:     types.AlertLevelError,
		LogicalID: strings.Repeat("x", 200),
	}
	require.NoError(t, sink.Send(context.Background(), a))
	assert.Len(t, *client.in.Subject, 100)
}

func TestSNSSink_RequiresTopicARN(t *testing.T) {
	_, err := NewSNSSink("")
	assert.Error(t, err)
}

func TestSNSSink_PublishError(t *testing.T) {
	client := &mockSNSClient{err: assert.AnError}
	sink, err := NewSNSSink("arn:topic", WithSNSClient(client))
	require.NoError(t, err)

	err = sink.Send(context.Background(), types.Alert{Level: types.AlertLevelInfo})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publishing to SNS")
}
