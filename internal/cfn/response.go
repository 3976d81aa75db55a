package cfn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/deploykit/stackhook/pkg/types"
)

// Response is the JSON body CloudFormation expects at the event's
// pre-signed ResponseURL. Built once per event and sent at most once.
type Response struct {
	Status             types.Status           `json:"Status"`
	Reason             string                 `json:"Reason,omitempty"`
	PhysicalResourceID string                 `json:"PhysicalResourceId"`
	StackID            string                 `json:"StackId"`
	RequestID          string                 `json:"RequestId"`
	LogicalResourceID  string                 `json:"LogicalResourceId"`
	NoEcho             bool                   `json:"NoEcho"`
	Data               map[string]interface{} `json:"Data,omitempty"`
}

// NewResponse builds a response payload echoing the event's identifiers.
func NewResponse(ev LifecycleEvent, status types.Status, reason, physicalID string) *Response {
	return &Response{
		Status:             status,
		Reason:             reason,
		PhysicalResourceID: physicalID,
		StackID:            ev.StackID,
		RequestID:          ev.RequestID,
		LogicalResourceID:  ev.LogicalResourceID,
	}
}

// ResponseSender delivers a response payload to a response URL.
type ResponseSender interface {
	Send(ctx context.Context, url string, resp *Response) error
}

const responseTimeout = 10 * time.Second

// Responder delivers responses with a single HTTP PUT. Delivery is
// attempted exactly once; failures are returned to the caller, never
// retried.
type Responder struct {
	client *http.Client
	logger *slog.Logger
}

// ResponderOption configures a Responder.
type ResponderOption func(*Responder)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) ResponderOption {
	return func(r *Responder) { r.client = c }
}

// WithLogger sets the responder's logger.
func WithLogger(l *slog.Logger) ResponderOption {
	return func(r *Responder) { r.logger = l }
}

// NewResponder creates a Responder with the given options.
func NewResponder(opts ...ResponderOption) *Responder {
	r := &Responder{
		client: &http.Client{Timeout: responseTimeout},
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Send PUTs the response to the pre-signed URL. An absent URL is a logged
// no-op.
func (r *Responder) Send(ctx context.Context, url string, resp *Response) error {
	if url == "" {
		r.logger.Info("no response URL; skipping response",
			"status", resp.Status, "reason", resp.Reason)
		return nil
	}

	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshaling response: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating response request: %w", err)
	}
	// The pre-signed S3 URL is signed with an empty Content-Type; setting
	// one breaks the signature.
	req.Header.Set("Content-Type", "")
	req.ContentLength = int64(len(body))

	res, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("response PUT failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode >= 400 {
		return fmt.Errorf("response endpoint returned status %d", res.StatusCode)
	}
	return nil
}
