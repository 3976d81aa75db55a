// Package types defines the public domain types for stackhook.
package types

import "time"

// Status is the outcome reported back to CloudFormation for an event.
type Status string

// Status values accepted by the CloudFormation response endpoint.
const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// RequestType is the stack lifecycle operation being performed.
type RequestType string

// RequestType values sent by CloudFormation for custom resources.
const (
	RequestCreate RequestType = "Create"
	RequestUpdate RequestType = "Update"
	RequestDelete RequestType = "Delete"
)

// Environment variable names injected into delegated build jobs.
const (
	EnvEventType   = "CFN_EVENT_TYPE"
	EnvEventData   = "CFN_EVENT_DATA"
	EnvResponseURL = "CFN_EVENT_RESPONSE_URL"
)

// AlertLevel indicates alert severity.
type AlertLevel string

// AlertLevel values.
const (
	AlertLevelInfo  AlertLevel = "INFO"
	AlertLevelError AlertLevel = "ERROR"
)

// Alert is a notification about a dispatch outcome worth surfacing to
// operators, such as a failed build start or an undeliverable response.
type Alert struct {
	Level     AlertLevel `json:"level"`
	StackID   string     `json:"stackId,omitempty"`
	LogicalID string     `json:"logicalId,omitempty"`
	Message   string     `json:"message"`
	Timestamp time.Time  `json:"timestamp"`
}
