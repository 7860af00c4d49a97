package domain

import "errors"

// ============================================================================
// Alert Errors
// ============================================================================

var (
	ErrAlertNotFound      = errors.New("alert not found")
	ErrEmptyAlertMessage  = errors.New("alert message is required")
	ErrInvalidAlertLevel  = errors.New("invalid alert level")
	ErrAlertNotRetryable  = errors.New("only failed alerts can be retried")
	ErrNotifierNotEnabled = errors.New("telegram notifier is not enabled")
)

// ============================================================================
// Monitor Rule Errors
// ============================================================================

// Not found / conflict errors
var (
	ErrRuleNotFound     = errors.New("monitor rule not found")
	ErrRuleNameConflict = errors.New("monitor rule with this name already exists")
)

// Validation errors
var (
	ErrInvalidRuleName    = errors.New("monitor rule name is required")
	ErrUnknownTargetClass = errors.New("target class is not a known detection class")
	ErrInvalidThreshold   = errors.New("threshold must be in (0, 1]")
	ErrInvalidDuration    = errors.New("duration must be positive")
)

// Business rule errors
var (
	ErrRuleDisabled = errors.New("monitor rule is disabled")
	ErrRuleCooldown = errors.New("monitor rule is in cooldown")
)

// ============================================================================
// Detection Errors
// ============================================================================

var (
	ErrEventNotFound   = errors.New("detection event not found")
	ErrEmptyFrame      = errors.New("frame contains no image data")
	ErrInferenceFailed = errors.New("inference request failed")
)
