// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a campaign or customer does not exist.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

func NewCampaignNotFound(id string) error {
	return &ErrNotFound{Resource: "campaign", ID: id}
}

func NewCustomerNotFound(id string) error {
	return &ErrNotFound{Resource: "customer", ID: id}
}

// ErrInvalidTransition is returned when a state-change precondition is not
// met, e.g. starting a campaign that is not approved.
type ErrInvalidTransition struct {
	CampaignID string
	From       string
	Op         string
	Reason     string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("cannot %s campaign %s in status %q: %s", e.Op, e.CampaignID, e.From, e.Reason)
}

func NewInvalidTransition(campaignID, from, op, reason string) error {
	return &ErrInvalidTransition{CampaignID: campaignID, From: from, Op: op, Reason: reason}
}

// ErrNoAudience is returned when a campaign is dispatched without a resolved
// audience snapshot.
type ErrNoAudience struct {
	CampaignID string
}

func (e *ErrNoAudience) Error() string {
	return fmt.Sprintf("campaign %s has no resolved audience", e.CampaignID)
}

func NewNoAudience(campaignID string) error {
	return &ErrNoAudience{CampaignID: campaignID}
}

// ErrValidation is returned when required content fields are missing.
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string { return e.Message }

func NewValidation(format string, args ...any) error {
	return &ErrValidation{Message: fmt.Sprintf(format, args...)}
}

// ErrUpstream wraps a persistence or send-provider failure.
type ErrUpstream struct {
	Op  string
	Err error
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("upstream %s failed: %v", e.Op, e.Err)
}

func (e *ErrUpstream) Unwrap() error { return e.Err }

func NewUpstream(op string, err error) error {
	return &ErrUpstream{Op: op, Err: err}
}

func IsNotFound(err error) bool {
	var e *ErrNotFound
	return errors.As(err, &e)
}

func IsInvalidTransition(err error) bool {
	var e *ErrInvalidTransition
	return errors.As(err, &e)
}

func IsNoAudience(err error) bool {
	var e *ErrNoAudience
	return errors.As(err, &e)
}

func IsValidation(err error) bool {
	var e *ErrValidation
	return errors.As(err, &e)
}
