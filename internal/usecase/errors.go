package usecase

import (
	"errors"
	"fmt"
)

// Sentinel errors; match them with errors.Is.
var (
	ErrMissingFields  = errors.New("missing required fields")
	ErrUnknownContact = errors.New("unknown contact")
	ErrConsentRevoked = errors.New("consent revoked")
	ErrPolicyDenied   = errors.New("send denied by policy")
)

const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnknownContact  = "UNKNOWN_CONTACT"
	CodeConsentRevoked  = "CONSENT_REVOKED"
	CodePolicyDenied    = "POLICY_DENIED"
	CodeUnknownTemplate = "UNKNOWN_TEMPLATE"
	CodeStore           = "STORE_ERROR"
)

// DomainError is a caller mistake or a rule the request broke. The transport maps it to 400.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps a failing collaborator such as a database.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func unknownContact(contactID string) error {
	return &DomainError{
		Code:    CodeUnknownContact,
		Message: fmt.Sprintf("Unknown contact %s", contactID),
		Err:     ErrUnknownContact,
	}
}

func consentRevoked() error {
	return &DomainError{Code: CodeConsentRevoked, Message: "consent_revoked", Err: ErrConsentRevoked}
}

// policyDenied carries the policy reason verbatim as the message.
func policyDenied(reason string) error {
	return &DomainError{Code: CodePolicyDenied, Message: reason, Err: ErrPolicyDenied}
}

func storeError(op string, err error) error {
	return &TechnicalError{Code: CodeStore, Message: fmt.Sprintf("%s: %v", op, err), Err: err}
}
