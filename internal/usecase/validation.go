package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata" // timezone validation must not depend on the host zoneinfo
)

var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateRegisterContactInput(input RegisterContactInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.ContactID) == "" {
		errors = append(errors, ValidationError{"contactId", "is required"})
	}

	if strings.TrimSpace(input.WhatsAppE164) == "" {
		errors = append(errors, ValidationError{"whatsappE164", "is required"})
	} else if !isValidE164(input.WhatsAppE164) {
		errors = append(errors, ValidationError{"whatsappE164", "must be an E.164 number like +4915112345678"})
	}

	if strings.TrimSpace(input.FirstName) == "" {
		errors = append(errors, ValidationError{"firstName", "is required"})
	} else if len(input.FirstName) > 100 {
		errors = append(errors, ValidationError{"firstName", "must not exceed 100 characters"})
	}

	if input.Timezone != "" && !isValidTimezone(input.Timezone) {
		errors = append(errors, ValidationError{"timezone", "must be an IANA timezone like Europe/Berlin"})
	}

	return errors
}

func ValidateInboundInput(input InboundInput) []ValidationError {
	var errors []ValidationError

	if input.ProviderMessageID == "" {
		errors = append(errors, ValidationError{"providerMessageId", "is required"})
	}
	if input.ConversationID == "" {
		errors = append(errors, ValidationError{"conversationId", "is required"})
	}
	if input.ContactID == "" {
		errors = append(errors, ValidationError{"contactId", "is required"})
	}

	return errors
}

func ValidateSendMessageInput(input SendMessageInput) []ValidationError {
	var errors []ValidationError

	if input.ConversationID == "" {
		errors = append(errors, ValidationError{"conversationId", "is required"})
	}
	if input.ContactID == "" {
		errors = append(errors, ValidationError{"contactId", "is required"})
	}
	if input.MessageType != "" && !input.MessageType.Valid() {
		errors = append(errors, ValidationError{"messageType", "must be session_text or template"})
	}

	return errors
}

// validationFailed folds a list of field errors into one DomainError wrapping ErrMissingFields.
func validationFailed(errs []ValidationError) error {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
		Err:     ErrMissingFields,
	}
}

func isValidE164(phone string) bool {
	return e164Pattern.MatchString(strings.TrimSpace(phone))
}

func isValidTimezone(name string) bool {
	_, err := time.LoadLocation(name)
	return err == nil
}
