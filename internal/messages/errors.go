package messages

import (
	"fmt"
	"strings"

	"github.com/aatumaykin/coursebot/internal/constants"
)

// FormatValidationErrors formats a list of validation errors with numbering.
//
// Parameters:
//   - errs: Slice of validation errors to format
//
// Returns:
//   - Formatted string with all validation errors numbered (1, 2, 3...)
func FormatValidationErrors(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	builder := &strings.Builder{}
	builder.WriteString(constants.MsgConfigValidationError)
	for i, err := range errs {
		builder.WriteString(fmt.Sprintf(constants.MsgConfigValidatePrefix, fmt.Sprintf("%d. %v", i+1, err)))
	}
	return builder.String()
}

// FormatGenericError is the chat reply for unexpected handler failures.
func FormatGenericError(supportChannel string) string {
	return fmt.Sprintf(constants.MsgGenericError, EscapeMarkdownV2(supportChannel))
}

// FormatUsage prefixes a usage hint with the invalid-arguments notice.
func FormatUsage(usage string) string {
	return fmt.Sprintf(constants.MsgInvalidArgs, usage)
}
