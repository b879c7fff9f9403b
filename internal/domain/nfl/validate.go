package nfl

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var recordValidator = validator.New()

func validateRecord(record any) error {
	return recordValidator.Struct(record)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
