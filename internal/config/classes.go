package config

import (
	"fmt"

	"github.com/jchantrell/i18npack/internal/bundle"
	"github.com/jchantrell/i18npack/internal/loader"
)

// validateClasses ensures every configured asset class is known. An empty
// list selects all classes.
func validateClasses(classes []string) error {
	for _, class := range classes {
		if class == "" {
			return fmt.Errorf("class name cannot be empty")
		}
	}
	_, err := loader.ParseClasses(classes)
	return err
}

func validateCompressionLevel(level string) error {
	_, err := bundle.ParseLevel(level)
	return err
}

func validateLogging(level, format string) error {
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level '%s': expected debug, info, warn or error", level)
	}

	switch format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format '%s': expected text or json", format)
	}

	return nil
}
