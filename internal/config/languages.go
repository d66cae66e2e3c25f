package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// LanguageEnglish is the language loaded when none is configured
const LanguageEnglish = "English"

// validateLanguage ensures the language names a single directory below the
// translation root
func validateLanguage(language string) error {
	if strings.TrimSpace(language) == "" {
		return fmt.Errorf("language name cannot be empty")
	}

	if strings.ContainsAny(language, `/\`) || !filepath.IsLocal(language) {
		return fmt.Errorf("invalid language '%s': must be a single directory name", language)
	}

	return nil
}

// LanguageRoot returns the directory holding one language's assets
func LanguageRoot(root, language string) string {
	return filepath.Join(root, language)
}
