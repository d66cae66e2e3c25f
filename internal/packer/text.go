package packer

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// normalizeText decodes file content to UTF-8 and trims surrounding
// whitespace. A UTF-8 or UTF-16 byte order mark selects the source encoding
// and is dropped; without one the content is read as UTF-8 and invalid
// sequences become U+FFFD.
func normalizeText(data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(decoded)), nil
}
