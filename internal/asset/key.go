package asset

import (
	"fmt"
	"strings"
)

// Origin identifies the storage a table entry was loaded from
type Origin uint8

const (
	OriginLoose Origin = iota
	OriginPlain
	OriginCompressed
)

// Lookup-string prefixes for container entries, taken from the end of
// plane 16. Loose paths must never start with either.
const (
	PlainPrefix      = "\U0010FFFD"
	CompressedPrefix = "\U0010FFFF"
)

// String returns the short name used in labels and logs
func (o Origin) String() string {
	switch o {
	case OriginLoose:
		return "loose"
	case OriginPlain:
		return "msgpack"
	case OriginCompressed:
		return "zst"
	default:
		return fmt.Sprintf("unknown(%d)", o)
	}
}

func (o Origin) prefix() string {
	switch o {
	case OriginPlain:
		return PlainPrefix
	case OriginCompressed:
		return CompressedPrefix
	default:
		return ""
	}
}

// Key is the structured form of a table lookup string
type Key struct {
	Origin Origin
	Path   string
}

// String renders the lookup string stored in a Table
func (k Key) String() string {
	return k.Origin.prefix() + k.Path
}

// Label renders a printable form, "msgpack:bar/baz.txt" for container
// entries and the bare path for loose files. A loose path that itself starts
// with an origin tag is written as "loose:<path>" so labels stay unique.
func (k Key) Label() string {
	if k.Origin == OriginLoose && !hasOriginTag(k.Path) {
		return k.Path
	}
	return k.Origin.String() + ":" + k.Path
}

var labelOrigins = []Origin{OriginLoose, OriginPlain, OriginCompressed}

func hasOriginTag(s string) bool {
	for _, origin := range labelOrigins {
		if strings.HasPrefix(s, origin.String()+":") {
			return true
		}
	}
	return false
}

// Container returns the container name for container entries, the first
// segment of the composed path, and "" for loose files.
func (k Key) Container() string {
	if k.Origin == OriginLoose {
		return ""
	}
	name, _, _ := strings.Cut(k.Path, "/")
	return name
}

// ParseKey converts a lookup string back into a Key
func ParseKey(s string) Key {
	switch {
	case strings.HasPrefix(s, PlainPrefix):
		return Key{Origin: OriginPlain, Path: strings.TrimPrefix(s, PlainPrefix)}
	case strings.HasPrefix(s, CompressedPrefix):
		return Key{Origin: OriginCompressed, Path: strings.TrimPrefix(s, CompressedPrefix)}
	default:
		return Key{Origin: OriginLoose, Path: s}
	}
}

// ParseLabel converts a printable label back into a Key
func ParseLabel(label string) Key {
	for _, origin := range labelOrigins {
		if path, ok := strings.CutPrefix(label, origin.String()+":"); ok {
			return Key{Origin: origin, Path: path}
		}
	}
	return Key{Origin: OriginLoose, Path: label}
}
