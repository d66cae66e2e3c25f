package loader

import (
	"fmt"
	"strings"
)

// Class describes one independently loaded group of translation assets
type Class struct {
	Name       string // configuration name
	Dir        string // subdirectory of the language root
	Pattern    string // glob for loose files
	Containers bool   // whether .msgpack and .zst containers are read
}

// Asset classes in load order
var (
	Textures = Class{Name: "texture", Dir: "Textures", Pattern: "*.png"}
	UI       = Class{Name: "ui", Dir: "UI", Pattern: "*.csv", Containers: true}
	Scripts  = Class{Name: "script", Dir: "Script", Pattern: "*.txt", Containers: true}
)

// Classes lists every asset class in load order
var Classes = []Class{Textures, UI, Scripts}

// ParseClass finds a class by configuration name, ignoring case
func ParseClass(name string) (Class, error) {
	for _, c := range Classes {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return Class{}, fmt.Errorf("unknown asset class %q: expected texture, ui or script", name)
}

// ParseClasses resolves a list of class names. An empty list selects every class.
func ParseClasses(names []string) ([]Class, error) {
	if len(names) == 0 {
		return Classes, nil
	}

	classes := make([]Class, 0, len(names))
	for _, name := range names {
		c, err := ParseClass(name)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, nil
}
