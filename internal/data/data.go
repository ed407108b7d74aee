// Package data carries the embedded board templates.
package data

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/gosettlers/server/internal/game"
)

//go:embed templates/*.yaml
var templateFS embed.FS

var templates = map[string]*game.BoardTemplate{}

func init() {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		panic(fmt.Sprintf("board templates: %v", err))
	}
	for _, e := range entries {
		raw, err := templateFS.ReadFile("templates/" + e.Name())
		if err != nil {
			panic(fmt.Sprintf("board template %s: %v", e.Name(), err))
		}
		var tpl game.BoardTemplate
		if err := yaml.Unmarshal(raw, &tpl); err != nil {
			panic(fmt.Sprintf("board template %s: %v", e.Name(), err))
		}
		if tpl.Key == "" {
			panic(fmt.Sprintf("board template %s: missing key", e.Name()))
		}
		templates[tpl.Key] = &tpl
	}
}

// Template returns the named board template.
func Template(key string) (*game.BoardTemplate, error) {
	tpl, ok := templates[key]
	if !ok {
		return nil, fmt.Errorf("unknown board template %q", key)
	}
	return tpl, nil
}

// Keys lists the available template keys, sorted.
func Keys() []string {
	out := make([]string, 0, len(templates))
	for k := range templates {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Pick chooses the template for a table: sea boards get the sea layout,
// otherwise the smallest classic board that seats everyone.
func Pick(maxPlayers int, sea bool) *game.BoardTemplate {
	if sea {
		return templates["sea4"]
	}
	if maxPlayers > 4 {
		return templates["classic6"]
	}
	return templates["classic4"]
}
