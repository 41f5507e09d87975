package catalog

import (
	"errors"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/converso/internal/companion"
)

// Defaults applied to entries that leave a field out.
const (
	DefaultVoice    = "female"
	DefaultStyle    = "casual"
	DefaultDuration = 15
)

// ErrEmptyCatalog is returned when no entry of a catalog is usable.
var ErrEmptyCatalog = errors.New("no valid companions found in catalog")

// Map flattens a catalog into creation inputs, in file order. Entries
// without a subject, name or topic are skipped.
func Map(c Catalog) ([]companion.CreateCompanionInput, error) {
	var out []companion.CreateCompanionInput

	for _, group := range c {
		for _, subject := range sortedKeys(group) {
			subjectName := strings.TrimSpace(subject)
			if subjectName == "" {
				continue
			}

			for _, named := range group[subject] {
				for _, name := range sortedKeys(named) {
					in, ok := toInput(subjectName, strings.TrimSpace(name), named[name])
					if ok {
						out = append(out, in)
					}
				}
			}
		}
	}

	if len(out) == 0 {
		return nil, ErrEmptyCatalog
	}
	return out, nil
}

func toInput(subject, name string, e Entry) (companion.CreateCompanionInput, bool) {
	topic := strings.TrimSpace(e.Topic)
	if name == "" || topic == "" {
		return companion.CreateCompanionInput{}, false
	}

	in := companion.CreateCompanionInput{
		Name:     name,
		Subject:  strings.ToLower(subject),
		Topic:    topic,
		Voice:    strings.TrimSpace(e.Voice),
		Style:    strings.TrimSpace(e.Style),
		Duration: e.Duration,
	}
	if in.Voice == "" {
		in.Voice = DefaultVoice
	}
	if in.Style == "" {
		in.Style = DefaultStyle
	}
	if in.Duration <= 0 {
		in.Duration = DefaultDuration
	}
	return in, true
}

// sortedKeys keeps the output stable when a map holds several keys.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
