package catalog

// Catalog is the top-level structure of a companions catalog file.
// Subjects and companion names are dynamic keys, so a file is a list of
// subjects, each holding a list of single-key maps from a companion name
// to its Entry.
type Catalog []map[string][]map[string]Entry

// Entry holds the properties of one catalog companion.
type Entry struct {
	Topic    string `yaml:"topic"`
	Voice    string `yaml:"voice,omitempty"`
	Style    string `yaml:"style,omitempty"`
	Duration int    `yaml:"duration,omitempty"`
}
