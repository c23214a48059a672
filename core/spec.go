package core

import (
	"html"
	"net/url"
	"strings"

	"github.com/fatih/camelcase"
	"github.com/igorsobreira/titlecase"
)

// SpecDefaults carries the project-wide values a spec string inherits when it
// omits positional fields.
type SpecDefaults struct {
	MinecraftVersion string
	Loader           ModLoader
	ProjectType      ProjectType
}

// DependencySpec is one parsed entry from the plan's mod list. Immutable once
// parsed.
type DependencySpec struct {
	Key               string
	SearchQuery       string
	ProjectType       ProjectType
	ExplicitProjectID string
	MinecraftVersion  string
	Loader            ModLoader
	VersionOverrides  []string
}

// SearchIntent carries three representations of the user's query, each with
// its own safety contract: Raw is what was typed and must never go over the
// wire or into rendered output; Encoded is safe for URLs; Escaped is safe for
// HTML display.
type SearchIntent struct {
	Raw     string
	Encoded string
	Escaped string
}

func NewSearchIntent(raw string) SearchIntent {
	return SearchIntent{
		Raw:     raw,
		Encoded: url.QueryEscape(raw),
		Escaped: html.EscapeString(raw),
	}
}

// Intent returns the spec's query in its three safety forms.
func (s DependencySpec) Intent() SearchIntent {
	return NewSearchIntent(s.SearchQuery)
}

// ParseDependencySpec parses the pipe-delimited `"Display Name|type|mc|loader"`
// form. Trailing fields may be omitted and inherit the defaults; an empty
// value derives the display name from the key. Unknown enum values fail with
// a ResolutionFormatError so a typo in the plan names the offending mod.
func ParseDependencySpec(key, value string, defaults SpecDefaults) (DependencySpec, error) {
	spec := DependencySpec{
		Key:              key,
		ProjectType:      defaults.ProjectType,
		MinecraftVersion: defaults.MinecraftVersion,
		Loader:           defaults.Loader,
	}
	if spec.ProjectType == "" {
		spec.ProjectType = TypeMod
	}

	fields := strings.Split(value, "|")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	spec.SearchQuery = fields[0]
	if spec.SearchQuery == "" {
		spec.SearchQuery = QueryFromKey(key)
	}

	if len(fields) > 1 && fields[1] != "" {
		projectType, err := ParseProjectType(strings.ToLower(fields[1]))
		if err != nil {
			return DependencySpec{}, &ResolutionFormatError{Key: key, Field: "project type", Value: fields[1]}
		}
		spec.ProjectType = projectType
	}

	if len(fields) > 2 && fields[2] != "" {
		spec.MinecraftVersion = fields[2]
	}

	if len(fields) > 3 && fields[3] != "" {
		loader, err := ParseModLoader(strings.ToLower(fields[3]))
		if err != nil {
			return DependencySpec{}, &ResolutionFormatError{Key: key, Field: "loader", Value: fields[3]}
		}
		spec.Loader = loader
	}

	if len(fields) > 4 {
		return DependencySpec{}, &ResolutionFormatError{Key: key, Field: "spec", Value: value}
	}

	return spec, nil
}

// QueryFromKey derives a display query from a bare plan key, splitting
// camelCase and dashed keys into title-cased words ("JustEnoughItems" and
// "just-enough-items" both become "Just Enough Items").
func QueryFromKey(key string) string {
	var words []string
	for _, part := range strings.FieldsFunc(key, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	}) {
		words = append(words, camelcase.Split(part)...)
	}
	return titlecase.Title(strings.Join(words, " "))
}
