package github

import "unicode/utf8"

const (
	// DefaultLimit is how many repositories the showcase keeps.
	DefaultLimit = 8

	maxNameLen       = 25
	truncatedNameLen = 22
	ellipsis         = "..."

	noDescription = "No description available"
	noLanguage    = "Text"
)

// DefaultExclude lists repositories that never appear in the showcase.
var DefaultExclude = []string{"personal-website", "rowanArora", ".github"}

// Summary is the display form of one repository.
type Summary struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stars"`
	URL         string `json:"url"`
	Starred     bool   `json:"starred"`
}

// Filter controls which repositories Summarize keeps.
type Filter struct {
	Exclude []string
	Limit   int
}

// DefaultFilter returns the showcase filter.
func DefaultFilter() Filter {
	return Filter{Exclude: DefaultExclude, Limit: DefaultLimit}
}

// Summarize drops private and excluded repositories, keeps at most
// f.Limit of the rest in input order and derives their display fields.
// A non-positive limit keeps everything.
func Summarize(repos []Repo, f Filter) []Summary {
	excluded := make(map[string]bool, len(f.Exclude))
	for _, name := range f.Exclude {
		excluded[name] = true
	}

	out := make([]Summary, 0, min(len(repos), max(f.Limit, 0)))
	for _, r := range repos {
		if r.Private || excluded[r.Name] {
			continue
		}
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
		out = append(out, summarize(r))
	}
	return out
}

func summarize(r Repo) Summary {
	s := Summary{
		Name:        DisplayName(r.Name),
		FullName:    r.Name,
		Description: noDescription,
		Language:    noLanguage,
		Stars:       r.Stars,
		URL:         r.HTMLURL,
		Starred:     r.Stars > 0,
	}
	if r.Description != nil && *r.Description != "" {
		s.Description = *r.Description
	}
	if r.Language != nil && *r.Language != "" {
		s.Language = *r.Language
	}
	return s
}

// DisplayName shortens names longer than 25 characters to their first 22
// followed by "...".
func DisplayName(name string) string {
	if utf8.RuneCountInString(name) <= maxNameLen {
		return name
	}
	return string([]rune(name)[:truncatedNameLen]) + ellipsis
}

// Placeholder is the single entry shown when the repository list could not
// be loaded.
func Placeholder() Summary {
	return Summary{
		Name:        "GitHub is unavailable",
		FullName:    "GitHub is unavailable",
		Description: "The latest repositories could not be loaded right now.",
		Language:    noLanguage,
		URL:         "#",
	}
}
