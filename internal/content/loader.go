// Package content loads the portfolio's static records. The default content
// is embedded in the binary; a YAML file with the same shape can replace it.
package content

import (
	"bytes"
	_ "embed"
	"html/template"
	"os"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

//go:embed portfolio.yaml
var embedded []byte

// Default returns the embedded portfolio.
func Default() (p Portfolio, err error) {
	p, err = Parse(embedded)
	if err != nil {
		err = errors.Wrap(err, "embedded portfolio")
	}
	return p, err
}

// Load reads a portfolio from path, or the embedded one when path is empty.
func Load(path string) (p Portfolio, err error) {
	if path == "" {
		return Default()
	}

	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read content file: %s", path)
		return p, err
	}

	p, err = Parse(data)
	if err != nil {
		err = errors.Wrapf(err, "content file %s", path)
	}
	return p, err
}

// Parse decodes and validates YAML content.
func Parse(data []byte) (p Portfolio, err error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err = dec.Decode(&p)
	if err != nil {
		err = errors.Wrap(err, "failed to parse portfolio YAML")
		return p, err
	}

	err = p.Validate()
	return p, err
}

// Validate checks that the records the page depends on are present.
func (p *Portfolio) Validate() (err error) {
	if p.Profile.Name == "" {
		err = errors.New("profile name is required")
		return err
	}

	if len(p.Technologies) == 0 {
		err = errors.New("at least one technology is required for the rotating label")
		return err
	}

	for i, e := range p.Experience {
		if e.Title == "" {
			err = errors.Errorf("experience at index %d missing title", i)
			return err
		}
		if e.Company == "" {
			err = errors.Errorf("experience %q missing company", e.Title)
			return err
		}
	}

	for i, pr := range p.Projects {
		if pr.Title == "" {
			err = errors.Errorf("project at index %d missing title", i)
			return err
		}
	}

	return err
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown renders trusted content text as HTML. Raw HTML in the source is
// dropped.
func Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", errors.Wrap(err, "failed to render markdown")
	}
	return template.HTML(buf.String()), nil //nolint:gosec // goldmark escapes raw HTML by default
}
