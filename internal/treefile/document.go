package treefile

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/spark/internal/errors"
)

// Document is a decoded tree file.
type Document struct {
	// Title is used as the page title by the preview server.
	Title string `yaml:"title"`

	// Vars declares reactive string variables and their initial values.
	Vars map[string]string `yaml:"vars"`

	// Components declares named components usable through include nodes.
	Components map[string]Component `yaml:"components"`

	// Page is the root content of the document.
	Page Node `yaml:"page"`
}

// Component is a component declaration.
type Component struct {
	// With makes the component a transparent scope, like a data context
	// block: content rendered inside it resolves against its parent.
	With bool `yaml:"with"`

	// Render is the component's content. Field nodes read the
	// instance's data.
	Render Node `yaml:"render"`
}

// Decode reads a tree document from r. Unknown keys are rejected.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return &Document{}, nil
		}
		return nil, errors.New(errors.CodeTreeDecode).Wrap(err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Parse decodes a tree document held in memory.
func Parse(data []byte) (*Document, error) {
	return Decode(bytes.NewReader(data))
}

// Load reads and decodes the tree file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeTreeDecode).
			WithDetail("Failed to read " + path).
			Wrap(err)
	}
	return Parse(data)
}

// validate checks that every include and var reference resolves and that
// components do not include themselves.
func (d *Document) validate() error {
	check := func(n Node) error {
		switch n.kind {
		case kindInclude:
			if _, ok := d.Components[n.text]; !ok {
				return errors.New(errors.CodeUnknownComponent).
					WithDetailf("line %d: component %q is not declared", n.line, n.text)
			}
		case kindVar:
			if _, ok := d.Vars[n.text]; !ok {
				return errors.New(errors.CodeUnknownVar).
					WithDetailf("line %d: variable %q is not declared", n.line, n.text)
			}
		}
		return nil
	}

	if err := d.Page.walk(check); err != nil {
		return err
	}
	for _, name := range sortedNames(d.Components) {
		if err := d.Components[name].Render.walk(check); err != nil {
			return err
		}
	}
	return d.checkCycles()
}

func (d *Document) checkCycles() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(d.Components))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case visiting:
			return errors.New(errors.CodeTreeDecode).
				WithDetailf("component cycle: %v", append(path, name))
		case done:
			return nil
		}
		state[name] = visiting
		err := d.Components[name].Render.walk(func(n Node) error {
			if n.kind == kindInclude {
				return visit(n.text, append(path, name))
			}
			return nil
		})
		if err != nil {
			return err
		}
		state[name] = done
		return nil
	}

	for _, name := range sortedNames(d.Components) {
		if err := visit(name, nil); err != nil {
			return err
		}
	}
	return nil
}

// String summarises the document for logs.
func (d *Document) String() string {
	return fmt.Sprintf("tree(%q, %d vars, %d components)", d.Title, len(d.Vars), len(d.Components))
}
