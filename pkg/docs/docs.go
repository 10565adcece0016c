// Package docs holds the documentation model produced by the annotation scanner,
// and its JSON and YAML interchange formats.
package docs

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Param is a documented function parameter.
type Param struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
}

// Return is a documented return value.
type Return struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
}

// Function is a documented function, method or function-valued assignment.
type Function struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Params      []Param  `json:"params" yaml:"params"`
	Returns     []Return `json:"returns" yaml:"returns"`
}

// MarshalJSON writes params and returns as arrays even when they are nil.
func (f Function) MarshalJSON() ([]byte, error) {
	type plain Function
	p := plain(f)
	if p.Params == nil {
		p.Params = []Param{}
	}
	if p.Returns == nil {
		p.Returns = []Return{}
	}
	return json.Marshal(p)
}

// Documentation maps category names to documented functions.
//
// Categories keep the order in which they were first added, and functions keep
// the order in which they were added to their category.
// The zero value is ready to use.
type Documentation struct {
	order     []string
	functions map[string][]Function
}

// New returns an empty Documentation.
func New() *Documentation {
	return &Documentation{}
}

// Add appends a function to a category, creating the category if needed.
func (d *Documentation) Add(category string, fn Function) {
	if d.functions == nil {
		d.functions = make(map[string][]Function)
	}
	if _, ok := d.functions[category]; !ok {
		d.order = append(d.order, category)
	}
	d.functions[category] = append(d.functions[category], fn)
}

// Merge appends all entries of other, in its order.
func (d *Documentation) Merge(other *Documentation) {
	if other == nil {
		return
	}
	for _, category := range other.order {
		for _, fn := range other.functions[category] {
			d.Add(category, fn)
		}
	}
}

// Categories returns the category names in discovery order.
func (d *Documentation) Categories() []string {
	return append([]string(nil), d.order...)
}

// Functions returns the functions of a category.
func (d *Documentation) Functions(category string) []Function {
	return d.functions[category]
}

// Has reports whether a category exists.
func (d *Documentation) Has(category string) bool {
	_, ok := d.functions[category]
	return ok
}

// Len returns the total number of functions.
func (d *Documentation) Len() int {
	var n int
	for _, fns := range d.functions {
		n += len(fns)
	}
	return n
}

// Filter returns a new Documentation containing only the functions for which keep returns true.
// Categories left without functions are omitted.
func (d *Documentation) Filter(keep func(category string, fn Function) (bool, error)) (*Documentation, error) {
	out := New()
	for _, category := range d.order {
		for _, fn := range d.functions[category] {
			ok, err := keep(category, fn)
			if err != nil {
				return nil, err
			}
			if ok {
				out.Add(category, fn)
			}
		}
	}
	return out, nil
}

func (d *Documentation) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, category := range d.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(category)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fns, err := json.Marshal(d.functions[category])
		if err != nil {
			return nil, err
		}
		buf.Write(fns)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *Documentation) UnmarshalJSON(b []byte) error {
	*d = Documentation{}
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: expected an object of categories", ErrInvalidDocument)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		category, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: unexpected token %v", ErrInvalidDocument, tok)
		}
		var fns []Function
		if err := dec.Decode(&fns); err != nil {
			return fmt.Errorf("category %s: %w", category, err)
		}
		d.addAll(category, fns)
	}
	_, err = dec.Token()
	return err
}

func (d *Documentation) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, category := range d.order {
		value := &yaml.Node{}
		if err := value.Encode(normalize(d.functions[category])); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: category},
			value,
		)
	}
	return node, nil
}

func (d *Documentation) UnmarshalYAML(value *yaml.Node) error {
	*d = Documentation{}
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: expected a mapping of categories", ErrInvalidDocument, value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		category := value.Content[i].Value
		var fns []Function
		if err := value.Content[i+1].Decode(&fns); err != nil {
			return fmt.Errorf("category %s: %w", category, err)
		}
		d.addAll(category, fns)
	}
	return nil
}

// addAll adds functions, normalizing nil slices, and registers empty categories too.
func (d *Documentation) addAll(category string, fns []Function) {
	if d.functions == nil {
		d.functions = make(map[string][]Function)
	}
	if _, ok := d.functions[category]; !ok {
		d.order = append(d.order, category)
		d.functions[category] = []Function{}
	}
	d.functions[category] = append(d.functions[category], normalize(fns)...)
}

// normalize returns a copy of fns where nil params and returns are replaced by empty slices.
func normalize(fns []Function) []Function {
	out := make([]Function, len(fns))
	for i, fn := range fns {
		if fn.Params == nil {
			fn.Params = []Param{}
		}
		if fn.Returns == nil {
			fn.Returns = []Return{}
		}
		out[i] = fn
	}
	return out
}
