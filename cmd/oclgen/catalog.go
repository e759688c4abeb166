// Copyright 2025 oclgen Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opencrun/oclgen/cmd/oclgen/dsl"
)

// Module is a named, ordered list of definitions.
type Module struct {
	Name    string
	Entries []Entry
}

// Entry is one definition: a prototype and the code configuring it.
type Entry struct {
	Proto     string
	Configure func(f *dsl.Function) error
}

// Catalog is the YAML form of a module:
//
//	module: math
//	functions:
//	  - proto: gentype acos(gentype x)
//	    body: return __builtin_acos$cty(x);
//	    types: [float, {vectors: float}]
type Catalog struct {
	Name      string       `yaml:"module"`
	Functions []Definition `yaml:"functions"`
}

// Definition is one catalog function. Every key except proto is kept, in
// order, and handed to dsl.Function.Set, so unknown keys are reported by the
// definition that carries them instead of failing the whole file.
type Definition struct {
	Proto  string
	Fields []Field
	Line   int
}

// Field is a configuration key with its undecoded value.
type Field struct {
	Key   string
	Value *yaml.Node
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Definition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: function must be a mapping", node.Line)
	}
	d.Line = node.Line
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Value == "proto" {
			if err := value.Decode(&d.Proto); err != nil {
				return fmt.Errorf("line %d: proto: %w", value.Line, err)
			}
			continue
		}
		d.Fields = append(d.Fields, Field{Key: key.Value, Value: value})
	}
	if d.Proto == "" {
		return fmt.Errorf("line %d: function without proto", node.Line)
	}
	return nil
}

// Configure applies the definition fields to f.
func (d *Definition) Configure(f *dsl.Function) error {
	for _, field := range d.Fields {
		value, err := field.decode()
		if err != nil {
			return &dsl.ConfigurationError{Key: field.Key, Reason: err.Error()}
		}
		if err := f.Set(field.Key, value); err != nil {
			return err
		}
	}
	return nil
}

func (fd Field) decode() (any, error) {
	if fd.Key == "types" {
		var entries []typeEntry
		if err := fd.Value.Decode(&entries); err != nil {
			return nil, err
		}
		var names []string
		for _, e := range entries {
			names = append(names, e.names...)
		}
		return names, nil
	}

	var value any
	if err := fd.Value.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

// typeEntry is an item of a types list: either a type name, or a mapping
// {vectors: base, widths: [...], scalar: bool} expanding to several names.
type typeEntry struct {
	names []string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *typeEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		e.names = []string{node.Value}
		return nil

	case yaml.MappingNode:
		for i := 0; i < len(node.Content); i += 2 {
			switch key := node.Content[i].Value; key {
			case "vectors", "widths", "scalar":
			default:
				return fmt.Errorf("line %d: unknown key %q in types entry", node.Content[i].Line, key)
			}
		}
		var spec struct {
			Vectors string `yaml:"vectors"`
			Widths  []int  `yaml:"widths"`
			Scalar  bool   `yaml:"scalar"`
		}
		if err := node.Decode(&spec); err != nil {
			return err
		}
		if spec.Vectors == "" {
			return fmt.Errorf("line %d: types entry without vectors", node.Line)
		}
		if spec.Scalar {
			e.names = dsl.WithScalar(spec.Vectors, spec.Widths...)
		} else {
			e.names = dsl.Vectors(spec.Vectors, spec.Widths...)
		}
		return nil

	default:
		return fmt.Errorf("line %d: types entry must be a name or a mapping", node.Line)
	}
}

// ParseCatalog decodes a YAML catalog. name is used when the document does
// not set a module name.
func ParseCatalog(data []byte, name string) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", name, err)
	}
	if c.Name == "" {
		c.Name = name
	}
	return &c, nil
}

// LoadCatalog reads a YAML catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ParseCatalog(data, name)
}

// Module converts the catalog into a module.
func (c *Catalog) Module() Module {
	m := Module{Name: c.Name}
	for i := range c.Functions {
		d := &c.Functions[i]
		m.Entries = append(m.Entries, Entry{Proto: d.Proto, Configure: d.Configure})
	}
	return m
}
