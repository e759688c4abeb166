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

package dsl

import (
	"fmt"
)

// ConfigurationError reports an invalid setting on a function definition.
// An empty Reason means Key is not a configurable property.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return "unknown property: " + e.Key
	}
	return fmt.Sprintf("%s: %s", e.Key, e.Reason)
}

// Function describes one built-in: its prototype, the scalar body and the
// concrete types it is instantiated at. Functions are created by
// Session.Begin, configured, then consumed once by Finish.
type Function struct {
	Proto *Prototype

	body   Body
	types  []TypeID
	pure   bool
	inline bool

	session  *Session
	finished bool
}

func newFunction(proto *Prototype, s *Session) *Function {
	return &Function{
		Proto:   proto,
		pure:    true,
		inline:  true,
		session: s,
	}
}

// SetBody compiles body as a template. Unknown slots are reported here
// rather than at emission.
func (f *Function) SetBody(body string) error {
	tmpl, err := ParseTemplate(body)
	if err != nil {
		return err
	}
	f.body = tmpl
	return nil
}

// SetBodyFunc sets a body computed from the slot values.
func (f *Function) SetBodyFunc(fn BodyFunc) {
	f.body = fn
}

// SetTypes parses the instantiation types. Every type must be concrete.
func (f *Function) SetTypes(names ...string) error {
	types := make([]TypeID, 0, len(names))
	for _, name := range names {
		ty, err := ParseTypeID(name)
		if err != nil {
			return err
		}
		if ty.IsGeneric() {
			return &ConfigurationError{Key: "types", Reason: fmt.Sprintf("instantiation type %q is not concrete", name)}
		}
		types = append(types, ty)
	}
	f.types = types
	return nil
}

// SetPure controls the pure marker.
func (f *Function) SetPure(pure bool) { f.pure = pure }

// SetInline controls the always_inline marker.
func (f *Function) SetInline(inline bool) { f.inline = inline }

// Types returns the instantiation types in emission order.
func (f *Function) Types() []TypeID { return f.types }

// Pure reports whether the function is marked pure.
func (f *Function) Pure() bool { return f.pure }

// Inline reports whether the function is marked always_inline.
func (f *Function) Inline() bool { return f.inline }

// Set configures the function from loosely typed data, as read from a
// catalog file. Only body, types, pure and inline are accepted.
func (f *Function) Set(key string, value any) error {
	switch key {
	case "body":
		body, ok := value.(string)
		if !ok {
			return &ConfigurationError{Key: key, Reason: fmt.Sprintf("expected string, got %T", value)}
		}
		return f.SetBody(body)

	case "types":
		names, err := toStrings(value)
		if err != nil {
			return &ConfigurationError{Key: key, Reason: err.Error()}
		}
		return f.SetTypes(names...)

	case "pure", "inline":
		flag, ok := value.(bool)
		if !ok {
			return &ConfigurationError{Key: key, Reason: fmt.Sprintf("expected bool, got %T", value)}
		}
		if key == "pure" {
			f.SetPure(flag)
		} else {
			f.SetInline(flag)
		}
		return nil

	default:
		return &ConfigurationError{Key: key}
	}
}

func toStrings(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case string:
		return []string{v}, nil
	case []any:
		names := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected type name, got %T", item)
			}
			names = append(names, s)
		}
		return names, nil
	default:
		return nil, fmt.Errorf("expected list of type names, got %T", value)
	}
}

// validate checks the definition can be emitted for every instantiation type.
func (f *Function) validate() error {
	for _, ty := range f.types {
		if ty.IsScalar() && f.body == nil {
			return &ConfigurationError{Key: "body", Reason: fmt.Sprintf("not set, required to instantiate %s at %s", f.Proto.Name, ty)}
		}
	}
	return nil
}

// Finish validates the definition and writes it to the session outputs.
// A function can be finished only once.
func (f *Function) Finish() error {
	if f.finished {
		return fmt.Errorf("%s: already finished", f.Proto.Name)
	}
	f.finished = true
	if err := f.validate(); err != nil {
		return err
	}
	return f.session.emit(f)
}
