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
	"strings"
)

// Slots carries the values a body may reference.
type Slots struct {
	// CType is the native builtin suffix of the instantiation type,
	// referenced as $cty in body templates.
	CType string
}

// slotNames is the fixed set of slots a template may reference.
var slotNames = map[string]func(Slots) string{
	"cty": func(s Slots) string { return s.CType },
}

// Body produces the text of a scalar implementation.
type Body interface {
	Expand(s Slots) string
}

// BodyFunc adapts a Go function to Body.
type BodyFunc func(s Slots) string

// Expand calls f(s).
func (f BodyFunc) Expand(s Slots) string { return f(s) }

// TemplateError reports a body template that references a slot outside the
// recognized set, or contains a malformed placeholder.
type TemplateError struct {
	Body   string
	Slot   string // empty for a malformed placeholder
	Offset int
}

func (e *TemplateError) Error() string {
	if e.Slot == "" {
		return fmt.Sprintf("invalid placeholder at offset %d in body %q", e.Offset, e.Body)
	}
	return fmt.Sprintf("unknown slot %q in body %q", e.Slot, e.Body)
}

// templatePart is either literal text or a slot reference.
type templatePart struct {
	text string
	slot func(Slots) string
}

// Template is a compiled body template. Placeholders are written $name or
// ${name}; $$ stands for a literal dollar sign.
type Template struct {
	src   string
	parts []templatePart
}

// ParseTemplate compiles body, checking every slot it references.
func ParseTemplate(body string) (*Template, error) {
	t := &Template{src: body}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.parts = append(t.parts, templatePart{text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(body); {
		c := body[i]
		if c != '$' {
			lit.WriteByte(c)
			i++
			continue
		}

		rest := body[i+1:]
		var name string
		var n int
		switch {
		case strings.HasPrefix(rest, "$"):
			lit.WriteByte('$')
			i += 2
			continue
		case strings.HasPrefix(rest, "{"):
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				return nil, &TemplateError{Body: body, Offset: i}
			}
			name = rest[1:end]
			if !isIdentifier(name) {
				return nil, &TemplateError{Body: body, Offset: i}
			}
			n = end + 1
		default:
			for n < len(rest) && (isIdentPart(rest[n]) && (n > 0 || isIdentStart(rest[n]))) {
				n++
			}
			if n == 0 {
				return nil, &TemplateError{Body: body, Offset: i}
			}
			name = rest[:n]
		}

		slot, ok := slotNames[name]
		if !ok {
			return nil, &TemplateError{Body: body, Slot: name, Offset: i}
		}
		flush()
		t.parts = append(t.parts, templatePart{slot: slot})
		i += 1 + n
	}
	flush()
	return t, nil
}

// Expand substitutes every slot with its value from s.
func (t *Template) Expand(s Slots) string {
	var b strings.Builder
	for _, part := range t.parts {
		if part.slot != nil {
			b.WriteString(part.slot(s))
		} else {
			b.WriteString(part.text)
		}
	}
	return b.String()
}

// String returns the template source.
func (t *Template) String() string {
	return t.src
}

func isIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}
