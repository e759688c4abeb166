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

// Package dsl implements the definition language used to generate the OpenCL C
// built-in library: a prototype parser, the gentype type model, function
// descriptors and the emitter that expands one scalar body into every
// requested vector width.
package dsl

import (
	"fmt"
	"slices"
	"strconv"
)

// GenType is the keyword of the generic placeholder type.
const GenType = "gentype"

// VectorWidths are the vector lengths a type may carry, in canonical order.
var VectorWidths = []int{2, 3, 4, 8, 16}

// baseType describes one recognized base type keyword.
type baseType struct {
	Floating bool   // floating point element type
	Suffix   string // native builtin variant suffix ("f" for __builtin_acosf)
}

// baseTypes is the fixed set of recognized base type keywords.
// double maps to the unsuffixed builtins, which are the double variants in C.
var baseTypes = map[string]baseType{
	GenType:  {},
	"char":   {},
	"uchar":  {},
	"short":  {},
	"ushort": {},
	"int":    {},
	"uint":   {},
	"long":   {},
	"ulong":  {},
	"half":   {Floating: true, Suffix: "f16"},
	"float":  {Floating: true, Suffix: "f"},
	"double": {Floating: true},
}

// IsBaseTypeName reports whether name is a recognized base type keyword.
func IsBaseTypeName(name string) bool {
	_, ok := baseTypes[name]
	return ok
}

// IsVectorWidth reports whether n is a valid vector length.
func IsVectorWidth(n int) bool {
	return slices.Contains(VectorWidths, n)
}

// TypeID is a base type together with a vector width. Width 0 is a scalar.
type TypeID struct {
	Name  string // base type keyword, possibly GenType
	Width int    // 0, 2, 3, 4, 8 or 16
}

// NewTypeID builds a TypeID, validating both the keyword and the width.
func NewTypeID(name string, width int) (TypeID, error) {
	if !IsBaseTypeName(name) {
		return TypeID{}, fmt.Errorf("unknown base type %q", name)
	}
	if width != 0 && !IsVectorWidth(width) {
		return TypeID{}, fmt.Errorf("invalid vector width %d for %s", width, name)
	}
	return TypeID{Name: name, Width: width}, nil
}

// String renders the type the way it is written in OpenCL C, e.g. "float4".
func (t TypeID) String() string {
	if t.Width == 0 {
		return t.Name
	}
	return t.Name + strconv.Itoa(t.Width)
}

// IsGeneric reports whether t is the generic placeholder.
func (t TypeID) IsGeneric() bool {
	return t.Name == GenType
}

// IsScalar reports whether t has no vector width.
func (t TypeID) IsScalar() bool {
	return t.Width == 0
}

// IsFloating reports whether the element type is a floating point type.
func (t TypeID) IsFloating() bool {
	return baseTypes[t.Name].Floating
}

// Suffix returns the suffix selecting the native builtin variant for the
// element type of t ("f" for float, empty for integer types).
func (t TypeID) Suffix() string {
	return baseTypes[t.Name].Suffix
}

// Instantiate resolves t against the concrete instantiation type inst:
// generic slots become inst, fixed slots are returned unchanged.
func (t TypeID) Instantiate(inst TypeID) TypeID {
	if t.IsGeneric() {
		return inst
	}
	return t
}

// Arg is one formal argument of a prototype.
type Arg struct {
	Type TypeID
	Name string
}

func (a Arg) String() string {
	return a.Type.String() + " " + a.Name
}

// Prototype is a parsed function signature. It is not modified after parsing.
type Prototype struct {
	Return TypeID
	Name   string
	Args   []Arg
}

// String renders the prototype as written, e.g. "gentype acospi(gentype x)".
func (p *Prototype) String() string {
	buf := p.Return.String() + " " + p.Name + "("
	for i, arg := range p.Args {
		if i != 0 {
			buf += ", "
		}
		buf += arg.String()
	}
	return buf + ")"
}

// IsGeneric reports whether the return type or any argument is generic.
func (p *Prototype) IsGeneric() bool {
	if p.Return.IsGeneric() {
		return true
	}
	for _, arg := range p.Args {
		if arg.Type.IsGeneric() {
			return true
		}
	}
	return false
}
