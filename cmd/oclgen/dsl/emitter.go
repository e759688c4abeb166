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
	"bytes"
	"fmt"
)

const (
	attrOverloadable = "__attribute__((overloadable))"
	attrPure         = "__attribute__((pure))"
	attrInline       = "__attribute__((always_inline))"

	// resultVar is the local holding the result of a vector body.
	resultVar = "Res"
)

// EmitDecls writes one declaration per instantiation type of f.
func EmitDecls(buf *bytes.Buffer, f *Function) {
	if len(f.types) == 0 {
		return
	}

	fmt.Fprintf(buf, "\n/* Declarations of %s */\n", f.Proto)
	for _, ty := range f.types {
		emitHeader(buf, f, ty)
		buf.WriteString(";\n")
	}
}

// EmitImpls writes one definition per instantiation type of f. Scalar types
// get the expanded body, vector types a lane-by-lane body calling the
// overload one level down.
func EmitImpls(buf *bytes.Buffer, f *Function) {
	if len(f.types) == 0 {
		return
	}

	fmt.Fprintf(buf, "\n/* Implementations of %s */\n", f.Proto)
	for _, ty := range f.types {
		buf.WriteString("\n")
		emitHeader(buf, f, ty)
		buf.WriteString(" {\n")
		if ty.IsScalar() {
			emitScalarBody(buf, f, ty)
		} else {
			emitVectorBody(buf, f, ty)
		}
		buf.WriteString("}\n")
	}
}

func emitAttributes(buf *bytes.Buffer, f *Function) {
	buf.WriteString(attrOverloadable)
	if f.pure {
		buf.WriteString("\n" + attrPure)
	}
	if f.inline {
		buf.WriteString("\n" + attrInline)
	}
}

// emitHeader writes the markers and the signature of f instantiated at ty.
func emitHeader(buf *bytes.Buffer, f *Function, ty TypeID) {
	proto := f.Proto

	emitAttributes(buf, f)
	buf.WriteString("\n")
	fmt.Fprintf(buf, "%s %s(", proto.Return.Instantiate(ty), proto.Name)
	for i, arg := range proto.Args {
		if i != 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(buf, "%s %s", arg.Type.Instantiate(ty), arg.Name)
	}
	buf.WriteString(")")
}

func emitScalarBody(buf *bytes.Buffer, f *Function, ty TypeID) {
	buf.WriteString(f.body.Expand(Slots{CType: ty.Suffix()}))
	buf.WriteString("\n")
}

// emitVectorBody writes a body computing every lane with a call to the same
// name. A non-generic return type is assigned whole on every lane, so only
// the last lane's value is returned.
func emitVectorBody(buf *bytes.Buffer, f *Function, ty TypeID) {
	proto := f.Proto
	genericRet := proto.Return.IsGeneric()

	fmt.Fprintf(buf, "%s %s;\n", proto.Return.Instantiate(ty), resultVar)
	for lane := 0; lane < ty.Width; lane++ {
		if genericRet {
			fmt.Fprintf(buf, "%s[%d] = ", resultVar, lane)
		} else {
			fmt.Fprintf(buf, "%s = ", resultVar)
		}

		fmt.Fprintf(buf, "%s(", proto.Name)
		for i, arg := range proto.Args {
			if i != 0 {
				buf.WriteString(", ")
			}
			if arg.Type.IsGeneric() {
				fmt.Fprintf(buf, "%s[%d]", arg.Name, lane)
			} else {
				buf.WriteString(arg.Name)
			}
		}
		buf.WriteString(");\n")
	}
	fmt.Fprintf(buf, "return %s;\n", resultVar)
}

// lastLaneOnly reports whether the vector body of f keeps only the last
// lane: the return type is fixed while the instantiation is a vector.
func lastLaneOnly(f *Function, ty TypeID) bool {
	return !ty.IsScalar() && !f.Proto.Return.IsGeneric()
}
