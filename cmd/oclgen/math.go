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
	"github.com/opencrun/oclgen/cmd/oclgen/dsl"
)

// floatTypes is float and every float vector.
var floatTypes = dsl.WithScalar("float")

// builtinBody returns an entry configuration with the given body over floatTypes.
func builtinBody(body string) func(f *dsl.Function) error {
	return func(f *dsl.Function) error {
		if err := f.SetBody(body); err != nil {
			return err
		}
		return f.SetTypes(floatTypes...)
	}
}

// MathModule is the built-in math catalog, used when no catalog file is given.
func MathModule() Module {
	return Module{
		Name: "math",
		Entries: []Entry{
			{"gentype acos(gentype x)", builtinBody("return __builtin_acos$cty(x);")},
			{"gentype acosh(gentype x)", builtinBody("return __builtin_acosh$cty(x);")},
			{"gentype acospi(gentype x)", builtinBody("return acos(x) / M_PI;")},
		},
	}
}
