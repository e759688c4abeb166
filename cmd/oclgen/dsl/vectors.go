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
	"strconv"

	"github.com/samber/lo"
)

// Vectors returns the names of base at each of the given widths, e.g.
// Vectors("float") is float2 through float16. Without widths, every
// vector width is used.
func Vectors(base string, widths ...int) []string {
	if len(widths) == 0 {
		widths = VectorWidths
	}
	return lo.Map(widths, func(w int, _ int) string {
		return base + strconv.Itoa(w)
	})
}

// WithScalar returns base followed by Vectors(base, widths...).
func WithScalar(base string, widths ...int) []string {
	return append([]string{base}, Vectors(base, widths...)...)
}
