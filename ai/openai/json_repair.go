// Copyright 2025 Poiesic Systems
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

package openai

import "strings"

// repairJSON fixes the malformations that show up most often in model
// output: object keys missing their opening quote (`type":` instead of
// `"type":`) and trailing commas before a closing brace or bracket.
func repairJSON(s string) string {
	return requoteKeys(dropTrailingCommas(s))
}

// dropTrailingCommas removes any comma whose next non-whitespace byte
// closes an object or array.
func dropTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			j := i + 1
			for j < len(s) && isSpaceByte(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// requoteKeys restores the opening quote on object keys that lost it.
// A bare word after `{` or `,` is treated as a broken key only when its
// closing quote and colon are still in place, so valid JSON passes
// through untouched.
func requoteKeys(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	i := 0
	for i < len(s) {
		c := s[i]
		b.WriteByte(c)
		i++
		if c != '{' && c != ',' {
			continue
		}

		for i < len(s) && isSpaceByte(s[i]) {
			b.WriteByte(s[i])
			i++
		}

		start := i
		for i < len(s) && isKeyByte(s[i]) {
			i++
		}
		if i > start && i+1 < len(s) && s[i] == '"' && s[i+1] == ':' {
			b.WriteByte('"')
		}
		b.WriteString(s[start:i])
	}
	return b.String()
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isKeyByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_'
}
