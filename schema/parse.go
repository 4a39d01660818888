// Copyright 2025 Starspread Contributors
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

package schema

import "strings"

const (
	structPrefix = "STRUCT<"
	arrayPrefix  = "ARRAY<"
	mapPrefix    = "MAP<"

	unknownType = "UNKNOWN"
)

// IsComplex reports whether a raw type string denotes a STRUCT, ARRAY or MAP
// type. Detection is case-insensitive and ignores surrounding whitespace.
func IsComplex(typeText string) bool {
	t := strings.ToUpper(strings.TrimSpace(typeText))
	return strings.HasPrefix(t, structPrefix) ||
		strings.HasPrefix(t, arrayPrefix) ||
		strings.HasPrefix(t, mapPrefix)
}

// Parser converts raw type strings into schema tree nodes.
//
// By default the parser is tolerant: malformed type text degrades to a
// best-effort node (empty struct, UNKNOWN-typed array element or map parts)
// instead of failing, so that a single corrupt column does not block a whole
// table. Strict mode fails fast instead, naming the offending column and its
// raw type.
type Parser struct {
	// Strict makes the parser return an error for any type text that would
	// otherwise take a fallback, including unbalanced angle brackets.
	Strict bool
}

// Parse converts (name, typeText, nullable) into a schema tree node.
func (p *Parser) Parse(name, typeText string, nullable bool) (Node, error) {
	if !IsComplex(typeText) {
		return NewSimple(name, typeText, nullable), nil
	}
	return p.parseComplex(name, typeText, nullable)
}

func (p *Parser) parseComplex(name, typeText string, nullable bool) (Node, error) {
	if p.Strict && !balancedAngles(typeText) {
		return nil, ErrUnbalancedType.New(typeText, name)
	}

	upper := strings.ToUpper(strings.TrimSpace(typeText))
	switch {
	case strings.HasPrefix(upper, structPrefix):
		return p.parseStruct(name, typeText, nullable)
	case strings.HasPrefix(upper, arrayPrefix):
		return p.parseArray(name, typeText, nullable)
	case strings.HasPrefix(upper, mapPrefix):
		return p.parseMap(name, typeText, nullable)
	}

	// The detector and this dispatcher share the same prefix set, so this is
	// unreachable unless the two drift apart.
	return nil, ErrUnknownComplexType.New(typeText, name)
}

func (p *Parser) parseStruct(name, typeText string, nullable bool) (Node, error) {
	inner, ok := interior(typeText, structPrefix)
	if !ok {
		if p.Strict {
			return nil, ErrMalformedType.New(typeText, name)
		}
		return NewStruct(name, typeText, nullable), nil
	}

	var fields []Node
	for _, def := range splitMembers(inner) {
		fieldName, fieldType, ok := cutTop(def, ':')
		if !ok {
			if p.Strict {
				return nil, ErrMalformedType.New(typeText, name)
			}
			// A member with no top-level colon is not a field definition.
			continue
		}

		field, err := p.Parse(fieldName, fieldType, true)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	return NewStruct(name, typeText, nullable, fields...), nil
}

func (p *Parser) parseArray(name, typeText string, nullable bool) (Node, error) {
	inner, ok := interior(typeText, arrayPrefix)
	if !ok {
		if p.Strict {
			return nil, ErrMalformedType.New(typeText, name)
		}
		element := NewSimple(ElementField, unknownType, true)
		return NewArray(name, typeText, nullable, element), nil
	}

	element, err := p.Parse(ElementField, strings.TrimSpace(inner), true)
	if err != nil {
		return nil, err
	}

	return NewArray(name, typeText, nullable, element), nil
}

func (p *Parser) parseMap(name, typeText string, nullable bool) (Node, error) {
	inner, ok := interior(typeText, mapPrefix)
	var parts []string
	if ok {
		parts = splitMembers(inner)
	}
	if len(parts) != 2 {
		if p.Strict {
			return nil, ErrMalformedType.New(typeText, name)
		}
		key := NewSimple(KeyField, unknownType, false)
		value := NewSimple(ValueField, unknownType, true)
		return NewMap(name, typeText, nullable, key, value), nil
	}

	key, err := p.Parse(KeyField, parts[0], false)
	if err != nil {
		return nil, err
	}
	value, err := p.Parse(ValueField, parts[1], true)
	if err != nil {
		return nil, err
	}

	return NewMap(name, typeText, nullable, key, value), nil
}

// interior extracts the content between a complex type's opening prefix and
// its final '>'. It reports false when there is no non-empty interior.
func interior(typeText, prefix string) (string, bool) {
	trimmed := strings.TrimSpace(typeText)
	end := strings.LastIndexByte(trimmed, '>')
	if end <= len(prefix) {
		return "", false
	}
	return trimmed[len(prefix):end], true
}

// splitMembers splits s into its top-level comma-separated members. Commas
// inside nested <...> are never split points. Empty members are dropped.
func splitMembers(s string) []string {
	var members []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				if m := strings.TrimSpace(s[start:i]); m != "" {
					members = append(members, m)
				}
				start = i + 1
			}
		}
	}
	if m := strings.TrimSpace(s[start:]); m != "" {
		members = append(members, m)
	}
	return members
}

// cutTop splits s around the first top-level occurrence of sep, returning
// both halves trimmed. It reports false when s has no top-level sep.
func cutTop(s string, sep byte) (string, string, bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case sep:
			if depth == 0 {
				return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), true
			}
		}
	}
	return "", "", false
}

// balancedAngles reports whether every '<' in s is closed by a matching '>'.
func balancedAngles(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
