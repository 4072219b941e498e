// Copyright 2025 The Rivaas Authors
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

package pathutil

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultVarPattern is the regex fragment used for dynamic variables that
// carry no explicit per-variable pattern. It matches a single non-empty
// path segment.
const DefaultVarPattern = `[^/]+`

// ErrOptionalOrder indicates that a mandatory variable follows an
// optional one in the same template. Such templates are rejected at
// compile time: the number of trailing segments could no longer identify
// which optionals were supplied.
var ErrOptionalOrder = errors.New("mandatory variable after optional variable")

// Var describes one dynamic variable of a compiled template, in
// declaration order.
type Var struct {
	Name     string
	Optional bool
	Pattern  string
}

// Pattern is a compiled route template. The regex matches the candidate
// path with a trailing slash appended, so trailing optional groups anchor
// correctly whether or not their segment is present.
type Pattern struct {
	Template string
	Vars     []Var
	Regex    *regexp.Regexp

	segments  int // total template segments, including optionals
	optionals int
}

// CompilePattern compiles a brace template into a Pattern. perVar supplies
// explicit regex fragments keyed by variable name; variables without an
// entry use defaultPat, or DefaultVarPattern when defaultPat is empty.
//
// The compile fails when a mandatory variable follows an optional one
// (wrapping ErrOptionalOrder), or when a variable's regex fragment does
// not compile.
func CompilePattern(template string, perVar map[string]string, defaultPat string) (*Pattern, error) {
	if defaultPat == "" {
		defaultPat = DefaultVarPattern
	}

	segments := Split(template)
	var (
		buf       strings.Builder
		vars      []Var
		optionals int
		sawOpt    bool
	)
	buf.WriteString("^/")

	for _, seg := range segments {
		name, optional, isVar := parseVarSegment(seg)
		if !isVar {
			buf.WriteString(regexp.QuoteMeta(seg))
			buf.WriteByte('/')
			continue
		}

		if sawOpt && !optional {
			return nil, fmt.Errorf("%w: {%s} in %s", ErrOptionalOrder, name, template)
		}

		pat := defaultPat
		if p, ok := perVar[name]; ok && p != "" {
			pat = p
		}
		if _, err := regexp.Compile(pat); err != nil {
			return nil, fmt.Errorf("pattern for {%s} in %s: %w", name, template, err)
		}

		if optional {
			sawOpt = true
			optionals++
			buf.WriteString("(?:(")
			buf.WriteString(pat)
			buf.WriteString(")/)?")
		} else {
			buf.WriteByte('(')
			buf.WriteString(pat)
			buf.WriteString(")/")
		}
		vars = append(vars, Var{Name: name, Optional: optional, Pattern: pat})
	}
	buf.WriteByte('$')

	re, err := regexp.Compile(buf.String())
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", template, err)
	}

	return &Pattern{
		Template:  template,
		Vars:      vars,
		Regex:     re,
		segments:  len(segments),
		optionals: optionals,
	}, nil
}

// SegmentCounts returns every slash-delimited length under which this
// pattern must be registered: the full template length plus one entry for
// each run of dropped trailing optional variables. A template
// /a/{b?}/{c?} yields counts 3, 2, and 1.
func (p *Pattern) SegmentCounts() []int {
	counts := make([]int, 0, p.optionals+1)
	for i := 0; i <= p.optionals; i++ {
		counts = append(counts, p.segments-i)
	}
	return counts
}

// Match tests path against the compiled regex and extracts parameter
// values by declaration order. Optional variables absent from the path are
// omitted from the result rather than set to the empty string. The path is
// matched with a guaranteed trailing slash.
func (p *Pattern) Match(path string) (map[string]string, bool) {
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	m := p.Regex.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}

	params := make(map[string]string, len(p.Vars))
	for i, v := range p.Vars {
		val := m[i+1]
		if val == "" && v.Optional {
			continue
		}
		params[v.Name] = val
	}
	return params, true
}
