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
	"net/url"
	"sort"
	"strings"
)

var (
	// ErrMissingParam indicates that a mandatory template variable has no
	// value during interpolation.
	ErrMissingParam = errors.New("missing required parameter")

	// ErrEmptyPath indicates that a path is empty after trimming.
	ErrEmptyPath = errors.New("path must not be empty")
)

// Normalize canonicalizes a navigation path: guarantees a leading slash,
// collapses duplicate slashes, and strips the trailing slash except for
// the root path. The query string and hash fragment, if present, are left
// untouched by the caller's contract - pass the bare path only.
func Normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// Split breaks a normalized path into its slash-delimited segments.
// The root path yields no segments.
func Split(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// SegmentCount returns the number of slash-delimited segments in path.
func SegmentCount(path string) int {
	return len(Split(path))
}

// SplitSuffix splits a path into its base and its suffix: the substring
// after the last '.' that is not followed by a '/'. The returned suffix
// does not include the dot. Paths without a suffix return an empty suffix.
//
//	SplitSuffix("/report.json") = ("/report", "json")
//	SplitSuffix("/v1.2/report") = ("/v1.2/report", "")
func SplitSuffix(path string) (base, suffix string) {
	dot := strings.LastIndexByte(path, '.')
	if dot < 0 {
		return path, ""
	}
	if strings.IndexByte(path[dot:], '/') >= 0 {
		return path, ""
	}
	return path[:dot], path[dot+1:]
}

// JoinSuffix reattaches a suffix previously removed by SplitSuffix.
func JoinSuffix(base, suffix string) string {
	if suffix == "" {
		return base
	}
	return base + "." + suffix
}

// EncodeQuery renders a query map as a canonical query string without the
// leading '?'. Keys are emitted in sorted order so the encoding is
// deterministic regardless of map iteration order.
func EncodeQuery(query map[string]string) string {
	if len(query) == 0 {
		return ""
	}
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf strings.Builder
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(url.QueryEscape(k))
		buf.WriteByte('=')
		buf.WriteString(url.QueryEscape(query[k]))
	}
	return buf.String()
}

// DecodeQuery parses a query string (with or without the leading '?')
// into a map. Repeated keys keep the last value. Malformed pairs are
// skipped rather than failing the whole parse, matching the forgiving
// behavior expected from address bars.
func DecodeQuery(raw string) map[string]string {
	raw = strings.TrimPrefix(raw, "?")
	if raw == "" {
		return map[string]string{}
	}
	out := make(map[string]string)
	for pair := range strings.SplitSeq(raw, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil || key == "" {
			continue
		}
		val, err := url.QueryUnescape(v)
		if err != nil {
			continue
		}
		out[key] = val
	}
	return out
}

// SplitHash separates a path from its '#' fragment. The returned hash
// includes the leading '#', or is empty when no fragment is present.
func SplitHash(path string) (base, hash string) {
	if i := strings.IndexByte(path, '#'); i >= 0 {
		return path[:i], path[i:]
	}
	return path, ""
}

// NormalizeHash guarantees a non-empty fragment carries its leading '#'.
func NormalizeHash(hash string) string {
	if hash == "" || strings.HasPrefix(hash, "#") {
		return hash
	}
	return "#" + hash
}

// Interpolate fills the dynamic variables of a route template with
// concrete values. A missing value for a mandatory {name} variable is an
// error wrapping [ErrMissingParam]; missing optional {name?} variables
// drop their segment entirely, so trailing optionals simply shorten the
// generated path.
func Interpolate(template string, params map[string]string) (string, error) {
	segments := Split(template)
	var buf strings.Builder

	for _, seg := range segments {
		name, optional, isVar := parseVarSegment(seg)
		if !isVar {
			buf.WriteByte('/')
			buf.WriteString(seg)
			continue
		}
		val, ok := params[name]
		if !ok || val == "" {
			if optional {
				continue
			}
			return "", fmt.Errorf("%w: %s in %s", ErrMissingParam, name, template)
		}
		buf.WriteByte('/')
		buf.WriteString(url.PathEscape(val))
	}

	if buf.Len() == 0 {
		return "/", nil
	}
	return buf.String(), nil
}

// parseVarSegment reports whether a template segment is a {name} or
// {name?} variable and extracts its name.
func parseVarSegment(seg string) (name string, optional, isVar bool) {
	if len(seg) < 3 || seg[0] != '{' || seg[len(seg)-1] != '}' {
		return "", false, false
	}
	name = seg[1 : len(seg)-1]
	if strings.HasSuffix(name, "?") {
		return name[:len(name)-1], true, true
	}
	return name, false, true
}

// IsDynamic reports whether a template contains at least one {name} or
// {name?} variable segment.
func IsDynamic(template string) bool {
	for _, seg := range Split(template) {
		if _, _, isVar := parseVarSegment(seg); isVar {
			return true
		}
	}
	return false
}
