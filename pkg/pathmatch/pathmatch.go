// Package pathmatch matches slash separated paths, relative to a walk root,
// against exclusion patterns.
//
// The glob syntax follows find -path, that is fnmatch(3) without FNM_PATHNAME:
//   - * matches any characters including /
//   - ? matches exactly one character including /
//   - [...] matches one character from the set including /
//   - \ escapes the next character
//
// On top of the glob, an exclusion pattern carries two markers:
//   - a trailing / restricts the pattern to directories
//   - a pattern without any / is tested against the base name of the entry,
//     at any depth; prefix it with / to anchor it to the root instead
package pathmatch

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"sync"
)

// Match reports whether name matches the glob pattern as a whole, using
// find -path semantics.
func Match(pattern, name string) (bool, error) {
	re, err := compile(pattern)
	if err != nil {
		return false, err
	}

	return re.MatchString(name), nil
}

// Pattern is a compiled exclusion pattern.
type Pattern struct {
	raw      string
	re       *regexp.Regexp
	dirOnly  bool
	basename bool
}

// Compile parses an exclusion pattern. A leading "./" is ignored.
func Compile(pattern string) (Pattern, error) {
	p := Pattern{raw: pattern}

	glob := strings.TrimPrefix(pattern, "./")

	if trimmed := strings.TrimSuffix(glob, "/"); trimmed != glob {
		p.dirOnly = true
		glob = trimmed
	}

	switch {
	case strings.HasPrefix(glob, "/"):
		glob = strings.TrimLeft(glob, "/")
	case !strings.Contains(glob, "/"):
		p.basename = true
	}

	if glob == "" {
		return Pattern{}, fmt.Errorf("empty pattern %q", pattern)
	}

	re, err := compile(glob)
	if err != nil {
		return Pattern{}, err
	}

	p.re = re

	return p, nil
}

// Match reports whether the entry at rel matches.
func (p Pattern) Match(rel string, isDir bool) bool {
	if p.dirOnly && !isDir {
		return false
	}

	if p.basename {
		rel = path.Base(rel)
	}

	return p.re.MatchString(rel)
}

func (p Pattern) String() string {
	return p.raw
}

// Matcher holds a set of compiled patterns.
type Matcher struct {
	patterns []Pattern
}

// NewMatcher compiles the given patterns into a reusable matcher.
func NewMatcher(patterns []string) (*Matcher, error) {
	matcher := &Matcher{patterns: make([]Pattern, 0, len(patterns))}

	for _, raw := range patterns {
		p, err := Compile(raw)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", raw, err)
		}

		matcher.patterns = append(matcher.patterns, p)
	}

	return matcher, nil
}

// Match reports whether the entry at rel matches any pattern.
func (m *Matcher) Match(rel string, isDir bool) bool {
	for _, p := range m.patterns {
		if p.Match(rel, isDir) {
			return true
		}
	}

	return false
}

// Len returns the number of patterns.
func (m *Matcher) Len() int {
	return len(m.patterns)
}

var cache sync.Map //nolint:gochecknoglobals // compiled globs are shared across matchers

// compile converts a glob to a compiled regexp, caching the result.
func compile(pattern string) (*regexp.Regexp, error) {
	if v, ok := cache.Load(pattern); ok {
		cached, _ := v.(*regexp.Regexp) //nolint:errcheck // only *regexp.Regexp is stored

		return cached, nil
	}

	expr, err := translate(pattern)
	if err != nil {
		return nil, err
	}

	compiled, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}

	cache.Store(pattern, compiled)

	return compiled, nil
}

// translate rewrites a glob as an anchored regular expression.
func translate(pattern string) (string, error) {
	var buf strings.Builder

	buf.WriteString("^")

	for pos := 0; pos < len(pattern); {
		switch c := pattern[pos]; c {
		case '*':
			buf.WriteString(".*")
			pos++

		case '?':
			buf.WriteString(".")
			pos++

		case '[':
			end, err := classEnd(pattern, pos)
			if err != nil {
				return "", err
			}

			class := pattern[pos+1 : end]
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			}

			buf.WriteString("[" + class + "]")
			pos = end + 1

		case '\\':
			if pos+1 == len(pattern) {
				return "", fmt.Errorf("trailing backslash in pattern %q", pattern)
			}

			buf.WriteString(regexp.QuoteMeta(pattern[pos+1 : pos+2]))
			pos += 2

		default:
			buf.WriteString(regexp.QuoteMeta(string(c)))
			pos++
		}
	}

	buf.WriteString("$")

	return buf.String(), nil
}

// classEnd returns the index of the ] closing the class opened at pos.
// A ] right after the opening bracket, or after its !, is a literal.
func classEnd(pattern string, pos int) (int, error) {
	idx := pos + 1

	if idx < len(pattern) && pattern[idx] == '!' {
		idx++
	}

	if idx < len(pattern) && pattern[idx] == ']' {
		idx++
	}

	if end := strings.IndexByte(pattern[idx:], ']'); end >= 0 {
		return idx + end, nil
	}

	return 0, fmt.Errorf("unclosed character class in pattern %q", pattern)
}
