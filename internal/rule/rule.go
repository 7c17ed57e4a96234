// Package rule holds the predicates that decide whether a child column
// plausibly references a parent column.
//
// Rules are plain data. Evaluate is the only place that knows how each
// kind matches, so adding a kind means adding a constant, a name and a case.
package rule

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tordrt/tblsrel/internal/schema"
)

// Kind identifies a built-in rule
type Kind int

const (
	EndsWith Kind = iota
	EndsWithExceptingThePrefixes
	SameDataType
)

// Rule names as accepted on the command line
const (
	NameEndsWith                     = "ends-with"
	NameEndsWithExceptingThePrefixes = "ends-with-excepting-the-prefixes"
	NameSameDataType                 = "same-data-type"

	// nameSomeDataType is the spelling older configs use for same-data-type
	nameSomeDataType = "some-data-type"
)

// ErrUnsupportedRule is returned for rule names that resolve to no Kind
var ErrUnsupportedRule = errors.New("unsupported rule")

func (k Kind) String() string {
	switch k {
	case EndsWith:
		return NameEndsWith
	case EndsWithExceptingThePrefixes:
		return NameEndsWithExceptingThePrefixes
	case SameDataType:
		return NameSameDataType
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Rule is a configured predicate. Prefixes is only read by
// EndsWithExceptingThePrefixes.
type Rule struct {
	Kind     Kind
	Prefixes []string
}

func (r Rule) String() string {
	if r.Kind == EndsWithExceptingThePrefixes {
		return fmt.Sprintf("%s%v", r.Kind, r.Prefixes)
	}
	return r.Kind.String()
}

// Pair is one parent/child column pairing under evaluation
type Pair struct {
	ParentTable  *schema.Table
	ParentColumn *schema.Column
	ChildTable   *schema.Table
	ChildColumn  *schema.Column
}

// Evaluate reports whether p satisfies r
func Evaluate(r Rule, p Pair) bool {
	switch r.Kind {
	case EndsWith:
		suffix := p.ParentTable.Name + "_" + p.ParentColumn.Name
		return strings.HasSuffix(p.ChildColumn.Name, suffix)
	case EndsWithExceptingThePrefixes:
		for _, prefix := range r.Prefixes {
			suffix := trimLeading(p.ParentTable.Name, prefix) + "_" + p.ParentColumn.Name
			if strings.HasSuffix(p.ChildColumn.Name, suffix) {
				return true
			}
		}
		return false
	case SameDataType:
		return p.ParentColumn.DataType == p.ChildColumn.DataType
	default:
		return false
	}
}

// All reports whether p satisfies every rule. An empty rule set is satisfied.
func All(rules []Rule, p Pair) bool {
	for _, r := range rules {
		if !Evaluate(r, p) {
			return false
		}
	}
	return true
}

// ParseKind resolves a rule name
func ParseKind(name string) (Kind, error) {
	switch name {
	case NameEndsWith:
		return EndsWith, nil
	case NameEndsWithExceptingThePrefixes:
		return EndsWithExceptingThePrefixes, nil
	case NameSameDataType, nameSomeDataType:
		return SameDataType, nil
	default:
		return 0, fmt.Errorf("%w: `%s`", ErrUnsupportedRule, name)
	}
}

// Names lists the accepted rule names
func Names() []string {
	return []string{NameEndsWith, NameEndsWithExceptingThePrefixes, NameSameDataType}
}

// Build resolves rule names into rules, in order. Repeated names and
// prefixes are dropped after their first occurrence. No names means the
// default rule set, ends-with alone.
func Build(names, prefixes []string) ([]Rule, error) {
	if len(names) == 0 {
		names = []string{NameEndsWith}
	}

	uniquePrefixes := unique(prefixes)

	seen := make(map[Kind]bool)
	rules := make([]Rule, 0, len(names))
	for _, name := range names {
		kind, err := ParseKind(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		if seen[kind] {
			continue
		}
		seen[kind] = true

		r := Rule{Kind: kind}
		if kind == EndsWithExceptingThePrefixes {
			r.Prefixes = uniquePrefixes
		}
		rules = append(rules, r)
	}

	return rules, nil
}

// trimLeading removes every leading repetition of prefix from s
func trimLeading(s, prefix string) string {
	if prefix == "" {
		return s
	}
	for strings.HasPrefix(s, prefix) {
		s = s[len(prefix):]
	}
	return s
}

func unique(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
