package rules

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/avern/cardboard/internal/domain"
)

type expectKind int

const (
	expectList expectKind = iota
	expectBool
	expectString
)

// Condition is one compiled (path, expected value) pair of a column rule.
type Condition struct {
	Path string
	Kind domain.Kind

	resolve resolver

	kind expectKind
	list []string
	b    bool
	str  string
}

// Compile validates a rule path and its expected value and binds the typed
// accessor. It is the only way to build a Condition, so every condition the
// engine ever evaluates has passed load-time validation.
func Compile(path string, value any) (Condition, error) {
	spec, ok := permittedPaths[path]
	if !ok {
		return Condition{}, fmt.Errorf(
			"illegal rule path %q, the permitted paths are:\n%s",
			path, strings.Join(PermittedPaths(), "\n"))
	}

	cond := Condition{Path: path, Kind: spec.kind, resolve: spec.resolve}
	switch v := value.(type) {
	case bool:
		cond.kind = expectBool
		cond.b = v
	case string:
		cond.kind = expectString
		cond.str = v
	case []string:
		cond.kind = expectList
		cond.list = v
	case []any:
		cond.kind = expectList
		for _, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return Condition{}, fmt.Errorf("rule %q: list values must be strings, got %T", path, elem)
			}
			cond.list = append(cond.list, s)
		}
	default:
		return Condition{}, fmt.Errorf("rule %q: unsupported value type %T", path, value)
	}

	return cond, nil
}

// holds evaluates the condition against an item. The caller has already
// checked kind applicability.
func (c Condition) holds(item *domain.Item) bool {
	result, ok := c.resolve(item)
	if !ok {
		return false
	}

	switch c.kind {
	case expectList:
		// Every expected element must appear in the result; an element with
		// an "||" separator is satisfied by any one of its alternatives.
		if !result.IsList {
			return false
		}
		for _, want := range c.list {
			if strings.Contains(want, domain.OrSeparator) {
				satisfied := false
				for _, alt := range strings.Split(want, domain.OrSeparator) {
					if containsString(result.List, alt) {
						satisfied = true
						break
					}
				}
				if !satisfied {
					return false
				}
			} else if !containsString(result.List, want) {
				return false
			}
		}
		return true

	case expectBool:
		return c.b == result.truthy()

	default:
		if result.IsList {
			return containsString(result.List, c.str)
		}
		return false
	}
}

func containsString(list []string, s string) bool {
	for _, elem := range list {
		if elem == s {
			return true
		}
	}
	return false
}

// Engine selects the destination column for an item by evaluating column
// rules in the configured order, first match wins.
type Engine struct {
	order   []string
	columns map[string][]Condition
	log     *slog.Logger
}

// New builds an engine from compiled column rules. order is the configured
// evaluation order, distinct from item priority and from column layout order.
func New(order []string, columns map[string][]Condition, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{order: order, columns: columns, log: log}
}

// MatchColumn returns the name of the first column whose applicable
// conditions all hold for the item, or the empty string when none match.
// A column with no conditions for the item's kind never matches; the empty
// result means "leave unplaced" and is not an error.
func (e *Engine) MatchColumn(item *domain.Item) string {
	for _, name := range e.order {
		if e.columnMatches(name, item) {
			return name
		}
		e.log.Debug("item did not match column rules", "item", item.Title, "column", name)
	}
	return ""
}

func (e *Engine) columnMatches(name string, item *domain.Item) bool {
	applicable := 0
	for _, cond := range e.columns[name] {
		if cond.Kind != item.Kind {
			continue
		}
		applicable++
		if !cond.holds(item) {
			return false
		}
	}
	return applicable > 0
}
