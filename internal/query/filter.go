package query

import (
	"strings"

	"github.com/grindlemire/go-lucene"
	"github.com/grindlemire/go-lucene/pkg/lucene/expr"
)

// ServiceFromFilter parses a Lucene-style filter expression and extracts the
// service name when the expression pins it down unambiguously, meaning a
// single service: predicate reachable through AND conjuncts only. Predicates
// under OR or NOT, multiple conflicting predicates, and unparseable
// expressions all report ok=false.
func ServiceFromFilter(q string) (service string, ok bool) {
	if strings.TrimSpace(q) == "" {
		return "", false
	}
	parsed, err := lucene.Parse(q)
	if err != nil {
		return "", false
	}
	found := map[string]struct{}{}
	collectServiceEquals(parsed, found)
	if len(found) != 1 {
		return "", false
	}
	for svc := range found {
		service = svc
	}
	return service, true
}

func collectServiceEquals(e *expr.Expression, out map[string]struct{}) {
	if e == nil {
		return
	}
	switch e.Op {
	case expr.And:
		if left, ok := e.Left.(*expr.Expression); ok {
			collectServiceEquals(left, out)
		}
		if right, ok := e.Right.(*expr.Expression); ok {
			collectServiceEquals(right, out)
		}
	case expr.Equals:
		field := ""
		value := ""
		if left, ok := e.Left.(*expr.Expression); ok && left.Op == expr.Literal {
			if col, ok := left.Left.(expr.Column); ok {
				field = string(col)
			}
		}
		if right, ok := e.Right.(*expr.Expression); ok && right.Op == expr.Literal {
			if str, ok := right.Left.(string); ok {
				value = strings.Trim(str, `"`)
			}
		}
		if strings.ToLower(field) == "service" && value != "" {
			out[value] = struct{}{}
		}
	}
}
