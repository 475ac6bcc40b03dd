package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceFromFilter(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		want    string
		ok      bool
	}{
		{"plain predicate", `service:checkout`, "checkout", true},
		{"and conjunct", `service:checkout AND method:POST`, "checkout", true},
		{"nested and", `(service:checkout AND method:POST) AND uri:"/api/orders"`, "checkout", true},
		{"quoted value", `service:"payment gateway"`, "payment gateway", true},
		{"no service predicate", `method:POST AND error_rate:>0.1`, "", false},
		{"or is ambiguous", `service:checkout OR service:billing`, "", false},
		{"conflicting conjuncts", `service:checkout AND service:billing`, "", false},
		{"empty expression", ``, "", false},
		{"whitespace only", `   `, "", false},
		{"unparseable", `service:(((`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, ok := ServiceFromFilter(tt.expr)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, svc)
		})
	}
}
