// Package views holds the server-rendered storefront pages. Every value is
// written through html/template, so product text is escaped for the
// context it lands in.
package views

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var files embed.FS

// Pages is parsed once at start-up.
var Pages = template.Must(template.New("").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return "$" + d.StringFixed(2) },
	"dict":  dict,
}).ParseFS(files, "templates/*.html"))

// dict builds a map from alternating keys and values so partials can take
// named arguments.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}
