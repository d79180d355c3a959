package gateway

import (
	"sort"
	"strings"
)

// Reserved parameter names carried on the wire but never part of the signed
// text.
const (
	FieldSign     = "sign"
	FieldSignType = "sign_type"
)

// Canonicalize reduces a parameter set to the deterministic string the
// gateway signs: pairs with empty values and the sign/sign_type fields are
// dropped, remaining keys are sorted by byte order, and the pairs are joined
// as key=value with & between them. The protocol defines no escaping for &
// or = inside values; values containing them produce ambiguous canonical
// strings, which is inherited from the gateway as-is.
func Canonicalize(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" || k == FieldSign || k == FieldSignType {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

// signBase appends the shared key to the canonical string with no separator,
// producing the exact text the digest is computed over.
func signBase(params map[string]string, key string) string {
	return Canonicalize(params) + key
}
