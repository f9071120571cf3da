package shared

import "strings"

// NormalizeKey lower-cases and trims a natural key so that manufacturer
// names, product codes and option names all match through the same textual
// form. Every lookup map and every unique key column must go through this
// function; two call sites that disagree make resolution fail closed
// (unmatched, never an error).
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
