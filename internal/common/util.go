// Package common holds small helpers shared by the client layers.
package common

import (
	"strings"
)

// WipeByteArray overwrites b with zeros. It is safe to call with nil.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// SplitList splits a comma or space separated list, dropping empty items
// and lower-casing the rest.
func SplitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.ToLower(f))
	}
	return out
}
