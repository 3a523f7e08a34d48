package csv

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const utf8BOM = "\uFEFF"

// normalizeHeader strips a UTF-8 BOM from the first cell, trims surrounding
// whitespace, and NFC-normalizes every name so a decomposed "é" in a header
// matches the composed form. Repeated names get ".1", ".2", ... suffixes in
// order of appearance; the first occurrence keeps the bare name.
func normalizeHeader(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, h := range raw {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		h = norm.NFC.String(strings.TrimSpace(h))

		name := h
		for n := 1; seen[name]; n++ {
			name = h + "." + strconv.Itoa(n)
		}
		seen[name] = true
		out[i] = name
	}
	return out
}
