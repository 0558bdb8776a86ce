package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Sheet Masks":             "sheet-masks",
		"  Serums & Essences  ":   "serums-essences",
		"--Already-a-slug--":      "already-a-slug",
		"SPF 50+ Sunscreen":       "spf-50-sunscreen",
		"Crème Brûlée":            "cr-me-br-l-e",
		"!!!":                     "",
		"":                        "",
		"multiple   spaces___and": "multiple-spaces-and",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{
		"Sheet Masks", "sheet-masks", "A--B", "  lead", "trail  ", "Ünïcödé", "x", "123 Go!", "a_b_c",
	}
	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), "input %q", in)
	}
}
