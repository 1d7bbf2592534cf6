package main

import "testing"

func TestDescriptionFromFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2026-04-01-001-initial-schema.sql", "initial schema"},
		{"2026-05-12-002-add-meal-source.sql", "add meal source"},
		{"no-prefix.sql", "no prefix"},
	}
	for _, tc := range cases {
		if got := descriptionFromFilename(tc.in); got != tc.want {
			t.Errorf("descriptionFromFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
