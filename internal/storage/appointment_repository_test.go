package storage

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestLikePattern(t *testing.T) {
	cases := map[string]string{
		"alice":   "%alice%",
		" alice ": "%alice%",
		"100%":    `%100\%%`,
		"a_b":     `%a\_b%`,
		`c:\tmp`:  `%c:\\tmp%`,
		"":        "%%",
	}
	for term, want := range cases {
		if got := likePattern(term); got != want {
			t.Fatalf("likePattern(%q) = %q, want %q", term, got, want)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(pgx.ErrNoRows) {
		t.Fatal("pgx.ErrNoRows should count as not found")
	}
	if IsNotFound(errors.New("boom")) {
		t.Fatal("arbitrary errors are not not-found")
	}
	if IsNotFound(nil) {
		t.Fatal("nil is not not-found")
	}
}
