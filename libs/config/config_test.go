package config

import "testing"

func TestString(t *testing.T) {
	t.Setenv("CFG_TEST_STRING", "hello")
	if got := String("CFG_TEST_STRING", "fallback"); got != "hello" {
		t.Fatalf("got %q", got)
	}
	if got := String("CFG_TEST_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("got %q", got)
	}
}

func TestRequiredString(t *testing.T) {
	if _, err := RequiredString("CFG_TEST_MISSING"); err == nil {
		t.Fatal("expected error for missing variable")
	}
	t.Setenv("CFG_TEST_REQ", "value")
	v, err := RequiredString("CFG_TEST_REQ")
	if err != nil || v != "value" {
		t.Fatalf("got %q, %v", v, err)
	}
}

func TestInt(t *testing.T) {
	t.Setenv("CFG_TEST_INT", "42")
	if got := Int("CFG_TEST_INT", 7); got != 42 {
		t.Fatalf("got %d", got)
	}
	t.Setenv("CFG_TEST_INT", "not-a-number")
	if got := Int("CFG_TEST_INT", 7); got != 7 {
		t.Fatalf("malformed value should fall back, got %d", got)
	}
}

func TestBool(t *testing.T) {
	cases := map[string]bool{"true": true, "1": true, "yes": true, "false": false, "0": false, "FALSE": false}
	for raw, want := range cases {
		t.Setenv("CFG_TEST_BOOL", raw)
		if got := Bool("CFG_TEST_BOOL", !want); got != want {
			t.Fatalf("Bool(%q) = %v, want %v", raw, got, want)
		}
	}
	if got := Bool("CFG_TEST_BOOL_MISSING", true); !got {
		t.Fatal("missing variable should fall back")
	}
}

func TestPort(t *testing.T) {
	t.Setenv("CFG_TEST_PORT", "8080")
	p, err := Port("CFG_TEST_PORT", "3000")
	if err != nil || p != "8080" {
		t.Fatalf("got %q, %v", p, err)
	}
	for _, bad := range []string{"0", "70000", "http"} {
		t.Setenv("CFG_TEST_PORT", bad)
		if _, err := Port("CFG_TEST_PORT", "3000"); err == nil {
			t.Fatalf("Port(%q) should fail", bad)
		}
	}
}
