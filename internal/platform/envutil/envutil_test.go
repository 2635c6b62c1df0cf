package envutil

import "testing"

func TestString(t *testing.T) {
	t.Setenv("BRIDGE_TEST_STR", "  value ")
	if got := String("BRIDGE_TEST_STR", "dflt"); got != "value" {
		t.Fatalf("String: want=value got=%q", got)
	}
	if got := String("BRIDGE_TEST_UNSET", "dflt"); got != "dflt" {
		t.Fatalf("String: want=dflt got=%q", got)
	}
}

func TestBool(t *testing.T) {
	tests := map[string]bool{"on": true, "TRUE": true, "1": true, "off": false, "nope": false}
	for raw, want := range tests {
		t.Setenv("BRIDGE_TEST_BOOL", raw)
		if got := Bool("BRIDGE_TEST_BOOL", !want); got != want {
			t.Fatalf("Bool(%q): want=%v got=%v", raw, want, got)
		}
	}
	t.Setenv("BRIDGE_TEST_BOOL", "")
	if !Bool("BRIDGE_TEST_BOOL", true) {
		t.Fatalf("Bool empty: want default")
	}
}
