package util

import "testing"

func TestParseBoolDefault(t *testing.T) {
	cases := map[string]bool{"on": true, "true": true, "1": true, "off": false, "0": false}
	for in, want := range cases {
		if got := ParseBoolDefault(in, !want); got != want {
			t.Fatalf("%q: got %v", in, got)
		}
	}
	if !ParseBoolDefault("maybe", true) {
		t.Fatalf("expected default")
	}
}
