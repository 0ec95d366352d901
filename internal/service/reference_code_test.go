package service

import (
	"regexp"
	"strings"
	"testing"
)

var referenceCodePattern = regexp.MustCompile(`^YLC-[A-HJ-NP-Z]{2}[1-9]{3}[A-HJ-NP-Z]$`)

func TestReferenceCodeFormat(t *testing.T) {
	gen := NewReferenceCodeGenerator(testLogger())

	for i := 0; i < 10000; i++ {
		code := gen.Generate(uint(i))
		if !referenceCodePattern.MatchString(code) {
			t.Fatalf("code %q does not match %s", code, referenceCodePattern)
		}
		if strings.ContainsAny(code[len(ReferenceCodePrefix):], "IO0") {
			t.Fatalf("code %q contains an ambiguous character", code)
		}
	}
}

func TestReferenceCodeVaries(t *testing.T) {
	gen := NewReferenceCodeGenerator(testLogger())

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		seen[gen.Generate(1)] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expected distinct codes across calls, got %v", seen)
	}
}
