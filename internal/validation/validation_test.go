package validation

import (
	"strings"
	"testing"
)

func TestUsername(t *testing.T) {
	for _, name := range []string{"alice", "a.b-c_d", "Bob99", strings.Repeat("x", 50)} {
		if errField := Username(name); errField != nil {
			t.Fatalf("expected %q to be valid, got %v", name, errField)
		}
	}
	for _, name := range []string{"", "ab", strings.Repeat("x", 51), "bad name", "x@y"} {
		if errField := Username(name); errField == nil {
			t.Fatalf("expected %q to be rejected", name)
		} else if errField.Field != "username" {
			t.Fatalf("expected field=username, got %q", errField.Field)
		}
	}
}

func TestUUID(t *testing.T) {
	if errField := UUID("1f1e9a6a-3c6a-4a7a-9c3f-2b6a9d1e8f00"); errField != nil {
		t.Fatalf("expected valid uuid, got %v", errField)
	}
	for _, value := range []string{"", "not-a-uuid", "1F1E9A6A-3C6A-4A7A-9C3F-2B6A9D1E8F00", "1f1e9a6a3c6a4a7a9c3f2b6a9d1e8f00"} {
		if errField := UUID(value); errField == nil {
			t.Fatalf("expected %q to be rejected", value)
		}
	}
}

func TestSimultaneousConnections(t *testing.T) {
	for _, value := range []int{1, 5, 10} {
		if errField := SimultaneousConnections(value); errField != nil {
			t.Fatalf("expected %d to be valid, got %v", value, errField)
		}
	}
	for _, value := range []int{0, -1, 11} {
		errField := SimultaneousConnections(value)
		if errField == nil {
			t.Fatalf("expected %d to be rejected", value)
		}
		if errField.Field != "simultaneous_connections" {
			t.Fatalf("expected field=simultaneous_connections, got %q", errField.Field)
		}
	}
}

func TestNonNegativeLimits(t *testing.T) {
	if errField := TrafficLimit(-1); errField == nil {
		t.Fatalf("expected negative traffic limit to be rejected")
	}
	if errField := TrafficLimit(0); errField != nil {
		t.Fatalf("expected zero traffic limit to be valid, got %v", errField)
	}
	if errField := UsageDuration(-5); errField == nil {
		t.Fatalf("expected negative usage duration to be rejected")
	}
}

func TestDomainName(t *testing.T) {
	if errField := DomainName("example.com"); errField != nil {
		t.Fatalf("expected valid domain, got %v", errField)
	}
	if errField := DomainName(""); errField == nil {
		t.Fatalf("expected empty domain to be rejected")
	}
	if errField := DomainName(strings.Repeat("a", 256)); errField == nil {
		t.Fatalf("expected oversized domain to be rejected")
	}
}
