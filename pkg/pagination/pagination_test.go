package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-4); got != DefaultLimit {
		t.Fatalf("expected default limit for negatives, got %d", got)
	}
	if got := NormalizeLimit(1000); got != MaxLimit {
		t.Fatalf("expected max limit cap, got %d", got)
	}
	if got := NormalizeLimit(25); got != 25 {
		t.Fatalf("expected passthrough, got %d", got)
	}
}

func TestNormalizeOffset(t *testing.T) {
	if got := NormalizeOffset(-1); got != 0 {
		t.Fatalf("expected clamp to zero, got %d", got)
	}
	if got := NormalizeOffset(40); got != 40 {
		t.Fatalf("expected passthrough, got %d", got)
	}
}

func TestNormalizeSort(t *testing.T) {
	allowed := []string{"created_at", "email"}

	field, order := NormalizeSort("email", "desc", "created_at", allowed)
	if field != "email" || order != "desc" {
		t.Fatalf("unexpected sort %s %s", field, order)
	}

	field, order = NormalizeSort("password_hash", "DESC", "created_at", allowed)
	if field != "created_at" {
		t.Fatalf("disallowed field should fall back, got %s", field)
	}
	if order != "desc" {
		t.Fatalf("order should be case-insensitive, got %s", order)
	}

	_, order = NormalizeSort("email", "sideways", "created_at", allowed)
	if order != "asc" {
		t.Fatalf("unknown order should collapse to asc, got %s", order)
	}
}
