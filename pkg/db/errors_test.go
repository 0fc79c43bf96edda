package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	pg := errors.New(`ERROR: duplicate key value violates unique constraint "ux_users_email" (SQLSTATE 23505)`)
	lite := errors.New("UNIQUE constraint failed: users.email")

	if !IsUniqueViolation(pg, "") {
		t.Fatal("postgres duplicate key not detected")
	}
	if !IsUniqueViolation(lite, "") {
		t.Fatal("sqlite unique violation not detected")
	}
	if !IsUniqueViolation(pg, "ux_users_email") {
		t.Fatal("constraint name match failed")
	}
	if IsUniqueViolation(pg, "ux_users_document_number") {
		t.Fatal("unexpected constraint match")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error should not match")
	}
	if IsUniqueViolation(errors.New("connection refused"), "") {
		t.Fatal("unrelated error should not match")
	}
	if IsUniqueViolation(errors.New("ux_users_email column does not exist"), "ux_users_email") {
		t.Fatal("non-violation mentioning the constraint should not match")
	}
}

func TestIsUniqueViolationSQLiteNamedConstraint(t *testing.T) {
	cases := []struct {
		msg        string
		constraint string
		want       bool
	}{
		{"UNIQUE constraint failed: users.email", "ux_users_email", true},
		{"UNIQUE constraint failed: users.document_number", "ux_users_document_number", true},
		{"UNIQUE constraint failed: client_companies.client_id", "ux_client_companies_client_id", true},
		{"UNIQUE constraint failed: products.sku", "ux_products_sku", true},
		{"UNIQUE constraint failed: products.sku", "ux_users_email", false},
		{"UNIQUE constraint failed: users.email", "ux_users_document_number", false},
	}
	for _, tc := range cases {
		if got := IsUniqueViolation(errors.New(tc.msg), tc.constraint); got != tc.want {
			t.Fatalf("IsUniqueViolation(%q, %q) = %v, want %v", tc.msg, tc.constraint, got, tc.want)
		}
	}
}
