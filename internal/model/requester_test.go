package model

import "testing"

func TestRequesterForUser(t *testing.T) {
	r := ForUser(42)

	id, ok := r.User()
	if !ok || id != 42 {
		t.Fatalf("expected user identity 42, got %d (ok=%v)", id, ok)
	}
	if _, _, _, ok := r.Contact(); ok {
		t.Fatalf("user requester must not expose contact details")
	}
}

func TestRequesterForPhone(t *testing.T) {
	r := ForPhone("+421910645309", "Jana", "Novakova")

	if _, ok := r.User(); ok {
		t.Fatalf("phone requester must not expose a user id")
	}
	phone, first, last, ok := r.Contact()
	if !ok {
		t.Fatalf("expected contact identity")
	}
	if phone != "+421910645309" || first != "Jana" || last != "Novakova" {
		t.Fatalf("unexpected contact: %q %q %q", phone, first, last)
	}
}
