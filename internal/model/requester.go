package model

// Requester identifies who a reservation is for.  Exactly one of the
// two forms is ever populated: a registered user reference, or a
// phone/name contact for guests without an account.  The fields are
// unexported so that the only way to build a Requester is through one
// of the two constructors, which rules out the mixed case entirely.
type Requester struct {
	userID    uint64
	phone     string
	firstName string
	lastName  string
}

// ForUser returns a Requester referencing a registered user.
func ForUser(userID uint64) Requester {
	return Requester{userID: userID}
}

// ForPhone returns a Requester identified by phone and name.  The
// first name may be empty; phone and last name must not be.
func ForPhone(phone, firstName, lastName string) Requester {
	return Requester{phone: phone, firstName: firstName, lastName: lastName}
}

// User returns the registered user reference.  ok is false for
// phone-identified requesters.
func (r Requester) User() (userID uint64, ok bool) {
	return r.userID, r.userID != 0
}

// Contact returns the phone/name contact.  ok is false for
// user-identified requesters.
func (r Requester) Contact() (phone, firstName, lastName string, ok bool) {
	return r.phone, r.firstName, r.lastName, r.phone != ""
}
