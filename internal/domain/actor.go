package domain

// Actor is the already-authenticated caller identity attached to every
// request. Authentication happens upstream; this service only authorizes.
type Actor struct {
	Email string
	Admin bool
}

// CanActFor reports whether the actor may perform operations reserved for the
// given identity. Administrators may act for anyone.
func (a Actor) CanActFor(email string) bool {
	return a.Admin || a.Email == email
}
