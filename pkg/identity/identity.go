// Package identity carries the acting user into the form layer as a value
// object. The host application owns authentication and permission
// computation; this package only transports the result of both.
package identity

// Ref is a weak reference to a user record. Request entities and comments
// hold refs rather than full identities so they never outlive the host's
// session state.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Identity describes the viewer or actor for a single form build or
// submission. Rights are precomputed by the host; the form layer never
// re-derives them.
type Identity struct {
	ID             int64
	Name           string
	Registered     bool
	EmailConfirmed bool
	Blocked        bool

	rights map[string]struct{}
}

// New constructs a registered identity holding the given rights.
func New(id int64, name string, rights ...string) Identity {
	ident := Identity{
		ID:         id,
		Name:       name,
		Registered: true,
	}
	return ident.WithRights(rights...)
}

// Anonymous returns an unregistered identity with no rights.
func Anonymous() Identity {
	return Identity{}
}

// WithRights returns a copy of the identity holding the additional rights.
func (i Identity) WithRights(rights ...string) Identity {
	merged := make(map[string]struct{}, len(i.rights)+len(rights))
	for right := range i.rights {
		merged[right] = struct{}{}
	}
	for _, right := range rights {
		if right == "" {
			continue
		}
		merged[right] = struct{}{}
	}
	i.rights = merged
	return i
}

// HasRight reports whether the identity holds the named right.
func (i Identity) HasRight(right string) bool {
	_, ok := i.rights[right]
	return ok
}

// Ref returns the weak reference form of the identity.
func (i Identity) Ref() Ref {
	return Ref{ID: i.ID, Name: i.Name}
}
