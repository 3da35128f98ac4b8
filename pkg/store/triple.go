package store

import "fmt"

// Triple is a Subject-Predicate-Object statement about extracted
// definitions, for example:
//
//	<.../definition/3> ryaku:abbreviation "法"
type Triple struct {
	Subject   string
	Predicate string
	Object    string
}

// NewTriple creates a new triple with the given components.
func NewTriple(subject, predicate, object string) Triple {
	return Triple{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	}
}

// String returns a human-readable representation of the triple.
func (t Triple) String() string {
	return fmt.Sprintf("<%s> <%s> <%s>", t.Subject, t.Predicate, t.Object)
}

// IsValid returns true if all components are non-empty.
func (t Triple) IsValid() bool {
	return t.Subject != "" && t.Predicate != "" && t.Object != ""
}
