package domain

// User is the single entity type managed by this service. Email doubles as
// the storage key at creation time; lookups accept whatever id string the
// caller supplies.
type User struct {
	Name  string
	Email string
}
