// Package policy decides whether a caller may act on a resource.
// Ownership is binary: the creating user owns the resource, nobody else
// gets write access. The decision is a pure function of identifiers so it
// can be unit-tested without any storage.
package policy

import "github.com/google/uuid"

type Operation int

const (
	OpRead Operation = iota
	OpCreate
	OpUpdate
	OpDelete
)

func (op Operation) String() string {
	switch op {
	case OpRead:
		return "read"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// Owned is implemented by every resource that carries an owner.
type Owned interface {
	OwnedBy() uuid.UUID
}

// Allowed reports whether userID may perform op on resource.
// Reads and creates are open to any authenticated caller; writes and
// deletes require ownership.
func Allowed(userID uuid.UUID, resource Owned, op Operation) bool {
	switch op {
	case OpRead, OpCreate:
		return true
	case OpUpdate, OpDelete:
		return resource.OwnedBy() == userID
	}
	return false
}
