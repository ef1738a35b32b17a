package service

import "fmt"

// NotFoundError means an id or natural key did not resolve to a row.
type NotFoundError struct {
	Resource string
	Key      interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.Key)
}

// ConflictError means a create collided with a unique natural key.
type ConflictError struct {
	Resource string
	Field    string
	Value    interface{}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %v already exists", e.Resource, e.Field, e.Value)
}

// ReferentialError means a write referenced a Bin or Category that does not
// exist. It is raised before any mutation is applied.
type ReferentialError struct {
	Resource string
	ID       uint
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("referenced %s %d not found", e.Resource, e.ID)
}

// ReferencedError means a delete was rejected because other rows still
// reference the entity (reject-if-referenced policy).
type ReferencedError struct {
	Resource string
	ID       uint
	Count    int64
}

func (e *ReferencedError) Error() string {
	return fmt.Sprintf("%s %d is referenced by %d part(s)", e.Resource, e.ID, e.Count)
}

// UpstreamError fails a bulk operation before any row is processed, e.g. an
// upload that is not parseable as CSV at all.
type UpstreamError struct {
	Reason string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *UpstreamError) Unwrap() error { return e.Err }
