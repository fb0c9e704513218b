package main

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateTenant is returned when a directory record already exists
	// for an owner. At the pre-flight check it is a skip signal, not a
	// failure.
	ErrDuplicateTenant = errors.New("tenant record already exists")
)

// ProvisionError reports a failed step of the provisioning saga.
type ProvisionError struct {
	Step   string // credentials, check-database, create-database, check-role, create-role, grant
	DBName string
	Err    error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("provision %s failed at %s: %v", e.DBName, e.Step, e.Err)
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}

// SchemaError reports a failed structural application on a tenant store.
type SchemaError struct {
	DBName string
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema apply on %s failed: %v", e.DBName, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// EntityCopyError reports a failed row copy or lookup during one collection.
// SourceID is zero when the failure happened before any row was read.
type EntityCopyError struct {
	Kind     CollectionKind
	SourceID uint
	Err      error
}

func (e *EntityCopyError) Error() string {
	if e.SourceID == 0 {
		return fmt.Sprintf("copy %s failed: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("copy %s failed at source row %d: %v", e.Kind, e.SourceID, e.Err)
}

func (e *EntityCopyError) Unwrap() error {
	return e.Err
}

// ConnectivityError reports an unreachable store.
type ConnectivityError struct {
	Target string
	Err    error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("store %s unreachable: %v", e.Target, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}
