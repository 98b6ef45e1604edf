package rig

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingDependency indicates a required body is absent from the
	// scene. Assembly aborts before creating any rig node.
	ErrMissingDependency = errors.New("rig: missing dependency")

	// ErrOptionalAbsence marks a body that may be absent. It is resolved
	// locally by skipping and never returned from Assemble.
	ErrOptionalAbsence = errors.New("rig: optional body absent")
)

type MissingDependencyError struct {
	Name string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("rig: missing %s object", e.Name)
}

func (e *MissingDependencyError) Unwrap() error {
	return ErrMissingDependency
}
