// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField means a required key is absent from both file and environment.
	ErrMissingField = errors.New("required field missing")

	// ErrEmptyField means a required key is present but blank.
	ErrEmptyField = errors.New("required field empty")

	// ErrMalformed means the file is not valid TOML or has wrongly typed values.
	ErrMalformed = errors.New("malformed config")

	// ErrInvalidValue means an optional field holds an unusable value.
	ErrInvalidValue = errors.New("invalid value")
)

// LoadError is returned by Load for every failure. The pipeline stops before
// any network call when it sees one.
type LoadError struct {
	Path  string
	Field string // dotted key, empty when the whole file is at fault
	Err   error
}

func (e *LoadError) Error() string {
	switch {
	case e.Field != "" && e.Path != "":
		return fmt.Sprintf("config %s: %s: %v", e.Path, e.Field, e.Err)
	case e.Path != "":
		return fmt.Sprintf("config %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("config: %v", e.Err)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}
