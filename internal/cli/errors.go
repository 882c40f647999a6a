// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Exit codes and error display for rsii.
//
// Commands ALWAYS return errors; Execute is the one place that prints them
// and picks the exit code.

package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/jeranaias/rsii/internal/cloud"
	"github.com/jeranaias/rsii/internal/config"
	"github.com/jeranaias/rsii/internal/staging"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitAuthError indicates the API key was rejected
	ExitAuthError = 4
	// ExitNetworkError indicates the model request failed
	ExitNetworkError = 5
	// ExitUnsupportedPlatform indicates no paste strategy exists for this OS
	ExitUnsupportedPlatform = 6
)

// UsageError represents invalid flags or arguments.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// ExitCodeFor maps an error returned by the root command to a process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	var loadErr *config.LoadError
	var dispatchErr *cloud.DispatchError

	switch {
	case errors.As(err, &usageErr):
		return ExitUsageError
	case errors.As(err, &loadErr), errors.Is(err, cloud.ErrNotConfigured):
		return ExitConfigError
	case errors.Is(err, cloud.ErrAuthFailed):
		return ExitAuthError
	case errors.As(err, &dispatchErr):
		return ExitNetworkError
	case errors.Is(err, staging.ErrUnsupportedPlatform):
		return ExitUnsupportedPlatform
	default:
		return ExitGeneralError
	}
}

// DisplayError writes "[ERROR] message" and, where one exists, a hint.
func DisplayError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), err.Error())
	if hint := hintFor(err); hint != "" {
		fmt.Fprintln(w, DimStyle.Render(hint))
	}
}

func hintFor(err error) string {
	var loadErr *config.LoadError
	switch {
	case errors.As(err, &loadErr) && errors.Is(err, config.ErrEmptyField) && loadErr.Field == "default.api-key":
		return "Set api-key in " + loadErr.Path + " or export " + config.EnvAPIKey + "."
	case errors.As(err, &loadErr) && isNotExist(err):
		return "Run `rsii --init` to create a default config."
	case errors.Is(err, cloud.ErrAuthFailed):
		return "Check the api-key in your config."
	case errors.Is(err, staging.ErrUnsupportedPlatform):
		return "Use --no-paste to copy without simulating a paste."
	}
	return ""
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
