// rsii - natural language to a shell command on your clipboard.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"os"

	"github.com/jeranaias/rsii/internal/cli"
	"github.com/jeranaias/rsii/internal/version"
)

func main() {
	os.Exit(cli.Execute(cli.App{
		Version: version.Resolve().String(),
	}))
}
