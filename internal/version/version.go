// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package version resolves the rsii version string once at startup.
//
// The release number is an embedded constant. When the binary was built from
// a VCS checkout, the short revision is appended so bug reports can be traced
// back to a commit. The resolved value is handed to the CLI explicitly.
package version

import (
	"runtime/debug"
)

// Release is the current rsii release.
const Release = "0.4.0"

// Info describes the running binary.
type Info struct {
	Release  string
	Revision string
	Modified bool
}

// String formats the version for --version output.
func (i Info) String() string {
	if i.Revision == "" {
		return i.Release
	}
	s := i.Release + " (" + i.Revision
	if i.Modified {
		s += "-dirty"
	}
	return s + ")"
}

// Resolve returns the version of the running binary.
func Resolve() Info {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Info{Release: Release}
	}
	return fromBuildSettings(info.Settings)
}

func fromBuildSettings(settings []debug.BuildSetting) Info {
	v := Info{Release: Release}
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if len(s.Value) > 12 {
				v.Revision = s.Value[:12]
			} else {
				v.Revision = s.Value
			}
		case "vcs.modified":
			v.Modified = s.Value == "true"
		}
	}
	return v
}
