/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package tenantstore

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build metadata, overridable with
// -ldflags "-X github.com/suparena/tenantstore.GitCommit=...".
var (
	Version   = "0.3.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// VersionInfo describes the running build.
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
}

// GetVersionInfo returns the build metadata. When GitCommit was not set at
// link time the VCS revision recorded by the toolchain is used, if any.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
	if info.GitCommit == "unknown" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" && s.Value != "" {
					info.GitCommit = s.Value
				}
			}
		}
	}
	return info
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("tenantstore version %s\nGit commit: %s\nBuild date: %s\nGo version: %s\n",
		v.Version, v.GitCommit, v.BuildDate, v.GoVersion)
}
