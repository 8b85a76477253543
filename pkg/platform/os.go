// SPDX-License-Identifier: MPL-2.0

package platform

import "runtime"

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// IsWindows reports whether the current process runs on Windows, where
// generated scripts cannot be executed and permission bits are not kept.
func IsWindows() bool { return runtime.GOOS == Windows }
