// SPDX-License-Identifier: MPL-2.0

// Package platform names the operating systems embedscript treats differently,
// such as where the user config directory lives and where POSIX file modes
// cannot be checked.
package platform
