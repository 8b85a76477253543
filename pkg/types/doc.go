// SPDX-License-Identifier: MPL-2.0

// Package types defines small validated value types shared by the CLI and
// the generator packages: process exit codes and filesystem paths.
//
// This package is a leaf dependency: it imports only the standard library.
package types
