// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands for embedscript.
//
// The root command generates a self-extracting shell script from an input
// file. The inspect subcommand reads such a script back without running it,
// and config manages the CUE configuration file.
package cmd
