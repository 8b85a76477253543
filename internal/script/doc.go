// SPDX-License-Identifier: MPL-2.0

// Package script assembles self-extracting shell scripts.
//
// A generated script is a POSIX sh program made of three parts: a fixed
// preamble, an encoded payload (see package payload) carried in a quoted
// here-document, and a fixed postamble that decodes the payload back into the
// output file. Running the script recreates the embedded file byte for byte.
//
// Resolve applies path defaults and validation to a Request, Generator turns
// the resulting Plan into a script on disk, and Inspect reads the payload back
// out of a generated script without running it.
//
// Concurrent invocations that target the same script path are not
// coordinated: the last one to finish wins.
package script
