// SPDX-License-Identifier: MPL-2.0

// Package payload implements the text-safe encoding used to embed a file in a
// generated script.
//
// The format is the one produced by POSIX `uuencode -m`:
//
//	begin-base64 644 photo.bin
//	AP9BCg==
//	====
//
// The header records the file mode and the name the payload decodes to. Body
// lines are standard base64 (RFC 4648) of at most DefaultLineLength characters
// and the trailer is a line of four '=' characters. Every line of an encoded
// payload is printable ASCII, which lets the generated script carry it inside
// a quoted here-document without any escaping.
package payload
