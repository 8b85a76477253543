// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes user-supplied CUE files against an embedded schema.
//
// The flow is always the same three steps:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with a schema definition
//  3. Validate and decode into a Go value
//
// # Usage
//
//	//go:embed config_schema.cue
//	var configSchema string
//
//	values, err := cueutil.Decode[map[string]any](
//	    configSchema,
//	    userFileBytes,
//	    "#Config",
//	    cueutil.WithFilename("config.cue"),
//	)
//	if err != nil {
//	    return err // includes the CUE path of the offending field
//	}
package cueutil
