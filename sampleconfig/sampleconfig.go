// Copyright (c) 2017-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sampleconfig

import (
	_ "embed"
)

// sampleBcnodedConf is a string containing the commented example config for
// bcnoded.
//
//go:embed sample-bcnoded.conf
var sampleBcnodedConf string

// Dcrd returns a string containing the commented example config for bcnoded.
func Dcrd() string {
	return sampleBcnodedConf
}

// FileContents returns a string containing the commented example config for
// bcnoded.
//
// Deprecated: Use the [Dcrd] function instead.
func FileContents() string {
	return Dcrd()
}
