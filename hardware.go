// Copyright (c) 2025 The bcnoded developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// hardwareReport returns a human-readable report of the CPU features the
// running hardware makes available, the same families of SIMD extension
// blockchain/standalone's signature verification and merkle code can take
// advantage of. It backs the --hardware subcommand (spec.md §6).
func hardwareReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "GOARCH: %s\n", runtime.GOARCH)
	fmt.Fprintf(&b, "CPU cores: %d\n", runtime.NumCPU())

	switch runtime.GOARCH {
	case "amd64":
		fmt.Fprintf(&b, "SSE2: %t\n", true) // amd64 always has SSE2
		fmt.Fprintf(&b, "SSSE3: %t\n", cpu.X86.HasSSSE3)
		fmt.Fprintf(&b, "SSE4.1: %t\n", cpu.X86.HasSSE41)
		fmt.Fprintf(&b, "SSE4.2: %t\n", cpu.X86.HasSSE42)
		fmt.Fprintf(&b, "AVX: %t\n", cpu.X86.HasAVX)
		fmt.Fprintf(&b, "AVX2: %t\n", cpu.X86.HasAVX2)
		fmt.Fprintf(&b, "AVX512F: %t\n", cpu.X86.HasAVX512F)
		fmt.Fprintf(&b, "BMI2: %t\n", cpu.X86.HasBMI2)
		fmt.Fprintf(&b, "ADX: %t\n", cpu.X86.HasADX)
		fmt.Fprintf(&b, "AES: %t\n", cpu.X86.HasAES)
	case "arm64":
		fmt.Fprintf(&b, "NEON: %t\n", true) // arm64 always has NEON
		fmt.Fprintf(&b, "AES: %t\n", cpu.ARM64.HasAES)
		fmt.Fprintf(&b, "SHA2: %t\n", cpu.ARM64.HasSHA2)
		fmt.Fprintf(&b, "PMULL: %t\n", cpu.ARM64.HasPMULL)
	default:
		fmt.Fprintf(&b, "no known SIMD feature probes for %s\n", runtime.GOARCH)
	}

	return b.String()
}
