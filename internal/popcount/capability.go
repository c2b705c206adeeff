package popcount

import (
	"os"
	"runtime"
	"strings"
)

// Kernel identifies a population count implementation.
type Kernel uint8

const (
	// SWAR is the portable bit-parallel reduction.
	SWAR Kernel = iota
	// Hardware uses the CPU population count instruction.
	Hardware
)

// EnvOverride is the environment variable that forces a kernel.
const EnvOverride = "STDKIT_POPCOUNT"

// String returns the string representation of a Kernel.
func (k Kernel) String() string {
	switch k {
	case SWAR:
		return "swar"
	case Hardware:
		return "hardware"
	default:
		return "unknown"
	}
}

// ParseKernel parses a string into a Kernel value.
func ParseKernel(s string) (Kernel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "swar", "generic":
		return SWAR, true
	case "hardware", "hw", "popcnt":
		return Hardware, true
	default:
		return SWAR, false
	}
}

// Package-level state - initialized once at package init.
var (
	activeKernel Kernel
	hasOverride  bool

	// hasPOPCNT is set by platform-specific init.
	hasPOPCNT bool
)

// initCapabilities is called from platform-specific init functions
// after CPU features are detected.
func initCapabilities() {
	if override := os.Getenv(EnvOverride); override != "" {
		if k, ok := ParseKernel(override); ok {
			hasOverride = true
			if isAvailable(k) {
				selectKernel(k)
				return
			}
		}
	}

	selectKernel(selectBest())
}

func isAvailable(k Kernel) bool {
	switch k {
	case SWAR:
		return true
	case Hardware:
		return hasPOPCNT
	default:
		return false
	}
}

func selectBest() Kernel {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		if hasPOPCNT {
			return Hardware
		}
	}
	return SWAR
}

func selectKernel(k Kernel) {
	activeKernel = k
	switch k {
	case Hardware:
		kernelCount64 = hardware64
	default:
		kernelCount64 = SWAR64
	}
}

// Active returns the selected kernel.
func Active() Kernel {
	return activeKernel
}

// IsOverridden returns true if STDKIT_POPCOUNT was set to a known kernel.
func IsOverridden() bool {
	return hasOverride
}

// HasHardware returns true if the CPU has a population count instruction.
func HasHardware() bool {
	return hasPOPCNT
}
