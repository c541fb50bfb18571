//go:build !windows

package executor

// DefaultBinary is the FreeRDP X11 client found on Unix-like hosts.
const DefaultBinary = "xfreerdp"
