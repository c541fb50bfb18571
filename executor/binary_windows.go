//go:build windows

package executor

// DefaultBinary is the FreeRDP client shipped for Windows hosts.
const DefaultBinary = "wfreerdp.exe"
