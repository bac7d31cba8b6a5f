//go:build !darwin

package platform

// RaiseForAlert is a no-op on non-macOS platforms, the window manager
// decides whether RequestFocus raises the window
func RaiseForAlert() {}
