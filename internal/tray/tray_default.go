//go:build !systray

package tray

// New returns a no-op tray when the binary is built without systray
// support.
func New(title string, account func() string, quit func()) App {
	return Noop{}
}
