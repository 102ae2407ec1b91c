//go:build !windows

package platform

// PowerCommand reports false for every action; power control is only wired
// up on Windows.
func PowerCommand(action PowerAction) (Command, bool) {
	return Command{}, false
}
