//go:build windows

package platform

// PowerCommand returns the OS command performing action immediately
func PowerCommand(action PowerAction) (Command, bool) {
	switch action {
	case PowerShutdown:
		return Command{Name: "shutdown", Args: []string{"/s", "/t", "0"}}, true
	case PowerRestart:
		return Command{Name: "shutdown", Args: []string{"/r", "/t", "0"}}, true
	case PowerSleep:
		// SetSuspendState(hibernate=0, force=1, disableWakeEvents=0)
		return Command{Name: "rundll32.exe", Args: []string{"powrprof.dll,SetSuspendState", "0,1,0"}}, true
	default:
		return Command{}, false
	}
}
