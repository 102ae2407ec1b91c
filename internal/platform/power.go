package platform

// PowerAction is a machine power state transition
type PowerAction string

const (
	PowerShutdown PowerAction = "shutdown"
	PowerRestart  PowerAction = "restart"
	PowerSleep    PowerAction = "sleep"
)

// Command is an external program invocation
type Command struct {
	Name string
	Args []string
}
