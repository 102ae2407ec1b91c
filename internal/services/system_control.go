package services

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"taskdeck/internal/infrastructure/errors"
	"taskdeck/internal/infrastructure/logging"
	"taskdeck/internal/platform"
)

// ProcessKiller terminates processes by id
type ProcessKiller interface {
	Kill(ctx context.Context, pid uint32) error
}

// CommandStarter launches an external command without waiting for it
type CommandStarter func(cmd platform.Command) error

// PowerCommandResolver maps a power action to the OS command performing it
type PowerCommandResolver func(action platform.PowerAction) (platform.Command, bool)

// SystemControl performs the fire-and-forget process and power operations
type SystemControl struct {
	killer  ProcessKiller
	resolve PowerCommandResolver
	start   CommandStarter
	logger  logging.Logger
}

// NewSystemControl creates a SystemControl that runs the real OS commands
func NewSystemControl(killer ProcessKiller, logger logging.Logger) *SystemControl {
	return NewSystemControlWithCommands(killer, platform.PowerCommand, StartDetached, logger)
}

// NewSystemControlWithCommands creates a SystemControl with injected command
// resolution and execution.
func NewSystemControlWithCommands(killer ProcessKiller, resolve PowerCommandResolver, start CommandStarter, logger logging.Logger) *SystemControl {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &SystemControl{
		killer:  killer,
		resolve: resolve,
		start:   start,
		logger:  logger,
	}
}

// KillProcess reports whether pid existed and a termination signal was
// delivered. It does not wait for the process to exit.
func (s *SystemControl) KillProcess(ctx context.Context, pid uint32) bool {
	if err := s.killer.Kill(ctx, pid); err != nil {
		if errors.IsNotFound(err) {
			s.logger.Debug("Kill requested for unknown process", "pid", pid)
		} else {
			logging.LogError(s.logger, err, "kill_process", map[string]interface{}{"pid": pid})
		}
		return false
	}

	s.logger.Info("Termination signal sent", "pid", pid)
	return true
}

// Shutdown powers the machine off immediately
func (s *SystemControl) Shutdown() { s.power(platform.PowerShutdown) }

// Restart reboots the machine immediately
func (s *SystemControl) Restart() { s.power(platform.PowerRestart) }

// Sleep suspends the machine
func (s *SystemControl) Sleep() { s.power(platform.PowerSleep) }

// power failures are logged and otherwise discarded
func (s *SystemControl) power(action platform.PowerAction) {
	cmd, ok := s.resolve(action)
	if !ok {
		err := errors.NewPlatformError("power", fmt.Errorf("no %s command on this platform", action), errors.ErrCodeUnsupported).
			WithContext("action", string(action))
		logging.LogError(s.logger, err, "power_command", nil)
		return
	}

	if err := s.start(cmd); err != nil {
		logging.LogError(s.logger, errors.WrapPlatformErrorWithContext("power", err, map[string]string{
			"action":  string(action),
			"command": cmd.Name + " " + strings.Join(cmd.Args, " "),
		}), "power_command", nil)
		return
	}

	s.logger.Info("Power command started", "action", string(action), "command", cmd.Name)
}

// StartDetached starts cmd and reaps it in the background
func StartDetached(cmd platform.Command) error {
	c := exec.Command(cmd.Name, cmd.Args...)
	if err := c.Start(); err != nil {
		return err
	}
	go func() { _ = c.Wait() }()
	return nil
}
