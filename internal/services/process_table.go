package services

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/shirou/gopsutil/v4/process"

	"taskdeck/internal/infrastructure/errors"
	"taskdeck/internal/infrastructure/logging"
)

// ProcessDescriptor is what the process table knows about one process
type ProcessDescriptor struct {
	PID     uint32
	Name    string // executable file name
	ExePath string // empty when it cannot be read, e.g. access denied
}

// ProcessSnapshot is a point-in-time view of the OS process table
type ProcessSnapshot interface {
	// Lookup resolves pid against the snapshot. ok is false when the
	// process was not running when the snapshot was taken, or has exited
	// since and can no longer be described.
	Lookup(ctx context.Context, pid uint32) (ProcessDescriptor, bool)
}

// ProcessTable gives access to the OS process table
type ProcessTable interface {
	Snapshot(ctx context.Context) (ProcessSnapshot, error)
	Kill(ctx context.Context, pid uint32) error
}

// SystemProcessTable implements ProcessTable on the live OS process table.
// Names come from one pass over the table when the snapshot is taken;
// executable paths are resolved per pid through gopsutil on Lookup.
type SystemProcessTable struct {
	names   func(ctx context.Context) (map[int32]string, error)
	exePath func(ctx context.Context, pid int32) (string, error)
	logger  logging.Logger
}

// NewSystemProcessTable creates a process table reading the live OS state
func NewSystemProcessTable(logger logging.Logger) *SystemProcessTable {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &SystemProcessTable{
		names:   processNames,
		exePath: executablePath,
		logger:  logger,
	}
}

// Snapshot captures the name of every running process
func (t *SystemProcessTable) Snapshot(ctx context.Context) (ProcessSnapshot, error) {
	names, err := t.names(ctx)
	if err != nil {
		return nil, errors.WrapPlatformError("ProcessSnapshot", err)
	}

	return &systemSnapshot{
		names:   names,
		exePath: t.exePath,
		logger:  t.logger,
	}, nil
}

// Kill sends a termination signal to pid without waiting for it to exit
func (t *SystemProcessTable) Kill(ctx context.Context, pid uint32) error {
	id, err := toProcessID(pid)
	if err != nil {
		return err
	}

	exists, err := process.PidExistsWithContext(ctx, id)
	if err != nil {
		return errors.WrapPlatformErrorWithContext("KillProcess", err, map[string]string{"pid": strconv.FormatUint(uint64(pid), 10)})
	}
	if !exists {
		return errors.HandleNotFound("KillProcess", "process", strconv.FormatUint(uint64(pid), 10))
	}

	proc, err := process.NewProcessWithContext(ctx, id)
	if err != nil {
		return errors.WrapPlatformErrorWithContext("KillProcess", err, map[string]string{"pid": strconv.FormatUint(uint64(pid), 10)})
	}

	if err := proc.KillWithContext(ctx); err != nil {
		return errors.WrapPlatformErrorWithContext("KillProcess", err, map[string]string{"pid": strconv.FormatUint(uint64(pid), 10)})
	}
	return nil
}

func toProcessID(pid uint32) (int32, error) {
	if pid > math.MaxInt32 {
		return 0, errors.HandleValidationError("KillProcess", "pid", strconv.FormatUint(uint64(pid), 10), fmt.Sprintf("exceeds %d", math.MaxInt32))
	}
	return int32(pid), nil
}

type systemSnapshot struct {
	names   map[int32]string
	exePath func(ctx context.Context, pid int32) (string, error)
	logger  logging.Logger
}

func (s *systemSnapshot) Lookup(ctx context.Context, pid uint32) (ProcessDescriptor, bool) {
	if pid > math.MaxInt32 {
		return ProcessDescriptor{}, false
	}
	id := int32(pid)
	name, ok := s.names[id]
	if !ok || name == "" {
		return ProcessDescriptor{}, false
	}

	exePath, err := s.exePath(ctx, id)
	if err != nil {
		s.logger.Debug("Executable path unavailable", "pid", pid, "name", name, "error_code", errors.ClassifyError(err).String())
		exePath = ""
	}

	return ProcessDescriptor{PID: pid, Name: name, ExePath: exePath}, true
}

func executablePath(ctx context.Context, pid int32) (string, error) {
	proc, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return "", err
	}
	return proc.ExeWithContext(ctx)
}
