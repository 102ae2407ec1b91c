//go:build !windows

package services

import (
	"context"

	"github.com/shirou/gopsutil/v4/process"
)

func processNames(ctx context.Context) (map[int32]string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[int32]string, len(procs))
	for _, proc := range procs {
		name, err := proc.NameWithContext(ctx)
		if err != nil {
			continue // exited since the pid listing
		}
		names[proc.Pid] = name
	}
	return names, nil
}
