package services

import (
	"context"
	"sync"
	"sync/atomic"

	"taskdeck/internal/platform"
)

type fakeWindows struct {
	records []platform.WindowRecord
	calls   atomic.Int32
	// entered and release let a test hold an enumeration in flight
	entered chan struct{}
	release chan struct{}
}

func (f *fakeWindows) EnumerateWindows() []platform.WindowRecord {
	f.calls.Add(1)
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return append([]platform.WindowRecord(nil), f.records...)
}

type fakeSnapshot map[uint32]ProcessDescriptor

func (s fakeSnapshot) Lookup(_ context.Context, pid uint32) (ProcessDescriptor, bool) {
	desc, ok := s[pid]
	return desc, ok
}

type fakeProcessTable struct {
	snapshot    fakeSnapshot
	snapshotErr error
	killErr     error

	mu     sync.Mutex
	killed []uint32
}

func (f *fakeProcessTable) Snapshot(context.Context) (ProcessSnapshot, error) {
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	return f.snapshot, nil
}

func (f *fakeProcessTable) Kill(_ context.Context, pid uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.killed = append(f.killed, pid)
	return f.killErr
}

type fakeIcons struct {
	icons map[string]string

	mu    sync.Mutex
	paths []string
}

func (f *fakeIcons) ExtractIcon(exePath string) (string, bool) {
	f.mu.Lock()
	f.paths = append(f.paths, exePath)
	f.mu.Unlock()

	icon, ok := f.icons[exePath]
	return icon, ok
}

func (f *fakeIcons) requested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}
