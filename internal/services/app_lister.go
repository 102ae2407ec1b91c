package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"taskdeck/internal/config"
	"taskdeck/internal/infrastructure/logging"
	"taskdeck/internal/platform"
	"taskdeck/internal/types"
)

// excludedProcesses are shell and system surfaces that own visible windows
// but are not applications a user switches to. A process is excluded when
// its name contains one of these, case-sensitively.
var excludedProcesses = []string{
	"explorer",
	"TextInputHost",
	"SearchHost",
	"ShellExperienceHost",
	"StartMenuExperienceHost",
	"autoshutdownapp",
}

// WindowSource enumerates top-level windows
type WindowSource interface {
	EnumerateWindows() []platform.WindowRecord
}

// IconSource renders an executable's icon as a data URL
type IconSource interface {
	ExtractIcon(exePath string) (string, bool)
}

// AppLister builds the list of running applications shown in the switcher
type AppLister struct {
	windows       WindowSource
	processes     ProcessTable
	icons         IconSource
	extraExcluded []string
	skippedTitles map[string]struct{}
	coalesce      bool
	group         singleflight.Group
	logger        logging.Logger
}

// NewAppLister creates a new AppLister. cfg may add excluded process names
// and skipped titles on top of the built-in ones.
func NewAppLister(windows WindowSource, processes ProcessTable, icons IconSource, cfg config.AppsConfig, logger logging.Logger) *AppLister {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	skipped := make(map[string]struct{}, len(cfg.SkippedTitles))
	for _, title := range cfg.SkippedTitles {
		skipped[title] = struct{}{}
	}

	return &AppLister{
		windows:       windows,
		processes:     processes,
		icons:         icons,
		extraExcluded: append([]string(nil), cfg.ExcludedProcesses...),
		skippedTitles: skipped,
		coalesce:      cfg.CoalesceRequests,
		logger:        logger,
	}
}

// ListRunningApplications returns one entry per process owning a visible
// window, sorted by title. It never fails: processes that vanish mid-call
// are omitted and icons that cannot be produced are left empty.
//
// With request coalescing enabled, callers arriving while a listing is in
// flight share its result. Every caller receives its own copy.
func (l *AppLister) ListRunningApplications(ctx context.Context) []types.ApplicationEntry {
	if !l.coalesce {
		return l.list(ctx)
	}

	result, _, shared := l.group.Do("running-apps", func() (interface{}, error) {
		return l.list(ctx), nil
	})
	if shared {
		l.logger.Debug("Joined in-flight application listing")
	}
	return cloneEntries(result.([]types.ApplicationEntry))
}

func (l *AppLister) list(ctx context.Context) []types.ApplicationEntry {
	start := time.Now()

	records := l.windows.EnumerateWindows()
	unique := DeduplicateWindows(l.withoutSkippedTitles(records))

	snapshot, err := l.processes.Snapshot(ctx)
	if err != nil {
		logging.LogError(l.logger, err, "list_running_apps", map[string]interface{}{
			"windows": len(unique),
		})
		return []types.ApplicationEntry{}
	}

	entries := make([]types.ApplicationEntry, 0, len(unique))
	for _, record := range unique {
		proc, ok := snapshot.Lookup(ctx, record.PID)
		if !ok {
			continue
		}
		if IsExcludedProcess(proc.Name, l.extraExcluded...) {
			continue
		}

		entry := types.ApplicationEntry{
			PID:   record.PID,
			Name:  proc.Name,
			Title: record.Title,
		}
		if proc.ExePath != "" {
			if icon, ok := l.icons.ExtractIcon(proc.ExePath); ok {
				entry.Icon = &icon
			}
		}
		entries = append(entries, entry)
	}

	SortByTitle(entries)

	withIcon := 0
	for _, entry := range entries {
		if entry.HasIcon() {
			withIcon++
		}
	}
	logging.LogOperation(l.logger, "list_running_apps", time.Since(start), map[string]interface{}{
		"windows": len(records),
		"entries": len(entries),
		"icons":   withIcon,
	})

	return entries
}

// withoutSkippedTitles drops windows whose title is in the configured skip
// list. It runs before deduplication so a skipped title never stands in for
// its process.
func (l *AppLister) withoutSkippedTitles(records []platform.WindowRecord) []platform.WindowRecord {
	if len(l.skippedTitles) == 0 {
		return records
	}
	kept := make([]platform.WindowRecord, 0, len(records))
	for _, record := range records {
		if _, skip := l.skippedTitles[record.Title]; !skip {
			kept = append(kept, record)
		}
	}
	return kept
}

// DeduplicateWindows keeps one record per PID, at the position where that
// PID was first seen. The record with the strictly longer title wins; on a
// tie the earlier one is kept.
func DeduplicateWindows(records []platform.WindowRecord) []platform.WindowRecord {
	index := make(map[uint32]int, len(records))
	unique := make([]platform.WindowRecord, 0, len(records))

	for _, record := range records {
		i, seen := index[record.PID]
		if !seen {
			index[record.PID] = len(unique)
			unique = append(unique, record)
			continue
		}
		if len(record.Title) > len(unique[i].Title) {
			unique[i].Title = record.Title
		}
	}

	return unique
}

// IsExcludedProcess reports whether name belongs to a shell or system
// surface. extra names are matched the same way as the built-in ones.
func IsExcludedProcess(name string, extra ...string) bool {
	for _, excluded := range excludedProcesses {
		if strings.Contains(name, excluded) {
			return true
		}
	}
	for _, excluded := range extra {
		if excluded != "" && strings.Contains(name, excluded) {
			return true
		}
	}
	return false
}

// SortByTitle orders entries by title, ignoring case. Equal titles keep
// their relative order.
func SortByTitle(entries []types.ApplicationEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Title) < strings.ToLower(entries[j].Title)
	})
}

func cloneEntries(entries []types.ApplicationEntry) []types.ApplicationEntry {
	out := make([]types.ApplicationEntry, len(entries))
	for i, entry := range entries {
		out[i] = entry
		if entry.Icon != nil {
			icon := *entry.Icon
			out[i].Icon = &icon
		}
	}
	return out
}
