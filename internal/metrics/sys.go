package metrics

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// SysHealth is a point-in-time view of the process and its local data.
type SysHealth struct {
	AllocMB      uint64
	SysMB        uint64
	NumGC        uint32
	Goroutines   int
	ActiveTimers int
	DataSize     string
	Uptime       time.Duration
	// CacheHitRate is the share of plan lookups served from memory, set by the caller.
	CacheHitRate float64
}

var startedAt = time.Now()

// GetSysHealth collects process stats and the size of the data directory.
func GetSysHealth(dataDir string, activeTimers int) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SysHealth{
		AllocMB:      m.Alloc / 1024 / 1024,
		SysMB:        m.Sys / 1024 / 1024,
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		ActiveTimers: activeTimers,
		DataSize:     humanize.IBytes(uint64(dirSize(dataDir))),
		Uptime:       time.Since(startedAt).Truncate(time.Second),
	}
}

// Report renders the health snapshot and recent usage for the admin chat.
func Report(h SysHealth, usage []DailyUsage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Uptime: %s\n", h.Uptime)
	fmt.Fprintf(&b, "Memory: %d MB alloc, %d MB sys, %d GCs\n", h.AllocMB, h.SysMB, h.NumGC)
	fmt.Fprintf(&b, "Goroutines: %d, active timers: %d\n", h.Goroutines, h.ActiveTimers)
	fmt.Fprintf(&b, "Data: %s\n", h.DataSize)
	fmt.Fprintf(&b, "Plan cache hit rate: %.0f%%\n", h.CacheHitRate*100)

	if len(usage) == 0 {
		b.WriteString("\nNo generations recorded.")
		return b.String()
	}
	b.WriteString("\nGenerations:")
	for _, u := range usage {
		fmt.Fprintf(&b, "\n%s: %d calls, %d failed, avg %d ms", u.Date, u.Executions, u.Failures, u.AvgLatencyMS)
	}
	return b.String()
}

func dirSize(path string) int64 {
	var size int64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			size += info.Size()
		}
		return nil
	})
	return size
}
