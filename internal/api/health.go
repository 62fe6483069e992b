package api

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

type processStats struct {
	RSSBytes   uint64  `json:"rssBytes"`
	CPUPercent float64 `json:"cpuPercent"`
	Goroutines int     `json:"goroutines"`
}

type healthResponse struct {
	Status        string       `json:"status"`
	Timestamp     string       `json:"timestamp"`
	UptimeSeconds int64        `json:"uptimeSeconds"`
	Sessions      int          `json:"sessions"`
	Process       processStats `json:"process"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := processStats{Goroutines: runtime.NumGoroutine()}

	// Best effort; the probe stays green even if process introspection is
	// unavailable on this platform.
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
			stats.RSSBytes = mem.RSS
		}
		if cpu, err := proc.CPUPercent(); err == nil {
			stats.CPUPercent = cpu
		}
	}

	JSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		Sessions:      s.store.Len(),
		Process:       stats,
	})
}
