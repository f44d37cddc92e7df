// Package profiler tracks frame rate and memory statistics for long-running
// sessions, where slow heap growth across scene transitions is the symptom
// worth watching.
package profiler

import (
	"fmt"
	"runtime"
	"time"

	"github.com/duskhall/dusk-go/engine/logger"
)

// Profiler samples FPS and heap statistics and reports them at a fixed
// interval through the engine logger.
type Profiler struct {
	log logger.Logger

	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a Profiler reporting through the given logger.
// The update interval defaults to 1 second.
//
// Parameters:
//   - log: the logger to report through (nil falls back to a no-op logger)
//
// Returns:
//   - *Profiler: the newly created profiler
func NewProfiler(log logger.Logger) *Profiler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Profiler{
		log:            log,
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// SetInterval changes the reporting interval. Non-positive values are
// ignored.
//
// Parameters:
//   - interval: the new reporting interval
func (p *Profiler) SetInterval(interval time.Duration) {
	if interval > 0 {
		p.updateInterval = interval
	}
}

// Tick is called once per frame. When the reporting interval has elapsed it
// logs FPS, heap usage, allocation rate, and GC pause stats.
//
// Returns:
//   - bool: true if stats were logged this tick
func (p *Profiler) Tick() bool {
	p.frameCount++
	now := time.Now()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	heapMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := p.memStats.NumGC
	var maxPauseUs uint64
	if gcCount > 0 {
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	p.log.Info("frame stats",
		logger.WithField("fps", fmt.Sprintf("%.1f", fps)),
		logger.WithField("heapMB", fmt.Sprintf("%.2f", heapMB)),
		logger.WithField("allocMBs", fmt.Sprintf("%.2f", allocRateMB)),
		logger.WithField("gc", gcCount),
		logger.WithField("gcMaxPauseUs", maxPauseUs),
		logger.WithField("sysMB", fmt.Sprintf("%.2f", sysMB)))

	p.frameCount = 0
	p.lastTime = now
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
