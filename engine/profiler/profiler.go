package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-castle/common"
)

// Report is one interval's worth of frame and memory statistics.
type Report struct {
	FPS float64
	// Skipped counts frames that had no surface image to draw into.
	Skipped int
	// DrawsPerFrame and the Writes figures are averages over the presented frames.
	DrawsPerFrame           float64
	ObjectWritesPerFrame    float64
	MaterialWritesPerFrame  float64
	Stalls                  uint64
	HeapMB, SysMB           float64
	AllocRateMB             float64
	GCCount                 uint32
	LastPauseUs, MaxPauseUs uint64
}

// Sample is what the render loop knows about one frame.
type Sample struct {
	Draws     int
	Objects   int
	Materials int
	Skipped   bool
	// Stalls is the running total of ring acquires that had to wait.
	Stalls uint64
}

// Profiler tracks frame rate, draw counts, ring stalls and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	skipped        int
	draws          int
	objects        int
	materials      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	lastStalls     uint64
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// SetInterval changes how often Tick reports. Non-positive values are ignored.
func (p *Profiler) SetInterval(d time.Duration) {
	if d > 0 {
		p.updateInterval = d
	}
}

// Tick should be called once per frame with that frame's sample.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, draws and constant writes per frame, ring stalls, heap usage, allocation rate
// and GC count/pause times.
//
// Parameters:
//   - s: the frame just rendered
//
// Returns:
//   - Report: the statistics of the closed interval, zero when nothing was reported
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(s Sample) (Report, bool) {
	p.frameCount++
	if s.Skipped {
		p.skipped++
	} else {
		p.draws += s.Draws
		p.objects += s.Objects
		p.materials += s.Materials
	}

	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return Report{}, false
	}

	rep := Report{
		FPS:     float64(p.frameCount) / elapsed.Seconds(),
		Skipped: p.skipped,
		Stalls:  s.Stalls - p.lastStalls,
	}
	if presented := p.frameCount - p.skipped; presented > 0 {
		rep.DrawsPerFrame = float64(p.draws) / float64(presented)
		rep.ObjectWritesPerFrame = float64(p.objects) / float64(presented)
		rep.MaterialWritesPerFrame = float64(p.materials) / float64(presented)
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc: Bytes of allocated heap objects (live memory)
	// Sys: Total bytes of memory obtained from the OS (actual process footprint)
	rep.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	rep.SysMB = float64(p.memStats.Sys) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	rep.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	rep.GCCount = p.memStats.NumGC
	if rep.GCCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		rep.LastPauseUs = p.memStats.PauseNs[(rep.GCCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if rep.GCCount-startIdx > 256 {
			startIdx = rep.GCCount - 256
		}
		for i := startIdx; i < rep.GCCount; i++ {
			rep.MaxPauseUs = max(rep.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	common.LogInfo("[Profiler] FPS: %.2f | Draws: %.1f | Writes: %.1f obj %.1f mat | Skipped: %d | Stalls: %d | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		rep.FPS, rep.DrawsPerFrame, rep.ObjectWritesPerFrame, rep.MaterialWritesPerFrame, rep.Skipped, rep.Stalls,
		rep.HeapMB, rep.AllocRateMB, rep.GCCount, rep.LastPauseUs, rep.MaxPauseUs, rep.SysMB)

	p.frameCount = 0
	p.skipped = 0
	p.draws = 0
	p.objects = 0
	p.materials = 0
	p.lastTime = currentTime
	p.lastGCCount = rep.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.lastStalls = s.Stalls
	return rep, true
}
