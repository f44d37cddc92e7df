package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/duskhall/dusk-go/engine/logger"
	"github.com/duskhall/dusk-go/engine/profiler"
	"github.com/duskhall/dusk-go/engine/window"
)

// Engine drives the runtime with a serialized frame tick: a new tick only
// runs after the previous tick's work has fully settled, so the lifecycle
// state machine and quality controller are never entered concurrently.
type Engine interface {
	// Runtime returns the engine's collaborator aggregate.
	//
	// Returns:
	//   - *Runtime: the runtime
	Runtime() *Runtime

	// Window returns the platform window, or nil in headless mode.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// SetTickCallback registers the function called at the start of each
	// tick, before the lifecycle and quality updates. Use it for game
	// logic: trigger checks, input, camera.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(dt float64))

	// SetTickRate sets the tick rate in ticks per second. Takes effect
	// immediately when the engine is running.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// EnableProfiler enables periodic FPS and heap reporting.
	EnableProfiler()

	// DisableProfiler disables profiler reporting.
	DisableProfiler()

	// Run starts the tick loop and blocks: on the window message loop in
	// windowed mode, or until Quit in headless mode.
	Run()

	// Quit signals the tick loop to stop. Safe to call multiple times.
	Quit()
}

type engine struct {
	rt     *Runtime
	window window.Window

	tickRate        time.Duration
	tickRateChannel chan time.Duration
	tickCallback    func(dt float64)

	quitChannel chan struct{}
	quitOnce    sync.Once
	wg          sync.WaitGroup

	profiler         *profiler.Profiler
	profilingEnabled bool
}

var _ Engine = &engine{}

// NewEngine creates an Engine around the given runtime with the provided
// options applied.
//
// Parameters:
//   - rt: the runtime to drive (must not be nil)
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(rt *Runtime, options ...EngineBuilderOption) Engine {
	if rt == nil {
		panic("engine: NewEngine requires a non-nil Runtime")
	}

	e := &engine{
		rt:              rt,
		tickRate:        time.Second / 60,
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		profiler:        profiler.NewProfiler(rt.Log),
	}

	for _, option := range options {
		option(e)
	}

	return e
}

func (e *engine) Runtime() *Runtime {
	return e.rt
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() {
	e.wg.Add(1)
	go e.handleTicks()

	if e.window != nil {
		// The message loop owns the calling goroutine until the window
		// closes; the tick loop keeps running alongside it.
		e.window.ProcessMessages()
		e.signalQuit()
	}
	e.wg.Wait()
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel exactly once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handleTicks runs the serialized tick loop. Tick work executes inline on
// this goroutine, so a new tick can only start after the previous one has
// fully settled. A panicking tick is recovered, logged, and shuts the
// engine down instead of crashing the process.
func (e *engine) handleTicks() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.rt.Log.Error("tick loop recovered from panic",
				logger.WithField("panic", fmt.Sprintf("%v", r)))
			e.signalQuit()
		}
	}()

	ticker := time.NewTicker(e.tickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := now.Sub(lastTick).Seconds()
			lastTick = now
			e.tick(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.tickRate = newRate
		}
	}
}

// tick runs one frame's worth of work in fixed order: game callback,
// lifecycle, particles, frame animation, quality feedback, profiler.
func (e *engine) tick(dt float64) {
	if e.tickCallback != nil {
		e.tickCallback(dt)
	}

	lc := e.rt.Lifecycle
	lc.Update(dt)
	lc.UpdateParticles(dt)
	lc.OnFrameTick(dt)

	e.rt.Quality.Update(dt * 1000)

	if e.profilingEnabled {
		e.profiler.Tick()
	}
}

func (e *engine) SetTickCallback(callback func(dt float64)) {
	e.tickCallback = callback
}

func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	// Non-blocking send; replace any pending update.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}
