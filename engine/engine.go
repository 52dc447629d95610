package engine

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/forge-go/engine/device"
	"github.com/Carmen-Shannon/forge-go/engine/profiler"
	"github.com/Carmen-Shannon/forge-go/engine/renderer/mipmap"
	"github.com/Carmen-Shannon/forge-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/forge-go/engine/renderer/texture"
	"github.com/Carmen-Shannon/forge-go/engine/surface"
	"github.com/Carmen-Shannon/forge-go/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// engine implements the Engine interface.
// Coordinates the tick, render, and window threads and owns the GPU stack.
type engine struct {
	tickRateChannel chan time.Duration

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once

	window  window.Window
	ctx     device.Context
	surface surface.Surface

	programs pipeline.Cache
	mips     mipmap.Generator
	textures texture.Factory

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(frame *wgpu.TextureView, deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point. It owns the window, the device context,
// the presentation surface, and the texture pipeline, and orchestrates the
// tick and render loops.
type Engine interface {
	// Init acquires the GPU device, binds the presentation surface, and
	// wires the texture pipeline. Must be called before Run.
	//
	// Returns:
	//   - error: error if device acquisition or surface binding fails
	Init() error

	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// DeviceContext returns the GPU device context.
	//
	// Returns:
	//   - device.Context: the device context (not ready before Init)
	DeviceContext() device.Context

	// Surface returns the presentation surface.
	//
	// Returns:
	//   - surface.Surface: the surface instance (not ready before Init)
	Surface() surface.Surface

	// Textures returns the texture factory. Textures created through it
	// get a full mip chain generated on the GPU.
	//
	// Returns:
	//   - texture.Factory: the texture factory (nil before Init)
	Textures() texture.Factory

	// Mipmaps returns the mip chain generator for textures created
	// outside the factory.
	//
	// Returns:
	//   - mipmap.Generator: the generator (nil before Init)
	Mipmaps() mipmap.Generator

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// The tick callback will be called at this rate for logic updates.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each render frame
	// with the acquired frame view. The engine acquires and presents the
	// frame around the callback.
	//
	// Parameters:
	//   - callback: function receiving the frame's render target view and the delta time in seconds
	SetRenderCallback(callback func(frame *wgpu.TextureView, deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the main engine loop (blocks until window closes).
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// The engine is inert until Init is called.
//
// Parameters:
//   - options: functional options for engine configuration (window, profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		profiler:        profiler.NewProfiler(),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		e.window = window.NewWindow()
	}

	return e
}

func (e *engine) Init() error {
	if e.ctx == nil {
		e.ctx = device.NewContext()
	}
	if err := e.ctx.Init(); err != nil {
		return err
	}

	if e.surface == nil {
		e.surface = surface.NewSurface(e.window)
	}
	if err := e.surface.Init(e.ctx); err != nil {
		return err
	}

	e.programs = pipeline.NewCache(e.ctx)
	e.mips = mipmap.NewGenerator(e.ctx, e.programs)
	e.textures = texture.NewFactory(e.ctx, e.mips)

	return nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) DeviceContext() device.Context {
	return e.ctx
}

func (e *engine) Surface() surface.Surface {
	return e.surface
}

func (e *engine) Textures() texture.Factory {
	return e.textures
}

func (e *engine) Mipmaps() mipmap.Generator {
	return e.mips
}

func (e *engine) Run() {
	e.running = true
	e.handle()
	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()
	e.release()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
	e.window.Close()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// handle launches the tick, render, and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(3)
	go e.handleTick()
	go e.handleRender()
	go e.handleQuit()
}

// handleTick runs the fixed-rate engine tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic
// rate changes via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleTick() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Each iteration applies any pending surface resize, acquires the frame texture,
// invokes the render callback, and presents.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			// Resize requests from the window thread are only applied here,
			// between frames, so the surface is never reconfigured while a
			// frame texture is outstanding.
			e.surface.ApplyPending()

			if e.renderCallback != nil && e.surface.Ready() {
				frame, err := e.surface.AcquireFrame()
				if err != nil {
					log.Printf("failed to acquire frame: %v", err)
				} else {
					e.renderCallback(frame, dt)
					e.surface.Present()
				}
			}

			if e.profilingEnabled && e.profiler != nil {
				e.profiler.Tick()
			}

			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// release tears down the GPU stack in reverse acquisition order.
func (e *engine) release() {
	if e.mips != nil {
		e.mips.Release()
	}
	if e.programs != nil {
		e.programs.Release()
	}
	if e.surface != nil {
		e.surface.Release()
	}
	if e.ctx != nil {
		e.ctx.Release()
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if e.running {
		// Non-blocking send; if the channel has a pending update, replace it.
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(frame *wgpu.TextureView, deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}
