package device

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNoAdapter indicates the platform reported no compatible GPU adapter.
// Adapter acquisition is one-shot; callers own any retry policy.
var ErrNoAdapter = errors.New("device: no compatible adapter available")

// ErrNoDevice indicates logical device creation failed on an otherwise valid adapter.
var ErrNoDevice = errors.New("device: device creation failed")

// ErrNotInitialized indicates a handle accessor was called before Init succeeded.
var ErrNotInitialized = errors.New("device: context not initialized")

// contextState tags the lifecycle of a Context. Accessors are total only
// over the ready state; the uninitialized and failed states yield
// ErrNotInitialized rather than nil handles.
type contextState int

const (
	stateUninitialized contextState = iota
	stateReady
	stateFailed
)

// deviceContext is the implementation of the Context interface.
// It is the root owner of all GPU handles; every other component holds
// a non-owning reference to it.
type deviceContext struct {
	mu    *sync.Mutex
	state contextState

	// label is attached to the wgpu device for debugging.
	label string

	// forceFallbackAdapter requests a software adapter when true.
	forceFallbackAdapter bool

	// compatibleSurface, when set, constrains adapter selection to one
	// that can present to this surface.
	compatibleSurface *wgpu.Surface

	// requiredLimits overrides the WebGPU default limits at device creation.
	requiredLimits *wgpu.Limits

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	limits   wgpu.Limits
}

// Context owns the logical GPU handle (instance + adapter + device + queue)
// and exposes capability limits and resource-creation entry points.
// Create one per engine instance with NewContext, call Init once, and
// Release at shutdown.
type Context interface {
	// Init requests an adapter and then a device from that adapter.
	// This is a one-shot operation: ErrNoAdapter or ErrNoDevice failures
	// are fatal for this context and Init must not be called again.
	//
	// Returns:
	//   - error: ErrNoAdapter if the platform reports no adapter, ErrNoDevice if device creation fails
	Init() error

	// Ready reports whether both adapter and device acquisition succeeded.
	//
	// Returns:
	//   - bool: true only after Init has completed successfully
	Ready() bool

	// Instance returns the wgpu instance handle.
	//
	// Returns:
	//   - *wgpu.Instance: the instance handle
	//   - error: ErrNotInitialized if Init has not succeeded
	Instance() (*wgpu.Instance, error)

	// Adapter returns the physical adapter handle.
	//
	// Returns:
	//   - *wgpu.Adapter: the adapter handle
	//   - error: ErrNotInitialized if Init has not succeeded
	Adapter() (*wgpu.Adapter, error)

	// Device returns the logical device handle.
	//
	// Returns:
	//   - *wgpu.Device: the device handle
	//   - error: ErrNotInitialized if Init has not succeeded
	Device() (*wgpu.Device, error)

	// Queue returns the device's single submission queue. All GPU work
	// (uploads, pipeline compilation, render passes) is issued against it.
	//
	// Returns:
	//   - *wgpu.Queue: the queue handle
	//   - error: ErrNotInitialized if Init has not succeeded
	Queue() (*wgpu.Queue, error)

	// Limits returns the adapter's capability limits, e.g. the maximum
	// 2D texture dimension used to clamp resize requests.
	//
	// Returns:
	//   - wgpu.Limits: the adapter limits
	//   - error: ErrNotInitialized if Init has not succeeded
	Limits() (wgpu.Limits, error)

	// Release drops all owned GPU handles in reverse acquisition order.
	// The context is unusable afterwards.
	Release()
}

var _ Context = &deviceContext{}

func (c *deviceContext) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == stateReady {
		return nil
	}
	if c.state == stateFailed {
		// Acquisition is one-shot. A retry here would leak the instance
		// created by the first attempt.
		return fmt.Errorf("%w: previous init attempt failed", ErrNotInitialized)
	}

	// wgpu-native requires instance creation and event processing to stay
	// on one OS thread.
	runtime.LockOSThread()

	c.instance = wgpu.CreateInstance(nil)

	adapter, err := c.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: c.forceFallbackAdapter,
		CompatibleSurface:    c.compatibleSurface,
	})
	if err != nil || adapter == nil {
		c.state = stateFailed
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNoAdapter, err)
		}
		return ErrNoAdapter
	}
	c.adapter = adapter

	descriptor := &wgpu.DeviceDescriptor{Label: c.label}
	if c.requiredLimits != nil {
		descriptor.RequiredLimits = &wgpu.RequiredLimits{Limits: *c.requiredLimits}
	}

	device, err := adapter.RequestDevice(descriptor)
	if err != nil {
		c.state = stateFailed
		return fmt.Errorf("%w: %v", ErrNoDevice, err)
	}
	c.device = device
	c.queue = device.GetQueue()
	c.limits = adapter.GetLimits().Limits

	c.state = stateReady
	return nil
}

func (c *deviceContext) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateReady
}

func (c *deviceContext) Instance() (*wgpu.Instance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != stateReady {
		return nil, ErrNotInitialized
	}
	return c.instance, nil
}

func (c *deviceContext) Adapter() (*wgpu.Adapter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != stateReady {
		return nil, ErrNotInitialized
	}
	return c.adapter, nil
}

func (c *deviceContext) Device() (*wgpu.Device, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != stateReady {
		return nil, ErrNotInitialized
	}
	return c.device, nil
}

func (c *deviceContext) Queue() (*wgpu.Queue, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != stateReady {
		return nil, ErrNotInitialized
	}
	return c.queue, nil
}

func (c *deviceContext) Limits() (wgpu.Limits, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != stateReady {
		return wgpu.Limits{}, ErrNotInitialized
	}
	return c.limits, nil
}

func (c *deviceContext) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.queue != nil {
		c.queue.Release()
		c.queue = nil
	}
	if c.device != nil {
		c.device.Release()
		c.device = nil
	}
	if c.adapter != nil {
		c.adapter.Release()
		c.adapter = nil
	}
	if c.instance != nil {
		c.instance.Release()
		c.instance = nil
	}
	c.state = stateFailed
}

// forceFallbackFromEnv reads the WGPU_FORCE_FALLBACK_ADAPTER environment
// toggle, letting deployments opt into a software adapter without a
// code change.
func forceFallbackFromEnv() bool {
	return os.Getenv("WGPU_FORCE_FALLBACK_ADAPTER") == "1"
}
