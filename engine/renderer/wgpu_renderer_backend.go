package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// presentModes maps the renderer's present modes onto the surface modes WebGPU offers.
// Fifo is the only mode every surface supports.
var presentModes = map[PresentMode]wgpu.PresentMode{
	PresentModeVSync:    wgpu.PresentModeFifo,
	PresentModeUncapped: wgpu.PresentModeImmediate,
}

func surfacePresentMode(mode PresentMode) wgpu.PresentMode {
	if m, ok := presentModes[mode]; ok {
		return m
	}
	return wgpu.PresentModeFifo
}

// gpu is the device side of the backend: everything created once at startup and released last.
type gpu struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue
	format   wgpu.TextureFormat
}

// openGPU creates the instance, a surface for the window and a device that can present to it.
func openGPU(surfaceDescriptor *wgpu.SurfaceDescriptor, software bool) (*gpu, error) {
	g := &gpu{instance: wgpu.CreateInstance(nil)}
	g.surface = g.instance.CreateSurface(surfaceDescriptor)

	adapter, err := g.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: software,
		CompatibleSurface:    g.surface,
	})
	if err != nil {
		g.release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	g.adapter = adapter

	// pass, object, material and texture groups fit the default limit of four bind groups
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          "Castle Device",
		RequiredLimits: &wgpu.RequiredLimits{Limits: wgpu.DefaultLimits()},
	})
	if err != nil {
		g.release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	g.device = device
	g.queue = device.GetQueue()

	formats := g.surface.GetCapabilities(adapter).Formats
	if len(formats) == 0 {
		g.release()
		return nil, errors.New("surface reports no formats")
	}
	g.format = formats[0]
	return g, nil
}

func (g *gpu) configure(width, height int, mode wgpu.PresentMode) {
	alpha := g.surface.GetCapabilities(g.adapter).AlphaModes[0]
	g.surface.Configure(g.adapter, g.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      g.format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: mode,
		AlphaMode:   alpha,
	})
}

// release frees the objects in reverse creation order. Nil fields are skipped.
func (g *gpu) release() {
	if g.queue != nil {
		g.queue.Release()
		g.queue = nil
	}
	if g.device != nil {
		g.device.Release()
		g.device = nil
	}
	if g.adapter != nil {
		g.adapter.Release()
		g.adapter = nil
	}
	if g.surface != nil {
		g.surface.Release()
		g.surface = nil
	}
	if g.instance != nil {
		g.instance.Release()
		g.instance = nil
	}
}

type wgpuRendererBackendImpl struct {
	mu *sync.Mutex
	*gpu

	targets     renderTargets
	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount
	clearColor  wgpu.Color

	frame *openFrame
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend opens the GPU for the window surface. The calling goroutine stays locked
// to its OS thread, as the surface requires. Failure to get a device panics.
func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, software bool, sampleCount MSAASampleCount) *wgpuRendererBackendImpl {
	runtime.LockOSThread()
	g, err := openGPU(surfaceDescriptor, software)
	if err != nil {
		panic(fmt.Sprintf("renderer: %v", err))
	}
	common.LogInfo("gpu ready: surface format %v, %dx MSAA", g.format, sampleCount)
	return &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		gpu:         g,
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		clearColor:  defaultSettings.clearColor,
	}
}

func (b *wgpuRendererBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuRendererBackendImpl) Queue() *wgpu.Queue {
	return b.queue
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.configure(width, height, b.presentMode)

	b.targets.release()
	targets, err := newRenderTargets(b.device, b.format, width, height, b.sampleCount)
	if err != nil {
		// BeginFrame fails every frame until a resize creates the attachments
		common.LogError("create %dx%d attachments: %v", width, height, err)
		return
	}
	targets.setClearColor(b.clearColor)
	b.targets = targets
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presentMode = surfacePresentMode(mode)
}

func (b *wgpuRendererBackendImpl) SetClearColor(color wgpu.Color) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearColor = color
	b.targets.setClearColor(color)
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.frame.abandon()
	b.frame = nil
	b.targets.release()
	b.gpu.release()
}
