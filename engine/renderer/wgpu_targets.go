package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

const depthFormat = wgpu.TextureFormatDepth24Plus

// attachment is a render target texture and the view the pass writes through.
type attachment struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func newAttachment(device *wgpu.Device, label string, format wgpu.TextureFormat, size wgpu.Extent3D, samples uint32) (attachment, error) {
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return attachment{}, fmt.Errorf("%s: %w", label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return attachment{}, fmt.Errorf("%s view: %w", label, err)
	}
	return attachment{texture: tex, view: view}, nil
}

func (a *attachment) release() {
	if a.view != nil {
		a.view.Release()
	}
	if a.texture != nil {
		a.texture.Release()
	}
	*a = attachment{}
}

// renderTargets are the size dependent attachments of the main pass. With MSAA on, colour is drawn
// into msaa and resolved into the swapchain image; otherwise it is drawn into the image directly.
type renderTargets struct {
	msaa  attachment
	depth attachment
	pass  *wgpu.RenderPassDescriptor
}

func newRenderTargets(device *wgpu.Device, format wgpu.TextureFormat, width, height int, samples MSAASampleCount) (renderTargets, error) {
	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}

	var t renderTargets
	var err error
	if samples > MSAAOff {
		if t.msaa, err = newAttachment(device, "MSAA Colour", format, size, uint32(samples)); err != nil {
			return renderTargets{}, err
		}
	}
	// depth sample count must match the colour attachment
	if t.depth, err = newAttachment(device, "Depth", depthFormat, size, uint32(samples)); err != nil {
		t.release()
		return renderTargets{}, err
	}
	t.pass = mainPassDescriptor(t.msaa.view, t.depth.view)
	return t, nil
}

// mainPassDescriptor clears colour and depth. msaaView is nil without MSAA, in which case the
// swapchain view is filled in per frame by target.
func mainPassDescriptor(msaaView, depthView *wgpu.TextureView) *wgpu.RenderPassDescriptor {
	store := wgpu.StoreOpStore
	if msaaView != nil {
		store = wgpu.StoreOpDiscard
	}
	return &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    msaaView,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: store,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

// ready reports whether the attachments exist for the current surface size.
func (t *renderTargets) ready() bool {
	return t.pass != nil
}

func (t *renderTargets) setClearColor(color wgpu.Color) {
	if t.pass != nil {
		t.pass.ColorAttachments[0].ClearValue = color
	}
}

// target points the colour attachment at this frame's swapchain view and returns the descriptor.
func (t *renderTargets) target(swapchain *wgpu.TextureView) *wgpu.RenderPassDescriptor {
	color := &t.pass.ColorAttachments[0]
	if t.msaa.view != nil {
		color.ResolveTarget = swapchain
	} else {
		color.View = swapchain
	}
	return t.pass
}

func (t *renderTargets) release() {
	t.msaa.release()
	t.depth.release()
	t.pass = nil
}
