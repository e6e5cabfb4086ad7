package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-castle/engine/camera"
	"github.com/Carmen-Shannon/oxy-castle/engine/frame"
	"github.com/Carmen-Shannon/oxy-castle/engine/game_object"
	"github.com/Carmen-Shannon/oxy-castle/engine/input"
	"github.com/Carmen-Shannon/oxy-castle/engine/light"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// passInputs is everything besides the camera that goes into the per-pass constants.
type passInputs struct {
	width, height int
	totalTime     float32
	deltaTime     float32
	ambient       mgl32.Vec4
	lights        [light.MaxLights]light.GPULight
}

// applyInput moves the orbit camera by the drags of one input snapshot and recomputes its matrices.
// Left drag rotates; right drag zooms only when there is no left drag.
//
// Parameters:
//   - cam: the camera to move
//   - st: the polled input
func applyInput(cam camera.Camera, st input.State) {
	if ctrl := cam.Controller(); ctrl != nil {
		switch {
		case st.LeftDrag != [2]float32{}:
			ctrl.Rotate(st.LeftDrag[0], st.LeftDrag[1])
		case st.RightDrag != [2]float32{}:
			ctrl.Zoom(st.RightDrag[0], st.RightDrag[1])
		}
	}
	cam.Update()
}

// writeObjectConstants copies World and TexTransform of every dirty instance into the slot's
// object buffer at the instance's object index, consuming one dirty frame per write.
//
// Parameters:
//   - slot: the acquired frame slot
//   - instances: the scene table
//
// Returns:
//   - int: the number of elements written
//   - error: error if an object index does not fit the slot
func writeObjectConstants(slot frame.FrameResource, instances []game_object.GameObject) (int, error) {
	written := 0
	for _, obj := range instances {
		if obj.NumFramesDirty() <= 0 {
			continue
		}
		oc := frame.NewGPUObjectConstants(obj.World(), obj.TexTransform())
		if err := slot.Objects().CopyData(obj.ObjectIndex(), oc.Marshal()); err != nil {
			return written, fmt.Errorf("write object %q: %w", obj.Name(), err)
		}
		obj.ConsumeDirty()
		written++
	}
	return written, nil
}

// writeMaterialConstants is writeObjectConstants for materials, keyed by constant buffer index.
func writeMaterialConstants(slot frame.FrameResource, materials []material.Material) (int, error) {
	written := 0
	for _, m := range materials {
		if m.NumFramesDirty() <= 0 {
			continue
		}
		mc := m.Constants()
		if err := slot.Materials().CopyData(m.CBIndex(), mc.Marshal()); err != nil {
			return written, fmt.Errorf("write material %q: %w", m.Name(), err)
		}
		m.ConsumeDirty()
		written++
	}
	return written, nil
}

// writePassConstants fills and writes the per-pass block. It runs every frame.
//
// Parameters:
//   - slot: the acquired frame slot
//   - cam: the updated camera
//   - in: surface size, timing and lighting
//
// Returns:
//   - error: error if the block does not fit the slot's pass buffer
func writePassConstants(slot frame.FrameResource, cam camera.Camera, in passInputs) error {
	var pc camera.GPUPassConstants
	cam.FillPassConstants(&pc)

	w, h := float32(max(in.width, 1)), float32(max(in.height, 1))
	pc.RenderTargetSize = [2]float32{w, h}
	pc.InvRenderTargetSize = [2]float32{1 / w, 1 / h}
	pc.TotalTime = in.totalTime
	pc.DeltaTime = in.deltaTime
	pc.AmbientLight = in.ambient
	pc.Lights = in.lights

	if err := slot.Pass().CopyData(0, pc.Marshal()); err != nil {
		return fmt.Errorf("write pass constants: %w", err)
	}
	return nil
}
