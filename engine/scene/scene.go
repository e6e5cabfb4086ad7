package scene

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/Carmen-Shannon/oxy-castle/config"
	"github.com/Carmen-Shannon/oxy-castle/engine/camera"
	"github.com/Carmen-Shannon/oxy-castle/engine/frame"
	"github.com/Carmen-Shannon/oxy-castle/engine/game_object"
	"github.com/Carmen-Shannon/oxy-castle/engine/geometry"
	"github.com/Carmen-Shannon/oxy-castle/engine/input"
	"github.com/Carmen-Shannon/oxy-castle/engine/light"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-castle/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

var (
	//go:embed assets/lit_vs.wgsl
	litVertexSource string
	//go:embed assets/lit_fs.wgsl
	litFragmentSource string
	//go:embed assets/flat_vs.wgsl
	flatVertexSource string
	//go:embed assets/flat_fs.wgsl
	flatFragmentSource string
)

// InputSource is polled once per frame for the drags and keys gathered since the previous frame.
type InputSource interface {
	Poll() input.State
}

// FrameStats describes one call to Frame.
type FrameStats struct {
	// Draws is the number of draws recorded.
	Draws int
	// Objects and Materials count the constant buffer elements written this frame.
	Objects   int
	Materials int
	// Skipped is true when no surface image was available and nothing was drawn.
	Skipped bool
	// Wireframe is true when the frame was drawn with the wireframe pipeline.
	Wireframe bool
}

// Scene owns the castle: its instance table, materials, shared geometry, frame ring and camera.
// Frame is called from the render goroutine only. The setters may be called from any goroutine.
type Scene interface {
	// Variant returns the scene variant the castle was built for.
	Variant() string

	// Instances returns the instance table in object index order.
	Instances() []game_object.GameObject

	// Instance returns the instance at index.
	//
	// Parameters:
	//   - index: the object index
	//
	// Returns:
	//   - game_object.GameObject: the instance
	//   - bool: false if index is out of range
	Instance(index int) (game_object.GameObject, bool)

	// InstanceByID looks up an instance by its ID.
	InstanceByID(id uuid.UUID) (game_object.GameObject, bool)

	// Materials returns the materials in constant buffer index order.
	Materials() []material.Material

	// Geometry returns the shared mesh geometry.
	Geometry() geometry.MeshGeometry

	// Camera returns the orbit camera.
	Camera() camera.Camera

	// Ring returns the frame resource ring.
	Ring() frame.Ring

	// RingSize returns the number of frame slots, the value every dirty counter is reset to.
	RingSize() int

	// SetWireframeKey changes the key that selects the wireframe pipeline while held.
	SetWireframeKey(key uint32)

	// SetCameraSpeeds changes the drag sensitivity of the orbit camera.
	//
	// Parameters:
	//   - rotateDegreesPerPixel: rotation per pixel of left drag
	//   - zoomUnitsPerPixel: radius change per pixel of right drag
	SetCameraSpeeds(rotateDegreesPerPixel, zoomUnitsPerPixel float32)

	// Resize updates the camera aspect and the renderer surface. Zero sizes keep the aspect.
	Resize(width, height int)

	// Frame runs one frame: advance and acquire the next slot, apply input to the camera, write
	// dirty object and material constants and the pass constants, record one draw per enabled
	// instance, submit, present and signal the slot's completion marker.
	//
	// A frame with no surface image is skipped after the constants are written.
	//
	// Parameters:
	//   - ctx: cancels the wait on the slot's marker
	//   - deltaTime: seconds since the previous frame
	//
	// Returns:
	//   - FrameStats: what the frame did
	//   - error: a wrapped error if the wait, a constant write or a frame call failed
	Frame(ctx context.Context, deltaTime float32) (FrameStats, error)

	// Flush waits for every submitted frame to complete.
	Flush(ctx context.Context) error

	// Release releases the scene's GPU resources. Call Flush first.
	Release()
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.Mutex

	name     string
	variant  string
	ringSize int
	workers  int

	placements []Placement
	textureDir string

	instances []game_object.GameObject
	byID      map[uuid.UUID]game_object.GameObject
	materials []material.Material
	byName    map[string]material.Material
	lights    []light.Light
	ambient   mgl32.Vec4
	packed    [light.MaxLights]light.GPULight

	geo           geometry.MeshGeometry
	ring          frame.Ring
	cam           camera.Camera
	r             renderer.Renderer
	in            InputSource
	layout        bindingLayout
	textureGroups []bind_group_provider.BindGroupProvider

	wireframeKey uint32
	totalTime    float32
}

var _ Scene = &scene{}

// NewScene builds the castle and uploads everything it needs to the renderer: the shared mesh
// buffers, the pipelines of the variant, one pass, object and material bind group per frame slot
// and, for textured variants, one texture bind group per material.
//
// Parameters:
//   - r: the renderer to upload to and draw with
//   - options: functional options selecting the variant and overriding defaults
//
// Returns:
//   - Scene: the built scene, every instance and material dirty for RingSize frames
//   - error: a wrapped error if the placements, geometry, shaders or GPU resources could not be built
func NewScene(r renderer.Renderer, options ...SceneBuilderOption) (Scene, error) {
	if r == nil {
		return nil, errors.New("scene: NewScene requires a renderer")
	}
	s := &scene{
		mu:           &sync.Mutex{},
		name:         "castle",
		variant:      config.VariantColumns,
		ringSize:     frame.DefaultRingSize,
		workers:      max(runtime.NumCPU()-1, 1),
		ambient:      DefaultAmbientLight,
		byID:         make(map[uuid.UUID]game_object.GameObject),
		r:            r,
		wireframeKey: common.Key1,
	}
	for _, option := range options {
		option(s)
	}
	if s.ringSize < 1 {
		return nil, fmt.Errorf("scene %q: ring of %d slots: %w", s.name, s.ringSize, frame.ErrInvalidRingSize)
	}

	if err := s.buildTables(); err != nil {
		return nil, err
	}
	if err := s.buildGeometry(); err != nil {
		return nil, err
	}
	if err := s.registerPipelines(); err != nil {
		return nil, err
	}
	if err := s.buildRing(); err != nil {
		return nil, err
	}
	if err := s.initTextures(); err != nil {
		return nil, err
	}

	if s.cam == nil {
		w, h := r.Size()
		s.cam = camera.NewCamera(
			camera.WithAspect(float32(max(w, 1))/float32(max(h, 1))),
			camera.WithController(camera.NewCameraController()),
		)
	}

	common.LogInfo("scene %q: %s variant, %d instances, %d materials, ring of %d", s.name, s.variant, len(s.instances), len(s.materials), s.ringSize)
	return s, nil
}

// buildTables creates the instances, materials and packed lights.
func (s *scene) buildTables() error {
	mats, err := NewCastleMaterials(s.variant, s.ringSize)
	if err != nil {
		return fmt.Errorf("scene %q: %w", s.name, err)
	}
	s.materials = mats
	s.byName = make(map[string]material.Material, len(mats))
	names := make([]string, len(mats))
	for i, m := range mats {
		names[i] = m.Name()
		s.byName[m.Name()] = m
	}

	if s.placements == nil {
		s.placements, err = CastlePlacements(s.variant)
		if err != nil {
			return fmt.Errorf("scene %q: %w", s.name, err)
		}
	}
	if err := ValidatePlacements(s.placements, names); err != nil {
		return fmt.Errorf("scene %q: %w", s.name, err)
	}

	s.instances = make([]game_object.GameObject, len(s.placements))
	for i, p := range s.placements {
		obj := game_object.NewGameObject(
			game_object.WithName(p.Name),
			game_object.WithObjectIndex(i),
			game_object.WithSubmesh(p.Submesh),
			game_object.WithMaterial(p.Material),
			game_object.WithWorld(p.World()),
			game_object.WithTexTransform(p.TexTransform()),
			game_object.WithFramesDirty(s.ringSize),
		)
		s.instances[i] = obj
		s.byID[obj.ID()] = obj
	}

	if s.lights == nil {
		s.lights = NewCastleLights()
	}
	packed, counts, err := light.Pack(s.lights)
	if err != nil {
		return fmt.Errorf("scene %q: %w", s.name, err)
	}
	s.packed = packed
	common.LogDebug("scene %q: packed %d directional and %d point lights", s.name, counts.Directional, counts.Point)
	return nil
}

// buildGeometry generates the shapes of the variant and uploads them as one mesh.
func (s *scene) buildGeometry() error {
	opts := []geometry.MeshGeometryBuilderOption{
		geometry.WithLabel(s.name + " geometry"),
		geometry.WithWorkers(s.workers),
		geometry.WithShape(geometry.SubmeshGrid, func() geometry.MeshData { return geometry.CreateGrid(100, 100, 60, 40) }),
		geometry.WithShape(geometry.SubmeshSphere, func() geometry.MeshData { return geometry.CreateSphere(12, 20, 20) }),
		geometry.WithShape(geometry.SubmeshCylinder, func() geometry.MeshData { return geometry.CreateCylinder(10, 10, 30, 20, 20) }),
	}
	switch s.variant {
	case config.VariantShapes:
		opts = append(opts,
			geometry.WithVertexFormat(geometry.VertexFormatPosition),
			geometry.WithShape(geometry.SubmeshBox, func() geometry.MeshData { return geometry.CreateBox(1, 1, 1, 0) }),
			geometry.WithShape(geometry.SubmeshCone, func() geometry.MeshData { return geometry.CreateCone(15, 10, 20, 20) }),
		)
	default:
		opts = append(opts,
			geometry.WithVertexFormat(geometry.VertexFormatPositionNormalTexture),
			geometry.WithShape(geometry.SubmeshBox, func() geometry.MeshData { return geometry.CreateBox(1, 1, 1, 3) }),
		)
	}

	geo, err := geometry.NewMeshGeometry(opts...)
	if err != nil {
		return fmt.Errorf("scene %q: %w", s.name, err)
	}
	for _, p := range s.placements {
		if _, ok := geo.Range(p.Submesh); !ok {
			return fmt.Errorf("scene %q: placement %q uses %s, which the %s variant does not build: %w", s.name, p.Name, p.Submesh, s.variant, ErrInvalidPlacement)
		}
	}

	provider := bind_group_provider.NewBindGroupProvider(geo.Label())
	if err := s.r.InitMeshBuffers(provider, geo.VertexBytes(), geo.IndexBytes(), geo.LineIndexBytes()); err != nil {
		return fmt.Errorf("scene %q: upload geometry: %w", s.name, err)
	}
	geo.SetProvider(provider)
	s.geo = geo
	return nil
}

// registerPipelines compiles the variant's shaders into the filled and wireframe pipelines and
// resolves which bind group carries which constants.
func (s *scene) registerPipelines() error {
	vsSource, fsSource := litVertexSource, litFragmentSource
	if s.variant == config.VariantShapes {
		vsSource, fsSource = flatVertexSource, flatFragmentSource
	}
	vs, err := shader.NewShaderFromSource(s.variant+"_vs", shader.ShaderTypeVertex, vsSource)
	if err != nil {
		return fmt.Errorf("scene %q: %w", s.name, err)
	}
	fs, err := shader.NewShaderFromSource(s.variant+"_fs", shader.ShaderTypeFragment, fsSource)
	if err != nil {
		return fmt.Errorf("scene %q: %w", s.name, err)
	}

	pipelines := pipeline.NewOpaquePipelines(vs, fs)
	if err := s.r.RegisterPipelines(pipelines...); err != nil {
		return fmt.Errorf("scene %q: %w", s.name, err)
	}
	s.layout, err = resolveBindings(pipelines[0])
	if err != nil {
		return fmt.Errorf("scene %q: %w", s.name, err)
	}
	return nil
}

// buildRing creates the frame ring and one pass, object and material bind group per slot.
func (s *scene) buildRing() error {
	passSize := (&camera.GPUPassConstants{}).Size()
	materialSize := (&material.GPUMaterialConstants{}).Size()

	ring, err := frame.NewRing(s.r.Fence(),
		frame.WithLabel(s.name),
		frame.WithSize(s.ringSize),
		frame.WithPassSize(uint64(passSize)),
		frame.WithObjectCount(len(s.instances)),
		frame.WithMaterials(uint64(materialSize), len(s.materials)),
	)
	if err != nil {
		return fmt.Errorf("scene %q: %w", s.name, err)
	}
	s.ring = ring

	for i := range ring.Size() {
		slot := ring.Slot(i)
		for _, b := range []struct {
			at  groupBinding
			buf *frame.UploadBuffer
		}{
			{s.layout.pass, slot.Pass()},
			{s.layout.object, slot.Objects()},
			{s.layout.material, slot.Materials()},
		} {
			if b.at.group < 0 {
				continue
			}
			if err := s.initConstantGroup(b.at, b.buf); err != nil {
				return err
			}
		}
	}
	return nil
}

// initConstantGroup creates the GPU buffer and bind group backing one upload buffer.
func (s *scene) initConstantGroup(at groupBinding, buf *frame.UploadBuffer) error {
	desc, ok := s.r.BindGroupLayout(pipeline.KeyOpaque, at.group)
	if !ok {
		return fmt.Errorf("scene %q: pipeline %s has no bind group %d", s.name, pipeline.KeyOpaque, at.group)
	}
	provider := bind_group_provider.NewBindGroupProvider(buf.Label())
	if err := s.r.InitBindGroup(provider, desc, map[int]uint64{at.binding: buf.Size()}); err != nil {
		return fmt.Errorf("scene %q: bind %s: %w", s.name, buf.Label(), err)
	}
	buf.SetProvider(provider, at.binding)
	return nil
}

// initTextures loads the variant's textures and builds one texture bind group per material.
// Variants whose shaders sample no texture skip this.
func (s *scene) initTextures() error {
	if s.layout.texture.group < 0 {
		return nil
	}
	desc, ok := s.r.BindGroupLayout(pipeline.KeyOpaque, s.layout.texture.group)
	if !ok {
		return fmt.Errorf("scene %q: pipeline %s has no bind group %d", s.name, pipeline.KeyOpaque, s.layout.texture.group)
	}

	textures, err := texture.LoadAll(s.textureDir, TextureSpecs(), texture.DefaultSize, s.workers)
	if err != nil {
		return fmt.Errorf("scene %q: %w", s.name, err)
	}
	byName := make(map[string]texture.Texture, len(textures))
	for _, t := range textures {
		byName[t.Name()] = t
	}
	sampler := texture.StaticSamplers()[texture.SamplerAnisotropicWrap]

	for _, m := range s.materials {
		t, ok := byName[m.DiffuseTexture()]
		if !ok {
			return fmt.Errorf("scene %q: material %q references unknown texture %q", s.name, m.Name(), m.DiffuseTexture())
		}
		provider := bind_group_provider.NewBindGroupProvider(m.Name() + " texture")
		if err := s.r.InitTextureView(provider, s.layout.texture.binding, t.StagingData()); err != nil {
			return fmt.Errorf("scene %q: texture %q: %w", s.name, t.Name(), err)
		}
		if s.layout.sampler.group >= 0 {
			if err := s.r.InitSampler(provider, s.layout.sampler.binding, sampler); err != nil {
				return fmt.Errorf("scene %q: sampler for %q: %w", s.name, m.Name(), err)
			}
		}
		if err := s.r.InitBindGroup(provider, desc, nil); err != nil {
			return fmt.Errorf("scene %q: texture bind group for %q: %w", s.name, m.Name(), err)
		}
		m.SetBindGroupProvider(provider)
		s.textureGroups = append(s.textureGroups, provider)
	}
	return nil
}

func (s *scene) Variant() string {
	return s.variant
}

func (s *scene) Instances() []game_object.GameObject {
	return s.instances
}

func (s *scene) Instance(index int) (game_object.GameObject, bool) {
	if index < 0 || index >= len(s.instances) {
		return nil, false
	}
	return s.instances[index], true
}

func (s *scene) InstanceByID(id uuid.UUID) (game_object.GameObject, bool) {
	obj, ok := s.byID[id]
	return obj, ok
}

func (s *scene) Materials() []material.Material {
	return s.materials
}

func (s *scene) Geometry() geometry.MeshGeometry {
	return s.geo
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Ring() frame.Ring {
	return s.ring
}

func (s *scene) RingSize() int {
	return s.ringSize
}

func (s *scene) SetWireframeKey(key uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wireframeKey = key
}

func (s *scene) SetCameraSpeeds(rotateDegreesPerPixel, zoomUnitsPerPixel float32) {
	if ctrl := s.cam.Controller(); ctrl != nil {
		ctrl.SetSpeeds(rotateDegreesPerPixel, zoomUnitsPerPixel)
	}
}

func (s *scene) Resize(width, height int) {
	if width > 0 && height > 0 {
		s.cam.SetAspect(float32(width) / float32(height))
	}
	s.r.Resize(width, height)
}

func (s *scene) Frame(ctx context.Context, deltaTime float32) (FrameStats, error) {
	var stats FrameStats

	slot := s.ring.Advance()
	if err := s.ring.Acquire(ctx); err != nil {
		return stats, fmt.Errorf("scene %q: acquire slot %d: %w", s.name, slot.Index(), err)
	}

	var st input.State
	if s.in != nil {
		st = s.in.Poll()
	}
	applyInput(s.cam, st)

	s.totalTime += deltaTime
	width, height := s.r.Size()

	var err error
	if stats.Objects, err = writeObjectConstants(slot, s.instances); err != nil {
		return stats, fmt.Errorf("scene %q: %w", s.name, err)
	}
	if stats.Materials, err = writeMaterialConstants(slot, s.materials); err != nil {
		return stats, fmt.Errorf("scene %q: %w", s.name, err)
	}
	if err := writePassConstants(slot, s.cam, passInputs{
		width:     width,
		height:    height,
		totalTime: s.totalTime,
		deltaTime: deltaTime,
		ambient:   s.ambient,
		lights:    s.packed,
	}); err != nil {
		return stats, fmt.Errorf("scene %q: %w", s.name, err)
	}
	s.r.WriteBuffers(slot.Flush())

	if err := s.r.BeginFrame(); err != nil {
		if errors.Is(err, renderer.ErrSurfaceUnavailable) {
			stats.Skipped = true
			return stats, nil
		}
		return stats, fmt.Errorf("scene %q: %w", s.name, err)
	}

	s.mu.Lock()
	wireKey := s.wireframeKey
	s.mu.Unlock()
	pipelineKey := pipeline.KeyOpaque
	if s.variant == config.VariantShapes && st.KeyDown(wireKey) {
		pipelineKey = pipeline.KeyOpaqueWireframe
		stats.Wireframe = true
	}

	stats.Draws, err = s.drawInstances(slot, pipelineKey)
	if err != nil {
		// close the pass so the renderer is usable again next frame
		if closeErr := s.finishFrame(); closeErr != nil {
			err = fmt.Errorf("%w; closing frame: %w", err, closeErr)
		}
		return stats, fmt.Errorf("scene %q: %w", s.name, err)
	}
	if err := s.finishFrame(); err != nil {
		return stats, fmt.Errorf("scene %q: %w", s.name, err)
	}
	return stats, nil
}

// finishFrame submits and presents the open frame. The slot gets its marker once EndFrame has
// submitted, whether or not Present works; a failed EndFrame leaves the slot's marker unchanged.
func (s *scene) finishFrame() error {
	if err := s.r.EndFrame(); err != nil {
		return err
	}
	presentErr := s.r.Present()
	s.ring.Submit()
	return presentErr
}

// drawInstances records one draw per enabled instance against the slot's constant buffers.
func (s *scene) drawInstances(slot frame.FrameResource, pipelineKey string) (int, error) {
	mesh := s.geo.Provider()
	draws := 0
	for _, obj := range s.instances {
		if !obj.Enabled() {
			continue
		}
		rng, ok := s.geo.Range(obj.Submesh())
		if !ok {
			return draws, fmt.Errorf("instance %q: no %s in geometry", obj.Name(), obj.Submesh())
		}
		mat, ok := s.byName[obj.Material()]
		if !ok {
			return draws, fmt.Errorf("instance %q: unknown material %q", obj.Name(), obj.Material())
		}
		groups, err := s.bindGroups(slot, obj, mat)
		if err != nil {
			return draws, err
		}
		if err := s.r.DrawIndexed(renderer.DrawCommand{
			PipelineKey: pipelineKey,
			Mesh:        mesh,
			Range:       rng,
			BindGroups:  groups,
		}); err != nil {
			return draws, fmt.Errorf("instance %q: %w", obj.Name(), err)
		}
		draws++
	}
	return draws, nil
}

// bindGroups assembles the bind groups of one draw, indexed by group number.
func (s *scene) bindGroups(slot frame.FrameResource, obj game_object.GameObject, mat material.Material) ([]renderer.BindGroupBinding, error) {
	groups := make([]renderer.BindGroupBinding, s.layout.groups)
	if g := s.layout.pass.group; g >= 0 {
		groups[g] = renderer.BindGroupBinding{Provider: slot.Pass().Provider()}
	}
	if g := s.layout.object.group; g >= 0 {
		groups[g] = renderer.BindGroupBinding{
			Provider:       slot.Objects().Provider(),
			DynamicOffsets: []uint32{slot.Objects().DynamicOffset(obj.ObjectIndex())},
		}
	}
	if g := s.layout.material.group; g >= 0 {
		groups[g] = renderer.BindGroupBinding{
			Provider:       slot.Materials().Provider(),
			DynamicOffsets: []uint32{slot.Materials().DynamicOffset(mat.CBIndex())},
		}
	}
	if g := s.layout.texture.group; g >= 0 {
		p := mat.BindGroupProvider()
		if p == nil {
			return nil, fmt.Errorf("material %q has no texture bind group", mat.Name())
		}
		groups[g] = renderer.BindGroupBinding{Provider: p}
	}
	return groups, nil
}

func (s *scene) Flush(ctx context.Context) error {
	if err := s.ring.Flush(ctx); err != nil {
		return fmt.Errorf("scene %q: %w", s.name, err)
	}
	return nil
}

func (s *scene) Release() {
	for _, p := range s.textureGroups {
		p.Release()
	}
	s.textureGroups = nil
	for _, m := range s.materials {
		m.SetBindGroupProvider(nil)
	}
	s.ring.Release()
	s.geo.Release()
	common.LogDebug("scene %q released", s.name)
}

// groupBinding locates one resource in a pipeline's bind groups. A negative group means absent.
type groupBinding struct {
	group, binding int
}

// bindingLayout records where a pipeline expects each kind of resource.
type bindingLayout struct {
	// groups is one more than the highest group index declared.
	groups   int
	pass     groupBinding
	object   groupBinding
	material groupBinding
	texture  groupBinding
	sampler  groupBinding
}

// resolveBindings reads the @oxy declarations of a pipeline's shaders and maps each bind group to
// the resource that feeds it. Group annotations are matched on their struct type, provider
// annotations on their identity and binding role.
//
// Parameters:
//   - p: a pipeline with vertex and fragment shaders
//
// Returns:
//   - bindingLayout: the resolved locations
//   - error: error if a group cannot be fed or the pass or object constants are missing
func resolveBindings(p pipeline.Pipeline) (bindingLayout, error) {
	absent := groupBinding{group: -1, binding: -1}
	l := bindingLayout{pass: absent, object: absent, material: absent, texture: absent, sampler: absent}

	var decls []shader.Annotation
	for _, st := range []shader.ShaderType{shader.ShaderTypeVertex, shader.ShaderTypeFragment} {
		if sh := p.Shader(st); sh != nil {
			decls = append(decls, sh.Declarations()...)
		}
	}

	fed := make(map[int]bool)
	maxGroup := -1
	for _, d := range decls {
		if d.Group == nil || d.Binding == nil {
			continue
		}
		at := groupBinding{group: *d.Group, binding: *d.Binding}
		maxGroup = max(maxGroup, at.group)

		kind, role := d.Resource()
		switch {
		case kind == shader.AnnotationArgPass:
			l.pass = at
		case kind == shader.AnnotationArgObject:
			l.object = at
		case kind == shader.AnnotationArgMaterial:
			l.material = at
		case kind == shader.AnnotationArgTexture && role == shader.AnnotationArgDiffuseSampler:
			l.sampler = at
		case kind == shader.AnnotationArgTexture:
			l.texture = at
		default:
			continue
		}
		fed[at.group] = true
	}

	if l.pass.group < 0 || l.object.group < 0 {
		return l, fmt.Errorf("pipeline %s does not declare pass and object constants", p.PipelineKey())
	}
	for g := 0; g <= maxGroup; g++ {
		if !fed[g] {
			return l, fmt.Errorf("pipeline %s: no resource feeds bind group %d", p.PipelineKey(), g)
		}
	}
	l.groups = maxGroup + 1
	return l, nil
}
