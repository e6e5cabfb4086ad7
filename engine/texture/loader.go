package texture

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-castle/common"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Extensions lists the image file extensions searched by Find, in priority order.
var Extensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tiff", ".tif", ".webp"}

// DefaultSize is the edge length of generated textures.
const DefaultSize = 256

// Spec names a texture and the generator used when no image file is found for it.
type Spec struct {
	Name      string
	Generator Generator
}

// Decode opens and decodes an image file. The format is detected from the file contents;
// png, jpeg, bmp, tiff and webp are supported.
//
// Parameters:
//   - path: the image file
//
// Returns:
//   - image.Image: the decoded image
//   - error: error if the file cannot be opened or decoded
func Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %q: %w", path, err)
	}
	common.LogDebug("decoded %s image %q (%dx%d)", format, path, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

// Find returns the first existing file named <dir>/<name><ext> for ext in Extensions.
//
// Parameters:
//   - dir: the directory to search
//   - name: the base file name
//
// Returns:
//   - string: the path found
//   - bool: false if no candidate exists
func Find(dir, name string) (string, bool) {
	if dir == "" {
		return "", false
	}
	for _, ext := range Extensions {
		path := filepath.Join(dir, name+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Load resolves one texture. An image file in dir takes precedence; if none exists, or it fails to
// decode, spec.Generator produces the pixels instead and the failure is logged as a warning.
//
// Parameters:
//   - dir: the directory searched for image files ("" disables file lookup)
//   - spec: the texture name and fallback generator
//   - size: the edge length used by the generator
//
// Returns:
//   - Texture: the loaded or generated texture
func Load(dir string, spec Spec, size int) Texture {
	if path, ok := Find(dir, spec.Name); ok {
		img, err := Decode(path)
		if err == nil {
			return NewTexture(spec.Name, img, WithSourceFile(path))
		}
		common.LogWarn("texture %q: %v, using generated pattern", spec.Name, err)
	}
	return NewTexture(spec.Name, spec.Generator(size))
}

// LoadAll resolves every spec concurrently on a worker pool and returns the textures in spec order.
//
// Parameters:
//   - dir: the directory searched for image files
//   - specs: the textures to resolve
//   - size: the edge length used by generators
//   - workers: the maximum number of concurrent loads
//
// Returns:
//   - []Texture: one texture per spec, in the same order
//   - error: error if two specs share a name or a spec has no generator
func LoadAll(dir string, specs []Spec, size, workers int) ([]Texture, error) {
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if s.Generator == nil {
			return nil, fmt.Errorf("texture %q has no generator", s.Name)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate texture name %q", s.Name)
		}
		seen[s.Name] = true
	}
	if dir != "" {
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			common.LogInfo("texture directory %q not found, generating all textures", dir)
			dir = ""
		}
	}

	out := make([]Texture, len(specs))
	pool := worker.NewDynamicWorkerPool(max(workers, 1), len(specs), time.Second)
	defer pool.Stop()

	var wg sync.WaitGroup
	for i, s := range specs {
		wg.Add(1)
		idx, spec := i, s
		pool.SubmitTask(worker.Task{
			ID:      idx,
			Payload: spec.Name,
			Do: func() (any, error) {
				defer wg.Done()
				out[idx] = Load(dir, spec, size)
				return nil, nil
			},
		})
	}
	wg.Wait()

	for _, t := range out {
		common.LogInfo("texture %q: %dx%d, %d levels (%s)", t.Name(), t.Width(), t.Height(), len(t.Levels()), t.Source())
	}
	return out, nil
}
