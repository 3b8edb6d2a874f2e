package faces

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/lakshya-inakhiya/go-ash/pkg/pixbuf"
)

// Cache holds one decoded frame per expression. It is built complete by Load
// and never changes afterwards, so lookups need no locking and cannot fail.
type Cache struct {
	faces map[Expression]*pixbuf.Buffer
}

// Load reads <dir>/<expression>.png for all seven expressions and decodes
// them into RGB888 buffers. Any failure aborts the whole load with a
// *LoadError naming the expression; there is no partial cache.
func Load(dir string) (*Cache, error) {
	loaded := make(map[Expression]*pixbuf.Buffer, len(All()))
	for _, expr := range All() {
		path := filepath.Join(dir, string(expr)+".png")
		buf, err := loadFace(path, expr)
		if err != nil {
			return nil, err
		}
		loaded[expr] = buf
	}
	return &Cache{faces: loaded}, nil
}

func loadFace(path string, which Expression) (*pixbuf.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Kind: Missing, Which: which, Path: path, Err: err}
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, &LoadError{Kind: DecodeFailure, Which: which, Path: path, Err: err}
	}

	bounds := img.Bounds()
	if bounds.Dx() != Width || bounds.Dy() != Height {
		return nil, &LoadError{
			Kind:  WrongSize,
			Which: which,
			Path:  path,
			Err:   fmt.Errorf("image is %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), Width, Height),
		}
	}

	buf, err := pixbuf.FromImage(img)
	if err != nil {
		return nil, &LoadError{Kind: DecodeFailure, Which: which, Path: path, Err: err}
	}
	return buf, nil
}

// Get returns the frame for an expression. After a successful Load this
// cannot fail; an unknown expression falls back to the neutral face.
func (c *Cache) Get(e Expression) *pixbuf.Buffer {
	if buf, ok := c.faces[e]; ok {
		return buf
	}
	return c.faces[Neutral]
}

// Len returns the number of cached expressions.
func (c *Cache) Len() int { return len(c.faces) }
