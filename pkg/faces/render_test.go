package faces

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/lakshya-inakhiya/go-ash/pkg/pixbuf"
)

func TestRenderGeometry(t *testing.T) {
	for _, expr := range All() {
		img := Render(expr)
		b := img.Bounds()
		if b.Dx() != Width || b.Dy() != Height {
			t.Errorf("%s: rendered %dx%d, want %dx%d", expr, b.Dx(), b.Dy(), Width, Height)
		}
	}
}

func TestRenderPalette(t *testing.T) {
	img := Render(Neutral)

	// Top-left corner is background, the plate center is face color.
	if got := color.RGBAModel.Convert(img.At(2, 2)); got != (color.RGBA{R: 0x2C, G: 0x3E, B: 0x50, A: 0xFF}) {
		t.Errorf("background pixel = %v", got)
	}
	if got := color.RGBAModel.Convert(img.At(240, 170)); got != (color.RGBA{R: 0xEC, G: 0xF0, B: 0xF1, A: 0xFF}) {
		t.Errorf("face plate pixel = %v", got)
	}
}

func TestRenderExpressionsDiffer(t *testing.T) {
	rendered := make(map[Expression][]byte, len(All()))
	for _, expr := range All() {
		buf, err := pixbuf.FromImage(Render(expr))
		if err != nil {
			t.Fatalf("FromImage(%s): %v", expr, err)
		}
		rendered[expr] = buf.Bytes()
	}

	exprs := All()
	for i := 0; i < len(exprs); i++ {
		for j := i + 1; j < len(exprs); j++ {
			if bytes.Equal(rendered[exprs[i]], rendered[exprs[j]]) {
				t.Errorf("%s and %s rendered identically", exprs[i], exprs[j])
			}
		}
	}
}

func TestGeneratedCache(t *testing.T) {
	cache, err := Generated()
	if err != nil {
		t.Fatalf("Generated failed: %v", err)
	}

	if cache.Len() != 7 {
		t.Errorf("Expected 7 generated expressions, got %d", cache.Len())
	}
	for _, expr := range All() {
		buf := cache.Get(expr)
		if buf == nil {
			t.Fatalf("Get(%s) returned nil", expr)
		}
		if buf.Width() != Width || buf.Height() != Height {
			t.Errorf("%s: geometry = %dx%d", expr, buf.Width(), buf.Height())
		}
	}
	if cache.Get(Expression("confused")) != cache.Get(Neutral) {
		t.Error("unknown expression should return the neutral face")
	}
}

func TestSaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	if err := Save(dir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	cache, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed on generated files: %v", err)
	}
	if cache.Len() != 7 {
		t.Errorf("Expected 7 loaded expressions, got %d", cache.Len())
	}

	// Saved files decode back to the same pixels Render produced.
	want, err := pixbuf.FromImage(Render(Happy))
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if !bytes.Equal(cache.Get(Happy).Bytes(), want.Bytes()) {
		t.Error("loaded pixels differ from the rendered image")
	}
}
