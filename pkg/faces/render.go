package faces

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/lakshya-inakhiya/go-ash/pkg/pixbuf"
)

// Flat UI palette the stock faces are drawn in.
const (
	midnight = "#2C3E50"
	clouds   = "#ECF0F1"
	asphalt  = "#34495E"
	alizarin = "#E74C3C"
	river    = "#3498DB"
	concrete = "#95A5A6"
)

// eyeShape positions both eyes for one expression: top edge and height of
// the eye whites, plus how far the pupils sit below center (negative means
// the robot looks up).
type eyeShape struct {
	top       float64
	height    float64
	pupilDrop float64
}

var eyeShapes = map[Expression]eyeShape{
	Happy:     {top: 110, height: 40, pupilDrop: 5},
	Sad:       {top: 120, height: 40, pupilDrop: -5},
	Neutral:   {top: 115, height: 40},
	Listening: {top: 110, height: 50},
	Speaking:  {top: 115, height: 35},
	Thinking:  {top: 110, height: 40, pupilDrop: -10},
	Error:     {top: 120, height: 40},
}

// Render draws a stock face for the expression. The result has the exact
// panel geometry, so it can stand in anywhere a loaded PNG would.
func Render(e Expression) image.Image {
	dc := gg.NewContext(Width, Height)

	dc.SetHexColor(midnight)
	dc.Clear()

	// Face plate.
	ellipseBox(dc, 90, 40, 390, 280)
	dc.SetHexColor(clouds)
	dc.FillPreserve()
	dc.SetHexColor(asphalt)
	dc.SetLineWidth(3)
	dc.Stroke()

	shape, ok := eyeShapes[e]
	if !ok {
		shape = eyeShapes[Neutral]
	}
	drawEye(dc, 140, shape)
	drawEye(dc, 290, shape)
	if e == Error {
		crossEye(dc, 140, shape)
		crossEye(dc, 290, shape)
	}

	drawMouth(dc, e)

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetHexColor(concrete)
	dc.DrawStringAnchored(strings.ToUpper(string(e)), Width/2, 291, 0.5, 0.5)

	return dc.Image()
}

// Generated builds the cache from drawn faces instead of files. It is the
// fallback when the faces directory is missing or incomplete.
func Generated() (*Cache, error) {
	loaded := make(map[Expression]*pixbuf.Buffer, len(All()))
	for _, expr := range All() {
		buf, err := pixbuf.FromImage(Render(expr))
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", expr, err)
		}
		loaded[expr] = buf
	}
	return &Cache{faces: loaded}, nil
}

// Save writes one PNG per expression into dir, creating it if needed. The
// files land as <dir>/<expression>.png, the layout Load expects.
func Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create faces dir: %w", err)
	}
	for _, expr := range All() {
		path := filepath.Join(dir, string(expr)+".png")
		if err := gg.SavePNG(path, Render(expr)); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	}
	return nil
}

func drawEye(dc *gg.Context, left float64, s eyeShape) {
	ellipseBox(dc, left, s.top, left+50, s.top+s.height)
	dc.SetHexColor("#FFFFFF")
	dc.FillPreserve()
	dc.SetHexColor(asphalt)
	dc.SetLineWidth(2)
	dc.Stroke()

	ellipseBox(dc, left+15, s.top+10+s.pupilDrop, left+35, s.top+30+s.pupilDrop)
	dc.SetHexColor(midnight)
	dc.Fill()
}

func crossEye(dc *gg.Context, left float64, s eyeShape) {
	dc.SetHexColor(alizarin)
	dc.SetLineWidth(4)
	dc.DrawLine(left+5, s.top+5, left+45, s.top+s.height-5)
	dc.DrawLine(left+45, s.top+5, left+5, s.top+s.height-5)
	dc.Stroke()
}

func drawMouth(dc *gg.Context, e Expression) {
	switch e {
	case Happy:
		arcBox(dc, 180, 190, 300, 250, 0, 180)
		dc.SetHexColor(midnight)
		dc.SetLineWidth(6)
		dc.Stroke()
		// Tongue fills the chord under the smile.
		arcBox(dc, 180, 190, 300, 240, 0, 180)
		dc.ClosePath()
		dc.SetHexColor(alizarin)
		dc.Fill()

	case Sad:
		arcBox(dc, 180, 200, 300, 260, 180, 360)
		dc.SetHexColor(midnight)
		dc.SetLineWidth(6)
		dc.Stroke()

	case Listening:
		ellipseBox(dc, 220, 200, 260, 230)
		dc.SetHexColor(midnight)
		dc.SetLineWidth(5)
		dc.Stroke()
		// Ear arcs on both sides of the plate.
		dc.SetHexColor(asphalt)
		dc.SetLineWidth(4)
		arcBox(dc, 60, 130, 100, 170, 300, 420)
		dc.Stroke()
		arcBox(dc, 380, 130, 420, 170, 120, 240)
		dc.Stroke()

	case Speaking:
		ellipseBox(dc, 210, 195, 270, 235)
		dc.SetHexColor(asphalt)
		dc.FillPreserve()
		dc.SetHexColor(midnight)
		dc.SetLineWidth(3)
		dc.Stroke()
		// Sound waves trailing off to the right.
		dc.SetHexColor(river)
		dc.SetLineWidth(3)
		arcBox(dc, 320, 180, 360, 220, 90, 270)
		dc.Stroke()
		dc.SetLineWidth(2)
		arcBox(dc, 365, 175, 410, 225, 90, 270)
		dc.Stroke()

	case Thinking:
		dc.MoveTo(190, 215)
		dc.LineTo(210, 220)
		dc.LineTo(230, 215)
		dc.LineTo(250, 220)
		dc.LineTo(270, 215)
		dc.LineTo(290, 220)
		dc.SetHexColor(midnight)
		dc.SetLineWidth(5)
		dc.Stroke()
		// Thought bubbles drifting up and away.
		dc.SetHexColor(concrete)
		dc.SetLineWidth(2)
		ellipseBox(dc, 330, 50, 370, 80)
		dc.Stroke()
		ellipseBox(dc, 350, 75, 365, 90)
		dc.Stroke()
		ellipseBox(dc, 360, 85, 370, 95)
		dc.Stroke()

	case Error:
		ellipseBox(dc, 215, 200, 265, 240)
		dc.SetHexColor(asphalt)
		dc.FillPreserve()
		dc.SetHexColor(alizarin)
		dc.SetLineWidth(3)
		dc.Stroke()

	default: // Neutral
		dc.DrawLine(190, 215, 290, 215)
		dc.SetHexColor(midnight)
		dc.SetLineWidth(5)
		dc.Stroke()
	}
}

// ellipseBox draws the ellipse inscribed in the rectangle (x0,y0)-(x1,y1).
func ellipseBox(dc *gg.Context, x0, y0, x1, y1 float64) {
	dc.DrawEllipse((x0+x1)/2, (y0+y1)/2, (x1-x0)/2, (y1-y0)/2)
}

// arcBox draws the matching elliptical arc between two angles, in degrees
// measured clockwise from three o'clock.
func arcBox(dc *gg.Context, x0, y0, x1, y1, deg0, deg1 float64) {
	dc.NewSubPath()
	dc.DrawEllipticalArc((x0+x1)/2, (y0+y1)/2, (x1-x0)/2, (y1-y0)/2, gg.Radians(deg0), gg.Radians(deg1))
}
