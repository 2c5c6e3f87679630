package viz

import (
	"image"
	"image/color"
	"image/gif"
	"os"
)

const (
	// size of one braille dot in the recorded image
	dotW, dotH = 4, 4
	// hundredths of a second between recorded frames
	gifDelay = 2
)

// Recorder turns canvas frames into an animated GIF.
type Recorder struct {
	palette color.Palette
	frames  []*image.Paletted
}

func NewRecorder(t Theme) *Recorder {
	return &Recorder{palette: color.Palette{RGBA(t.Background), RGBA(t.Primary)}}
}

// Capture rasterizes the lit sub-pixels of c.
func (r *Recorder) Capture(c *Canvas) {
	w, h := c.PixelSize()
	img := image.NewPaletted(image.Rect(0, 0, w*dotW, h*dotH), r.palette)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

func (r *Recorder) Len() int { return len(r.frames) }

func (r *Recorder) Save(path string) error {
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, gifDelay)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}
