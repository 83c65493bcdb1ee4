package ml

import (
	"fmt"

	"gocv.io/x/gocv"

	"ganbench/eval"
)

// PNGGrid tiles the images of a batch into one padded grid and writes it
// as a PNG file. It stands in for the original benchmark's on-screen
// preview of the first generated batch.
type PNGGrid struct {
	Path string
	Cols int // images per row; default 8
	Pad  int // pixels between tiles; default 2
}

func (g PNGGrid) Write(b eval.Batch) error {
	cols := g.Cols
	if cols < 1 {
		cols = 8
	}
	pad := g.Pad
	if pad < 1 {
		pad = 2
	}
	buf, w, h, err := tileRGB(b, cols, pad)
	if err != nil {
		return err
	}

	rgb, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC3, buf)
	if err != nil {
		return err
	}
	defer rgb.Close()
	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(rgb, &bgr, gocv.ColorRGBToBGR)
	if ok := gocv.IMWrite(g.Path, bgr); !ok {
		return fmt.Errorf("ml: cannot write grid to %s", g.Path)
	}
	return nil
}

// tileRGB lays the batch out as an HWC byte image with black padding
// between tiles. Values are clamped to [0, 1] before quantization.
func tileRGB(b eval.Batch, cols, pad int) (buf []byte, w, h int, err error) {
	n := b.Len()
	if n == 0 || b.Shape[1] != 3 {
		return nil, 0, 0, fmt.Errorf("ml: grid needs a non-empty RGB batch, got shape %v", b.Shape)
	}
	ih, iw := int(b.Shape[2]), int(b.Shape[3])
	rows := (n + cols - 1) / cols
	w = cols*iw + pad*(cols+1)
	h = rows*ih + pad*(rows+1)
	buf = make([]byte, w*h*3)

	plane := ih * iw
	per := b.PerImage()
	for i := 0; i < n; i++ {
		oy := pad + (i/cols)*(ih+pad)
		ox := pad + (i%cols)*(iw+pad)
		img := b.Data[i*per : (i+1)*per]
		for y := 0; y < ih; y++ {
			for x := 0; x < iw; x++ {
				for c := 0; c < 3; c++ {
					v := img[c*plane+y*iw+x]
					if v < 0 {
						v = 0
					} else if v > 1 {
						v = 1
					}
					buf[((oy+y)*w+ox+x)*3+c] = byte(v * 255)
				}
			}
		}
	}
	return buf, w, h, nil
}
