package ml

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"ganbench/eval"
)

// DecodeRGB returns a decoder that reads an image file, converts it to RGB
// and produces CHW float data in [0, 1], resized to edge×edge when needed.
func DecodeRGB(edge int) eval.Decode {
	return func(path string) ([]float32, error) {
		img := gocv.IMRead(path, gocv.IMReadColor)
		if img.Empty() {
			return nil, fmt.Errorf("ml: cannot read image %s", path)
		}
		defer img.Close()

		rgb := gocv.NewMat()
		defer rgb.Close()
		gocv.CvtColor(img, &rgb, gocv.ColorBGRToRGB)
		sized := gocv.NewMat()
		defer sized.Close()
		src := rgb
		if rgb.Cols() != edge || rgb.Rows() != edge {
			gocv.Resize(rgb, &sized, image.Pt(edge, edge), 0, 0, gocv.InterpolationLinear)
			src = sized
		}

		raw := src.ToBytes() // HWC uint8
		out := make([]float32, 3*edge*edge)
		plane := edge * edge
		for y := 0; y < edge; y++ {
			for x := 0; x < edge; x++ {
				for c := 0; c < 3; c++ {
					out[c*plane+y*edge+x] = float32(raw[(y*edge+x)*3+c]) / 255
				}
			}
		}
		return out, nil
	}
}
