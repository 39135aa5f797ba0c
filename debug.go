package topcodes

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// DumpThreshold writes the working buffer's binary plane as an 8-bit
// grayscale PNG to path, for visually inspecting a threshold pass.
func (s *Scanner) DumpThreshold(path string) error {
	img := image.NewGray(image.Rect(0, 0, s.width, s.height))
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			pixel := s.buffer[y*s.width+x]
			// (pixel>>24) is always 0 or 1, so the truncating cast is lossless.
			a := byte((pixel >> 24) * 0xFF)
			img.SetGray(x, y, color.Gray{Y: a})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
