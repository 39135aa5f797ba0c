package topcodes

import "github.com/battesonb/topcodes/bitutil"

// NewRGBADecoder returns a pixel decoder for an interleaved 8-bit RGBA
// buffer (alpha is ignored), suitable for passing to Scan.
func NewRGBADecoder(pix []byte) func(k int) (r, g, b uint32) {
	return func(k int) (uint32, uint32, uint32) {
		o := k * 4
		return uint32(pix[o]), uint32(pix[o+1]), uint32(pix[o+2])
	}
}

// NewRGBDecoder returns a pixel decoder for an interleaved 8-bit RGB
// buffer, suitable for passing to Scan.
func NewRGBDecoder(pix []byte) func(k int) (r, g, b uint32) {
	return func(k int) (uint32, uint32, uint32) {
		o := k * 3
		return uint32(pix[o]), uint32(pix[o+1]), uint32(pix[o+2])
	}
}

// NewGray8Decoder returns a pixel decoder for an 8-bit grayscale buffer,
// suitable for passing to Scan.
func NewGray8Decoder(pix []byte) func(k int) (r, g, b uint32) {
	return func(k int) (uint32, uint32, uint32) {
		v := uint32(pix[k])
		return v, v, v
	}
}

// ScanRGBAU8 scans an interleaved 8-bit RGBA image buffer. Returns
// ErrDimensionMismatch if len(pix) doesn't match the scanner's width,
// height, and 4 channels.
func (s *Scanner) ScanRGBAU8(pix []byte) ([]TopCode, error) {
	if len(pix) != s.width*s.height*4 {
		return nil, ErrDimensionMismatch
	}
	return s.Scan(NewRGBADecoder(pix)), nil
}

// ScanRGBU8 scans an interleaved 8-bit RGB image buffer. Returns
// ErrDimensionMismatch if len(pix) doesn't match the scanner's width,
// height, and 3 channels.
func (s *Scanner) ScanRGBU8(pix []byte) ([]TopCode, error) {
	if len(pix) != s.width*s.height*3 {
		return nil, ErrDimensionMismatch
	}
	return s.Scan(NewRGBDecoder(pix)), nil
}

// ScanGray8 scans an 8-bit grayscale image buffer. Returns
// ErrDimensionMismatch if len(pix) doesn't match the scanner's width times
// height.
func (s *Scanner) ScanGray8(pix []byte) ([]TopCode, error) {
	if len(pix) != s.width*s.height {
		return nil, ErrDimensionMismatch
	}
	return s.Scan(NewGray8Decoder(pix)), nil
}

// BlackMatrix returns a snapshot of the working buffer's binary plane:
// Get(x, y) reports whether pixel (x, y) thresholded to black. Only
// meaningful after Scan has run.
func (s *Scanner) BlackMatrix() *bitutil.BitMatrix {
	m := bitutil.NewBitMatrixWithSize(s.width, s.height)
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			pixel := s.buffer[y*s.width+x]
			if (pixel>>24)&0x01 == 0 {
				m.Set(x, y)
			}
		}
	}
	return m
}
