// Package topcodes detects and decodes TopCode bullseye fiducial markers in
// an image: a dark bullseye (a black ring around a white center) wrapped in
// a data ring of 13 black or white sectors.
//
// A Scanner owns a single adaptively-thresholded working buffer sized to one
// image. Construct one per image (or reuse across same-sized frames) and
// call Scan, or one of the ScanRGBAU8/ScanRGBU8/ScanGray8 convenience
// wrappers, to get back every marker found.
package topcodes

import "math"

// defaultMaxUnit bounds how many pixels wide a single ring sector may be
// before a run of black/white pixels is rejected as too large to be a
// TopCode. It corresponds to a maximum code diameter of roughly 640px.
const defaultMaxUnit = 80

// windowSize is the number of pixels the adaptive threshold averages over.
const windowSize = 32

// thresholdFactor biases the adaptive threshold slightly toward "white": a
// pixel binarizes black only when it is more than 2.5% darker than the
// local threshold.
const thresholdFactor = 0.975

// Scanner holds the adaptive-threshold working buffer for one image and
// performs TopCode detection over it.
//
// Each buffer entry packs two values for pixel k: bit 24 is the
// thresholded binary value (1 = white, 0 = black) and the low 24 bits are
// the running exponential sum used to compute that pixel's threshold. The
// sum is kept in place so the row below can read its upstairs neighbor's
// sum without a second pass over the image.
type Scanner struct {
	width, height int
	buffer        []uint32
	maxUnit       int
}

// NewScanner allocates a Scanner for an image of the given dimensions.
func NewScanner(width, height int) *Scanner {
	return &Scanner{
		width:   width,
		height:  height,
		buffer:  make([]uint32, width*height),
		maxUnit: defaultMaxUnit,
	}
}

// Width returns the image width the Scanner was constructed with.
func (s *Scanner) Width() int { return s.width }

// Height returns the image height the Scanner was constructed with.
func (s *Scanner) Height() int { return s.height }

// SetMaxCodeDiameter bounds detection to markers no larger than diameter
// pixels across, by deriving the maximum allowed ring-sector run length
// from it. Returns ErrInvalidDiameter if diameter is not positive.
func (s *Scanner) SetMaxCodeDiameter(diameter int) error {
	if diameter <= 0 {
		return ErrInvalidDiameter
	}
	s.maxUnit = int(math.Ceil(float64(diameter) / 8.0))
	return nil
}

// Scan performs a full detection pass: it thresholds the image by reading
// each pixel's RGB channels through decodeRGB (indexed by row-major pixel
// position), flags candidate marker centers along the way, then attempts to
// decode each candidate into a TopCode. Overlapping candidates (those
// falling inside an already-decoded marker's bullseye) are skipped. Returns
// every marker successfully decoded, in the order their centers were found.
func (s *Scanner) Scan(decodeRGB func(k int) (r, g, b uint32)) []TopCode {
	candidates := s.threshold(decodeRGB)
	return s.findCodes(candidates)
}

// ringState tracks progress through the black/white/black run pattern a
// scanline sees crossing a bullseye's middle: the black ring on one side,
// the white center, and the black ring again on the other side.
type ringState int

const (
	ringWhite ringState = iota
	ringBlack
	ringWhite2
	ringBlack2
)

// threshold performs the single boustrophedon sweep that both binarizes the
// image into s.buffer and flags bullseye cross-section candidates along
// each scanline.
func (s *Scanner) threshold(decodeRGB func(int) (uint32, uint32, uint32)) []Candidate {
	candidates := make([]Candidate, 0, 50)
	sum := 128

	for j := 0; j < s.height; j++ {
		level := ringWhite
		var b1, w1, b2 int

		var k int
		if j%2 == 0 {
			k = j * s.width
		} else {
			k = j*s.width + s.width - 1
		}

		for i := 0; i < s.width; i++ {
			r, g, b := decodeRGB(k)
			a := int(r+g+b) / 3

			sum += a - sum/windowSize

			var thresh int
			if k >= s.width {
				thresh = (sum + int(s.buffer[k-s.width]&0xFFFFFF)) / (2 * windowSize)
			} else {
				thresh = sum / windowSize
			}

			bit := 0
			if float64(a) >= float64(thresh)*thresholdFactor {
				bit = 1
			}

			s.buffer[k] = uint32(bit<<24) | (uint32(sum) & 0xFFFFFF)

			switch level {
			case ringWhite:
				if bit == 0 {
					level = ringBlack
					b1, w1, b2 = 1, 0, 0
				}
			case ringBlack:
				if bit == 0 {
					b1++
				} else {
					level = ringWhite2
					w1 = 1
				}
			case ringWhite2:
				if bit == 0 {
					level = ringBlack2
					b2 = 1
				} else {
					w1++
				}
			case ringBlack2:
				if bit == 0 {
					b2++
				} else {
					maxU := s.maxUnit
					if b1 >= 2 && b2 >= 2 && b1 <= maxU && b2 <= maxU && w1 <= 2*maxU &&
						absInt(b1+b2-w1) <= b1+b2 && absInt(b1+b2-w1) <= w1 &&
						absInt(b1-b2) <= b1 && absInt(b1-b2) <= b2 {
						dk := 1 + b2 + w1>>1
						var ck int
						if j%2 == 0 {
							ck = k - dk
						} else {
							ck = k + dk
						}
						// ck % s.width is not forced positive or clamped to
						// the row. The run counters restart on every row, so
						// ck always points back into the b1/w1/b2 runs of
						// row j and the modulo yields its x coordinate.
						candidates = append(candidates, Candidate{X: ck % s.width, Y: j})
					}
					b1 = b2
					w1 = 1
					b2 = 0
					level = ringWhite2
				}
			}

			if j%2 == 0 {
				k++
			} else {
				k--
			}
		}
	}

	return candidates
}

// findCodes attempts to decode each candidate center, skipping any that
// fall within a bullseye already claimed by a previously decoded marker.
func (s *Scanner) findCodes(candidates []Candidate) []TopCode {
	found := make([]TopCode, 0, len(candidates))

	for _, c := range candidates {
		overlaps := false
		for i := range found {
			if found[i].InBullseye(float64(c.X), float64(c.Y)) {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}

		var t TopCode
		t.decode(s, c.X, c.Y)
		if t.IsValid() {
			found = append(found, t)
		}
	}

	return found
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
