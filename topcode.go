package topcodes

import (
	"math"

	"github.com/battesonb/topcodes/dictionary"
)

// sectorAngle is the angular width, in radians, of one of the 13 ring
// sectors.
const sectorAngle = 2 * math.Pi / dictionary.Sectors

// orientationOffset aligns the reported orientation with the marker's
// drawn sector boundaries, so an unrotated marker reads close to zero.
const orientationOffset = 0.65 * sectorAngle

// TopCode is a single decoded marker: its code identifier, estimated unit
// size (the radial width, in pixels, of one ring at the marker's current
// scale), orientation, center, and an 8-point sample taken across the
// marker's diameter.
type TopCode struct {
	// Code identifies which of the dictionary's canonical patterns this
	// marker carries. Nil if decoding failed.
	Code *int

	// Unit is the estimated pixel width of a single ring.
	Unit float64

	// Orientation is the marker's rotation in radians, normalized to
	// (-Pi, Pi].
	Orientation float64

	// X, Y are the marker's center, in pixel coordinates.
	X, Y float64

	// Core holds 8 samples (0-255) spaced one unit apart across the
	// marker's diameter along the sampling phase. The middle six trace the
	// bullseye's white-black-white ring structure; the two ends land in
	// the data ring.
	Core [8]byte
}

// IsValid reports whether decoding succeeded.
func (t *TopCode) IsValid() bool {
	return t.Code != nil && t.Unit > 0
}

// InBullseye reports whether (px, py) falls within three units of this
// marker's center, as used to reject overlapping candidates during a scan.
func (t *TopCode) InBullseye(px, py float64) bool {
	dx := px - t.X
	dy := py - t.Y
	r := t.Unit * 3
	return dx*dx+dy*dy <= r*r
}

// Equals reports whether two TopCodes carry the same code, geometry, and
// core sample.
func (t *TopCode) Equals(other *TopCode) bool {
	if other == nil {
		return false
	}
	if (t.Code == nil) != (other.Code == nil) {
		return false
	}
	if t.Code != nil && *t.Code != *other.Code {
		return false
	}
	return t.Unit == other.Unit &&
		t.Orientation == other.Orientation &&
		t.X == other.X &&
		t.Y == other.Y &&
		t.Core == other.Core
}

// decode attempts to resolve a full TopCode from a candidate bullseye
// center located at (x, y) in s. On failure t is left with a nil Code and
// IsValid reports false.
//
// A candidate sits in the white center of the bullseye. The steps are:
// pull the candidate onto the true center using the black ring around it,
// measure the unit size from the ring's outer edge, verify the concentric
// ring structure, search for the data ring's rotational phase, sample the
// 13 sectors into a raw bit pattern, and look the pattern up in the
// canonical dictionary.
func (t *TopCode) decode(s *Scanner, x, y int) {
	up, okU := s.tripleRay(x, y, 0, -1)
	down, okD := s.tripleRay(x, y, 0, 1)
	left, okL := s.tripleRay(x, y, -1, 0)
	right, okR := s.tripleRay(x, y, 1, 0)
	if !okU || !okD || !okL || !okR {
		return
	}

	// Each direction summed three rays, so the asymmetry is divided by six
	// to get the midpoint correction.
	cx := float64(x) + float64(right-left)/6.0
	cy := float64(y) + float64(down-up)/6.0

	unit := s.readUnit(cx, cy)
	if unit <= 0 {
		return
	}

	// The horizontal and vertical extents of the white center should
	// roughly agree; a large mismatch means the candidate wasn't actually
	// inside a bullseye.
	dh := float64(left+right) / 3.0
	dv := float64(up+down) / 3.0
	if math.Abs(dh-dv) > unit {
		return
	}

	if !s.checkRings(cx, cy, unit) {
		return
	}

	theta := s.findOrientation(cx, cy, unit)

	var raw uint16
	for i := 0; i < dictionary.Sectors; i++ {
		if s.diameterSample(cx, cy, unit, theta+float64(i)*sectorAngle, 7) > 128 {
			raw |= 1 << uint(i)
		}
	}

	code, rotation, ok := dictionary.Lookup(raw)
	if !ok {
		return
	}

	t.Code = &code
	t.Unit = unit
	t.Orientation = normalizeAngle(theta + float64(rotation)*sectorAngle - orientationOffset)
	t.X = cx
	t.Y = cy
	for i := range t.Core {
		t.Core[i] = byte(s.diameterSample(cx, cy, unit, theta, i))
	}
}

// tripleRay casts three parallel rays from (x, y) in direction (dx, dy),
// offset one pixel apart perpendicular to the ray, and returns the sum of
// their distances to the next color change. ok is false if any ray left
// the image without seeing a change.
func (s *Scanner) tripleRay(x, y, dx, dy int) (int, bool) {
	sum := 0
	for o := -1; o <= 1; o++ {
		d := s.dist(x+o*dy, y+o*dx, dx, dy)
		if d < 0 {
			return 0, false
		}
		sum += d
	}
	return sum, true
}

// readUnit measures the unit size by walking outward from the refined
// center along all four cardinal directions at once, until each direction
// has crossed the black ring and come out white on its far side. That
// outer edge sits two units from the center, so the four distances sum to
// eight units. Returns -1 if any direction leaves the image first.
func (s *Scanner) readUnit(cx, cy float64) float64 {
	sx := int(cx)
	sy := int(cy)

	var distL, distR, distU, distD int
	var blackL, blackR, blackU, blackD bool

	for i := 1; ; i++ {
		if sx-i < 1 || sx+i >= s.width-1 || sy-i < 1 || sy+i >= s.height-1 {
			return -1
		}

		if distL == 0 {
			if s.getBW3x3(sx-i, sy) == 0 {
				blackL = true
			} else if blackL {
				distL = i
			}
		}
		if distR == 0 {
			if s.getBW3x3(sx+i, sy) == 0 {
				blackR = true
			} else if blackR {
				distR = i
			}
		}
		if distU == 0 {
			if s.getBW3x3(sx, sy-i) == 0 {
				blackU = true
			} else if blackU {
				distU = i
			}
		}
		if distD == 0 {
			if s.getBW3x3(sx, sy+i) == 0 {
				blackD = true
			} else if blackD {
				distD = i
			}
		}

		if distL > 0 && distR > 0 && distU > 0 && distD > 0 {
			return float64(distL+distR+distU+distD) / 8.0
		}
	}
}

// diameterSample reads the 3x3 average at position i of the 8 sample
// positions spaced one unit apart across the symbol's diameter along the
// given direction. Position 0 sits in the data ring on the far side of the
// center, position 7 in the data ring on the near side.
func (s *Scanner) diameterSample(cx, cy, unit, angle float64, i int) int {
	d := (float64(i) - 3.5) * unit
	sx := int(math.Round(cx + d*math.Cos(angle)))
	sy := int(math.Round(cy + d*math.Sin(angle)))
	return s.getSample3x3(sx, sy)
}

// checkRings verifies the bullseye structure around (cx, cy): along every
// sector direction, the samples half a unit out from the center must be
// white, the samples in the black ring black, and the samples in the white
// ring beyond it white again. A refined center that landed on something
// round but not concentric fails here.
func (s *Scanner) checkRings(cx, cy, unit float64) bool {
	for i := 0; i < dictionary.Sectors; i++ {
		angle := float64(i) * sectorAngle
		for j := 1; j <= 6; j++ {
			sample := s.diameterSample(cx, cy, unit, angle, j)
			if j == 2 || j == 5 {
				if sample >= 128 {
					return false
				}
			} else if sample <= 128 {
				return false
			}
		}
	}
	return true
}

// findOrientation locates the data ring's rotational phase. A coarse pass
// scores the 13 sector-aligned phases by white-minus-black contrast; the
// winner seeds a fine sweep across one full sector width, scored by how
// solidly each data sample lands inside a sector rather than straddling a
// boundary. Clean images produce a plateau of equally good fine phases,
// which resolves to its midpoint.
func (s *Scanner) findOrientation(cx, cy, unit float64) float64 {
	bestTheta := 0.0
	bestScore := math.MinInt32
	for k := 0; k < dictionary.Sectors; k++ {
		theta := float64(k) * sectorAngle
		if score := s.ringContrast(cx, cy, unit, theta); score > bestScore {
			bestScore = score
			bestTheta = theta
		}
	}

	const fineSteps = 20
	step := sectorAngle / fineSteps
	bestConfidence := -1
	first, last := 0, 0
	for i := 0; i < fineSteps; i++ {
		theta := bestTheta + float64(i)*step
		c := s.ringConfidence(cx, cy, unit, theta)
		if c > bestConfidence {
			bestConfidence = c
			first, last = i, i
		} else if c == bestConfidence {
			last = i
		}
	}

	return bestTheta + float64(first+last)/2*step
}

// ringContrast counts, signed, how many of the 13 data sectors sampled at
// phase theta read white minus how many read black.
func (s *Scanner) ringContrast(cx, cy, unit, theta float64) int {
	score := 0
	for i := 0; i < dictionary.Sectors; i++ {
		if s.diameterSample(cx, cy, unit, theta+float64(i)*sectorAngle, 7) > 128 {
			score++
		} else {
			score--
		}
	}
	return score
}

// ringConfidence sums how far each of the 13 data samples at phase theta
// sits from the mid-gray ambiguity point: a higher total means the phase
// is landing on sector centers rather than sector boundaries.
func (s *Scanner) ringConfidence(cx, cy, unit, theta float64) int {
	sum := 0
	for i := 0; i < dictionary.Sectors; i++ {
		sample := s.diameterSample(cx, cy, unit, theta+float64(i)*sectorAngle, 7)
		sum += absInt(sample - 128)
	}
	return sum
}

// normalizeAngle reduces theta into (-Pi, Pi].
func normalizeAngle(theta float64) float64 {
	for theta <= -math.Pi {
		theta += 2 * math.Pi
	}
	for theta > math.Pi {
		theta -= 2 * math.Pi
	}
	return theta
}
