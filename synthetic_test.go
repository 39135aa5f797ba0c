package topcodes

import (
	"math"

	"github.com/battesonb/topcodes/dictionary"
)

// paintTopCode renders a marker carrying raw's sector pattern into an RGB
// image of the given size, centered at (cx, cy) with the given unit size:
// a white center disk one unit in radius, a black ring out to two units, a
// white ring out to three, and the 13-sector data ring out to four (a
// white sector for each 1 bit, black for each 0), against a white
// background.
func paintTopCode(width, height int, cx, cy, unit float64, raw uint16) []byte {
	pix := make([]byte, width*height*3)
	for i := range pix {
		pix[i] = 255
	}

	setBlack := func(x, y int) {
		if x < 0 || x >= width || y < 0 || y >= height {
			return
		}
		o := (y*width + x) * 3
		pix[o], pix[o+1], pix[o+2] = 0, 0, 0
	}

	centerR := unit
	ringOuter := 2 * unit
	whiteOuter := 3 * unit
	dataOuter := 4 * unit

	minX := int(math.Floor(cx - dataOuter - 2))
	maxX := int(math.Ceil(cx + dataOuter + 2))
	minY := int(math.Floor(cy - dataOuter - 2))
	maxY := int(math.Ceil(cy + dataOuter + 2))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			r := math.Hypot(dx, dy)

			switch {
			case r <= centerR:
				// center stays white
			case r <= ringOuter:
				setBlack(x, y)
			case r <= whiteOuter:
				// white ring
			case r <= dataOuter:
				angle := math.Atan2(dy, dx)
				if angle < 0 {
					angle += 2 * math.Pi
				}
				sector := int(angle/sectorAngle) % dictionary.Sectors
				if (raw>>uint(sector))&1 == 0 {
					setBlack(x, y)
				}
			}
		}
	}

	return pix
}
