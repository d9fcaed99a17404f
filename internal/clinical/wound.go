package clinical

import "github.com/homechart/homechart/internal/platform/store"

// WATScore computes the simplified wound assessment severity score
// (0-5, lower is better) from the current measurements and
// characteristics:
//
//	+1 length over 5 cm
//	+1 depth over 0.5 cm
//	+1 drainage present (anything but "None")
//	+2 signs of infection
func WATScore(m store.WoundMeasurements, c store.WoundCharacteristics) int {
	score := 0
	if m.LengthCm > 5 {
		score++
	}
	if m.DepthCm > 0.5 {
		score++
	}
	if c.Drainage != "" && c.Drainage != "None" {
		score++
	}
	if c.InfectionSigns {
		score += 2
	}
	return score
}
