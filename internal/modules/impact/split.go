package impact

import "math"

// Revenue shares of the first three recipient categories. The community
// fund has no fixed share: it takes the remainder, so the four parts
// always sum exactly to the booking total.
const (
	homestayShare = 0.50
	guideShare    = 0.25
	foodShare     = 0.15
)

type Breakdown struct {
	Homestay  float64 `json:"homestay"`
	Guide     float64 `json:"guide"`
	Food      float64 `json:"food"`
	Community float64 `json:"community"`
}

// Split divides a booking total between the homestay family, the local
// guide, the food suppliers and the village community fund. The first
// three shares are floored and the community fund absorbs the rounding
// loss. Callers must pass a validated non-negative total.
func Split(total float64) Breakdown {
	homestay := math.Floor(total * homestayShare)
	guide := math.Floor(total * guideShare)
	food := math.Floor(total * foodShare)

	return Breakdown{
		Homestay:  homestay,
		Guide:     guide,
		Food:      food,
		Community: total - homestay - guide - food,
	}
}

// Total re-adds the four parts; it equals the original input for every
// non-negative total.
func (b Breakdown) Total() float64 {
	return b.Homestay + b.Guide + b.Food + b.Community
}
