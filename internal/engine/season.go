package engine

import "HotelSim/internal/model"

// Advance moves the calendar one season forward.
// Summer -> Winter keeps the round; Winter -> Summer starts the next round.
func Advance(cal model.Calendar) model.Calendar {
	if cal.Season == model.Summer {
		return model.Calendar{Round: cal.Round, Season: model.Winter}
	}
	return model.Calendar{Round: cal.Round + 1, Season: model.Summer}
}
