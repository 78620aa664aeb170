package model

import "time"

// Reading is one acquisition of the three sensor values. Values are whole
// numbers in the unit of the matching Unit constant.
type Reading struct {
	Temperature int
	Pressure    int
	Lux         int
	TakenAt     time.Time
}

// Equal compares the sensor values and ignores TakenAt.
func (r Reading) Equal(o Reading) bool {
	return r.Temperature == o.Temperature && r.Pressure == o.Pressure && r.Lux == o.Lux
}
