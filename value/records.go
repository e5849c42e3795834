package value

// Named is a speed record addressed by an arbitrary name instead of a role.
type Named struct {
	Name  string  `json:"name"`
	Speed float32 `json:"speed"`
}

// SetSpeed returns a copy of the record with a new speed.
func (n Named) SetSpeed(speed float32) Named {
	n.Speed = speed
	return n
}

// Motion is a requested vehicle motion along each axis.
type Motion struct {
	Heave float32 `json:"heave"`
	Sway  float32 `json:"sway"`
	Surge float32 `json:"surge"`
	Pitch float32 `json:"pitch"`
	Yaw   float32 `json:"yaw"`
	Roll  float32 `json:"roll"`
}

// MotionPower scales the thrust available along each axis, with Global applying to all.
type MotionPower struct {
	Global float32 `json:"global"`
	Heave  float32 `json:"heave"`
	Sway   float32 `json:"sway"`
	Surge  float32 `json:"surge"`
	Pitch  float32 `json:"pitch"`
	Yaw    float32 `json:"yaw"`
	Roll   float32 `json:"roll"`
}

// PrecisionPower limits thrust on the enabled axes to Power.
type PrecisionPower struct {
	Power float32 `json:"power"`
	Heave bool    `json:"heave"`
	Sway  bool    `json:"sway"`
	Surge bool    `json:"surge"`
	Pitch bool    `json:"pitch"`
	Yaw   bool    `json:"yaw"`
	Roll  bool    `json:"roll"`
}

// DefaultPrecisionPower is full power on every axis.
func DefaultPrecisionPower() PrecisionPower {
	return PrecisionPower{
		Power: 1,
		Heave: true,
		Sway:  true,
		Surge: true,
		Pitch: true,
		Yaw:   true,
		Roll:  true,
	}
}

// CPU reports the state of an onboard processor.
type CPU struct {
	Frequency   int64   `json:"frequency"`
	Temperature float32 `json:"temperature"`
	Voltage     float32 `json:"voltage"`
}
