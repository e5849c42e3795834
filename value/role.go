// Package value defines the telemetry and actuator records exchanged between the topside
// controller and the vehicle.
package value

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Kind is the physical quantity carried by a record.
type Kind uint8

// The known kinds.
const (
	SpeedKind Kind = iota
	PressureKind
	TemperatureKind
	HeartbeatKind

	// UnknownKind is the kind of roles outside the known set.
	UnknownKind Kind = 0xff
)

func (k Kind) String() string {
	switch k {
	case SpeedKind:
		return "speed"
	case PressureKind:
		return "pressure"
	case TemperatureKind:
		return "temperature"
	case HeartbeatKind:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Role names the device or signal a record describes. The bus routes records by role name.
type Role uint8

// The known roles. Power roles carry a speed payload.
const (
	AftCamera Role = iota
	LightA
	Light
	PortAft
	StarboardAft
	StarboardFore
	StarboardVert
	VertAft
	VertFore
	ToolingA
	AftPower
	HeavePower
	PitchPower
	RollPower
	SwayPower
	ExternalPressure
	InternalPressure
	ExternalTemperature
	InternalTemperature
	ArduinoHeartbeat
	PicameraBHeartbeat
	RasprimeHeartbeat
	TopsideHeartbeat
	roleCount
)

type roleInfo struct {
	name string
	kind Kind
}

var roles = [roleCount]roleInfo{
	AftCamera:           {"AftCamera", SpeedKind},
	LightA:              {"LightA", SpeedKind},
	Light:               {"Light", SpeedKind},
	PortAft:             {"PortAft", SpeedKind},
	StarboardAft:        {"StarboardAft", SpeedKind},
	StarboardFore:       {"StarboardFore", SpeedKind},
	StarboardVert:       {"StarboardVert", SpeedKind},
	VertAft:             {"VertAft", SpeedKind},
	VertFore:            {"VertFore", SpeedKind},
	ToolingA:            {"ToolingA", SpeedKind},
	AftPower:            {"AftPower", SpeedKind},
	HeavePower:          {"HeavePower", SpeedKind},
	PitchPower:          {"PitchPower", SpeedKind},
	RollPower:           {"RollPower", SpeedKind},
	SwayPower:           {"SwayPower", SpeedKind},
	ExternalPressure:    {"ExternalPressure", PressureKind},
	InternalPressure:    {"InternalPressure", PressureKind},
	ExternalTemperature: {"ExternalTemperature", TemperatureKind},
	InternalTemperature: {"InternalTemperature", TemperatureKind},
	ArduinoHeartbeat:    {"ArduinoHeartbeat", HeartbeatKind},
	PicameraBHeartbeat:  {"PicameraBHeartbeat", HeartbeatKind},
	RasprimeHeartbeat:   {"RasprimeHeartbeat", HeartbeatKind},
	TopsideHeartbeat:    {"TopsideHeartbeat", HeartbeatKind},
}

var rolesByName = func() map[string]Role {
	byName := make(map[string]Role, roleCount)
	for r := Role(0); r < roleCount; r++ {
		byName[roles[r].name] = r
	}
	return byName
}()

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r < roleCount
}

func (r Role) String() string {
	if !r.Valid() {
		return "Unknown"
	}
	return roles[r].name
}

// Kind returns the quantity records of this role carry.
func (r Role) Kind() Kind {
	if !r.Valid() {
		return UnknownKind
	}
	return roles[r].kind
}

// ParseRole returns the role with the given name.
func ParseRole(name string) (Role, error) {
	r, ok := rolesByName[name]
	if !ok {
		return 0, errors.Errorf("unknown role %q", name)
	}
	return r, nil
}

// Roles returns every role of the given kind, in declaration order.
func Roles(kind Kind) []Role {
	all := make([]Role, 0, roleCount)
	for r := Role(0); r < roleCount; r++ {
		all = append(all, r)
	}
	return lo.Filter(all, func(r Role, _ int) bool {
		return r.Kind() == kind
	})
}

// MarshalText encodes the role as its name.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, errors.Errorf("unknown role %d", r)
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a role name.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
