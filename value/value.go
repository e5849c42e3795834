package value

import "github.com/pkg/errors"

// ErrRoleKind is returned when a record is built for a role of a different kind.
var ErrRoleKind = errors.New("role does not carry this kind of value")

// Payload is the set of types a single-field record can carry.
type Payload interface {
	float32 | bool
}

// Value is a single-field record tagged with the role it describes. Values are comparable
// with ==; the zero Value of a role is that role with a zero payload.
type Value[T Payload] struct {
	Role    Role `json:"role"`
	Payload T    `json:"payload"`
}

// Speed returns a speed (or power) record.
func Speed(role Role, speed float32) (Value[float32], error) {
	return newValue(SpeedKind, role, speed)
}

// Pressure returns a pressure record.
func Pressure(role Role, pressure float32) (Value[float32], error) {
	return newValue(PressureKind, role, pressure)
}

// Temperature returns a temperature record.
func Temperature(role Role, temperature float32) (Value[float32], error) {
	return newValue(TemperatureKind, role, temperature)
}

// Heartbeat returns a heartbeat record.
func Heartbeat(role Role, operational bool) (Value[bool], error) {
	return newValue(HeartbeatKind, role, operational)
}

func newValue[T Payload](kind Kind, role Role, payload T) (Value[T], error) {
	if role.Kind() != kind {
		return Value[T]{}, errors.Wrapf(ErrRoleKind, "%s is a %s role, not %s", role, role.Kind(), kind)
	}
	return Value[T]{Role: role, Payload: payload}, nil
}

// Zero returns the default record of a role. It does not check the payload type against the
// role's kind.
func Zero[T Payload](role Role) Value[T] {
	return Value[T]{Role: role}
}

// With returns a copy of the record carrying payload.
func (v Value[T]) With(payload T) Value[T] {
	v.Payload = payload
	return v
}

// Kind returns the kind of the record's role.
func (v Value[T]) Kind() Kind {
	return v.Role.Kind()
}

// Topic returns the name the record is routed by.
func (v Value[T]) Topic() string {
	return v.Role.String()
}
