package value_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.eer.dev/rov/value"
)

func TestConstructors(t *testing.T) {
	speed, err := value.Speed(value.PortAft, 0.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, speed, test.ShouldResemble, value.Value[float32]{Role: value.PortAft, Payload: 0.5})
	test.That(t, speed.Topic(), test.ShouldEqual, "PortAft")
	test.That(t, speed.Kind(), test.ShouldEqual, value.SpeedKind)

	power, err := value.Speed(value.HeavePower, 0.25)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, power.Payload, test.ShouldEqual, float32(0.25))

	pressure, err := value.Pressure(value.ExternalPressure, 101.3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pressure.Topic(), test.ShouldEqual, "ExternalPressure")

	temperature, err := value.Temperature(value.InternalTemperature, 31.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, temperature.Kind(), test.ShouldEqual, value.TemperatureKind)

	heartbeat, err := value.Heartbeat(value.TopsideHeartbeat, true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, heartbeat.Payload, test.ShouldBeTrue)

	_, err = value.Speed(value.InternalPressure, 1)
	test.That(t, errors.Is(err, value.ErrRoleKind), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "InternalPressure is a pressure role, not speed")

	_, err = value.Heartbeat(value.LightA, true)
	test.That(t, errors.Is(err, value.ErrRoleKind), test.ShouldBeTrue)
}

func TestValueEquality(t *testing.T) {
	a, err := value.Speed(value.LightA, 0.75)
	test.That(t, err, test.ShouldBeNil)
	b, err := value.Speed(value.LightA, 0.75)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, a == b, test.ShouldBeTrue)

	test.That(t, a == a.With(0.5), test.ShouldBeFalse)
	test.That(t, a.With(0.5).Payload, test.ShouldEqual, float32(0.5))
	test.That(t, a.Payload, test.ShouldEqual, float32(0.75))

	other, err := value.Speed(value.Light, 0.75)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, a == other, test.ShouldBeFalse)
}

func TestZero(t *testing.T) {
	zero := value.Zero[bool](value.ArduinoHeartbeat)
	test.That(t, zero.Payload, test.ShouldBeFalse)
	test.That(t, zero.Topic(), test.ShouldEqual, "ArduinoHeartbeat")

	speed := value.Zero[float32](value.VertFore)
	test.That(t, speed.Payload, test.ShouldEqual, float32(0))
}

func TestRoles(t *testing.T) {
	test.That(t, value.Roles(value.PressureKind), test.ShouldResemble,
		[]value.Role{value.ExternalPressure, value.InternalPressure})
	test.That(t, value.Roles(value.HeartbeatKind), test.ShouldResemble, []value.Role{
		value.ArduinoHeartbeat, value.PicameraBHeartbeat, value.RasprimeHeartbeat, value.TopsideHeartbeat,
	})
	test.That(t, len(value.Roles(value.SpeedKind)), test.ShouldEqual, 15)
	test.That(t, value.Roles(value.UnknownKind), test.ShouldBeEmpty)

	for _, kind := range []value.Kind{value.SpeedKind, value.PressureKind, value.TemperatureKind, value.HeartbeatKind} {
		for _, role := range value.Roles(kind) {
			parsed, err := value.ParseRole(role.String())
			test.That(t, err, test.ShouldBeNil)
			test.That(t, parsed, test.ShouldEqual, role)
		}
	}

	_, err := value.ParseRole("Thruster9")
	test.That(t, err, test.ShouldNotBeNil)

	unknown := value.Role(200)
	test.That(t, unknown.Valid(), test.ShouldBeFalse)
	test.That(t, unknown.String(), test.ShouldEqual, "Unknown")
	test.That(t, unknown.Kind(), test.ShouldEqual, value.UnknownKind)
	test.That(t, unknown.Kind().String(), test.ShouldEqual, "unknown")
}

func TestValueJSON(t *testing.T) {
	heartbeat, err := value.Heartbeat(value.RasprimeHeartbeat, true)
	test.That(t, err, test.ShouldBeNil)

	data, err := json.Marshal(heartbeat)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldEqual, `{"role":"RasprimeHeartbeat","payload":true}`)

	var decoded value.Value[bool]
	test.That(t, json.Unmarshal(data, &decoded), test.ShouldBeNil)
	test.That(t, decoded == heartbeat, test.ShouldBeTrue)

	err = json.Unmarshal([]byte(`{"role":"Nope","payload":true}`), &decoded)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = json.Marshal(value.Zero[bool](value.Role(99)))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRecords(t *testing.T) {
	named := value.Named{Name: "thruster"}
	faster := named.SetSpeed(0.4)
	test.That(t, named.Speed, test.ShouldEqual, float32(0))
	test.That(t, faster, test.ShouldResemble, value.Named{Name: "thruster", Speed: 0.4})

	test.That(t, value.Motion{} == value.Motion{}, test.ShouldBeTrue)
	test.That(t, value.Motion{Yaw: 1} == value.Motion{}, test.ShouldBeFalse)
	test.That(t, value.MotionPower{}.Global, test.ShouldEqual, float32(0))

	precision := value.DefaultPrecisionPower()
	if diff := cmp.Diff(value.PrecisionPower{
		Power: 1, Heave: true, Sway: true, Surge: true, Pitch: true, Yaw: true, Roll: true,
	}, precision); diff != "" {
		t.Errorf("unexpected default precision power (-want +got):\n%s", diff)
	}

	cpu := value.CPU{Frequency: 1200000000, Temperature: 48.2, Voltage: 1.2}
	data, err := json.Marshal(cpu)
	test.That(t, err, test.ShouldBeNil)
	var decoded value.CPU
	test.That(t, json.Unmarshal(data, &decoded), test.ShouldBeNil)
	if diff := cmp.Diff(cpu, decoded); diff != "" {
		t.Errorf("cpu round trip mismatch (-want +got):\n%s", diff)
	}
}
