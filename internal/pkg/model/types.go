package model

import "github.com/samber/lo"

// StatusKind selects which status icon on the display is updated.
type StatusKind int

const (
	StatusWifi StatusKind = 0
	StatusMQTT StatusKind = 1
)

var StatusKinds = []StatusKind{
	StatusWifi,
	StatusMQTT,
}

func (k StatusKind) String() string {
	switch k {
	case StatusWifi:
		return "wifi"
	case StatusMQTT:
		return "mqtt"
	}
	return "unknown"
}

func (k StatusKind) Valid() bool {
	return lo.Contains(StatusKinds, k)
}

// StatusValue is the state shown by a status icon. There is no error or
// disconnected variant, a lost link goes back to connecting.
type StatusValue int

const (
	StatusConnecting StatusValue = 0
	StatusConnected  StatusValue = 1
)

var StatusValues = []StatusValue{
	StatusConnecting,
	StatusConnected,
}

func (v StatusValue) String() string {
	switch v {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	}
	return "unknown"
}

func (v StatusValue) Valid() bool {
	return lo.Contains(StatusValues, v)
}

type Unit string

const (
	UnitDegreeC     Unit = "°C"
	UnitHectoPascal Unit = "hPa"
	UnitLux         Unit = "lx"
)

func (u Unit) String() string {
	return string(u)
}
