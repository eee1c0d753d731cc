package requirement

import (
	"fmt"

	"github.com/kilianp07/emsim/core/fleet"
)

// Type is the kind of an emergency call.
type Type int

const (
	Fire Type = iota
	Accident
	Crime
	Medical
)

func (t Type) String() string {
	switch t {
	case Fire:
		return "FIRE"
	case Accident:
		return "ACCIDENT"
	case Crime:
		return "CRIME"
	case Medical:
		return "MEDICAL"
	default:
		return "unknown"
	}
}

// ParseType maps an emergency type name to its Type.
func ParseType(s string) (Type, error) {
	for _, t := range []Type{Fire, Accident, Crime, Medical} {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("requirement: unknown emergency type %q", s)
}

// Service returns the station kind responsible for incidents of type t.
func (t Type) Service() fleet.Kind {
	switch t {
	case Crime:
		return fleet.Police
	case Medical:
		return fleet.Medical
	default:
		return fleet.Fire
	}
}

// Severity ranks incidents, higher is more urgent.
type Severity int

const (
	Low    Severity = 1
	Medium Severity = 2
	High   Severity = 3
)

type entry struct {
	police, fire, medical        []fleet.VehicleType
	ladder, crim, patient, water int
}

func n(t fleet.VehicleType, k int) []fleet.VehicleType {
	out := make([]fleet.VehicleType, k)
	for i := range out {
		out[i] = t
	}
	return out
}

func cat(parts ...[]fleet.VehicleType) []fleet.VehicleType {
	var out []fleet.VehicleType
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var table = map[Type]map[Severity]entry{
	Fire: {
		Low: {fire: n(fleet.FireTruckWater, 2), water: 1200},
		Medium: {
			fire:    cat(n(fleet.FireTruckWater, 4), n(fleet.FireTruckLadder, 1), n(fleet.FirefighterTransporter, 1)),
			medical: n(fleet.Ambulance, 1),
			ladder:  30, patient: 1, water: 3000,
		},
		High: {
			fire:    cat(n(fleet.FireTruckWater, 6), n(fleet.FireTruckLadder, 2), n(fleet.FirefighterTransporter, 2)),
			medical: cat(n(fleet.Ambulance, 2), n(fleet.EmergencyDoctorCar, 1)),
			ladder:  40, patient: 2, water: 5400,
		},
	},
	Accident: {
		Low: {fire: n(fleet.FireTruckTechnical, 1)},
		Medium: {
			police:  cat(n(fleet.PoliceMotorcycle, 1), n(fleet.PoliceCar, 1)),
			fire:    n(fleet.FireTruckTechnical, 2),
			medical: n(fleet.Ambulance, 1),
			patient: 1,
		},
		High: {
			police:  cat(n(fleet.PoliceMotorcycle, 2), n(fleet.PoliceCar, 4)),
			fire:    n(fleet.FireTruckTechnical, 4),
			medical: cat(n(fleet.Ambulance, 3), n(fleet.EmergencyDoctorCar, 1)),
			patient: 2,
		},
	},
	Crime: {
		Low: {police: n(fleet.PoliceCar, 1), crim: 1},
		Medium: {
			police:  cat(n(fleet.PoliceCar, 4), n(fleet.K9PoliceCar, 1)),
			medical: n(fleet.Ambulance, 1),
			crim:    4,
		},
		High: {
			police:  cat(n(fleet.PoliceCar, 6), n(fleet.PoliceMotorcycle, 2), n(fleet.K9PoliceCar, 2)),
			fire:    n(fleet.FirefighterTransporter, 1),
			medical: n(fleet.Ambulance, 2),
			crim:    8, patient: 1,
		},
	},
	Medical: {
		Low:    {medical: n(fleet.Ambulance, 1)},
		Medium: {medical: cat(n(fleet.Ambulance, 2), n(fleet.EmergencyDoctorCar, 1)), patient: 2},
		High: {
			fire:    n(fleet.FireTruckTechnical, 2),
			medical: cat(n(fleet.Ambulance, 5), n(fleet.EmergencyDoctorCar, 2)),
			patient: 5,
		},
	},
}

// ForEmergency builds the requirement of an (type, severity) pair.
func ForEmergency(t Type, s Severity) (*Requirement, error) {
	bySeverity, ok := table[t]
	if !ok {
		return nil, fmt.Errorf("requirement: unknown emergency type %d", t)
	}
	e, ok := bySeverity[s]
	if !ok {
		return nil, fmt.Errorf("requirement: severity %d out of range", s)
	}
	return New(e.police, e.fire, e.medical, e.ladder, e.crim, e.patient, e.water), nil
}
