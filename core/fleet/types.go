package fleet

import "fmt"

// StationID identifies a base station.
type StationID int

// VehicleID identifies a vehicle.
type VehicleID int

// Kind is the emergency service a station or vehicle belongs to.
type Kind int

const (
	Fire Kind = iota
	Police
	Medical
)

func (k Kind) String() string {
	switch k {
	case Fire:
		return "FIRE_STATION"
	case Police:
		return "POLICE_STATION"
	case Medical:
		return "HOSPITAL"
	default:
		return "unknown"
	}
}

// ParseKind maps a base type name to its Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "FIRE_STATION":
		return Fire, nil
	case "POLICE_STATION":
		return Police, nil
	case "HOSPITAL":
		return Medical, nil
	}
	return 0, fmt.Errorf("fleet: unknown base type %q", s)
}

// VehicleType enumerates the vehicle kinds.
type VehicleType int

const (
	PoliceCar VehicleType = iota
	K9PoliceCar
	PoliceMotorcycle
	FireTruckWater
	FireTruckTechnical
	FireTruckLadder
	FirefighterTransporter
	Ambulance
	EmergencyDoctorCar
)

var vehicleTypeNames = map[VehicleType]string{
	PoliceCar:              "POLICE_CAR",
	K9PoliceCar:            "K9_POLICE_CAR",
	PoliceMotorcycle:       "POLICE_MOTORCYCLE",
	FireTruckWater:         "FIRE_TRUCK_WATER",
	FireTruckTechnical:     "FIRE_TRUCK_TECHNICAL",
	FireTruckLadder:        "FIRE_TRUCK_LADDER",
	FirefighterTransporter: "FIREFIGHTER_TRANSPORTER",
	Ambulance:              "AMBULANCE",
	EmergencyDoctorCar:     "EMERGENCY_DOCTOR_CAR",
}

func (t VehicleType) String() string {
	if s, ok := vehicleTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseVehicleType maps an asset file name to its VehicleType.
func ParseVehicleType(s string) (VehicleType, error) {
	for t, name := range vehicleTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("fleet: unknown vehicle type %q", s)
}

// Kind returns the service operating the vehicle type.
func (t VehicleType) Kind() Kind {
	switch t {
	case PoliceCar, K9PoliceCar, PoliceMotorcycle:
		return Police
	case Ambulance, EmergencyDoctorCar:
		return Medical
	default:
		return Fire
	}
}

// State is the vehicle lifecycle state.
type State int

const (
	Available State = iota
	Allocated
	Dispatched
	Waiting
	Returning
	InPreparation
	Unavailable
)

func (s State) String() string {
	switch s {
	case Available:
		return "AVAILABLE"
	case Allocated:
		return "ALLOCATED"
	case Dispatched:
		return "DISPATCHED"
	case Waiting:
		return "WAITING"
	case Returning:
		return "RETURNING"
	case InPreparation:
		return "IN_PREPARATION"
	case Unavailable:
		return "UNAVAILABLE"
	default:
		return "unknown"
	}
}
