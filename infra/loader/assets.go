package loader

import (
	"github.com/kilianp07/emsim/core/fleet"
	"github.com/kilianp07/emsim/core/network"
)

type baseDoc struct {
	ID       int    `json:"id"`
	Location int    `json:"location"`
	Staff    int    `json:"staff"`
	BaseType string `json:"baseType"`
	Dogs     int    `json:"dogs"`
	Doctors  int    `json:"doctors"`
}

type vehicleDoc struct {
	ID               int    `json:"id"`
	BaseID           int    `json:"baseID"`
	VehicleType      string `json:"vehicleType"`
	VehicleHeight    int    `json:"vehicleHeight"`
	StaffCapacity    int    `json:"staffCapacity"`
	CriminalCapacity int    `json:"criminalCapacity"`
	WaterCapacity    int    `json:"waterCapacity"`
	LadderLength     int    `json:"ladderLength"`
}

// ParseAssets reads the stations and vehicles placed on county.
func ParseAssets(data []byte, county *network.County) (*fleet.Roster, error) {
	doc, err := document(data)
	if err != nil {
		return nil, err
	}
	bases, err := objects(doc, "bases", "bases", "vehicles")
	if err != nil {
		return nil, err
	}
	vehicles, err := objects(doc, "vehicles", "bases", "vehicles")
	if err != nil {
		return nil, err
	}
	roster := fleet.NewRoster()
	for _, obj := range bases {
		s, err := station(obj, county)
		if err != nil {
			return nil, err
		}
		if err := roster.AddStation(s); err != nil {
			return nil, invalid("assets: %v", err)
		}
	}
	if err := checkAllKinds(roster); err != nil {
		return nil, err
	}
	for _, obj := range vehicles {
		v, err := vehicle(obj, roster)
		if err != nil {
			return nil, err
		}
		if err := roster.AddVehicle(v); err != nil {
			return nil, invalid("assets: %v", err)
		}
	}
	if err := checkEveryStationEquipped(roster); err != nil {
		return nil, err
	}
	return roster, nil
}

func station(obj map[string]any, county *network.County) (*fleet.Station, error) {
	kind, err := fleet.ParseKind(stringField(obj, "baseType"))
	if err != nil {
		return nil, invalid("assets: %v", err)
	}
	if err := fields(obj, []string{"id", "location", "staff", "baseType"}, map[string]bool{
		"dogs":    kind == fleet.Police,
		"doctors": kind == fleet.Medical,
	}); err != nil {
		return nil, err
	}
	var d baseDoc
	if err := decode(obj, &d); err != nil {
		return nil, err
	}
	if d.ID < 0 || d.Staff < 0 || d.Dogs < 0 || d.Doctors < 0 {
		return nil, invalid("assets: station %d has negative counts", d.ID)
	}
	if _, err := county.Vertex(network.VertexID(d.Location)); err != nil {
		return nil, invalid("assets: station %d: %v", d.ID, err)
	}
	return &fleet.Station{
		ID:      fleet.StationID(d.ID),
		Kind:    kind,
		Vertex:  network.VertexID(d.Location),
		Staff:   d.Staff,
		Dogs:    d.Dogs,
		Doctors: d.Doctors,
	}, nil
}

func vehicle(obj map[string]any, roster *fleet.Roster) (*fleet.Vehicle, error) {
	t, err := fleet.ParseVehicleType(stringField(obj, "vehicleType"))
	if err != nil {
		return nil, invalid("assets: %v", err)
	}
	if err := fields(obj, []string{"id", "baseID", "vehicleType", "vehicleHeight", "staffCapacity"}, map[string]bool{
		"criminalCapacity": t == fleet.PoliceCar,
		"waterCapacity":    t == fleet.FireTruckWater,
		"ladderLength":     t == fleet.FireTruckLadder,
	}); err != nil {
		return nil, err
	}
	var d vehicleDoc
	if err := decode(obj, &d); err != nil {
		return nil, err
	}
	if d.ID < 0 || d.VehicleHeight < 1 || d.StaffCapacity < 1 {
		return nil, invalid("assets: vehicle %d has invalid height or staff", d.ID)
	}
	if d.CriminalCapacity < 0 || d.WaterCapacity < 0 || d.LadderLength < 0 {
		return nil, invalid("assets: vehicle %d has negative capacity", d.ID)
	}
	v := fleet.NewVehicle(fleet.VehicleID(d.ID), t, fleet.StationID(d.BaseID), d.StaffCapacity, d.VehicleHeight).
		WithWater(d.WaterCapacity).
		WithLadder(d.LadderLength).
		WithCriminalCapacity(d.CriminalCapacity)
	if err := checkBase(v, roster); err != nil {
		return nil, err
	}
	return v, nil
}

// checkBase verifies that the owning station exists, serves the vehicle's
// kind and can crew it.
func checkBase(v *fleet.Vehicle, roster *fleet.Roster) error {
	s, err := roster.Station(v.Station)
	if err != nil {
		return invalid("assets: vehicle %d: %v", v.ID, err)
	}
	if s.Kind != v.Type.Kind() {
		return invalid("assets: vehicle %d (%s) cannot belong to %s %d", v.ID, v.Type, s.Kind, s.ID)
	}
	if v.Type == fleet.K9PoliceCar && s.Dogs <= 0 {
		return invalid("assets: vehicle %d needs a station with dogs", v.ID)
	}
	if v.Type == fleet.EmergencyDoctorCar && s.Doctors <= 0 {
		return invalid("assets: vehicle %d needs a station with doctors", v.ID)
	}
	if s.Staff < v.Staff {
		return invalid("assets: station %d cannot staff vehicle %d", s.ID, v.ID)
	}
	return nil
}

func checkAllKinds(roster *fleet.Roster) error {
	for _, k := range []fleet.Kind{fleet.Fire, fleet.Police, fleet.Medical} {
		if len(roster.StationsOfKind(k)) == 0 {
			return invalid("assets: no %s", k)
		}
	}
	return nil
}

func checkEveryStationEquipped(roster *fleet.Roster) error {
	for _, s := range roster.Stations() {
		if len(s.Vehicles()) == 0 {
			return invalid("assets: station %d owns no vehicle", s.ID)
		}
	}
	return nil
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}
