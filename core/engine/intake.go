package engine

import (
	"github.com/kilianp07/emsim/core/disruption"
	"github.com/kilianp07/emsim/core/events"
	"github.com/kilianp07/emsim/core/incident"
)

// intake assigns the incidents reported this tick to their closest station
// of the responsible service.
func (s *Simulation) intake() {
	for _, e := range s.reg.IncidentsAt(s.tick) {
		st := s.reg.ClosestStation(e)
		s.reg.AssignStation(e.ID, st.ID)
		s.sink.Notify(events.EmergencyAssigned{Tick: s.tick, Emergency: e.ID, Station: st.ID})
		e.State = incident.Ongoing
		s.reg.Ongoing = append(s.reg.Ongoing, e)
		s.reg.County.MustStreet(e.Street).EmergencyCounter++
		s.suspendClosure(e)
	}
}

// suspendClosure lifts a running closure of the incident street.
func (s *Simulation) suspendClosure(e *incident.Emergency) {
	for _, ev := range s.reg.Running {
		if rc, ok := ev.(*disruption.RoadClosure); ok && rc.Street() == e.Street {
			rc.Suspend()
			return
		}
	}
}
