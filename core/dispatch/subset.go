package dispatch

import (
	"github.com/kilianp07/emsim/core/fleet"
	"github.com/kilianp07/emsim/core/requirement"
)

// largest returns the biggest subset of cands accepted by fits. cands must
// be sorted by id; among subsets of equal size the lexicographically
// smallest id sequence wins.
func largest(cands []*fleet.Vehicle, fits func([]*fleet.Vehicle) bool) []*fleet.Vehicle {
	n := len(cands)
	idx := make([]int, 0, n)
	pick := make([]*fleet.Vehicle, 0, n)
	for k := n; k > 0; k-- {
		idx = idx[:0]
		for i := 0; i < k; i++ {
			idx = append(idx, i)
		}
		for {
			pick = pick[:0]
			for _, i := range idx {
				pick = append(pick, cands[i])
			}
			if fits(pick) {
				return append([]*fleet.Vehicle(nil), pick...)
			}
			if !next(idx, n) {
				break
			}
		}
	}
	return nil
}

// next advances idx to the following k-combination of n in lexicographic
// order and reports whether one exists.
func next(idx []int, n int) bool {
	k := len(idx)
	i := k - 1
	for i >= 0 && idx[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	idx[i]++
	for j := i + 1; j < k; j++ {
		idx[j] = idx[j-1] + 1
	}
	return true
}

// fits reports whether set can be sent together by station s to an
// incident needing req.
func fits(req *requirement.Requirement, s *fleet.Station, set []*fleet.Vehicle) bool {
	staff, dogs, doctors := 0, 0, 0
	count := make(map[fleet.VehicleType]int)
	water, waterTrucks := 0, 0
	slots, cars := 0, 0
	for _, v := range set {
		if v.State == fleet.Available {
			staff += v.Staff
			switch v.Type {
			case fleet.K9PoliceCar:
				dogs++
			case fleet.EmergencyDoctorCar:
				doctors++
			}
		}
		count[v.Type]++
		switch v.Type {
		case fleet.FireTruckWater:
			water += v.Water
			waterTrucks++
		case fleet.PoliceCar:
			slots += v.FreeCriminalSlots()
			cars++
		}
	}
	if staff > s.Staff || dogs > s.Dogs || doctors > s.Doctors {
		return false
	}
	for t, n := range count {
		if n > req.Count(t) {
			return false
		}
	}
	if need := req.Count(fleet.FireTruckWater); need > 0 && waterTrucks == need && water < req.RemainingWater {
		return false
	}
	if need := req.Count(fleet.PoliceCar); need > 0 && cars == need && slots < req.RemainingCriminals {
		return false
	}
	return true
}
