// Package network models the county road graph: vertices, weighted streets
// with direction and height limits, and the per-street bookkeeping used by
// disruptions (blockage, affecting event) and incidents (emergency counter).
package network
