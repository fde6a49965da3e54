package compiler

import "github.com/qcluster/qsim/internal/gate"

// TransposePlan describes one device-local transpose step needed to bring a
// set of amplitude bits into contiguous local position before an all-to-all
// exchange. The transpose kernel itself is an external collaborator (§6);
// this is just the plan the scheduler hands to it.
type TransposePlan struct {
	// Qubits lists the local qubit positions being transposed in.
	Qubits []int
}

// CommEntry describes one peer's share of an all-to-all exchange.
type CommEntry struct {
	Peer   int
	Offset uint64
	Count  uint64
}

// LocalGroup is one execution pass with a fixed global/local partition.
type LocalGroup struct {
	FullGroups    []GateGroup
	OverlapGroups []GateGroup
	RelatedQubits gate.QubitSet
	State         State

	// Populated later by the scheduler (scheduler.a2aDescriptor, §6 of spec.md).
	A2ACommSize int
	A2AComm     []CommEntry
	TransPlans  []TransposePlan
}

// Schedule is the compiler's final, read-only output: an ordered list of
// LocalGroup plus the State after the last group.
type Schedule struct {
	LocalGroups []LocalGroup
	FinalState  State
}

// TotalGates returns the number of gates covered across every group.
func (s Schedule) TotalGates() int {
	n := 0
	for _, lg := range s.LocalGroups {
		for _, gg := range lg.FullGroups {
			n += len(gg.Gates)
		}
		for _, gg := range lg.OverlapGroups {
			n += len(gg.Gates)
		}
	}
	return n
}

// TotalGroups returns (numLocalGroups, totalFullGroups, totalFullGates, totalOverlapGates),
// matching the fields of the "Total Groups" log line in §6.
func (s Schedule) TotalGroups() (numLocalGroups, totalFullGroups, fullGates, overlapGates int) {
	numLocalGroups = len(s.LocalGroups)
	for _, lg := range s.LocalGroups {
		totalFullGroups += len(lg.FullGroups)
		for _, gg := range lg.FullGroups {
			fullGates += len(gg.Gates)
		}
		for _, gg := range lg.OverlapGroups {
			overlapGates += len(gg.Gates)
		}
	}
	return
}
