// Package serialize implements the schedule's wire format (§4.8): a
// length-prefixed, little-endian byte stream produced by rank 0 and
// broadcast to every other rank, which reconstructs its Schedule from it.
// Transpose plans are not part of the wire format -- the source's matching
// asymmetry, where rank 0 keeps its own in-memory plans rather than
// reserializing them, is reproduced here by simply never writing them;
// callers on rank 0 must keep using their in-memory Schedule rather than
// round-tripping it through this package.
package serialize

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/qcluster/qsim/internal/compiler"
	"github.com/qcluster/qsim/internal/gate"
)

// Serialize encodes s as u32(len(payload)) followed by the payload.
func Serialize(s compiler.Schedule, numQubits int) ([]byte, error) {
	var payload bytes.Buffer
	if err := writeSchedule(&payload, s, numQubits); err != nil {
		return nil, err
	}
	out := make([]byte, 4+payload.Len())
	binary.LittleEndian.PutUint32(out, uint32(payload.Len()))
	copy(out[4:], payload.Bytes())
	return out, nil
}

// Deserialize is the inverse of Serialize.
func Deserialize(data []byte, numQubits int) (compiler.Schedule, error) {
	if len(data) < 4 {
		return compiler.Schedule{}, fmt.Errorf("serialize: buffer too short: %d bytes", len(data))
	}
	size := binary.LittleEndian.Uint32(data)
	if int(size) > len(data)-4 {
		return compiler.Schedule{}, fmt.Errorf("serialize: declared payload size %d exceeds buffer", size)
	}
	r := bytes.NewReader(data[4 : 4+size])
	return readSchedule(r, numQubits)
}

func writeSchedule(w *bytes.Buffer, s compiler.Schedule, numQubits int) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s.LocalGroups))); err != nil {
		return err
	}
	for _, lg := range s.LocalGroups {
		if err := writeLocalGroup(w, lg, numQubits); err != nil {
			return err
		}
	}
	return writeState(w, s.FinalState)
}

func readSchedule(r *bytes.Reader, numQubits int) (compiler.Schedule, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return compiler.Schedule{}, err
	}
	s := compiler.Schedule{LocalGroups: make([]compiler.LocalGroup, n)}
	for i := range s.LocalGroups {
		lg, err := readLocalGroup(r, numQubits)
		if err != nil {
			return compiler.Schedule{}, err
		}
		s.LocalGroups[i] = lg
	}
	final, err := readState(r, numQubits)
	if err != nil {
		return compiler.Schedule{}, err
	}
	s.FinalState = final
	return s, nil
}

func writeLocalGroup(w *bytes.Buffer, lg compiler.LocalGroup, numQubits int) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(lg.RelatedQubits)); err != nil {
		return err
	}
	if err := writeState(w, lg.State); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(lg.A2ACommSize)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(lg.A2AComm))); err != nil {
		return err
	}
	for _, c := range lg.A2AComm {
		if err := binary.Write(w, binary.LittleEndian, uint32(c.Peer)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, c.Offset); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, c.Count); err != nil {
			return err
		}
	}
	if err := writeGateGroups(w, lg.FullGroups); err != nil {
		return err
	}
	return writeGateGroups(w, lg.OverlapGroups)
}

func readLocalGroup(r *bytes.Reader, numQubits int) (compiler.LocalGroup, error) {
	var lg compiler.LocalGroup
	var related uint64
	if err := binary.Read(r, binary.LittleEndian, &related); err != nil {
		return lg, err
	}
	lg.RelatedQubits = gate.QubitSet(related)

	st, err := readState(r, numQubits)
	if err != nil {
		return lg, err
	}
	lg.State = st

	var commSize, commLen uint32
	if err := binary.Read(r, binary.LittleEndian, &commSize); err != nil {
		return lg, err
	}
	lg.A2ACommSize = int(commSize)
	if err := binary.Read(r, binary.LittleEndian, &commLen); err != nil {
		return lg, err
	}
	if commLen > 0 {
		lg.A2AComm = make([]compiler.CommEntry, commLen)
	}
	for i := range lg.A2AComm {
		var peer uint32
		var offset, count uint64
		if err := binary.Read(r, binary.LittleEndian, &peer); err != nil {
			return lg, err
		}
		if err := binary.Read(r, binary.LittleEndian, &offset); err != nil {
			return lg, err
		}
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return lg, err
		}
		lg.A2AComm[i] = compiler.CommEntry{Peer: int(peer), Offset: offset, Count: count}
	}

	full, err := readGateGroups(r)
	if err != nil {
		return lg, err
	}
	lg.FullGroups = full

	overlap, err := readGateGroups(r)
	if err != nil {
		return lg, err
	}
	lg.OverlapGroups = overlap

	return lg, nil
}

func writeState(w *bytes.Buffer, st compiler.State) error {
	for _, q := range st.Layout {
		if err := binary.Write(w, binary.LittleEndian, uint32(q)); err != nil {
			return err
		}
	}
	return nil
}

func readState(r *bytes.Reader, numQubits int) (compiler.State, error) {
	layout := make([]int, numQubits)
	for i := range layout {
		var q uint32
		if err := binary.Read(r, binary.LittleEndian, &q); err != nil {
			return compiler.State{}, err
		}
		layout[i] = int(q)
	}
	st := compiler.State{Layout: layout, Pos: make([]int, numQubits)}
	for p, q := range layout {
		st.Pos[q] = p
	}
	return st, nil
}

func writeGateGroups(w *bytes.Buffer, groups []compiler.GateGroup) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(groups))); err != nil {
		return err
	}
	for _, gg := range groups {
		if err := binary.Write(w, binary.LittleEndian, uint64(gg.RelatedQubits)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint8(gg.Backend)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(gg.Gates))); err != nil {
			return err
		}
		for _, g := range gg.Gates {
			if err := writeGate(w, g); err != nil {
				return err
			}
		}
	}
	return nil
}

func readGateGroups(r *bytes.Reader) ([]compiler.GateGroup, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	groups := make([]compiler.GateGroup, n)
	for i := range groups {
		var related uint64
		var backend uint8
		var gateCount uint32
		if err := binary.Read(r, binary.LittleEndian, &related); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &backend); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &gateCount); err != nil {
			return nil, err
		}
		gates := make([]gate.Gate, gateCount)
		for j := range gates {
			g, err := readGate(r)
			if err != nil {
				return nil, err
			}
			gates[j] = g
		}
		groups[i] = compiler.GateGroup{
			Gates:         gates,
			RelatedQubits: gate.QubitSet(related),
			Backend:       compiler.Backend(backend),
		}
	}
	return groups, nil
}

// writeGate encodes the fields the wire format carries: type, target,
// control qubit, encode qubit, a u8-length-prefixed list of i8 controls and eight
// float64s packing up to four complex matrix entries. The gate's name and
// diagonal flag are not part of the format -- by the time a Schedule is
// serialized its group structure already reflects every diagonal/backend
// decision, so reconstructing ones don't need either.
func writeGate(w *bytes.Buffer, g gate.Gate) error {
	if err := binary.Write(w, binary.LittleEndian, uint8(g.Type)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int8(g.TargetQubit)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int8(g.ControlQubit)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, g.EncodeQubit); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(len(g.ControlQubits))); err != nil {
		return err
	}
	for _, c := range g.ControlQubits {
		if err := binary.Write(w, binary.LittleEndian, int8(c)); err != nil {
			return err
		}
	}
	var mat [8]float64
	for i := 0; i < len(g.Params) && i < 4; i++ {
		mat[2*i] = real(g.Params[i])
		mat[2*i+1] = imag(g.Params[i])
	}
	for _, f := range mat {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

func readGate(r *bytes.Reader) (gate.Gate, error) {
	var typ, numControls uint8
	var target, control int8
	var encode int64

	if err := binary.Read(r, binary.LittleEndian, &typ); err != nil {
		return gate.Gate{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &target); err != nil {
		return gate.Gate{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &control); err != nil {
		return gate.Gate{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &encode); err != nil {
		return gate.Gate{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &numControls); err != nil {
		return gate.Gate{}, err
	}
	var controls []int
	if numControls > 0 {
		controls = make([]int, numControls)
	}
	for i := range controls {
		var c int8
		if err := binary.Read(r, binary.LittleEndian, &c); err != nil {
			return gate.Gate{}, err
		}
		controls[i] = int(c)
	}
	var mat [8]float64
	for i := range mat {
		if err := binary.Read(r, binary.LittleEndian, &mat[i]); err != nil {
			return gate.Gate{}, err
		}
	}
	params := make([]complex128, 4)
	for i := range params {
		params[i] = complex(mat[2*i], mat[2*i+1])
	}

	return gate.Gate{
		Type:          gate.Type(typ),
		TargetQubit:   int(target),
		ControlQubit:  int(control),
		ControlQubits: controls,
		EncodeQubit:   encode,
		Params:        params,
	}, nil
}
