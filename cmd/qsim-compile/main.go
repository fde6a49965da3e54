// Command qsim-compile is the circuit front-end stand-in named in spec.md
// §1: it reads a circuit file, compiles it into a Schedule, writes the
// serialized schedule out, and logs the reporting lines of §6. Gate parsing,
// CLI shape and result printing are explicitly out of the compiler's scope;
// this binary exists only so the compiler has a caller, in the spirit of the
// teacher's own benchmark-driving main.go.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/qcluster/qsim/internal/circuit"
	"github.com/qcluster/qsim/internal/compiler"
	"github.com/qcluster/qsim/internal/qlog"
	"github.com/qcluster/qsim/internal/scheduler"
	"github.com/qcluster/qsim/internal/serialize"
)

func main() {
	inputFile := flag.String("circuit", "", "path to a circuit JSON file (required)")
	outputFile := flag.String("out", "", "path to write the serialized schedule (required)")
	globalBits := flag.Int("g", 1, "number of global qubits (G)")
	mode := flag.Int("mode", 0, "0 state-vector, 1 density-matrix double-pass, 2 chunked")
	backend := flag.String("backend", "both", "per-gate, blas, or both")
	inplace := flag.Int("inplace", 0, "in-place rewiring budget (0 disables)")
	disableOverlap := flag.Bool("no-overlap", false, "disable the move-back overlap optimization")
	localQubitSize := flag.Int("local-qubit-size", scheduler.DefaultLocalQubitSize, "per-gate kernel packing budget (LOCAL_QUBIT_SIZE)")
	blasMatLimit := flag.Int("blas-mat-limit", scheduler.DefaultBlasMatLimit, "BLAS kernel matrix-size limit (BLAS_MAT_LIMIT)")
	coalesceGlobal := flag.Int("coalesce-global", compiler.DefaultCoalesceGlobal, "leading local qubits held together for coalesced device access (COALESCE_GLOBAL)")
	flag.Parse()

	if err := run(*inputFile, *outputFile, *globalBits, *mode, *backend, *inplace, *disableOverlap, *localQubitSize, *blasMatLimit, *coalesceGlobal); err != nil {
		fmt.Fprintf(os.Stderr, "qsim-compile: %v\n", err)
		os.Exit(1)
	}
}

func run(inputFile, outputFile string, globalBits, mode int, backendName string, inplace int, disableOverlap bool, localQubitSize, blasMatLimit, coalesceGlobal int) error {
	if inputFile == "" || outputFile == "" {
		return fmt.Errorf("-circuit and -out are required")
	}

	backend, err := parseBackend(backendName)
	if err != nil {
		return err
	}

	numQubits, gates, err := circuit.Load(inputFile)
	if err != nil {
		return err
	}

	log, err := qlog.NewProduction()
	if err != nil {
		return fmt.Errorf("qlog: %w", err)
	}
	defer log.Sync()

	cfg := scheduler.Config{
		NumQubits:      numQubits,
		GlobalBit:      globalBits,
		Mode:           mode,
		Inplace:        inplace,
		DisableOverlap: disableOverlap,
		Backend:        backend,
		Eval:           scheduler.DefaultEvaluator(),
		LocalQubitSize: localQubitSize,
		BlasMatLimit:   blasMatLimit,
		CoalesceGlobal: coalesceGlobal,
	}

	sched := scheduler.New(cfg, log)
	schedule, report, err := sched.Compile(gates)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	log.TimeCost(report.Total())

	buf, err := serialize.Serialize(schedule, numQubits)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	if err := os.WriteFile(outputFile, buf, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outputFile, err)
	}
	return nil
}

func parseBackend(name string) (scheduler.Backend, error) {
	switch name {
	case "per-gate":
		return scheduler.BackendPerGate, nil
	case "blas":
		return scheduler.BackendBLAS, nil
	case "both", "":
		return scheduler.BackendBoth, nil
	default:
		return 0, fmt.Errorf("unknown -backend %q (want per-gate, blas, or both)", name)
	}
}
