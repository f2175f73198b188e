// Package sizing decides the alignments and sizes of a generational heap
// before the heap is created.
//
// # Overview
//
// A Policy reconciles three kinds of input into one consistent SizeParameters:
//
//   - alignment requirements from the card table, region granularity and the
//     operating system's page sizes
//   - heap sizes (minimum, initial, maximum), each tagged with whether it was
//     configured or left at its default
//   - survivor ratios, likewise provenance tagged
//
// # Initialization Order
//
//	p := sizing.NewPolicy(cfg, sizing.DefaultOptions())
//	report := p.Initialize()
//	switch report.Outcome {
//	case sizing.OutcomeFatal:
//	    // zero worker threads: report.ExitCode() is ExitNoWorkers
//	case sizing.OutcomeInvalid:
//	    // conflicting explicit heap sizes: report.Err
//	default:
//	    heap := build(report.Params)
//	}
//
// Initialize runs, in order: InitializeAlignments, ReconcileSurvivorRatios,
// InitializeWorkers and InitializeHeapFlagsAndSizes. A fatal worker count
// stops the sequence before any heap size is computed.
//
// # Alignment Fixpoint
//
// InitializeHeapFlagsAndSizes runs the base sizing pass, asks the host for the
// page size a minimum-sized heap of four regions (eden, two survivors, old)
// must honor, and rounds that page size up to SpaceAlignment. If the result
// differs, SpaceAlignment is replaced and the base pass runs once more. The
// base pass only ever aligns its inputs up, so the second pass produces a
// minimum heap that is already a multiple of the new alignment and the page
// size cannot change again. The policy checks this after the last pass and
// panics if it does not hold, rather than looping.
//
// # Thread Safety
//
// A Policy is meant to run once, on one goroutine, during startup. The
// resulting SizeParameters is a plain value and safe to share afterwards.
package sizing
