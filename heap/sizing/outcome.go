package sizing

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joshuapare/heapkit/internal/diag"
)

// Outcome tags the result of Initialize.
type Outcome int

const (
	// OutcomeOK means the parameters are ready and nothing was overridden.
	OutcomeOK Outcome = iota

	// OutcomeWarned means the parameters are ready but an inconsistent
	// setting was overridden; see Report.Diagnostics.
	OutcomeWarned

	// OutcomeInvalid means explicitly configured sizes contradict each other.
	// Nothing was terminated; the caller decides what to do with Report.Err.
	OutcomeInvalid

	// OutcomeFatal means the process must stop with Report.ExitCode().
	OutcomeFatal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeWarned:
		return "warned"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Report is the result of Initialize.
type Report struct {
	Outcome     Outcome
	Params      SizeParameters
	Diagnostics []diag.Diagnostic
	Err         error
}

// ExitCode returns the status the process must exit with for a fatal
// outcome, and 0 otherwise.
func (r Report) ExitCode() int {
	var fe *FatalError
	if r.Outcome == OutcomeFatal && errors.As(r.Err, &fe) {
		return fe.Code
	}
	return 0
}

// Initialize runs the whole policy: alignments, survivor ratios, the worker
// count and the heap sizing fixpoint. A zero worker count stops before the
// heap is sized.
func (p *Policy) Initialize() Report {
	p.InitializeAlignments()
	p.ReconcileSurvivorRatios()

	if err := p.InitializeWorkers(); err != nil {
		return p.report(OutcomeFatal, err)
	}
	if err := p.InitializeHeapFlagsAndSizes(); err != nil {
		return p.report(OutcomeInvalid, err)
	}

	outcome := OutcomeOK
	for _, d := range p.diags {
		if d.Severity >= diag.SevWarning {
			outcome = OutcomeWarned
			break
		}
	}
	return p.report(outcome, nil)
}

func (p *Policy) report(o Outcome, err error) Report {
	return Report{
		Outcome:     o,
		Params:      p.params,
		Diagnostics: p.Diagnostics(),
		Err:         err,
	}
}

// exit is replaced in tests.
var exit = os.Exit

// InitializeOrExit runs Initialize and, on a fatal outcome, writes the
// diagnostic to w and terminates the process with the fatal exit status.
// Every other outcome is returned to the caller.
func (p *Policy) InitializeOrExit(w io.Writer) Report {
	r := p.Initialize()
	if r.Outcome == OutcomeFatal {
		fmt.Fprintf(w, "Error: %v\n", r.Err)
		exit(r.ExitCode())
	}
	return r
}
