package sizing

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joshuapare/heapkit/heap/flags"
	"github.com/joshuapare/heapkit/internal/align"
	"github.com/joshuapare/heapkit/internal/diag"
	"github.com/joshuapare/heapkit/internal/invariant"
	"github.com/joshuapare/heapkit/internal/osmem"
)

// Policy computes SizeParameters from a Config.
//
// The Policy is NOT thread-safe; it runs once during startup.
type Policy struct {
	cfg     Config
	params  SizeParameters
	pages   PageSource
	workers WorkerPolicy
	log     *slog.Logger
	errw    io.Writer

	diags     []diag.Diagnostic
	sizeDiags []diag.Diagnostic // replaced by every base pass
}

// NewPolicy creates a Policy. A nil opts, or nil fields in it, fall back to
// DefaultOptions.
func NewPolicy(cfg Config, opts *Options) *Policy {
	if opts == nil {
		opts = &Options{}
	}
	p := &Policy{
		cfg:     cfg,
		pages:   opts.Pages,
		workers: opts.Workers,
		log:     opts.Logger,
		errw:    opts.ErrorStream,
	}
	if p.pages == nil {
		p.pages = osmem.Probe()
	}
	if p.workers == nil {
		p.workers = DefaultWorkers{Threads: cfg.ParallelGCThreads}
	}
	if p.log == nil {
		p.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if p.errw == nil {
		p.errw = os.Stderr
	}
	if p.cfg.MaxRAMFraction == 0 {
		p.cfg.MaxRAMFraction = 4
	}
	if p.cfg.InitialRAMFraction == 0 {
		p.cfg.InitialRAMFraction = 64
	}

	p.params.SurvivorRatio = cfg.SurvivorRatio
	p.params.InitialSurvivorRatio = cfg.InitialSurvivorRatio
	p.params.MinSurvivorRatio = cfg.MinSurvivorRatio
	p.params.NewRatio = cfg.NewRatio
	return p
}

// Params returns the parameters computed so far.
func (p *Policy) Params() SizeParameters { return p.params }

// Diagnostics returns every diagnostic emitted so far, in order.
func (p *Policy) Diagnostics() []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(p.diags)+len(p.sizeDiags))
	out = append(out, p.diags...)
	return append(out, p.sizeDiags...)
}

// InitializeWorkers asks the WorkerPolicy for the collector worker count.
// Zero workers is returned as a *FatalError wrapping ErrNoWorkers.
func (p *Policy) InitializeWorkers() error {
	n := p.workers.ParallelWorkers()
	if n == 0 {
		fe := &FatalError{
			Code: ExitNoWorkers,
			Msg:  "The parallel collector can not be combined with zero worker threads (ParallelGCThreads=0)",
			Err:  ErrNoWorkers,
		}
		p.diags = append(p.diags, diag.Diagnostic{
			Severity: diag.SevFatal,
			Code:     diag.CodeNoWorkers,
			Message:  fe.Msg,
		})
		p.log.Error("no parallel workers", "exit_code", fe.Code)
		return fe
	}
	p.params.ParallelWorkers = n
	return nil
}

// InitializeHeapFlagsAndSizes runs the base sizing pass, reconciles
// SpaceAlignment with the page size the minimum heap needs, and reruns the
// base pass at most once.
//
// InitializeAlignments must have run first.
func (p *Policy) InitializeHeapFlagsAndSizes() error {
	invariant.Check(p.params.SpaceAlignment != 0, "alignments not initialized")

	p.params.Passes = 0
	if err := p.sizeHeapOnePass(); err != nil {
		return err
	}

	newAlignment := p.pageAlignedSpaceAlignment()
	if newAlignment != p.params.SpaceAlignment {
		p.log.Debug("space alignment raised to page size",
			"from", p.params.SpaceAlignment, "to", newAlignment)
		p.params.SpaceAlignment = newAlignment
		p.params.HeapAlignment = align.Max(p.params.HeapAlignment, newAlignment)
		p.checkAlignments()
		if err := p.sizeHeapOnePass(); err != nil {
			return err
		}
		p.sizeDiags = append(p.sizeDiags, diag.Diagnostic{
			Severity: diag.SevInfo,
			Code:     diag.CodeAlignment,
			Message:  fmt.Sprintf("space alignment raised to %s", diag.Bytes(newAlignment)),
		})
	}

	// The second pass only aligns up to a larger power of two the first
	// pass's minimum heap was already a multiple of, so the page size
	// cannot move again.
	final := p.pageAlignedSpaceAlignment()
	invariant.Check(final == p.params.SpaceAlignment,
		"space alignment did not converge: %d after %d passes, page size now requires %d",
		p.params.SpaceAlignment, p.params.Passes, final)
	return nil
}

// pageAlignedSpaceAlignment returns the page size a minimum heap of
// MinRegionPages regions must honor, rounded up to the current
// SpaceAlignment.
func (p *Policy) pageAlignedSpaceAlignment() uint64 {
	region := p.params.MinHeapSize.Get().Bytes()
	page := p.pages.PageSizeForRegionAligned(region, MinRegionPages, p.cfg.UseLargePages)
	invariant.Check(align.IsPowerOfTwo(page), "page size %d is not a power of two", page)
	return align.Up(page, p.params.SpaceAlignment)
}

// sizeHeapOnePass derives min, initial and max heap sizes from the
// configured values and aligns them up to HeapAlignment. It always starts
// from the configuration, never from a previous pass's output.
func (p *Policy) sizeHeapOnePass() error {
	p.checkAlignments()
	p.params.Passes++
	p.sizeDiags = p.sizeDiags[:0]

	minH, initH, maxH := p.cfg.MinHeapSize, p.cfg.InitialHeapSize, p.cfg.MaxHeapSize
	minB, initB, maxB := minH.Get().Bytes(), initH.Get().Bytes(), maxH.Get().Bytes()

	if maxH.IsConfigured() {
		if initH.IsConfigured() && initB > maxB {
			return fmt.Errorf("%w: initial heap size %s larger than maximum heap size %s",
				ErrInconsistentHeapSize, diag.Bytes(initB), diag.Bytes(maxB))
		}
		if minH.IsConfigured() && minB > maxB {
			return fmt.Errorf("%w: minimum heap size %s larger than maximum heap size %s",
				ErrInconsistentHeapSize, diag.Bytes(minB), diag.Bytes(maxB))
		}
	}
	if minH.IsConfigured() && initH.IsConfigured() && minB > initB {
		return fmt.Errorf("%w: minimum heap size %s larger than initial heap size %s",
			ErrInconsistentHeapSize, diag.Bytes(minB), diag.Bytes(initB))
	}

	phys := p.pages.TotalMemory()

	if !maxH.IsConfigured() {
		maxB = uint64(fallbackMaxHeapBytes)
		if phys != 0 {
			maxB = phys / p.cfg.MaxRAMFraction
		}
		maxB = max(maxB, minMaxHeapBytes)
		if initH.IsConfigured() {
			maxB = max(maxB, initB)
		}
		if minH.IsConfigured() {
			maxB = max(maxB, minB)
		}
		maxH.SetErgo(WordsOf(maxB))
	}

	if !initH.IsConfigured() {
		initB = maxB / 8
		if phys != 0 {
			initB = phys / p.cfg.InitialRAMFraction
		}
		initB = max(initB, minInitialHeapBytes)
		if minH.IsConfigured() {
			initB = max(initB, minB)
		}
		initB = min(initB, maxB)
		initH.SetErgo(WordsOf(initB))
	}

	if !minH.IsConfigured() {
		minB = min(initB, defaultMinHeapCap)
		minH.SetErgo(WordsOf(minB))
	}

	maxB = p.raiseFloor(&maxH, maxB, minMaxHeapBytes, "maximum")
	initB = p.raiseFloor(&initH, initB, minInitialHeapBytes, "initial")
	minB = p.raiseFloor(&minH, minB, minMinHeapBytes, "minimum")

	ha := p.params.HeapAlignment
	minB = p.alignHeapSize(&minH, minB, ha, "minimum")
	initB = p.alignHeapSize(&initH, initB, ha, "initial")
	maxB = p.alignHeapSize(&maxH, maxB, ha, "maximum")

	invariant.Check(minB <= initB && initB <= maxB,
		"heap sizes out of order: min %d initial %d max %d", minB, initB, maxB)

	p.params.MinHeapSize = minH
	p.params.InitialHeapSize = initH
	p.params.MaxHeapSize = maxH
	p.log.Debug("heap sized",
		"pass", p.params.Passes,
		"min", minB, "initial", initB, "max", maxB,
		"heap_alignment", ha)
	return nil
}

func (p *Policy) raiseFloor(v *flags.Value[Words], bytes, floor uint64, name string) uint64 {
	if bytes >= floor {
		return bytes
	}
	if v.IsConfigured() {
		p.sizeDiags = append(p.sizeDiags, diag.Diagnostic{
			Severity: diag.SevInfo,
			Code:     diag.CodeHeapAdjusted,
			Message: fmt.Sprintf("%s heap size %s raised to %s",
				name, diag.Bytes(bytes), diag.Bytes(floor)),
		})
	}
	v.SetErgo(WordsOf(floor))
	return floor
}

func (p *Policy) alignHeapSize(v *flags.Value[Words], bytes, alignment uint64, name string) uint64 {
	aligned := align.Up(bytes, alignment)
	if aligned == bytes {
		return bytes
	}
	if v.IsConfigured() {
		p.sizeDiags = append(p.sizeDiags, diag.Diagnostic{
			Severity: diag.SevInfo,
			Code:     diag.CodeHeapAdjusted,
			Message: fmt.Sprintf("%s heap size %s aligned up to %s",
				name, diag.Bytes(bytes), diag.Bytes(aligned)),
		})
	}
	v.SetErgo(WordsOf(aligned))
	return aligned
}

// emit records d and writes it to the error stream and the logger.
func (p *Policy) emit(d diag.Diagnostic) {
	p.diags = append(p.diags, d)
	fmt.Fprintln(p.errw, d.Message)
	p.log.Warn(d.Message, "code", string(d.Code), "severity", d.Severity.String())
}
