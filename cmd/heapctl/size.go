package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/joshuapare/heapkit/cmd/heapctl/logger"
	"github.com/joshuapare/heapkit/heap/flags"
	"github.com/joshuapare/heapkit/heap/sizing"
	"github.com/joshuapare/heapkit/internal/diag"
	"github.com/joshuapare/heapkit/internal/osmem"
)

func init() {
	rootCmd.AddCommand(newSizeCmd())
}

type sizeFlags struct {
	maxHeap     string
	initialHeap string
	minHeap     string
	physMem     string
	physBytes   uint64

	survivorRatio        uint
	initialSurvivorRatio uint
	minSurvivorRatio     uint
	newRatio             uint
	parallelGCThreads    uint
	cpus                 int
	largePages           bool
}

func newSizeCmd() *cobra.Command {
	var f sizeFlags
	cmd := &cobra.Command{
		Use:   "size",
		Short: "Run the heap sizing policy and print the result",
		Long: `The size command runs alignment setup, survivor ratio reconciliation,
worker selection and heap sizing against this host, then prints the final
parameters and the initial generation layout.

Only flags given on the command line count as configured; everything else
is a default the policy may adjust.

Example:
  heapctl size
  heapctl size --max-heap 512m --initial-survivor-ratio 3
  heapctl size --large-pages --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.config(cmd.Flags())
			if err != nil {
				return err
			}
			p := sizing.NewPolicy(cfg, f.options(cfg, os.Stderr))
			r := p.InitializeOrExit(os.Stderr)
			if r.Outcome == sizing.OutcomeInvalid {
				return fmt.Errorf("heap sizing failed: %w", r.Err)
			}
			return printSize(r)
		},
	}

	bindSizeFlags(cmd.Flags(), &f)
	return cmd
}

func bindSizeFlags(fl *pflag.FlagSet, f *sizeFlags) {
	fl.StringVar(&f.maxHeap, "max-heap", "", "Maximum heap size (e.g. 512m)")
	fl.StringVar(&f.initialHeap, "initial-heap", "", "Initial heap size")
	fl.StringVar(&f.minHeap, "min-heap", "", "Minimum heap size")
	fl.StringVar(&f.physMem, "phys-mem", "", "Pretend the host has this much memory")
	fl.UintVar(&f.survivorRatio, "survivor-ratio", 8, "Eden/survivor ratio")
	fl.UintVar(&f.initialSurvivorRatio, "initial-survivor-ratio", 8, "Initial young/survivor ratio")
	fl.UintVar(&f.minSurvivorRatio, "min-survivor-ratio", 5, "Minimum young/survivor ratio")
	fl.UintVar(&f.newRatio, "new-ratio", 2, "Old/young generation ratio")
	fl.UintVar(&f.parallelGCThreads, "parallel-gc-threads", 0, "Collector worker count")
	fl.IntVar(&f.cpus, "cpus", 0, "Pretend the host has this many CPUs")
	fl.BoolVar(&f.largePages, "large-pages", false, "Back the heap with large pages")
}

// config builds a sizing.Config in which exactly the flags present on the
// command line are marked configured.
func (f *sizeFlags) config(fs *pflag.FlagSet) (sizing.Config, error) {
	cfg := sizing.DefaultConfig()
	cfg.UseLargePages = f.largePages

	if f.physMem != "" {
		n, err := parseSize(f.physMem)
		if err != nil {
			return cfg, fmt.Errorf("--phys-mem: %w", err)
		}
		f.physBytes = n
	}

	sizes := []struct {
		name string
		raw  string
		dst  *flags.Value[sizing.Words]
	}{
		{"max-heap", f.maxHeap, &cfg.MaxHeapSize},
		{"initial-heap", f.initialHeap, &cfg.InitialHeapSize},
		{"min-heap", f.minHeap, &cfg.MinHeapSize},
	}
	for _, s := range sizes {
		if !fs.Changed(s.name) {
			continue
		}
		n, err := parseSize(s.raw)
		if err != nil {
			return cfg, fmt.Errorf("--%s: %w", s.name, err)
		}
		s.dst.Set(sizing.WordsOf(n))
	}

	ratios := []struct {
		name string
		v    uint
		dst  *flags.Value[uint]
	}{
		{"survivor-ratio", f.survivorRatio, &cfg.SurvivorRatio},
		{"initial-survivor-ratio", f.initialSurvivorRatio, &cfg.InitialSurvivorRatio},
		{"min-survivor-ratio", f.minSurvivorRatio, &cfg.MinSurvivorRatio},
		{"new-ratio", f.newRatio, &cfg.NewRatio},
		{"parallel-gc-threads", f.parallelGCThreads, &cfg.ParallelGCThreads},
	}
	for _, r := range ratios {
		if fs.Changed(r.name) {
			r.dst.Set(r.v)
		}
	}
	return cfg, nil
}

// options builds the policy's collaborators. --cpus only replaces the CPU
// count; a configured ParallelGCThreads still wins, zero included.
func (f *sizeFlags) options(cfg sizing.Config, errw io.Writer) *sizing.Options {
	host := osmem.Probe()
	if f.physBytes > 0 {
		host.PhysicalMemory = f.physBytes
	}
	logger.L.Debug("host probed",
		"page_size", host.PageSize,
		"large_page_size", host.LargePageSize,
		"physical_memory", host.PhysicalMemory)

	opts := &sizing.Options{
		Pages:       host,
		Logger:      logger.L,
		ErrorStream: errw,
	}
	if f.cpus > 0 {
		opts.Workers = sizing.DefaultWorkers{Threads: cfg.ParallelGCThreads, CPUs: f.cpus}
	}
	return opts
}

type sizeField struct {
	Bytes  uint64 `json:"bytes"`
	Origin string `json:"origin"`
}

type ratioField struct {
	Value  uint   `json:"value"`
	Origin string `json:"origin"`
}

type sizeView struct {
	Outcome              string            `json:"outcome"`
	MinHeapSize          sizeField         `json:"min_heap_size"`
	InitialHeapSize      sizeField         `json:"initial_heap_size"`
	MaxHeapSize          sizeField         `json:"max_heap_size"`
	SpaceAlignment       uint64            `json:"space_alignment"`
	HeapAlignment        uint64            `json:"heap_alignment"`
	SurvivorRatio        ratioField        `json:"survivor_ratio"`
	InitialSurvivorRatio ratioField        `json:"initial_survivor_ratio"`
	MinSurvivorRatio     ratioField        `json:"min_survivor_ratio"`
	NewRatio             ratioField        `json:"new_ratio"`
	ParallelWorkers      uint              `json:"parallel_workers"`
	Passes               int               `json:"passes"`
	Generations          sizing.Layout     `json:"generations"`
	Diagnostics          []diag.Diagnostic `json:"diagnostics,omitempty"`
}

func newSizeView(r sizing.Report) sizeView {
	p := r.Params
	words := func(v flags.Value[sizing.Words]) sizeField {
		return sizeField{Bytes: v.Get().Bytes(), Origin: v.Origin().String()}
	}
	ratio := func(v flags.Value[uint]) ratioField {
		return ratioField{Value: v.Get(), Origin: v.Origin().String()}
	}
	return sizeView{
		Outcome:              r.Outcome.String(),
		MinHeapSize:          words(p.MinHeapSize),
		InitialHeapSize:      words(p.InitialHeapSize),
		MaxHeapSize:          words(p.MaxHeapSize),
		SpaceAlignment:       p.SpaceAlignment,
		HeapAlignment:        p.HeapAlignment,
		SurvivorRatio:        ratio(p.SurvivorRatio),
		InitialSurvivorRatio: ratio(p.InitialSurvivorRatio),
		MinSurvivorRatio:     ratio(p.MinSurvivorRatio),
		NewRatio:             ratio(p.NewRatio),
		ParallelWorkers:      p.ParallelWorkers,
		Passes:               p.Passes,
		Generations:          p.Generations(),
		Diagnostics:          r.Diagnostics,
	}
}

func printSize(r sizing.Report) error {
	v := newSizeView(r)
	if jsonOut {
		return printJSON(v)
	}

	printInfo("\nHeap Parameters (%s):\n", v.Outcome)
	printInfo("  Min heap:     %s [%s]\n", diag.Bytes(v.MinHeapSize.Bytes), v.MinHeapSize.Origin)
	printInfo("  Initial heap: %s [%s]\n", diag.Bytes(v.InitialHeapSize.Bytes), v.InitialHeapSize.Origin)
	printInfo("  Max heap:     %s [%s]\n", diag.Bytes(v.MaxHeapSize.Bytes), v.MaxHeapSize.Origin)
	printInfo("  Space align:  %s\n", diag.Bytes(v.SpaceAlignment))
	printInfo("  Heap align:   %s\n", diag.Bytes(v.HeapAlignment))
	printInfo("  Survivor ratio:         %d [%s]\n", v.SurvivorRatio.Value, v.SurvivorRatio.Origin)
	printInfo("  Initial survivor ratio: %d [%s]\n",
		v.InitialSurvivorRatio.Value, v.InitialSurvivorRatio.Origin)
	printInfo("  Min survivor ratio:     %d [%s]\n", v.MinSurvivorRatio.Value, v.MinSurvivorRatio.Origin)
	printInfo("  New ratio:              %d [%s]\n", v.NewRatio.Value, v.NewRatio.Origin)
	printInfo("  Parallel workers:       %d\n", v.ParallelWorkers)
	printVerbose("  Sizing passes:          %d\n", v.Passes)

	g := v.Generations
	printInfo("\nGenerations:\n")
	printInfo("  Young:    %s\n", diag.Bytes(g.Young))
	printInfo("  Eden:     %s\n", diag.Bytes(g.Eden))
	printInfo("  Survivor: %s (x2)\n", diag.Bytes(g.Survivor))
	printInfo("  Old:      %s\n", diag.Bytes(g.Old))

	if len(v.Diagnostics) > 0 {
		printInfo("\nDiagnostics:\n")
		for _, d := range v.Diagnostics {
			printInfo("  %s\n", d)
		}
	}
	return nil
}
