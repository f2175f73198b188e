package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/cmd/heapctl/logger"
	"github.com/joshuapare/heapkit/internal/diag"
	"github.com/joshuapare/heapkit/metaspace/commit"
)

func init() {
	rootCmd.AddCommand(newBudgetCmd())
}

type stepKind int

const (
	stepIncrease stepKind = iota
	stepDecrease
	stepCollect
)

// step is one replayed budget operation.
type step struct {
	kind      stepKind
	raw       string
	minSize   uint64
	preferred uint64
	size      uint64
}

// parseStep parses "min:pref" (increase), "-N" (decrease) or "gc"
// (recompute the threshold).
func parseStep(s string) (step, error) {
	st := step{raw: s}
	switch {
	case s == "gc":
		st.kind = stepCollect
		return st, nil
	case strings.HasPrefix(s, "-"):
		n, err := parseSize(s[1:])
		if err != nil {
			return st, fmt.Errorf("decrease %q: %w", s, err)
		}
		st.kind = stepDecrease
		st.size = n
		return st, nil
	}

	minPart, prefPart, ok := strings.Cut(s, ":")
	if !ok {
		return st, fmt.Errorf("request %q: want min:pref, -N or gc", s)
	}
	var err error
	if st.minSize, err = parseSize(minPart); err != nil {
		return st, fmt.Errorf("request %q: %w", s, err)
	}
	if st.preferred, err = parseSize(prefPart); err != nil {
		return st, fmt.Errorf("request %q: %w", s, err)
	}
	if st.preferred == 0 || st.minSize > st.preferred {
		return st, fmt.Errorf("request %q: need 0 < pref and min <= pref", s)
	}
	st.kind = stepIncrease
	return st, nil
}

type stepResult struct {
	Step      string `json:"step"`
	Outcome   string `json:"outcome"`
	Amount    uint64 `json:"amount,omitempty"`
	Committed uint64 `json:"committed"`
	Threshold uint64 `json:"threshold"`
}

type budgetView struct {
	Ceiling uint64       `json:"ceiling"`
	Steps   []stepResult `json:"steps"`
	Stats   commit.Stats `json:"stats"`
}

func newBudgetCmd() *cobra.Command {
	var ceiling, threshold, granule string
	cmd := &cobra.Command{
		Use:   "budget [flags] -- STEP...",
		Short: "Replay commit requests against a fresh metadata budget",
		Long: `The budget command creates a commit budget and replays each STEP
against it in order:

  min:pref  ask for pref bytes, or at least min bytes
  -N        give back N bytes
  gc        recompute the threshold as a collection would

The ceiling is the maximum metadata size rounded down to a whole number of
granules. Sizes accept k, m and g suffixes. Put the steps after "--" so
decreases are not mistaken for flags. A decrease larger than the committed
total stops the replay with an error.

Example:
  heapctl budget --ceiling 100 --granule 1 --threshold 80 -- 70:70 5:20 5:8 1:1 -30
  heapctl budget --ceiling 256m --threshold 21m -- 20m:20m 2m:2m gc 2m:2m`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := budgetOptions(ceiling, threshold, granule)
			if err != nil {
				return err
			}
			steps := make([]step, 0, len(args))
			for _, a := range args {
				st, err := parseStep(a)
				if err != nil {
					return err
				}
				steps = append(steps, st)
			}

			b := commit.New(opts)
			v, err := replay(b, steps)
			if err != nil {
				return err
			}
			return printBudget(v)
		},
	}
	cmd.Flags().StringVar(&ceiling, "ceiling", "", "Maximum metadata size (default unlimited)")
	cmd.Flags().StringVar(&granule, "granule", "64k", "Commit granule the ceiling is rounded down to")
	cmd.Flags().StringVar(&threshold, "threshold", "", "Initial GC threshold (default 21m)")
	return cmd
}

// budgetOptions turns the command's flags into budget options. The ceiling
// goes through commit.CeilingFromMaxSize.
func budgetOptions(ceiling, threshold, granule string) (*commit.Options, error) {
	maxSize, err := optionalSize(ceiling)
	if err != nil {
		return nil, fmt.Errorf("--ceiling: %w", err)
	}
	thr, err := optionalSize(threshold)
	if err != nil {
		return nil, fmt.Errorf("--threshold: %w", err)
	}
	g, err := parseSize(granule)
	if err != nil {
		return nil, fmt.Errorf("--granule: %w", err)
	}
	ceil, err := commit.CeilingFromMaxSize(maxSize, g)
	if err != nil {
		return nil, fmt.Errorf("--granule: %w", err)
	}
	if maxSize != 0 && ceil == 0 {
		return nil, fmt.Errorf("--ceiling: %d is smaller than one granule of %d", maxSize, g)
	}
	return &commit.Options{
		Ceiling:          ceil,
		InitialThreshold: thr,
		Logger:           logger.L,
	}, nil
}

func optionalSize(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	return parseSize(s)
}

// replay applies steps to b in order. A decrease below zero would abort the
// process, so it is reported as an error instead of being applied.
func replay(b *commit.Budget, steps []step) (budgetView, error) {
	v := budgetView{Ceiling: b.Ceiling()}
	policy := commit.DefaultThresholdPolicy()

	for _, st := range steps {
		res := stepResult{Step: st.raw}
		switch st.kind {
		case stepIncrease:
			g := b.TryIncrease(st.minSize, st.preferred)
			res.Outcome = g.Outcome.String()
			res.Amount = g.Amount
		case stepDecrease:
			h := b.Lock()
			if st.size > h.Committed() {
				committed := h.Committed()
				h.Unlock()
				return v, fmt.Errorf("step %q: decrease exceeds committed %d", st.raw, committed)
			}
			h.Decrease(st.size)
			h.Unlock()
			res.Outcome = "decreased"
			res.Amount = st.size
		case stepCollect:
			policy.Update(b)
			res.Outcome = "threshold"
		}
		res.Committed = b.Committed()
		res.Threshold = b.Threshold()
		v.Steps = append(v.Steps, res)
	}
	v.Stats = b.Stats()
	return v, nil
}

func printBudget(v budgetView) error {
	if jsonOut {
		return printJSON(v)
	}

	if v.Ceiling == commit.Unlimited {
		printInfo("\nCommit Budget (ceiling: unlimited):\n")
	} else {
		printInfo("\nCommit Budget (ceiling: %s):\n", diag.Bytes(v.Ceiling))
	}
	for _, r := range v.Steps {
		printInfo("  %-12s %-10s %12d  committed %d  threshold %d\n",
			r.Step, r.Outcome, r.Amount, r.Committed, r.Threshold)
	}
	printVerbose("\nStats: %d grants, %d partial, %d denials, %d decreases, high water %d\n",
		v.Stats.Grants, v.Stats.PartialGrants, v.Stats.Denials, v.Stats.Decreases, v.Stats.HighWater)
	return nil
}
