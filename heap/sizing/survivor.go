package sizing

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/diag"
	"github.com/joshuapare/heapkit/internal/invariant"
)

// survivorRatioOffset turns the unified SurvivorRatio into the generation
// specific initial and minimum ratios, which count the survivor spaces too.
const survivorRatioOffset = 2

// ReconcileSurvivorRatios makes the survivor ratios consistent.
//
// A configured SurvivorRatio first seeds whichever of InitialSurvivorRatio and
// MinSurvivorRatio are still at their defaults with SurvivorRatio+2. Then, if
// the initial ratio is below the minimum, the explicitly configured side
// wins: with both configured a warning is emitted and the minimum is lowered
// to the initial ratio; with only the initial configured the minimum is
// lowered silently; otherwise the initial ratio is raised to the minimum.
//
// Overridden values keep their default provenance, as they were not chosen
// by the user.
func (p *Policy) ReconcileSurvivorRatios() {
	sr := &p.params.SurvivorRatio
	initial := &p.params.InitialSurvivorRatio
	minimum := &p.params.MinSurvivorRatio

	if sr.IsConfigured() {
		if initial.IsDefault() {
			initial.SetDefault(sr.Get() + survivorRatioOffset)
		}
		if minimum.IsDefault() {
			minimum.SetDefault(sr.Get() + survivorRatioOffset)
		}
	}

	if initial.Get() < minimum.Get() {
		switch {
		case initial.IsConfigured() && minimum.IsConfigured():
			p.emit(diag.Diagnostic{
				Severity: diag.SevWarning,
				Code:     diag.CodeSurvivorRatio,
				Message: fmt.Sprintf("Inconsistent MinSurvivorRatio vs InitialSurvivorRatio: %d vs %d",
					minimum.Get(), initial.Get()),
			})
			minimum.SetDefault(initial.Get())
		case initial.IsConfigured():
			minimum.SetDefault(initial.Get())
		default:
			initial.SetDefault(minimum.Get())
		}
	}

	invariant.Check(minimum.Get() <= initial.Get(),
		"MinSurvivorRatio %d above InitialSurvivorRatio %d", minimum.Get(), initial.Get())
	p.log.Debug("survivor ratios reconciled",
		"survivor", sr.Get(), "initial", initial.Get(), "min", minimum.Get())
}
