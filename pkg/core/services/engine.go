package services

import (
	"fmt"

	"github.com/jakechorley/roster-engine/internal/config"
	"github.com/jakechorley/roster-engine/pkg/core/payrules"
	"github.com/jakechorley/roster-engine/pkg/core/scoring"
)

// scoringConfig resolves the configured scoring options, optionally switching to another preset
func scoringConfig(cfg *config.Config, preset string) (scoring.Config, error) {
	sc, err := cfg.Scoring()
	if err != nil {
		return scoring.Config{}, fmt.Errorf("failed to build scoring config: %w", err)
	}
	if preset == "" {
		return sc, nil
	}
	return sc.WithPreset(scoring.Preset(preset))
}

// jurisdictionFor resolves the jurisdiction for an award, falling back to the configured award
func jurisdictionFor(cfg *config.Config, award string) (payrules.Jurisdiction, error) {
	if award == "" {
		award = cfg.Award
	}
	return payrules.LookupJurisdiction(payrules.AwardType(award))
}

// JurisdictionInfo describes the pay rules for one award
type JurisdictionInfo struct {
	Jurisdiction payrules.Jurisdiction `json:"jurisdiction"`
	Penalties    payrules.Penalties    `json:"penalties"`
}

// DescribeJurisdiction returns the thresholds, break rules and penalty rates of an award
func DescribeJurisdiction(award string) (*JurisdictionInfo, error) {
	j, err := payrules.LookupJurisdiction(payrules.AwardType(award))
	if err != nil {
		return nil, err
	}
	p, err := payrules.PenaltiesFor(j.Award)
	if err != nil {
		return nil, err
	}
	return &JurisdictionInfo{Jurisdiction: j, Penalties: p}, nil
}

// PresetSummary is a named weight preset
type PresetSummary struct {
	Name    scoring.Preset  `json:"name"`
	Weights scoring.Weights `json:"weights"`
}

// ListPresets returns every weight preset in name order
func ListPresets() []PresetSummary {
	presets := scoring.Presets()
	out := make([]PresetSummary, 0, len(presets))
	for _, p := range presets {
		w, err := scoring.PresetWeights(p)
		if err != nil {
			continue
		}
		out = append(out, PresetSummary{Name: p, Weights: w})
	}
	return out
}
