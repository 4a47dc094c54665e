package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// Stage is a discretized age bracket.
type Stage int

// Life stages in order.
const (
	StageBaby Stage = iota
	StageToddler
	StageChild
	StageTeenager
	StageYoungAdult
	StageAdult
	StageElder
)

var stageNames = []string{"Baby", "Toddler", "Child", "Teenager", "YoungAdult", "Adult", "Elder"}

// DefaultAgeSpans is the duration in days of each stage, Baby through Elder.
var DefaultAgeSpans = []int{2, 7, 13, 13, 24, 24, 20}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// ParseStage converts a stage name or index to a Stage.
func ParseStage(s string) (Stage, error) {
	for i, name := range stageNames {
		if strings.EqualFold(name, s) {
			return Stage(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < len(stageNames) {
		return Stage(n), nil
	}
	return 0, fmt.Errorf("invalid stage %q (valid: %s)", s, strings.Join(stageNames, ", "))
}

// AgeSpans returns the per-person override when present, else global.
func (p *Person) AgeSpans(global []int) []int {
	if p.AgeSpansOverride != nil {
		return p.AgeSpansOverride
	}
	return global
}

// Stage returns p's life stage on day asOfDay. Days past a recorded death
// are clamped to the deathday. A stage override can only hold a person in
// an earlier stage.
func (p *Person) Stage(asOfDay int, global []int) Stage {
	if p.Deathday != nil && *p.Deathday < asOfDay {
		asOfDay = *p.Deathday
	}

	spans := p.AgeSpans(global)
	age := p.Birthday
	stage := 0
	for ; stage < len(spans)-1; stage++ {
		age += spans[stage]
		if asOfDay < age {
			break
		}
	}

	if p.StageOverride != nil && int(*p.StageOverride) < stage {
		return *p.StageOverride
	}
	return Stage(stage)
}

// Lifespan returns the total of p's effective stage durations.
func (p *Person) Lifespan(global []int) int {
	total := 0
	for _, d := range p.AgeSpans(global) {
		total += d
	}
	return total
}
