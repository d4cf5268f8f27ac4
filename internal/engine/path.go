package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Tier is the mastery level label attached to a module.
type Tier string

const (
	TierBasic        Tier = "basic"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
)

// ModuleType is the kind of work a module asks for.
type ModuleType string

const (
	ModuleRemedial ModuleType = "remedial"
	ModulePractice ModuleType = "practice"
	ModuleAdvanced ModuleType = "advanced"
)

// Priority orders modules inside a path.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	}
	return 0
}

// BandPerformance counts answers given at one band.
type BandPerformance struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Module is one learning unit of a path.
type Module struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Type              ModuleType    `json:"type"`
	Skill             string        `json:"skill"`
	MasteryLevel      Tier          `json:"mastery_level"`
	Priority          Priority      `json:"priority"`
	Mastery           float64       `json:"mastery"`
	Description       string        `json:"description"`
	Duration          time.Duration `json:"-"`
	DurationMinutes   int           `json:"duration_minutes"`
	RecommendedLength string        `json:"recommended_duration"`
}

// LearningPath is a derived plan. It is never a source of truth.
type LearningPath struct {
	Subject                 string                   `json:"subject"`
	Strengths               []string                 `json:"strengths"`
	Weaknesses              []string                 `json:"weaknesses"`
	NeedsPractice           []string                 `json:"needs_practice"`
	Modules                 []Module                 `json:"modules"`
	OverallMastery          float64                  `json:"overall_mastery"`
	PerformanceByDifficulty map[Band]BandPerformance `json:"performance_by_difficulty"`
	TotalDuration           time.Duration            `json:"-"`
	EstimatedCompletionTime string                   `json:"estimated_completion_time"`
	Rationale               string                   `json:"rationale"`
}

// PathGenerator turns a mastery snapshot into a LearningPath.
type PathGenerator struct {
	tiers     TierThresholds
	durations ModuleDurations
}

// NewPathGenerator builds a generator from validated params.
func NewPathGenerator(p Params) *PathGenerator {
	return &PathGenerator{tiers: p.Tiers, durations: p.Durations}
}

// Generate builds the plan for subject. Every skill in masteries gets exactly
// one module. An empty map yields no modules and an overall mastery of 0.
func (g *PathGenerator) Generate(subject string, masteries map[string]float64, perf map[Band]BandPerformance) LearningPath {
	skills := make([]string, 0, len(masteries))
	for s := range masteries {
		skills = append(skills, s)
	}
	sort.Strings(skills)

	path := LearningPath{
		Subject:                 subject,
		Strengths:               []string{},
		Weaknesses:              []string{},
		NeedsPractice:           []string{},
		Modules:                 make([]Module, 0, len(skills)),
		PerformanceByDifficulty: performanceWithPercentages(perf),
	}

	var sum float64
	for _, skill := range skills {
		m := clamp01(masteries[skill], 0)
		sum += m
		mod := g.module(subject, skill, m)
		switch mod.MasteryLevel {
		case TierBasic:
			path.Weaknesses = append(path.Weaknesses, skill)
		case TierAdvanced:
			path.Strengths = append(path.Strengths, skill)
		default:
			path.NeedsPractice = append(path.NeedsPractice, skill)
		}
		path.Modules = append(path.Modules, mod)
		path.TotalDuration += mod.Duration
	}
	if len(skills) > 0 {
		path.OverallMastery = sum / float64(len(skills))
	}

	sort.SliceStable(path.Modules, func(i, j int) bool {
		ri, rj := path.Modules[i].Priority.rank(), path.Modules[j].Priority.rank()
		if ri != rj {
			return ri > rj
		}
		return path.Modules[i].Skill < path.Modules[j].Skill
	})

	path.EstimatedCompletionTime = FormatDuration(path.TotalDuration)
	path.Rationale = rationale(path.Strengths, path.Weaknesses, path.OverallMastery)
	return path
}

func (g *PathGenerator) module(subject, skill string, m float64) Module {
	label := strings.ReplaceAll(skill, "_", " ")
	mod := Module{Skill: skill, Mastery: m, MasteryLevel: g.tiers.Classify(m)}

	switch mod.MasteryLevel {
	case TierBasic:
		mod.Type = ModuleRemedial
		mod.Priority = PriorityHigh
		mod.Title = "Building foundations in " + label
		mod.Description = fmt.Sprintf("Focus on fundamentals of %s to build a solid foundation", label)
		mod.Duration = g.remedialDuration(m)
	case TierIntermediate:
		mod.Type = ModulePractice
		mod.Priority = PriorityMedium
		mod.Title = "Practicing " + label
		mod.Description = fmt.Sprintf("Reinforce your understanding of %s through targeted practice", label)
		mod.Duration = g.durations.Practice
	default:
		mod.Type = ModuleAdvanced
		mod.Priority = PriorityLow
		mod.Title = "Advanced " + label
		mod.Description = fmt.Sprintf("Deepen your expertise in %s with advanced concepts", label)
		mod.Duration = g.durations.Advanced
	}

	mod.ID = fmt.Sprintf("%s_%s_%s", subject, mod.Type, skill)
	mod.DurationMinutes = int(mod.Duration / time.Minute)
	mod.RecommendedLength = FormatDuration(mod.Duration)
	return mod
}

// remedialDuration scales the baseline by how far m sits below the weakness
// threshold: baseline * (1 + (w-m)/w), rounded to the configured step.
func (g *PathGenerator) remedialDuration(m float64) time.Duration {
	base := g.durations.Remedial
	w := g.tiers.Weakness
	if w <= 0 {
		return base
	}
	scale := 1 + (w-m)/w
	d := time.Duration(math.Round(float64(base) * scale))
	if step := g.durations.Rounding; step > 0 {
		d = time.Duration(math.Round(float64(d)/float64(step))) * step
	}
	return d
}

// FormatDuration renders d as "3 hours 30 minutes", dropping zero parts.
func FormatDuration(d time.Duration) string {
	total := int(d.Round(time.Minute) / time.Minute)
	if total <= 0 {
		return "0 minutes"
	}
	h, m := total/60, total%60
	var parts []string
	if h > 0 {
		parts = append(parts, plural(h, "hour"))
	}
	if m > 0 {
		parts = append(parts, plural(m, "minute"))
	}
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func performanceWithPercentages(perf map[Band]BandPerformance) map[Band]BandPerformance {
	out := make(map[Band]BandPerformance, len(perf))
	for b, p := range perf {
		p.Percentage = 0
		if p.Total > 0 {
			p.Percentage = math.Round(float64(p.Correct)/float64(p.Total)*1000) / 10
		}
		out[b] = p
	}
	return out
}

func rationale(strengths, weaknesses []string, overall float64) string {
	strong := "some areas"
	if len(strengths) > 0 {
		strong = strings.Join(strengths, ", ")
	}
	weak := "a few topics"
	if len(weaknesses) > 0 {
		weak = strings.Join(weaknesses, ", ")
	}
	return fmt.Sprintf("This personalized learning path is designed based on your assessment results. "+
		"You showed strong understanding in %s and need more practice in %s. Overall mastery: %.1f%%.",
		strong, weak, overall*100)
}
