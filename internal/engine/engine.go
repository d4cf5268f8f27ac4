package engine

// Engine bundles the three components built from one parameter set. It holds
// no mutable state and is safe for concurrent use.
type Engine struct {
	params   Params
	model    *Model
	selector *Selector
	paths    *PathGenerator
}

// New validates p and builds an Engine.
func New(p Params) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p = p.clone()
	return &Engine{
		params:   p,
		model:    NewModel(p),
		selector: NewSelector(p),
		paths:    NewPathGenerator(p),
	}, nil
}

// Params returns a copy of the parameters the engine was built with.
func (e *Engine) Params() Params { return e.params.clone() }

func (e *Engine) Prior() float64 { return e.params.Prior }

func (e *Engine) Update(current *MasteryState, obs Observation) (Outcome, error) {
	return e.model.Update(current, obs)
}

func (e *Engine) Select(masteries map[string]MasteryState, bank []Question, answered map[string]struct{}) (Selection, error) {
	return e.selector.Select(masteries, bank, answered)
}

func (e *Engine) Generate(subject string, masteries map[string]float64, perf map[Band]BandPerformance) LearningPath {
	return e.paths.Generate(subject, masteries, perf)
}

// Tier classifies a mastery value with the configured thresholds.
func (e *Engine) Tier(m float64) Tier { return e.params.Tiers.Classify(m) }
