package swing

// Analysis bundles every intermediate value of one pipeline run so callers can
// persist or display them.
type Analysis struct {
	Descriptor ArtifactDescriptor `json:"-"`
	Seed       Seed               `json:"seed"`
	Metrics    Metrics            `json:"metrics"`
	Result     Result             `json:"result"`
}

// Analyze runs seed → metrics → score for d.
func Analyze(d ArtifactDescriptor, lang Language) (Analysis, error) {
	seed, err := NewSeed(d)
	if err != nil {
		return Analysis{}, err
	}
	m := DeriveMetrics(seed, d.Name)
	return Analysis{
		Descriptor: d,
		Seed:       seed,
		Metrics:    m,
		Result:     ScoreIn(lang, m),
	}, nil
}
