package dialect

import "sort"

// Classification is the result of scoring evidence for a program.
type Classification struct {
	Dialect         string
	Score           int
	TotalScore      int
	Confidence      float64
	RunnerUp        string
	RunnerUpScore   int
	ObservedSignals int
}

// Classifier scores evidence and chooses a dominant dialect.
// It is intentionally simple; callers apply their own thresholds.
type Classifier struct{}

func (Classifier) Classify(e *Evidence) Classification {
	if e == nil || len(e.hints) == 0 {
		return Classification{}
	}

	scores := make(map[string]int)
	names := make(map[string]string)
	total := 0
	observed := 0
	for _, h := range e.hints {
		observed++
		if h.Score <= 0 || h.Dialect == "" {
			continue
		}
		k := key(h.Dialect)
		if _, ok := names[k]; !ok {
			names[k] = h.Dialect
		}
		scores[k] += h.Score
		total += h.Score
	}

	// порядок ключей фиксируем, иначе при равных очках победитель плавает
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var bestKey, runnerKey string
	bestScore, runnerScore := 0, 0
	for _, k := range keys {
		score := scores[k]
		if score > bestScore {
			runnerKey, runnerScore = bestKey, bestScore
			bestKey, bestScore = k, score
			continue
		}
		if score > runnerScore {
			runnerKey, runnerScore = k, score
		}
	}

	conf := 0.0
	if total > 0 {
		conf = float64(bestScore) / float64(total)
	}

	return Classification{
		Dialect:         names[bestKey],
		Score:           bestScore,
		TotalScore:      total,
		Confidence:      conf,
		RunnerUp:        names[runnerKey],
		RunnerUpScore:   runnerScore,
		ObservedSignals: observed,
	}
}
