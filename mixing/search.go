package mixing

import (
	"fmt"
	"math"
	"runtime"
	"sync"
)

// MixChoice selects how candidate paint subsets are enumerated.
type MixChoice string

const (
	BlackWhite2  MixChoice = "black + white + 2 colours"
	BlackWhite3  MixChoice = "black + white + 3 colours"
	AllAvailable MixChoice = "all available colours"
	NeutralGreys MixChoice = "neutral greys"
	NoBlack      MixChoice = "no black"
)

// MixChoices lists every supported strategy.
func MixChoices() []MixChoice {
	return []MixChoice{BlackWhite2, BlackWhite3, AllAvailable, NeutralGreys, NoBlack}
}

// ParseMixChoice validates a strategy name from a request or stored
// settings.
func ParseMixChoice(s string) (MixChoice, error) {
	for _, c := range MixChoices() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown mix choice %q", s)
}

// MixResult is one optimized candidate: the paint subset, its weight
// vector, the simulated curve and its perceptual properties.
type MixResult struct {
	Paints     []string  `json:"paints"`
	Weights    []float64 `json:"weights"`
	Error      float64   `json:"error"`
	Hex        string    `json:"hex"`
	PaintHexes []string  `json:"paintHexes"`
	Lab        Lab       `json:"lab"`
	Curve      Curve     `json:"-"`
}

// Service runs combination searches. Zero value works; Workers bounds the
// parallel fan-out and defaults to the CPU count.
type Service struct {
	Workers int
}

func NewService() *Service {
	return &Service{Workers: runtime.NumCPU()}
}

// FindBestMixtures resolves the target to a spectral curve, enumerates
// every paint subset the strategy allows, optimizes mixing weights per
// subset in parallel and returns the ranked best results. Output is
// identical for any worker count.
func (s *Service) FindBestMixtures(target TargetColor, paints []Paint, choice MixChoice) ([]MixResult, error) {
	if len(paints) == 0 {
		return nil, ErrEmptyCatalogue
	}
	for _, p := range paints {
		if len(p.Curve) != CurveBands {
			return nil, fmt.Errorf("paint %q has %d spectral values, expected %d", p.ID, len(p.Curve), CurveBands)
		}
	}

	subsets, err := enumerate(choice, paints)
	if err != nil {
		return nil, err
	}

	targetCurve, err := target.Resolve()
	if err != nil {
		return nil, err
	}
	targetLab := CurveToLab(targetCurve)

	results := s.evaluate(paints, subsets, targetLab)
	return rankResults(results, topK), nil
}

// evaluate fans the independent subsets out over a worker pool. Workers
// only read the shared inputs and write into their own slot of the result
// slice, so no locking is needed and the aggregation barrier keeps the
// outcome deterministic regardless of scheduling.
func (s *Service) evaluate(paints []Paint, subsets [][]int, targetLab Lab) []*MixResult {
	results := make([]*MixResult, len(subsets))
	if len(subsets) == 0 {
		return results
	}

	workers := s.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(subsets) {
		workers = len(subsets)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = evaluateSubset(paints, subsets[idx], targetLab)
			}
		}()
	}
	for i := range subsets {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// evaluateSubset optimizes one candidate. A nil result means the
// candidate was discarded (numeric anomaly); that never aborts the
// search.
func evaluateSubset(paints []Paint, subset []int, targetLab Lab) *MixResult {
	curves := make([]Curve, len(subset))
	for i, idx := range subset {
		curves[i] = paints[idx].Curve
	}

	weights, mixErr := optimizeWeights(curves, targetLab)
	if math.IsNaN(mixErr) || math.IsInf(mixErr, 0) || mixErr == math.MaxFloat64 {
		return nil
	}

	mixed := Mix(curves, weights)
	if !mixed.IsFinite() {
		return nil
	}

	ids := make([]string, len(subset))
	hexes := make([]string, len(subset))
	for i, idx := range subset {
		ids[i] = paints[idx].ID
		hexes[i] = paints[idx].Hex
	}

	return &MixResult{
		Paints:     ids,
		Weights:    weights,
		Error:      mixErr,
		Hex:        mixed.Hex(),
		PaintHexes: hexes,
		Lab:        CurveToLab(mixed),
		Curve:      mixed,
	}
}

// enumerate generates every subset satisfying the strategy's role and
// size constraints. Missing anchor roles fail here, before any
// optimization work starts.
func enumerate(choice MixChoice, paints []Paint) ([][]int, error) {
	switch choice {
	case BlackWhite2:
		return blackWhitePlus(choice, paints, 2)
	case BlackWhite3:
		return blackWhitePlus(choice, paints, 3)
	case AllAvailable:
		all := indicesWhere(paints, func(Paint) bool { return true })
		if len(all) < 3 {
			return nil, InsufficientPaintsError{Choice: choice, Missing: "at least 3 paints"}
		}
		return sizedSubsets(all, 3, 5), nil
	case NeutralGreys:
		return greyAnchored(choice, paints)
	case NoBlack:
		available := indicesWhere(paints, func(p Paint) bool { return p.Role != RoleBlack })
		if len(available) < 3 {
			return nil, InsufficientPaintsError{Choice: choice, Missing: "at least 3 non-black paints"}
		}
		return sizedSubsets(available, 3, 4), nil
	default:
		return nil, fmt.Errorf("unknown mix choice %q", choice)
	}
}

// blackWhitePlus builds subsets of one white anchor, one black anchor and
// nExtra chromatic paints.
func blackWhitePlus(choice MixChoice, paints []Paint, nExtra int) ([][]int, error) {
	whites := indicesWhere(paints, func(p Paint) bool { return p.Role == RoleWhite })
	blacks := indicesWhere(paints, func(p Paint) bool { return p.Role == RoleBlack })
	chromatic := indicesWhere(paints, func(p Paint) bool { return p.Role == RoleChromatic })

	if len(whites) == 0 {
		return nil, InsufficientPaintsError{Choice: choice, Missing: "a white paint"}
	}
	if len(blacks) == 0 {
		return nil, InsufficientPaintsError{Choice: choice, Missing: "a black paint"}
	}
	if len(chromatic) < nExtra {
		return nil, InsufficientPaintsError{
			Choice:  choice,
			Missing: fmt.Sprintf("at least %d chromatic paints", nExtra),
		}
	}

	var subsets [][]int
	for _, w := range whites {
		for _, b := range blacks {
			for _, extra := range combinations(chromatic, nExtra) {
				subset := append([]int{w, b}, extra...)
				subsets = append(subsets, subset)
			}
		}
	}
	return subsets, nil
}

// greyAnchored builds subsets of one neutral grey plus each chromatic
// pair.
func greyAnchored(choice MixChoice, paints []Paint) ([][]int, error) {
	greys := indicesWhere(paints, func(p Paint) bool { return p.Role == RoleGrey })
	chromatic := indicesWhere(paints, func(p Paint) bool { return p.Role == RoleChromatic })

	if len(greys) == 0 {
		return nil, InsufficientPaintsError{Choice: choice, Missing: "a grey paint"}
	}
	if len(chromatic) < 2 {
		return nil, InsufficientPaintsError{Choice: choice, Missing: "at least 2 chromatic paints"}
	}

	var subsets [][]int
	for _, g := range greys {
		for _, pair := range combinations(chromatic, 2) {
			subset := append([]int{g}, pair...)
			subsets = append(subsets, subset)
		}
	}
	return subsets, nil
}

func indicesWhere(paints []Paint, keep func(Paint) bool) []int {
	var out []int
	for i, p := range paints {
		if keep(p) {
			out = append(out, i)
		}
	}
	return out
}

// sizedSubsets enumerates every unordered subset with size in [minSize,
// maxSize]. Sizes are fixed per strategy so the fan-out stays bounded.
func sizedSubsets(items []int, minSize, maxSize int) [][]int {
	var subsets [][]int
	for size := minSize; size <= maxSize && size <= len(items); size++ {
		subsets = append(subsets, combinations(items, size)...)
	}
	return subsets
}

// combinations returns every unordered k-element subset of items, in
// lexicographic order of the item positions.
func combinations(items []int, k int) [][]int {
	if k > len(items) || k <= 0 {
		return nil
	}

	var out [][]int
	pick := make([]int, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			out = append(out, append([]int(nil), pick...))
			return
		}
		for i := start; i <= len(items)-(k-depth); i++ {
			pick[depth] = items[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
	return out
}
