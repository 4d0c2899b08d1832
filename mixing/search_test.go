package mixing

import (
	"errors"
	"reflect"
	"testing"
)

func testPaint(id string, curve Curve) Paint {
	return NewPaint(id, "test brand", curve, curve.Hex())
}

// testCatalogue is a small but role-complete set of plausible paints.
func testCatalogue() []Paint {
	yellow := make(Curve, CurveBands)
	for i := range yellow {
		if i < 10 {
			yellow[i] = 0.08
		} else {
			yellow[i] = 0.8
		}
	}
	return []Paint{
		testPaint("Titanium White", flatCurve(0.92)),
		testPaint("Ivory Black", flatCurve(0.02)),
		testPaint("Cadmium Red", rampCurve(0.05, 0.8)),
		testPaint("French Ultramarine", rampCurve(0.7, 0.06)),
		testPaint("Cadmium Yellow", yellow),
		testPaint("Neutral Grey", flatCurve(0.35)),
	}
}

func reachableTarget(paints []Paint) TargetColor {
	curves := []Curve{paints[0].Curve, paints[1].Curve, paints[2].Curve, paints[3].Curve}
	return TargetColor{Curve: Mix(curves, []float64{0.4, 0.1, 0.3, 0.2})}
}

func TestFindBestMixturesBlackWhite2Roles(t *testing.T) {
	t.Parallel()

	paints := testCatalogue()
	results, err := NewService().FindBestMixtures(reachableTarget(paints), paints, BlackWhite2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}

	for _, res := range results {
		if len(res.Paints) != 4 {
			t.Fatalf("black+white+2 subset has %d paints: %v", len(res.Paints), res.Paints)
		}
		var whites, blacks int
		for _, id := range res.Paints {
			switch ClassifyRole(id) {
			case RoleWhite:
				whites++
			case RoleBlack:
				blacks++
			}
		}
		if whites != 1 || blacks != 1 {
			t.Fatalf("subset %v has %d whites and %d blacks", res.Paints, whites, blacks)
		}
	}
}

func TestFindBestMixturesNoBlackExcludesBlack(t *testing.T) {
	t.Parallel()

	paints := testCatalogue()
	results, err := NewService().FindBestMixtures(reachableTarget(paints), paints, NoBlack)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, res := range results {
		for _, id := range res.Paints {
			if ClassifyRole(id) == RoleBlack {
				t.Fatalf("no-black result contains %q", id)
			}
		}
		if len(res.Paints) < 3 || len(res.Paints) > 4 {
			t.Fatalf("no-black subset has %d paints", len(res.Paints))
		}
	}
}

func TestFindBestMixturesNeutralGreysAnchor(t *testing.T) {
	t.Parallel()

	paints := testCatalogue()
	results, err := NewService().FindBestMixtures(reachableTarget(paints), paints, NeutralGreys)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, res := range results {
		greys := 0
		for _, id := range res.Paints {
			if ClassifyRole(id) == RoleGrey {
				greys++
			}
		}
		if greys != 1 || len(res.Paints) != 3 {
			t.Fatalf("neutral-greys subset should be one grey plus two others, got %v", res.Paints)
		}
	}
}

func TestFindBestMixturesRankingAndSimplex(t *testing.T) {
	t.Parallel()

	paints := testCatalogue()
	results, err := NewService().FindBestMixtures(reachableTarget(paints), paints, AllAvailable)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if len(results) > 5 {
		t.Fatalf("ranking should cap at 5 results, got %d", len(results))
	}

	for i, res := range results {
		if i > 0 && results[i-1].Error > res.Error {
			t.Fatalf("ranking not monotonic at %d: %v > %v", i, results[i-1].Error, res.Error)
		}
		var sum float64
		for _, w := range res.Weights {
			if w < 0 {
				t.Fatalf("negative weight in %v", res.Weights)
			}
			sum += w
		}
		if sum < 1-1e-6 || sum > 1+1e-6 {
			t.Fatalf("weights %v sum to %v", res.Weights, sum)
		}
	}
}

func TestFindBestMixturesInsufficientPaints(t *testing.T) {
	t.Parallel()

	paints := testCatalogue()
	noBlack := make([]Paint, 0, len(paints))
	for _, p := range paints {
		if p.Role != RoleBlack {
			noBlack = append(noBlack, p)
		}
	}

	_, err := NewService().FindBestMixtures(reachableTarget(paints), noBlack, BlackWhite2)
	if err == nil {
		t.Fatal("expected insufficient-paints failure")
	}
	var ierr InsufficientPaintsError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected InsufficientPaintsError, got %T: %v", err, err)
	}
	if ierr.Choice != BlackWhite2 {
		t.Fatalf("error names wrong strategy: %v", ierr.Choice)
	}
}

func TestFindBestMixturesEmptyCatalogue(t *testing.T) {
	t.Parallel()

	_, err := NewService().FindBestMixtures(TargetColor{Hex: "#808080"}, nil, AllAvailable)
	if !errors.Is(err, ErrEmptyCatalogue) {
		t.Fatalf("expected ErrEmptyCatalogue, got %v", err)
	}
}

func TestFindBestMixturesUnknownChoice(t *testing.T) {
	t.Parallel()

	paints := testCatalogue()
	if _, err := NewService().FindBestMixtures(reachableTarget(paints), paints, MixChoice("swirl it all")); err == nil {
		t.Fatal("expected an error for an unknown strategy")
	}
}

func TestFindBestMixturesDeterministicAcrossWorkerCounts(t *testing.T) {
	t.Parallel()

	paints := testCatalogue()
	target := reachableTarget(paints)

	serial := Service{Workers: 1}
	parallel := Service{Workers: 8}

	a, err := serial.FindBestMixtures(target, paints, AllAvailable)
	if err != nil {
		t.Fatalf("serial search: %v", err)
	}
	b, err := parallel.FindBestMixtures(target, paints, AllAvailable)
	if err != nil {
		t.Fatalf("parallel search: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("ranked output depends on worker count")
	}
}

func TestParseMixChoice(t *testing.T) {
	t.Parallel()

	for _, c := range MixChoices() {
		got, err := ParseMixChoice(string(c))
		if err != nil || got != c {
			t.Fatalf("ParseMixChoice(%q) = %v, %v", c, got, err)
		}
	}
	if _, err := ParseMixChoice("mud"); err == nil {
		t.Fatal("expected an error for an unknown choice name")
	}
}

func TestCombinations(t *testing.T) {
	t.Parallel()

	got := combinations([]int{1, 2, 3, 4}, 2)
	want := [][]int{{1, 2}, {1, 3}, {1, 4}, {2, 3}, {2, 4}, {3, 4}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("combinations = %v, want %v", got, want)
	}
	if combinations([]int{1, 2}, 3) != nil {
		t.Fatal("oversized k should produce nothing")
	}
}
