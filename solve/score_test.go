package solve

import "testing"

func TestScoreCompareLexicographic(t *testing.T) {
	better := Score{Unavailable: 0, Fixes: 5}
	worse := Score{Unavailable: 1, Fixes: 0}

	if better.Compare(worse) >= 0 {
		t.Fatalf("expected %v to rank better than %v", better, worse)
	}

	if worse.Compare(better) <= 0 {
		t.Fatalf("expected %v to rank worse than %v", worse, better)
	}

	equal := Score{Unavailable: 1, Fixes: 0}
	if worse.Compare(equal) != 0 {
		t.Fatalf("expected %v and %v to compare equal", worse, equal)
	}
}

func TestScoreAddAccumulates(t *testing.T) {
	sum := Score{Fixes: 1, Literals: 2}.Add(Score{Fixes: 3, Generics: 1})

	want := Score{Fixes: 4, Generics: 1, Literals: 2}
	if sum != want {
		t.Fatalf("Add() = %+v, want %+v", sum, want)
	}
}

func TestFilterSolutionsKeepsOnlyNearMinimum(t *testing.T) {
	solutions := []Solution{
		{Score: Score{Fixes: 0}},
		{Score: Score{Fixes: 1}},
		{Score: Score{Fixes: 5}},
	}

	survivors := filterSolutions(solutions, Score{})
	if len(survivors) != 1 || survivors[0].Score.Fixes != 0 {
		t.Fatalf("filterSolutions with zero slack = %+v, want only the zero-Fixes solution", survivors)
	}

	withSlack := filterSolutions(solutions, Score{Fixes: 1})
	if len(withSlack) != 2 {
		t.Fatalf("filterSolutions with slack 1 = %+v, want 2 survivors", withSlack)
	}
}

func TestFilterSolutionsEmptyInput(t *testing.T) {
	if got := filterSolutions(nil, Score{}); len(got) != 0 {
		t.Fatalf("filterSolutions(nil) = %+v, want empty", got)
	}
}
