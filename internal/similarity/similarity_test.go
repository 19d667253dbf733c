// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package similarity

import (
	"math"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercases and splits on punctuation",
			text: "Space-Adventure: beyond!",
			want: []string{"space", "adventure"},
		},
		{
			name: "drops single-character tokens",
			text: "a x robot 7 ai",
			want: []string{"robot", "ai"},
		},
		{
			name: "removes stop words",
			text: "the quick fox and the lazy dog",
			want: []string{"quick", "fox", "lazy", "dog"},
		},
		{
			name: "keeps digit runs",
			text: "area 51 mystery",
			want: []string{"area", "51", "mystery"},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "only stop words",
			text: "the and of",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractTermsBigrams(t *testing.T) {
	got := extractTerms("dark space thriller")
	want := []string{
		"dark", "space", "thriller",
		"dark space", "space thriller",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("extractTerms = %v, want %v", got, want)
	}
}

func TestExtractTermsBigramsSkipStopWords(t *testing.T) {
	// Stop words are removed before bigram assembly, so the bigram spans
	// the surviving neighbors.
	got := extractTerms("war of worlds")
	want := []string{"war", "worlds", "war worlds"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("extractTerms = %v, want %v", got, want)
	}
}

func TestBuildMatrixDiagonal(t *testing.T) {
	docs := []string{
		"space adventure with robots",
		"",
		"romantic drama in paris",
	}

	m := BuildMatrix(docs, 0)

	if m.Size() != 3 {
		t.Fatalf("Expected size 3, got %d", m.Size())
	}
	if got := m.At(0, 0); got != 1.0 {
		t.Errorf("Expected diagonal 1.0 for non-empty doc, got %v", got)
	}
	if got := m.At(1, 1); got != 0.0 {
		t.Errorf("Expected diagonal 0.0 for empty doc, got %v", got)
	}
	if got := m.At(2, 2); got != 1.0 {
		t.Errorf("Expected diagonal 1.0 for non-empty doc, got %v", got)
	}
}

func TestBuildMatrixSymmetric(t *testing.T) {
	docs := []string{
		"alien invasion thriller",
		"alien romance drama",
		"courtroom drama thriller",
	}

	m := BuildMatrix(docs, 0)

	for i := 0; i < m.Size(); i++ {
		for j := 0; j < m.Size(); j++ {
			if m.At(i, j) != m.At(j, i) {
				t.Errorf("Matrix not symmetric at (%d,%d): %v vs %v", i, j, m.At(i, j), m.At(j, i))
			}
		}
	}
}

func TestBuildMatrixDisjointDocs(t *testing.T) {
	docs := []string{
		"space robots lasers",
		"medieval castle knights",
	}

	m := BuildMatrix(docs, 0)

	if got := m.At(0, 1); got != 0.0 {
		t.Errorf("Expected 0 similarity for disjoint vocabularies, got %v", got)
	}
}

func TestBuildMatrixIdenticalDocs(t *testing.T) {
	docs := []string{
		"haunted house horror",
		"haunted house horror",
	}

	m := BuildMatrix(docs, 0)

	if got := m.At(0, 1); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("Expected similarity 1.0 for identical docs, got %v", got)
	}
}

func TestBuildMatrixSharedTermsScoreHigher(t *testing.T) {
	docs := []string{
		"space adventure robots aliens",
		"space adventure pirates aliens",
		"quiet village romance",
	}

	m := BuildMatrix(docs, 0)

	if m.At(0, 1) <= m.At(0, 2) {
		t.Errorf("Expected doc1 more similar to doc0 than doc2: %v vs %v", m.At(0, 1), m.At(0, 2))
	}
	if sim := m.At(0, 1); sim <= 0 || sim >= 1 {
		t.Errorf("Expected partial overlap similarity in (0,1), got %v", sim)
	}
}

func TestBuildMatrixDeterministic(t *testing.T) {
	docs := []string{
		"18 28 a thrilling heist in tokyo en",
		"28 35 a slow burn romance in tokyo en",
		"27 53 something lurks beneath the lake en",
		"16 10751 a family of ducks crosses the city en",
	}

	a := BuildMatrix(docs, 0)
	b := BuildMatrix(docs, 0)

	if !reflect.DeepEqual(a.data, b.data) {
		t.Error("Expected identical matrices for identical input")
	}
}

func TestBuildVocabularyCap(t *testing.T) {
	docTerms := [][]string{
		{"aa", "aa", "aa", "bb", "bb", "cc", "dd"},
	}

	vocab := buildVocabulary(docTerms, 2)

	if len(vocab) != 2 {
		t.Fatalf("Expected vocabulary of 2 terms, got %d", len(vocab))
	}
	if _, ok := vocab["aa"]; !ok {
		t.Error("Expected highest-frequency term aa in vocabulary")
	}
	if _, ok := vocab["bb"]; !ok {
		t.Error("Expected second-highest term bb in vocabulary")
	}
}

func TestBuildVocabularyTieBreak(t *testing.T) {
	// cc and bb tie on count; alphabetical order keeps bb.
	docTerms := [][]string{
		{"aa", "aa", "cc", "bb"},
	}

	vocab := buildVocabulary(docTerms, 2)

	if _, ok := vocab["bb"]; !ok {
		t.Errorf("Expected alphabetical tie-break to keep bb, vocab %v", vocab)
	}
	if _, ok := vocab["cc"]; ok {
		t.Errorf("Expected alphabetical tie-break to drop cc, vocab %v", vocab)
	}
}

func TestComputeIDFSmoothing(t *testing.T) {
	docTerms := [][]string{
		{"everywhere"},
		{"everywhere2", "everywhere"},
	}
	vocab := map[string]int{"everywhere": 0, "everywhere2": 1}

	idf := computeIDF(docTerms, vocab, 2)

	// Term in every doc: ln(3/3)+1 = 1
	if math.Abs(idf[0]-1.0) > 1e-12 {
		t.Errorf("Expected idf 1.0 for ubiquitous term, got %v", idf[0])
	}
	// Term in one of two docs: ln(3/2)+1
	want := math.Log(1.5) + 1
	if math.Abs(idf[1]-want) > 1e-12 {
		t.Errorf("Expected idf %v, got %v", want, idf[1])
	}
}

func TestVectorizeNormalized(t *testing.T) {
	docs := []string{"alpha beta gamma delta"}
	terms := extractTerms(docs[0])
	vocab := buildVocabulary([][]string{terms}, DefaultMaxVocabulary)
	idf := computeIDF([][]string{terms}, vocab, 1)

	vec := vectorize(terms, vocab, idf)

	var norm float64
	for _, tw := range vec {
		norm += tw.weight * tw.weight
	}
	if math.Abs(norm-1.0) > 1e-12 {
		t.Errorf("Expected unit L2 norm, got %v", math.Sqrt(norm))
	}
}

func TestBuildVocabularyZeroCap(t *testing.T) {
	m := BuildMatrix([]string{"alpha beta", "beta gamma"}, 0)
	if m.Size() != 2 {
		t.Fatalf("Expected size 2, got %d", m.Size())
	}
	if m.At(0, 1) <= 0 {
		t.Errorf("Expected positive similarity with default vocabulary cap, got %v", m.At(0, 1))
	}
}
