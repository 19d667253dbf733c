// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

// Package similarity implements content-based item similarity using TF-IDF
// term vectors and pairwise cosine similarity.
//
// Each item's features string is vectorized over a shared vocabulary of
// unigrams and bigrams, weighted by smoothed inverse document frequency and
// L2-normalized, so the cosine of two vectors reduces to their dot product.
// The whole pipeline is deterministic: for a fixed document list (same texts,
// same order) the resulting matrix is exactly reproducible.
//
// The matrix is O(n²) in both time and space and is recomputed wholesale on
// any corpus change; the corpus is bounded (hundreds of items), so neither is
// a concern in practice.
package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// DefaultMaxVocabulary caps the vocabulary when the caller passes 0.
const DefaultMaxVocabulary = 5000

// Matrix is a dense symmetric similarity matrix over a document corpus.
// Entry (i,j) is the cosine similarity of documents i and j in [0,1].
// The diagonal is 1.0 for any document that produced a non-empty term
// vector, and 0.0 for documents with no usable terms.
//
// A Matrix is immutable after construction and safe for concurrent reads.
type Matrix struct {
	n    int
	data []float64
}

// Size returns the number of documents the matrix covers.
func (m *Matrix) Size() int {
	return m.n
}

// At returns the similarity between documents i and j.
// Panics if either index is out of range, like a slice access would.
func (m *Matrix) At(i, j int) float64 {
	return m.data[i*m.n+j]
}

// Row returns the similarity row for document i. The returned slice is a
// view into the matrix and must not be modified.
func (m *Matrix) Row(i int) []float64 {
	return m.data[i*m.n : (i+1)*m.n]
}

// termWeight is one component of a sparse document vector.
type termWeight struct {
	term   int
	weight float64
}

// BuildMatrix vectorizes the documents with TF-IDF and computes their full
// pairwise cosine similarity matrix.
//
// Vectorization:
//   - tokens are maximal runs of Unicode letters and digits, lowercased;
//     runs shorter than 2 characters are dropped
//   - English stop-words are removed before n-gram assembly
//   - terms are the surviving unigrams plus adjacent-pair bigrams
//     (joined with a single space)
//   - the vocabulary is capped at maxVocabulary terms, keeping the terms
//     with the highest total occurrence count across the corpus and
//     breaking count ties by ascending term text
//   - IDF uses the smoothed form ln((1+n)/(1+df)) + 1
//   - each document vector is L2-normalized, so cosine similarity between
//     two documents is the dot product of their vectors
//
// maxVocabulary <= 0 selects DefaultMaxVocabulary.
func BuildMatrix(docs []string, maxVocabulary int) *Matrix {
	if maxVocabulary <= 0 {
		maxVocabulary = DefaultMaxVocabulary
	}

	n := len(docs)
	m := &Matrix{n: n, data: make([]float64, n*n)}
	if n == 0 {
		return m
	}

	// Tokenize every document once; term extraction is the only text-
	// dependent step, everything after operates on counts.
	docTerms := make([][]string, n)
	for i, doc := range docs {
		docTerms[i] = extractTerms(doc)
	}

	vocab := buildVocabulary(docTerms, maxVocabulary)
	idf := computeIDF(docTerms, vocab, n)
	vectors := make([][]termWeight, n)
	for i, terms := range docTerms {
		vectors[i] = vectorize(terms, vocab, idf)
	}

	// Cosine of L2-normalized vectors is a plain dot product. The matrix
	// is symmetric, so compute the upper triangle and mirror.
	for i := 0; i < n; i++ {
		if len(vectors[i]) > 0 {
			m.data[i*n+i] = 1.0
		}
		for j := i + 1; j < n; j++ {
			sim := dotSparse(vectors[i], vectors[j])
			m.data[i*n+j] = sim
			m.data[j*n+i] = sim
		}
	}

	return m
}

// extractTerms produces the unigram+bigram term sequence for one document.
func extractTerms(doc string) []string {
	unigrams := tokenize(doc)
	if len(unigrams) == 0 {
		return nil
	}

	terms := make([]string, 0, 2*len(unigrams)-1)
	terms = append(terms, unigrams...)
	for i := 0; i+1 < len(unigrams); i++ {
		terms = append(terms, unigrams[i]+" "+unigrams[i+1])
	}
	return terms
}

// tokenize splits text into lowercased alphanumeric tokens of length >= 2
// with stop-words removed.
func tokenize(text string) []string {
	text = strings.ToLower(text)

	var tokens []string
	start := -1
	for i, r := range text {
		if isAlphanumeric(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = appendToken(tokens, text[start:i])
			start = -1
		}
	}
	if start >= 0 {
		tokens = appendToken(tokens, text[start:])
	}
	return tokens
}

func appendToken(tokens []string, tok string) []string {
	// Length check counts runes, not bytes; short checks on byte length
	// would miss multi-byte single characters.
	if len([]rune(tok)) < 2 {
		return tokens
	}
	if _, stop := englishStopWords[tok]; stop {
		return tokens
	}
	return append(tokens, tok)
}

func isAlphanumeric(r rune) bool {
	if r < 128 {
		return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z')
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// buildVocabulary selects up to maxVocabulary terms by total occurrence
// count across the corpus, breaking ties by ascending term text, and
// assigns each a stable index.
func buildVocabulary(docTerms [][]string, maxVocabulary int) map[string]int {
	counts := make(map[string]int)
	for _, terms := range docTerms {
		for _, t := range terms {
			counts[t]++
		}
	}

	ordered := make([]string, 0, len(counts))
	for t := range counts {
		ordered = append(ordered, t)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		return a < b
	})

	if len(ordered) > maxVocabulary {
		ordered = ordered[:maxVocabulary]
	}

	// Index assignment is alphabetical within the selected terms; any
	// stable order works for cosine, this one makes vectors reproducible
	// byte for byte.
	sort.Strings(ordered)
	vocab := make(map[string]int, len(ordered))
	for i, t := range ordered {
		vocab[t] = i
	}
	return vocab
}

// computeIDF returns the smoothed inverse document frequency per vocabulary
// term: ln((1+n)/(1+df)) + 1.
func computeIDF(docTerms [][]string, vocab map[string]int, n int) []float64 {
	df := make([]int, len(vocab))
	seen := make(map[int]struct{})
	for _, terms := range docTerms {
		clear(seen)
		for _, t := range terms {
			idx, ok := vocab[t]
			if !ok {
				continue
			}
			if _, dup := seen[idx]; dup {
				continue
			}
			seen[idx] = struct{}{}
			df[idx]++
		}
	}

	idf := make([]float64, len(vocab))
	for i, d := range df {
		idf[i] = math.Log(float64(1+n)/float64(1+d)) + 1
	}
	return idf
}

// vectorize builds the L2-normalized TF-IDF vector for one document as a
// sparse list sorted by term index.
func vectorize(terms []string, vocab map[string]int, idf []float64) []termWeight {
	tf := make(map[int]int)
	for _, t := range terms {
		if idx, ok := vocab[t]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return nil
	}

	vec := make([]termWeight, 0, len(tf))
	var norm float64
	for idx, count := range tf {
		w := float64(count) * idf[idx]
		vec = append(vec, termWeight{term: idx, weight: w})
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i].weight /= norm
	}

	sort.Slice(vec, func(i, j int) bool { return vec[i].term < vec[j].term })
	return vec
}

// dotSparse computes the dot product of two index-sorted sparse vectors.
func dotSparse(a, b []termWeight) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].term < b[j].term:
			i++
		case a[i].term > b[j].term:
			j++
		default:
			sum += a[i].weight * b[j].weight
			i++
			j++
		}
	}
	return sum
}
