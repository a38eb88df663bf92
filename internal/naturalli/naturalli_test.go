// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package naturalli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/openie-engine/internal/depgraph"
	"github.com/pdiddy/openie-engine/internal/depgraph/depgraphtest"
	"github.com/pdiddy/openie-engine/internal/fragment"
	"github.com/pdiddy/openie-engine/pkg/types"
)

func clauseOf(t *testing.T, s *types.Sentence, truth bool) fragment.Fragment {
	t.Helper()
	g, err := depgraph.FromSentence(s)
	require.NoError(t, err)
	return fragment.New(depgraph.Clean(g), truth, true)
}

func TestExtractAdjectiveEntailments(t *testing.T) {
	tests := []struct {
		name     string
		sentence *types.Sentence
		want     []string
	}{
		{"copula adjective", depgraphtest.HappyCat(), []string{"cat is happy"}},
		{"privative veto", depgraphtest.FormerPresident(), nil},
		{"prepositional object", depgraphtest.HappyPresident(), []string{"Obama is happy France"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractAdjectiveEntailments(clauseOf(t, tt.sentence, true))
			require.NoError(t, err)
			var texts []string
			for _, f := range got {
				texts = append(texts, f.String())
				assert.False(t, f.WholeSentence)
				assert.True(t, f.AssumedTruth)
			}
			assert.Equal(t, tt.want, texts)
		})
	}
}

func TestAdjectiveFragmentShape(t *testing.T) {
	got, err := ExtractAdjectiveEntailments(clauseOf(t, depgraphtest.HappyPresident(), false))
	require.NoError(t, err)
	require.Len(t, got, 1)

	f := got[0]
	assert.False(t, f.AssumedTruth)
	root := f.Graph.Root()
	require.NotNil(t, root)
	assert.Equal(t, "happy", root.Word)

	rels := map[string]string{}
	for _, e := range f.Graph.Outgoing(root) {
		rels[e.Rel] = e.Dep.Word
		assert.Equal(t, depgraph.WeightCertain, e.Weight)
		assert.False(t, e.Extra)
	}
	assert.Equal(t, map[string]string{"cop": "is", "nsubj": "Obama", "prep_of": "France"}, rels)
}

func TestAdjectiveEntailmentsDoNotAliasSource(t *testing.T) {
	clause := clauseOf(t, depgraphtest.HappyCat(), true)
	before := clause.Graph.Key()

	got, err := ExtractAdjectiveEntailments(clause)
	require.NoError(t, err)
	require.Len(t, got, 1)
	for _, n := range got[0].Graph.Vertices() {
		n.Word = "x"
	}
	assert.Equal(t, before, clause.Graph.Key())
}

func TestAdjectiveEntailmentsRequireUpwardPolarity(t *testing.T) {
	tests := []struct {
		name  string
		token int
	}{
		{"adjective downward", 4},
		{"copula downward", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := depgraphtest.HappyCat()
			s.Tokens[tt.token].Polarity = types.PolarityDown
			got, err := ExtractAdjectiveEntailments(clauseOf(t, s, true))
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestAdjectiveEntailmentsRequireIndefiniteDeterminer(t *testing.T) {
	s := depgraphtest.HappyCat()
	s.Tokens[3].Word = "the"
	got, err := ExtractAdjectiveEntailments(clauseOf(t, s, true))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPrivativeAfterAdjectiveDoesNotVeto(t *testing.T) {
	// "He is a happy former president": former follows happy.
	s := depgraphtest.Sentence(0,
		[]depgraphtest.Tok{{Word: "He", Tag: "PRP"}, {Word: "is", Tag: "VBZ"}, {Word: "a", Tag: "DT"}, {Word: "happy", Tag: "JJ"},
			{Word: "former", Tag: "JJ"}, {Word: "president", Tag: "NN"}},
		[]depgraphtest.Dep{{Rel: "root", Gov: 0, Dep: 6}, {Rel: "nsubj", Gov: 6, Dep: 1}, {Rel: "cop", Gov: 6, Dep: 2}, {Rel: "det", Gov: 6, Dep: 3},
			{Rel: "amod", Gov: 6, Dep: 4}, {Rel: "amod", Gov: 6, Dep: 5}})
	got, err := ExtractAdjectiveEntailments(clauseOf(t, s, true))
	require.NoError(t, err)

	var texts []string
	for _, f := range got {
		texts = append(texts, f.String())
	}
	assert.Equal(t, []string{"He is happy"}, texts)
}

func TestAdjectiveEntailmentsEveryMatch(t *testing.T) {
	tests := []struct {
		name string
		toks []depgraphtest.Tok
		deps []depgraphtest.Dep
		want []string
	}{
		{
			name: "two adjectives",
			toks: []depgraphtest.Tok{{Word: "He", Tag: "PRP"}, {Word: "is", Tag: "VBZ"}, {Word: "a", Tag: "DT"},
				{Word: "happy", Tag: "JJ"}, {Word: "tall", Tag: "JJ"}, {Word: "man", Tag: "NN"}},
			deps: []depgraphtest.Dep{{Rel: "root", Gov: 0, Dep: 6}, {Rel: "nsubj", Gov: 6, Dep: 1},
				{Rel: "cop", Gov: 6, Dep: 2}, {Rel: "det", Gov: 6, Dep: 3},
				{Rel: "amod", Gov: 6, Dep: 4}, {Rel: "amod", Gov: 6, Dep: 5}},
			want: []string{"He is happy", "He is tall"},
		},
		{
			name: "two prepositions",
			toks: []depgraphtest.Tok{{Word: "Obama", Tag: "NNP", NER: "PERSON"}, {Word: "is", Tag: "VBZ"},
				{Word: "a", Tag: "DT"}, {Word: "happy", Tag: "JJ"}, {Word: "president", Tag: "NN"},
				{Word: "of", Tag: "IN"}, {Word: "France", Tag: "NNP", NER: "LOCATION"},
				{Word: "in", Tag: "IN"}, {Word: "2009", Tag: "CD", NER: "DATE"}},
			deps: []depgraphtest.Dep{{Rel: "root", Gov: 0, Dep: 5}, {Rel: "nsubj", Gov: 5, Dep: 1},
				{Rel: "cop", Gov: 5, Dep: 2}, {Rel: "det", Gov: 5, Dep: 3}, {Rel: "amod", Gov: 5, Dep: 4},
				{Rel: "prep_of", Gov: 5, Dep: 7}, {Rel: "prep_in", Gov: 5, Dep: 9}},
			want: []string{"Obama is happy France", "Obama is happy 2009"},
		},
		{
			name: "adjectives times prepositions",
			toks: []depgraphtest.Tok{{Word: "Obama", Tag: "NNP", NER: "PERSON"}, {Word: "is", Tag: "VBZ"},
				{Word: "a", Tag: "DT"}, {Word: "happy", Tag: "JJ"}, {Word: "tall", Tag: "JJ"},
				{Word: "president", Tag: "NN"}, {Word: "of", Tag: "IN"},
				{Word: "France", Tag: "NNP", NER: "LOCATION"}, {Word: "in", Tag: "IN"},
				{Word: "2009", Tag: "CD", NER: "DATE"}},
			deps: []depgraphtest.Dep{{Rel: "root", Gov: 0, Dep: 6}, {Rel: "nsubj", Gov: 6, Dep: 1},
				{Rel: "cop", Gov: 6, Dep: 2}, {Rel: "det", Gov: 6, Dep: 3}, {Rel: "amod", Gov: 6, Dep: 4},
				{Rel: "amod", Gov: 6, Dep: 5}, {Rel: "prep_of", Gov: 6, Dep: 8}, {Rel: "prep_in", Gov: 6, Dep: 10}},
			want: []string{"Obama is happy France", "Obama is happy 2009", "Obama is tall France", "Obama is tall 2009"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractAdjectiveEntailments(clauseOf(t, depgraphtest.Sentence(0, tt.toks, tt.deps), true))
			require.NoError(t, err)

			var texts []string
			seen := fragment.NewSet()
			for _, f := range got {
				texts = append(texts, f.String())
				assert.True(t, seen.Add(f), "fragments are independent: %s", f)
			}
			assert.Equal(t, tt.want, texts)
		})
	}
}

func TestAdjectiveFragmentRejectsNodeOutsideGraph(t *testing.T) {
	g := clauseOf(t, depgraphtest.HappyCat(), true).Graph
	node := func(i int) *depgraph.Node {
		n, ok := g.Node(depgraph.At(i))
		require.True(t, ok)
		return n
	}
	stray := &depgraph.Node{Word: "France", Tag: "NNP", Pos: depgraph.At(9)}
	m := adjectiveMatch{
		obj:  node(6),
		subj: node(2),
		be:   node(3),
		adj:  node(5),
		prep: &depgraph.Edge{Gov: node(6), Dep: stray, Rel: "prep_of", Weight: depgraph.WeightCertain},
	}

	_, err := adjectiveFragment(g, m, true)
	assert.ErrorIs(t, err, ErrPatternInconsistency)

	m.prep = nil
	f, err := adjectiveFragment(g, m, true)
	require.NoError(t, err)
	assert.Equal(t, "cat is happy", f.String())
}

func TestExtractAdjectiveEntailmentsEmpty(t *testing.T) {
	got, err := ExtractAdjectiveEntailments(fragment.New(depgraph.New(), true, true))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPrepositionHelpers(t *testing.T) {
	tests := []struct {
		rel  string
		prep bool
		word string
	}{
		{"prep_of", true, "of"},
		{"prep_because_of", true, "because of"},
		{"nmod:in", true, "in"},
		{"nmod:poss", false, "poss"},
		{"nmod:tmod", false, "tmod"},
		{"amod", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.prep, IsPrepositional(tt.rel))
			assert.Equal(t, tt.word, PrepositionWord(tt.rel))
		})
	}
}

func TestIsPrivative(t *testing.T) {
	assert.True(t, IsPrivative("former"))
	assert.True(t, IsPrivative("Alleged"))
	assert.False(t, IsPrivative("happy"))
}

func TestWholeClauseSplitter(t *testing.T) {
	g := clauseOf(t, depgraphtest.HappyCat(), true).Graph

	got, err := WholeClauseSplitter{}.Split(g, true, 0.1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].WholeSentence)
	assert.Equal(t, 1.0, got[0].Score)
	assert.True(t, got[0].Graph.Equal(g))
	assert.NotSame(t, g, got[0].Graph)

	got, err = WholeClauseSplitter{}.Split(g, true, 1.5)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = WholeClauseSplitter{}.Split(depgraph.New(), true, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDeletionEntailer(t *testing.T) {
	tests := []struct {
		name     string
		entailer DeletionEntailer
		sentence *types.Sentence
		budget   int
		want     map[string]float64
	}{
		{
			name:     "adjective deletion",
			entailer: NewDeletionEntailer(),
			sentence: depgraphtest.HappyCat(),
			budget:   10,
			want:     map[string]float64{"The cat is a animal": 1},
		},
		{
			name:     "privative kept, preposition scaled",
			entailer: NewDeletionEntailer(),
			sentence: depgraphtest.FormerPresident(),
			budget:   10,
			want:     map[string]float64{"He is a former president": 2.0 / 3.0},
		},
		{
			name:     "ignore affinity",
			entailer: DeletionEntailer{IgnoreAffinity: true, AffinityProbabilityCap: DefaultAffinityProbabilityCap},
			sentence: depgraphtest.FormerPresident(),
			budget:   10,
			want:     map[string]float64{"He is a former president": 1},
		},
		{
			name:     "both deletions",
			entailer: NewDeletionEntailer(),
			sentence: depgraphtest.HappyPresident(),
			budget:   10,
			want: map[string]float64{
				"Obama is a president France": 1,
				"Obama is a happy president":  2.0 / 3.0,
				"Obama is a president":        2.0 / 3.0,
			},
		},
		{
			name:     "zero budget",
			entailer: NewDeletionEntailer(),
			sentence: depgraphtest.HappyCat(),
			budget:   0,
			want:     map[string]float64{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause := clauseOf(t, tt.sentence, true)
			got, err := tt.entailer.Shorten(clause.Graph, true, tt.budget)
			require.NoError(t, err)
			texts := map[string]float64{}
			for _, f := range got {
				texts[f.String()] = f.Score
				assert.False(t, f.WholeSentence)
			}
			require.Len(t, texts, len(tt.want))
			for text, score := range tt.want {
				assert.InDelta(t, score, texts[text], 1e-9, text)
			}
		})
	}
}

func TestDeletionEntailerBudget(t *testing.T) {
	clause := clauseOf(t, depgraphtest.HappyPresident(), true)
	got, err := NewDeletionEntailer().Shorten(clause.Graph, true, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestDeletionEntailerRespectsPolarity(t *testing.T) {
	s := depgraphtest.HappyCat()
	s.Tokens[5].Polarity = types.PolarityDown
	clause := clauseOf(t, s, true)
	got, err := NewDeletionEntailer().Shorten(clause.Graph, true, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
