package fuzzyindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stationIndex() *Index {
	return Build([]Candidate{
		{StopID: "1", Name: "Geelong Station"},
		{StopID: "2", Name: "North Geelong Station"},
		{StopID: "3", Name: "South Geelong Station"},
		{StopID: "4", Name: "Tarneit Station"},
		{StopID: "5", Name: "Waurn Ponds Station"},
		{StopID: "6", Name: "Geelong Station"}, // duplicate name, distinct stop
	})
}

func TestLookupExact(t *testing.T) {
	idx := stationIndex()

	assert.ElementsMatch(t, []string{"1", "6"}, idx.LookupExact("Geelong Station"))
	assert.Empty(t, idx.LookupExact("geelong station")) // exact means exact
	assert.Empty(t, idx.LookupExact("Nowhere"))
}

func TestLookupFuzzyTokenOrderIndependent(t *testing.T) {
	idx := stationIndex()

	straight := idx.LookupFuzzy("Geelong Station", 10, 0)
	reversed := idx.LookupFuzzy("Station Geelong", 10, 0)

	require.NotEmpty(t, straight)
	require.NotEmpty(t, reversed)
	assert.Equal(t, straight[0].Score, reversed[0].Score)
	assert.Equal(t, 100, straight[0].Score)
}

func TestLookupFuzzyRankingAndTies(t *testing.T) {
	idx := stationIndex()

	matches := idx.LookupFuzzy("geelong station", 10, 0)
	require.GreaterOrEqual(t, len(matches), 3)

	// Scores monotone non-increasing, ties broken by name
	// ascending.
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
		if matches[i-1].Score == matches[i].Score {
			assert.LessOrEqual(t, matches[i-1].Name, matches[i].Name)
		}
	}

	assert.Equal(t, "Geelong Station", matches[0].Name)
}

func TestLookupFuzzyMinScoreAndLimit(t *testing.T) {
	idx := stationIndex()

	all := idx.LookupFuzzy("Geelong", 0, 1)
	capped := idx.LookupFuzzy("Geelong", 2, 1)
	assert.Greater(t, len(all), len(capped))
	assert.Len(t, capped, 2)

	strict := idx.LookupFuzzy("Geelong", 0, 95)
	for _, m := range strict {
		assert.GreaterOrEqual(t, m.Score, 95)
	}
}

func TestLookupFuzzyEmptyQuery(t *testing.T) {
	idx := stationIndex()

	assert.Empty(t, idx.LookupFuzzy("", 10, 0))
	assert.Empty(t, idx.LookupFuzzy("   ", 10, 0))
}

func TestLookupFuzzyNoMatchBelowFloor(t *testing.T) {
	idx := stationIndex()

	// Entirely unrelated text scores under the default floor of 60.
	assert.Empty(t, idx.LookupFuzzy("zzzzqqqq", 10, 0))
}

func TestTokenSortRatio(t *testing.T) {
	assert.Equal(t, 100, tokenSortRatio("geelong station", "geelong station"))
	assert.Equal(t, 100, tokenSortRatio("", ""))
	assert.Greater(t, tokenSortRatio("geelong station", "geelong stations"), 80)
	assert.Less(t, tokenSortRatio("geelong", "tarneit"), 60)
}
