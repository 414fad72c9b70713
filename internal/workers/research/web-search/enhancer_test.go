// internal/workers/research/web-search/enhancer_test.go
package websearch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnhanceQueryEmptyQuery(t *testing.T) {
	assert.Equal(t, "", EnhanceQuery("", "academic", "last_year"))
}

func TestEnhanceQueryNoPreferences(t *testing.T) {
	assert.Equal(t, "climate change", EnhanceQuery("climate change", "", ""))
}

func TestEnhanceQuerySingleSource(t *testing.T) {
	got := EnhanceQuery("climate change", "academic", "")
	assert.Equal(t, "climate change academic paper", got)
}

func TestEnhanceQueryMultipleSources(t *testing.T) {
	got := EnhanceQuery("climate change", "academic,technical", "")
	assert.Equal(t, "climate change (academic paper OR technical documentation)", got)
}

func TestEnhanceQueryMixedSkipsSources(t *testing.T) {
	assert.Equal(t, "climate change", EnhanceQuery("climate change", "mixed", ""))
	assert.Equal(t, "climate change", EnhanceQuery("climate change", "academic,mixed", ""))
}

func TestEnhanceQueryGeneralAloneSkips(t *testing.T) {
	assert.Equal(t, "climate change", EnhanceQuery("climate change", "general", ""))
}

func TestEnhanceQueryGeneralWithOthersEnhances(t *testing.T) {
	// "general" contributes no suffix but does not block the others.
	got := EnhanceQuery("climate change", "general,news", "")
	assert.Equal(t, "climate change news", got)
}

func TestEnhanceQueryKeywordAlreadyPresent(t *testing.T) {
	// Query already says "research", so no academic suffix is added.
	got := EnhanceQuery("climate change research", "academic", "")
	assert.Equal(t, "climate change research", got)
}

func TestEnhanceQueryKeywordCaseInsensitive(t *testing.T) {
	got := EnhanceQuery("Climate RESEARCH overview", "academic", "")
	assert.Equal(t, "Climate RESEARCH overview", got)
}

func TestEnhanceQueryUnknownPreferencesDropped(t *testing.T) {
	assert.Equal(t, "climate change", EnhanceQuery("climate change", "bogus,unknown", ""))

	got := EnhanceQuery("climate change", "bogus,academic", "")
	assert.Equal(t, "climate change academic paper", got)
}

func TestEnhanceQueryPreferenceParsing(t *testing.T) {
	// Whitespace and casing around the commas are forgiven.
	got := EnhanceQuery("climate change", " Academic , NEWS ", "")
	assert.Equal(t, "climate change (academic paper OR news)", got)

	// Empty segments are dropped.
	got = EnhanceQuery("climate change", "academic,,news,", "")
	assert.Equal(t, "climate change (academic paper OR news)", got)
}

func TestEnhanceQueryDateRanges(t *testing.T) {
	cases := map[string]string{
		"last_week":     "past week",
		"last_month":    "past month",
		"last_3_months": "past 3 months",
		"last_6_months": "past 6 months",
		"last_year":     "past year",
		"last_2_years":  "past 2 years",
		"2023":          "2023",
	}
	for token, phrase := range cases {
		got := EnhanceQuery("climate change", "", token)
		assert.Equal(t, "climate change "+phrase, got, "token %q", token)
	}
}

func TestEnhanceQueryDateRangeAnyTime(t *testing.T) {
	assert.Equal(t, "climate change", EnhanceQuery("climate change", "", "any_time"))
	assert.Equal(t, "climate change", EnhanceQuery("climate change", "", "ANY_TIME"))
}

func TestEnhanceQueryYearSpan(t *testing.T) {
	got := EnhanceQuery("climate change", "", "2020-2023")
	assert.Equal(t, "climate change since 2020", got)
}

func TestEnhanceQueryDateRangeUntrimmedToken(t *testing.T) {
	// Tokens arrive from config text; surrounding whitespace and casing
	// must not suppress the phrase.
	got := EnhanceQuery("climate change", "", " last_week ")
	assert.Equal(t, "climate change past week", got)

	got = EnhanceQuery("climate change", "", " 2020-2023")
	assert.Equal(t, "climate change since 2020", got)

	got = EnhanceQuery("climate change", "", "LAST_YEAR")
	assert.Equal(t, "climate change past year", got)
}

func TestEnhanceQueryUnknownDateRange(t *testing.T) {
	assert.Equal(t, "climate change", EnhanceQuery("climate change", "", "whenever"))
	assert.Equal(t, "climate change", EnhanceQuery("climate change", "", "20-2023"))
}

func TestEnhanceQuerySourceAndDateCombined(t *testing.T) {
	got := EnhanceQuery("climate change", "news", "last_week")
	assert.Equal(t, "climate change news past week", got)
}

func TestEnhanceQueryPreservesOriginalText(t *testing.T) {
	original := "  Climate  Change? "
	got := EnhanceQuery(original, "academic", "last_year")
	assert.True(t, strings.HasPrefix(got, original))
}

func TestEnhanceQuerySuffixDedup(t *testing.T) {
	// Repeating a preference must not repeat its suffix.
	got := EnhanceQuery("climate change", "academic,academic", "")
	assert.Equal(t, "climate change academic paper", got)
}

func TestIsValidPreference(t *testing.T) {
	for _, p := range AvailablePreferences() {
		assert.True(t, IsValidPreference(p), p)
	}
	assert.True(t, IsValidPreference(" Academic "))
	assert.False(t, IsValidPreference("bogus"))
}

func TestAvailablePreferences(t *testing.T) {
	prefs := AvailablePreferences()
	assert.Len(t, prefs, 9)
	assert.Contains(t, prefs, "academic")
	assert.Contains(t, prefs, "reddit")
	assert.Contains(t, prefs, "mixed")
}

func TestPreferenceDescription(t *testing.T) {
	desc, ok := PreferenceDescription("academic")
	assert.True(t, ok)
	assert.NotEmpty(t, desc)

	_, ok = PreferenceDescription("bogus")
	assert.False(t, ok)
}
