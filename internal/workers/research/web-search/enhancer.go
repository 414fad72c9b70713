// internal/workers/research/web-search/enhancer.go
package websearch

import "strings"

// sourceEnhancement describes how one source preference shapes a query.
// Suffixes are appended to steer the provider toward that source type;
// keywords signal the query already targets it.
type sourceEnhancement struct {
	Suffixes    []string
	Keywords    []string
	Description string
}

var sourceEnhancements = map[string]sourceEnhancement{
	"academic": {
		Suffixes:    []string{"academic paper", "research study", "journal article"},
		Keywords:    []string{"academic", "research", "study", "journal", "paper", "scholarly"},
		Description: "Academic and scholarly sources",
	},
	"general": {
		Suffixes:    []string{},
		Keywords:    []string{},
		Description: "General web sources",
	},
	"news": {
		Suffixes:    []string{"news", "latest news", "breaking news"},
		Keywords:    []string{"news", "article", "report", "journalist", "media"},
		Description: "News and journalism sources",
	},
	"technical": {
		Suffixes:    []string{"technical documentation", "technical guide", "technical article"},
		Keywords:    []string{"technical", "documentation", "guide", "manual", "specification"},
		Description: "Technical documentation and guides",
	},
	"medical": {
		Suffixes:    []string{"medical study", "clinical trial", "medical research"},
		Keywords:    []string{"medical", "clinical", "health", "treatment", "disease", "patient"},
		Description: "Medical and health sources",
	},
	"legal": {
		Suffixes:    []string{"legal case", "court decision", "legal analysis"},
		Keywords:    []string{"legal", "law", "court", "case", "statute", "regulation"},
		Description: "Legal sources and case law",
	},
	"social_media": {
		Suffixes:    []string{"social media", "Twitter", "LinkedIn"},
		Keywords:    []string{"social", "twitter", "linkedin", "facebook", "instagram", "discussion"},
		Description: "Social media platforms",
	},
	"reddit": {
		Suffixes:    []string{"Reddit", "reddit discussion", "reddit thread"},
		Keywords:    []string{"reddit", "subreddit", "thread", "discussion", "community"},
		Description: "Reddit discussions and communities",
	},
	"mixed": {
		Suffixes:    []string{},
		Keywords:    []string{},
		Description: "Mixed sources without steering",
	},
}

// preferenceOrder keeps AvailablePreferences deterministic.
var preferenceOrder = []string{
	"academic", "general", "news", "technical",
	"medical", "legal", "social_media", "reddit", "mixed",
}

var dateRangePhrases = map[string]string{
	"last_week":     "past week",
	"last_month":    "past month",
	"last_3_months": "past 3 months",
	"last_6_months": "past 6 months",
	"last_year":     "past year",
	"last_2_years":  "past 2 years",
	"2020":          "2020",
	"2021":          "2021",
	"2022":          "2022",
	"2023":          "2023",
	"2024":          "2024",
}

// EnhanceQuery appends source-type and recency hints to a query based
// on the mission's source preferences and date range. The original
// query text is never modified, only suffixed.
func EnhanceQuery(query, sourcePreferences, dateRange string) string {
	if query == "" {
		return query
	}

	result := query

	prefs := parsePreferences(sourcePreferences)
	if shouldEnhanceSources(prefs) {
		var valid []string
		for _, p := range prefs {
			if IsValidPreference(p) {
				valid = append(valid, p)
			}
		}

		if len(valid) > 0 && !queryMentionsSources(query, valid) {
			suffixes := primarySuffixes(valid)
			switch {
			case len(suffixes) == 1:
				result += " " + suffixes[0]
			case len(suffixes) > 1:
				result += " (" + strings.Join(suffixes, " OR ") + ")"
			}
		}
	}

	if phrase := dateRangePhrase(dateRange); phrase != "" {
		result += " " + phrase
	}

	return result
}

func parsePreferences(sourcePreferences string) []string {
	var prefs []string
	for _, part := range strings.Split(sourcePreferences, ",") {
		p := strings.ToLower(strings.TrimSpace(part))
		if p != "" {
			prefs = append(prefs, p)
		}
	}
	return prefs
}

// shouldEnhanceSources reports whether the preference list asks for any
// steering at all. "mixed" anywhere, an empty list, or plain "general"
// all mean leave the query alone.
func shouldEnhanceSources(prefs []string) bool {
	if len(prefs) == 0 {
		return false
	}
	for _, p := range prefs {
		if p == "mixed" {
			return false
		}
	}
	if len(prefs) == 1 && prefs[0] == "general" {
		return false
	}
	return true
}

// queryMentionsSources checks whether the query already carries any
// keyword of the requested source types.
func queryMentionsSources(query string, prefs []string) bool {
	lower := strings.ToLower(query)
	for _, p := range prefs {
		for _, kw := range sourceEnhancements[p].Keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// primarySuffixes picks the first suffix of each preference, deduped in
// preference order.
func primarySuffixes(prefs []string) []string {
	seen := make(map[string]bool)
	var suffixes []string
	for _, p := range prefs {
		s := sourceEnhancements[p].Suffixes
		if len(s) == 0 {
			continue
		}
		if seen[s[0]] {
			continue
		}
		seen[s[0]] = true
		suffixes = append(suffixes, s[0])
	}
	return suffixes
}

// dateRangePhrase translates a date range token into query text. Year
// spans like "2020-2023" become "since 2020"; unknown tokens yield
// nothing.
func dateRangePhrase(dateRange string) string {
	token := strings.ToLower(strings.TrimSpace(dateRange))
	if token == "" || token == "any_time" {
		return ""
	}

	if parts := strings.Split(token, "-"); len(parts) == 2 &&
		isFourDigits(parts[0]) && isFourDigits(parts[1]) {
		return "since " + parts[0]
	}

	return dateRangePhrases[token]
}

func isFourDigits(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsValidPreference reports whether the preference name is known.
func IsValidPreference(pref string) bool {
	_, ok := sourceEnhancements[strings.ToLower(strings.TrimSpace(pref))]
	return ok
}

// AvailablePreferences lists all known source preference names.
func AvailablePreferences() []string {
	out := make([]string, len(preferenceOrder))
	copy(out, preferenceOrder)
	return out
}

// PreferenceDescription returns the human description of a preference.
func PreferenceDescription(pref string) (string, bool) {
	e, ok := sourceEnhancements[strings.ToLower(strings.TrimSpace(pref))]
	if !ok {
		return "", false
	}
	return e.Description, true
}
