package memory

import (
	"os"
	"strings"
)

// Vocabulary is the tuning half of mention extraction: which places and
// which venue topics the extractor recognizes. Terms are stored in display
// form and matched case-insensitively.
type Vocabulary struct {
	Locations []string
	Topics    []string
}

// DefaultVocabulary covers the cities and venue categories the scout is
// usually pointed at.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Locations: []string{
			"Paris", "London", "Berlin", "Rome", "Madrid", "Lisbon",
			"Amsterdam", "Vienna", "Prague", "Barcelona", "Munich",
			"Warsaw", "Budapest", "Copenhagen", "Stockholm", "Oslo",
			"Helsinki", "Dublin", "Brussels", "Zurich", "New York",
			"Tokyo", "Kyoto", "Seoul", "Singapore", "Sydney",
		},
		Topics: []string{
			"restaurants", "restaurant", "cafes", "cafe", "coffee shops",
			"bars", "pubs", "clubs", "bakeries", "bakery", "museums",
			"museum", "galleries", "gallery", "hotels", "hotel",
			"hostels", "parks", "theaters", "cinemas", "bookstores",
			"markets", "rooftops", "brunch spots", "wine bars",
		},
	}
}

// LoadVocabulary merges newline-delimited override files from the runtime
// directory into the defaults. Missing files are fine; lines starting with
// # are comments.
func LoadVocabulary(locationsPath, topicsPath string) Vocabulary {
	v := DefaultVocabulary()
	v.Locations = append(v.Locations, readTerms(locationsPath)...)
	v.Topics = append(v.Topics, readTerms(topicsPath)...)
	return v
}

func readTerms(path string) []string {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var terms []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		terms = append(terms, line)
	}
	return terms
}
