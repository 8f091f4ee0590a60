package memory

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// Structured entity lines in assistant output look like
//
//	**Alpha Diner** great pancakes, ID: `ven-1042`
//	**Blue Note Bar** (live jazz) id: bn-77
//
// The lazy gap between the bold name and the label absorbs ratings, icons
// and whatever else the model puts there.
var (
	entityPattern = regexp.MustCompile(
		"\\*\\*([^*\\n]+)\\*\\*[^\\n]*?\\b(?:ID|Id|id)\\s*[:=]\\s*`?([A-Za-z0-9][A-Za-z0-9_-]*)`?")
	locationPattern = regexp.MustCompile(
		`\b(?:[Ii]n|[Nn]ear|[Aa]round)\s+([A-Z][\p{L}'-]*(?:\s+[A-Z][\p{L}'-]*)?)`)
)

// RuleExtractor is the default MentionExtractor: vocabulary lookups plus
// two structural patterns. No network, no model calls, fully deterministic.
type RuleExtractor struct {
	vocab Vocabulary
}

func NewRuleExtractor(vocab Vocabulary) *RuleExtractor {
	return &RuleExtractor{vocab: vocab}
}

func (e *RuleExtractor) ExtractMentions(text string) (res fn.Result[[]Mention]) {
	defer func() {
		if r := recover(); r != nil {
			res = fn.Err[[]Mention](fmt.Errorf("mention extraction: %v", r))
		}
	}()

	var mentions []Mention
	lower := strings.ToLower(text)

	if place, ok := e.findLocation(text, lower); ok {
		mentions = append(mentions, LocationMention{Place: place})
	}
	if topic, ok := e.findTopic(lower); ok {
		mentions = append(mentions, TopicMention{Topic: topic})
	}
	for _, m := range entityPattern.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		mentions = append(mentions, EntityMention{Name: name, StableID: m[2]})
	}
	return fn.Ok(mentions)
}

// findLocation prefers a known place name over the pattern fallback so the
// canonical spelling wins.
func (e *RuleExtractor) findLocation(text, lower string) (string, bool) {
	for _, term := range e.vocab.Locations {
		if containsWord(lower, strings.ToLower(term)) {
			return term, true
		}
	}
	if m := locationPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

func (e *RuleExtractor) findTopic(lower string) (string, bool) {
	for _, term := range e.vocab.Topics {
		if containsWord(lower, strings.ToLower(term)) {
			return term, true
		}
	}
	return "", false
}

// containsWord reports whether needle occurs in haystack on word
// boundaries. Both arguments must already be lowercased.
func containsWord(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	idx := 0
	for {
		i := strings.Index(haystack[idx:], needle)
		if i < 0 {
			return false
		}
		i += idx
		after := i + len(needle)
		beforeOK := i == 0 || !isWordByte(haystack[i-1])
		afterOK := after >= len(haystack) || !isWordByte(haystack[after])
		if beforeOK && afterOK {
			return true
		}
		idx = i + 1
	}
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
