package ingest

import "strings"

// Tagger derives topic tags for an episode from its title and
// description. Implementations must be pure.
type Tagger interface {
	Tags(title, description string) []string
}

// maxTopics caps the number of tags attached to a single episode.
const maxTopics = 8

// DefaultVocabulary is the fixed healthcare vocabulary matched against
// episode text. Order matters: tags are emitted in vocabulary order.
var DefaultVocabulary = []string{
	"resilience",
	"medicine",
	"healthcare",
	"heart",
	"transplant",
	"surgery",
	"recovery",
	"patient",
	"doctor",
	"medical",
	"health",
	"innovation",
	"burnout",
	"healing",
	"mentors",
	"guides",
	"experts",
	"survival",
	"hope",
	"faith",
	"courage",
	"cardiologist",
	"surgeon",
}

// VocabTagger matches a fixed vocabulary by case-insensitive substring
// search. It is a heuristic, not a classifier: downstream feed
// consumers depend on the exact matching semantics, so keep them.
type VocabTagger struct {
	vocabulary []string
}

// NewVocabTagger returns a tagger over the given vocabulary, or over
// DefaultVocabulary when none is given.
func NewVocabTagger(vocabulary []string) *VocabTagger {
	if len(vocabulary) == 0 {
		vocabulary = DefaultVocabulary
	}
	return &VocabTagger{vocabulary: vocabulary}
}

func (t *VocabTagger) Tags(title, description string) []string {
	text := strings.ToLower(title + " " + description)

	var tags []string
	for _, word := range t.vocabulary {
		if strings.Contains(text, strings.ToLower(word)) {
			tags = append(tags, word)
			if len(tags) == maxTopics {
				break
			}
		}
	}

	return tags
}
