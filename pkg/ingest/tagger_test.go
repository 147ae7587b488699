package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVocabTagger(t *testing.T) {
	tagger := NewVocabTagger(nil)

	tags := tagger.Tags("The Role of Mentors", "Mentors, guides and experts in MEDICINE.")
	assert.Equal(t, []string{"medicine", "mentors", "guides", "experts"}, tags)
}

func TestVocabTaggerCap(t *testing.T) {
	tagger := NewVocabTagger(nil)

	text := "resilience medicine healthcare heart transplant surgery recovery patient doctor medical"
	tags := tagger.Tags(text, "")
	assert.Len(t, tags, maxTopics)
	// Vocabulary order is preserved
	assert.Equal(t, "resilience", tags[0])
	assert.Equal(t, "patient", tags[7])
}

func TestVocabTaggerCustomVocabulary(t *testing.T) {
	tagger := NewVocabTagger([]string{"dialysis", "kidney"})

	assert.Equal(t, []string{"dialysis"}, tagger.Tags("Life on dialysis", ""))
	assert.Empty(t, tagger.Tags("Unrelated", "no matches here"))
}
