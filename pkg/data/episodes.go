package data

import "github.com/maniplus/podfeed/pkg/model"

// fallbackEpisodes is the compiled-in episode table served whenever
// upstream ingestion fails. It mirrors the launch episodes hosted on
// the site itself.
var fallbackEpisodes = []model.Episode{
	{
		ID:          "1",
		Title:       "The Day Everything Changed",
		Description: "Mani+ opens up about his journey from diagnosis to heart transplant, sharing the raw emotions, unexpected challenges, and profound gratitude that shaped his perspective on life and medicine.",
		Duration:    "45 minutes",
		ReleaseDate: "January 15, 2024",

		EpisodeNumber: "EP 001",
		Slug:          "the-day-everything-changed",
		Topics:        []string{"heart transplant", "diagnosis", "patient journey", "medical transformation"},
		Keywords:      []string{"heart failure", "transplant surgery", "medical recovery", "patient story"},
		AudioURL:      "/podcasts/Mani+.mp3",
	},
	{
		ID:          "2",
		Title:       "Dr. Sarah Chen on Breakthrough Immunosuppression",
		Description: "Leading transplant immunologist Dr. Sarah Chen discusses revolutionary new protocols that are reducing rejection rates while minimizing long-term medication side effects, offering hope for better patient outcomes.",
		Duration:    "52 minutes",
		ReleaseDate: "January 22, 2024",

		EpisodeNumber: "EP 002",
		Slug:          "dr-sarah-chen-immunosuppression",
		Topics:        []string{"immunosuppression", "transplant medicine", "medical research", "rejection prevention"},
		Keywords:      []string{"immunology", "transplant drugs", "medical innovation", "organ rejection"},
		AudioURL:      "/podcasts/mani+2.mp3",
	},
	{
		ID:          "3",
		Title:       "Maria's Marathon - Running with a New Heart",
		Description: "Heart transplant recipient Maria Torres shares her incredible journey from ICU to completing her first marathon just 18 months post-transplant, proving that limitation is often just a state of mind.",
		Duration:    "38 minutes",
		ReleaseDate: "January 29, 2024",

		EpisodeNumber: "EP 003",
		Slug:          "marias-marathon-new-heart",
		Topics:        []string{"recovery", "marathon", "athletic achievement", "inspiration"},
		Keywords:      []string{"heart transplant recovery", "post-transplant exercise", "athletic inspiration", "medical recovery"},
		AudioURL:      "/podcasts/Mani+3.mp3",
	},
}

// Episodes returns fresh copies of the fallback episode table, callers
// get records they can hold without sharing state.
func Episodes() []*model.Episode {
	episodes := make([]*model.Episode, 0, len(fallbackEpisodes))
	for i := range fallbackEpisodes {
		e := fallbackEpisodes[i]
		e.Topics = append([]string(nil), e.Topics...)
		e.Keywords = append([]string(nil), e.Keywords...)
		episodes = append(episodes, &e)
	}
	return episodes
}
