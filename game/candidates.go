// Package game holds the pure guess-evaluation core: candidate pool assembly,
// fuzzy matching and the scoring constants applied by the session transitions.
package game

import (
	"github.com/stillframe-app/stillframe_api/model"
	"github.com/stillframe-app/stillframe_api/shared"
)

// Category partitions the acceptable answers of a challenge.
type Category string

const (
	CategoryTitle    Category = "TITLE"
	CategoryDirector Category = shared.CreditRoleDirector
	CategoryWriter   Category = shared.CreditRoleWriter
	CategoryActor    Category = shared.CreditRoleActor
)

// Scoring rules. Score moves only by these two deltas and is allowed to go negative.
const (
	GuessReward   = 1
	RevealPenalty = 1
)

// Candidate is one acceptable answer string.
type Candidate struct {
	Value    string
	Category Category
}

// BuildCandidates assembles the answer pool valid at revealedImageCount visible
// stills, in a stable order: title, directors, writers, actors. Actor candidates are
// the union of curated tags across the revealed stills, deduplicated by credit
// identity; when no still of the challenge carries curated tags the full cast is the
// fallback. An empty pool for a category is valid.
func BuildCandidates(challenge *model.DailyChallenge, revealedImageCount int) []Candidate {
	candidates := []Candidate{
		{Value: challenge.Movie.Title, Category: CategoryTitle},
	}

	for _, credit := range challenge.Movie.Credits {
		if credit.Role == shared.CreditRoleDirector {
			candidates = append(candidates, Candidate{Value: credit.PersonName, Category: CategoryDirector})
		}
	}
	for _, credit := range challenge.Movie.Credits {
		if credit.Role == shared.CreditRoleWriter {
			candidates = append(candidates, Candidate{Value: credit.PersonName, Category: CategoryWriter})
		}
	}

	for _, credit := range actorCredits(challenge, revealedImageCount) {
		candidates = append(candidates, Candidate{Value: credit.PersonName, Category: CategoryActor})
	}

	return candidates
}

// actorCredits returns the curated actor union scoped to the revealed stills, or the
// movie's full ACTOR credit list when the challenge has no curated tagging at all.
func actorCredits(challenge *model.DailyChallenge, revealedImageCount int) []model.MovieCredit {
	if revealedImageCount < 1 {
		revealedImageCount = 1
	}
	if revealedImageCount > shared.ChallengeImageCount {
		revealedImageCount = shared.ChallengeImageCount
	}

	images := challenge.OrderedImages()

	curated := false
	for _, img := range images {
		if len(img.ImageActors) > 0 {
			curated = true
			break
		}
	}

	if !curated {
		var cast []model.MovieCredit
		for _, credit := range challenge.Movie.Credits {
			if credit.Role == shared.CreditRoleActor {
				cast = append(cast, credit)
			}
		}
		return cast
	}

	var credits []model.MovieCredit
	seen := make(map[string]bool)
	for _, img := range images[:revealedImageCount] {
		for _, tag := range img.ImageActors {
			if seen[tag.CreditID] {
				continue
			}
			seen[tag.CreditID] = true
			credits = append(credits, tag.Credit)
		}
	}
	return credits
}

// UniqueActorCredits is the read-side projection used by the results answer set:
// curated tags across all stills when present, otherwise the full cast.
func UniqueActorCredits(challenge *model.DailyChallenge) []model.MovieCredit {
	return actorCredits(challenge, shared.ChallengeImageCount)
}
