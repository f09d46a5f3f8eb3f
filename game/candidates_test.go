package game_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stillframe-app/stillframe_api/game"
	"github.com/stillframe-app/stillframe_api/model"
	"github.com/stillframe-app/stillframe_api/shared"
)

func credit(id, name, role string) model.MovieCredit {
	return model.MovieCredit{ID: id, PersonName: name, Role: role}
}

func tag(creditID string, c model.MovieCredit) model.ImageActor {
	return model.ImageActor{CreditID: creditID, Credit: c}
}

func testChallenge() *model.DailyChallenge {
	travolta := credit("c1", "John Travolta", shared.CreditRoleActor)
	jackson := credit("c2", "Samuel L. Jackson", shared.CreditRoleActor)
	thurman := credit("c3", "Uma Thurman", shared.CreditRoleActor)
	willis := credit("c4", "Bruce Willis", shared.CreditRoleActor)

	return &model.DailyChallenge{
		Movie: model.Movie{
			Title: "Pulp Fiction",
			Credits: []model.MovieCredit{
				credit("c5", "Quentin Tarantino", shared.CreditRoleDirector),
				credit("c6", "Quentin Tarantino", shared.CreditRoleWriter),
				credit("c7", "Roger Avary", shared.CreditRoleWriter),
				travolta, jackson, thurman, willis,
			},
		},
		Image1: model.MovieImage{ImageActors: []model.ImageActor{tag("c1", travolta), tag("c2", jackson)}},
		Image2: model.MovieImage{ImageActors: []model.ImageActor{tag("c2", jackson), tag("c3", thurman)}},
		Image3: model.MovieImage{},
	}
}

func actorValues(candidates []game.Candidate) []string {
	var values []string
	for _, c := range candidates {
		if c.Category == game.CategoryActor {
			values = append(values, c.Value)
		}
	}
	return values
}

func TestBuildCandidates_StableOrder(t *testing.T) {
	got := game.BuildCandidates(testChallenge(), 1)

	require.Equal(t, game.Candidate{Value: "Pulp Fiction", Category: game.CategoryTitle}, got[0])
	require.Equal(t, game.CategoryDirector, got[1].Category)
	require.Equal(t, game.CategoryWriter, got[2].Category)
	require.Equal(t, game.CategoryWriter, got[3].Category)
	require.Equal(t, []string{"John Travolta", "Samuel L. Jackson"}, actorValues(got))
}

func TestBuildCandidates_ActorPoolGrowsWithReveals(t *testing.T) {
	ch := testChallenge()

	require.Equal(t, []string{"John Travolta", "Samuel L. Jackson"}, actorValues(game.BuildCandidates(ch, 1)))
	require.Equal(t, []string{"John Travolta", "Samuel L. Jackson", "Uma Thurman"}, actorValues(game.BuildCandidates(ch, 2)))
	// The third still has no tags; the pool holds but never falls back to full cast
	// once curated tagging exists anywhere on the challenge.
	require.Equal(t, []string{"John Travolta", "Samuel L. Jackson", "Uma Thurman"}, actorValues(game.BuildCandidates(ch, 3)))
}

func TestBuildCandidates_FullCastFallback(t *testing.T) {
	ch := testChallenge()
	ch.Image1.ImageActors = nil
	ch.Image2.ImageActors = nil

	want := []string{"John Travolta", "Samuel L. Jackson", "Uma Thurman", "Bruce Willis"}
	for revealed := 1; revealed <= 3; revealed++ {
		require.Equal(t, want, actorValues(game.BuildCandidates(ch, revealed)), "revealed=%d", revealed)
	}
}

func TestBuildCandidates_DedupesRepeatedTags(t *testing.T) {
	// Samuel L. Jackson is tagged on stills 1 and 2 but must appear once.
	got := actorValues(game.BuildCandidates(testChallenge(), 2))

	seen := map[string]int{}
	for _, v := range got {
		seen[v]++
	}
	require.Equal(t, 1, seen["Samuel L. Jackson"])
}

func TestBuildCandidates_RevealCountClamped(t *testing.T) {
	ch := testChallenge()

	require.Equal(t, actorValues(game.BuildCandidates(ch, 1)), actorValues(game.BuildCandidates(ch, 0)))
	require.Equal(t, actorValues(game.BuildCandidates(ch, 3)), actorValues(game.BuildCandidates(ch, 99)))
}

func TestUniqueActorCredits_CuratedAcrossAllImages(t *testing.T) {
	got := game.UniqueActorCredits(testChallenge())

	var names []string
	for _, c := range got {
		names = append(names, c.PersonName)
	}
	require.Equal(t, []string{"John Travolta", "Samuel L. Jackson", "Uma Thurman"}, names)
}
