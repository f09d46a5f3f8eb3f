package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stillframe-app/stillframe_api/model"
	"github.com/stillframe-app/stillframe_api/shared"
)

func TestUpsertMovieRefreshesExistingRow(t *testing.T) {
	repo := NewMovieRepository(newTestDB(t))

	first, err := repo.UpsertMovie(&model.Movie{
		TmdbID:      680,
		Title:       "Pulp Fiction",
		ReleaseYear: 1994,
	})
	require.NoError(t, err)

	second, err := repo.UpsertMovie(&model.Movie{
		TmdbID:      680,
		Title:       "Pulp Fiction",
		ReleaseYear: 1994,
		Overview:    "Refreshed overview",
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "Refreshed overview", second.Overview)
}

func TestUpsertCreditKeyedByPersonAndRole(t *testing.T) {
	db := newTestDB(t)
	repo := NewMovieRepository(db)

	movie, err := repo.UpsertMovie(&model.Movie{TmdbID: 680, Title: "Pulp Fiction"})
	require.NoError(t, err)

	// The same person may hold two roles; each is a distinct guessable credit.
	require.NoError(t, repo.UpsertCredit(&model.MovieCredit{
		MovieID:    movie.ID,
		PersonName: "Quentin Tarantino",
		Role:       shared.CreditRoleDirector,
	}))
	require.NoError(t, repo.UpsertCredit(&model.MovieCredit{
		MovieID:    movie.ID,
		PersonName: "Quentin Tarantino",
		Role:       shared.CreditRoleWriter,
	}))
	require.NoError(t, repo.UpsertCredit(&model.MovieCredit{
		MovieID:    movie.ID,
		PersonName: "Quentin Tarantino",
		Role:       shared.CreditRoleDirector,
	}))

	var count int64
	require.NoError(t, db.Model(&model.MovieCredit{}).Where("movie_id = ?", movie.ID).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestTagImageActorMarksStillCurated(t *testing.T) {
	db := newTestDB(t)
	repo := NewMovieRepository(db)

	movie, err := repo.UpsertMovie(&model.Movie{TmdbID: 680, Title: "Pulp Fiction"})
	require.NoError(t, err)

	character := "Vincent Vega"
	credit := &model.MovieCredit{
		MovieID:    movie.ID,
		PersonName: "John Travolta",
		Role:       shared.CreditRoleActor,
		Character:  &character,
	}
	require.NoError(t, repo.UpsertCredit(credit))

	image, err := repo.CreateImage(&model.MovieImage{
		MovieID:  movie.ID,
		FilePath: "/still.jpg",
		Width:    1920,
	})
	require.NoError(t, err)
	require.False(t, image.IsCurated)

	require.NoError(t, repo.TagImageActor(image.ID, credit.ID))
	// Tagging twice is a no-op.
	require.NoError(t, repo.TagImageActor(image.ID, credit.ID))

	tagged, err := repo.GetImage(image.ID)
	require.NoError(t, err)
	require.True(t, tagged.IsCurated)
	require.Len(t, tagged.ImageActors, 1)
	require.Equal(t, "John Travolta", tagged.ImageActors[0].Credit.PersonName)
}
