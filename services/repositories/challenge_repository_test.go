package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stillframe-app/stillframe_api/model"
)

func seedMovie(t *testing.T, db *gorm.DB, movieID string, imageIDs []string, width int) {
	t.Helper()

	require.NoError(t, db.Create(&model.Movie{
		ID:     movieID,
		TmdbID: int(time.Now().UnixNano() % 1_000_000_000),
		Title:  movieID,
	}).Error)

	for _, imageID := range imageIDs {
		require.NoError(t, db.Create(&model.MovieImage{
			ID:       imageID,
			MovieID:  movieID,
			FilePath: "/" + imageID + ".jpg",
			Width:    width,
			Height:   width * 9 / 16,
		}).Error)
	}
}

func TestGetChallengeByDate(t *testing.T) {
	db := newTestDB(t)
	repo := NewChallengeRepository(db)

	seedMovie(t, db, "movie-1", []string{"img-1", "img-2", "img-3"}, 1920)

	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	created, err := repo.CreateChallenge(&model.DailyChallenge{
		Date:     date,
		MovieID:  "movie-1",
		Image1ID: "img-1",
		Image2ID: "img-2",
		Image3ID: "img-3",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	challenge, err := repo.GetChallengeByDate(date)
	require.NoError(t, err)
	require.Equal(t, created.ID, challenge.ID)
	require.Equal(t, "movie-1", challenge.Movie.ID)
	require.Equal(t, []string{"img-1", "img-2", "img-3"}, []string{
		challenge.Image1.ID, challenge.Image2.ID, challenge.Image3.ID,
	})

	_, err = repo.GetChallengeByDate(date.AddDate(0, 0, 1))
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	exists, err := repo.ChallengeExistsForDate(date)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestPickMovieSkipsUsedAndNarrowStills(t *testing.T) {
	db := newTestDB(t)
	repo := NewChallengeRepository(db)

	// movie-used has wide stills but they are all consumed by a challenge.
	seedMovie(t, db, "movie-used", []string{"used-1", "used-2", "used-3"}, 1920)
	_, err := repo.CreateChallenge(&model.DailyChallenge{
		Date:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		MovieID:  "movie-used",
		Image1ID: "used-1",
		Image2ID: "used-2",
		Image3ID: "used-3",
	})
	require.NoError(t, err)

	// movie-narrow has enough stills but below the width floor.
	seedMovie(t, db, "movie-narrow", []string{"narrow-1", "narrow-2", "narrow-3"}, 640)

	// movie-fresh is the only eligible pick.
	seedMovie(t, db, "movie-fresh", []string{"fresh-1", "fresh-2", "fresh-3"}, 1920)

	movieID, err := repo.PickMovieForChallenge(1280)
	require.NoError(t, err)
	require.Equal(t, "movie-fresh", movieID)

	imageIDs, err := repo.PickImagesForChallenge(movieID, 1280)
	require.NoError(t, err)
	require.Len(t, imageIDs, 3)
	require.ElementsMatch(t, []string{"fresh-1", "fresh-2", "fresh-3"}, imageIDs)
}

func TestPickMovieExhaustedCatalog(t *testing.T) {
	db := newTestDB(t)
	repo := NewChallengeRepository(db)

	seedMovie(t, db, "movie-small", []string{"small-1", "small-2"}, 1920)

	_, err := repo.PickMovieForChallenge(1280)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPickImagesPrefersCurated(t *testing.T) {
	db := newTestDB(t)
	repo := NewChallengeRepository(db)

	seedMovie(t, db, "movie-1", []string{"img-1", "img-2", "img-3", "img-4"}, 1920)
	require.NoError(t, db.Model(&model.MovieImage{}).Where("id = ?", "img-4").
		UpdateColumn("is_curated", true).Error)

	imageIDs, err := repo.PickImagesForChallenge("movie-1", 1280)
	require.NoError(t, err)
	require.Len(t, imageIDs, 3)
	require.Equal(t, "img-4", imageIDs[0])
}
