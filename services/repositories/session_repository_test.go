package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stillframe-app/stillframe_api/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every pooled connection to :memory: would otherwise see its own database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Movie{},
		&model.MovieCredit{},
		&model.MovieImage{},
		&model.ImageActor{},
		&model.DailyChallenge{},
		&model.GuessSession{},
		&model.Guess{},
	))

	return db
}

func TestGetOrCreateSession(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))

	first, err := repo.GetOrCreateSession("user-1", "challenge-1")
	require.NoError(t, err)
	require.Equal(t, 0, first.CurrentImageIndex)
	require.Equal(t, 0, first.Score)
	require.False(t, first.Completed())

	second, err := repo.GetOrCreateSession("user-1", "challenge-1")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	other, err := repo.GetOrCreateSession("user-2", "challenge-1")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, other.ID)
}

func TestAppendGuessCreditsCorrectGuessOnly(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))

	session, err := repo.GetOrCreateSession("user-1", "challenge-1")
	require.NoError(t, err)

	category := "TITLE"
	value := "Pulp Fiction"
	err = repo.AppendGuess(session.ID, &model.Guess{
		GuessText:       "pulp fiction",
		MatchedCategory: &category,
		MatchedValue:    &value,
		IsCorrect:       true,
	}, true)
	require.NoError(t, err)

	err = repo.AppendGuess(session.ID, &model.Guess{
		GuessText: "some wrong guess",
		IsCorrect: false,
	}, false)
	require.NoError(t, err)

	session, err = repo.ReloadSession(session.ID)
	require.NoError(t, err)
	require.Equal(t, 1, session.Score)
	require.Len(t, session.Guesses, 2)
	require.Equal(t, "pulp fiction", session.Guesses[0].GuessText)
}

func TestAppendGuessAfterFinalizeRollsBack(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))

	session, err := repo.GetOrCreateSession("user-1", "challenge-1")
	require.NoError(t, err)
	require.NoError(t, repo.Finalize(session.ID, time.Now()))

	category := "TITLE"
	value := "Pulp Fiction"
	err = repo.AppendGuess(session.ID, &model.Guess{
		GuessText:       "pulp fiction",
		MatchedCategory: &category,
		MatchedValue:    &value,
		IsCorrect:       true,
	}, true)
	require.ErrorIs(t, err, ErrSessionCompleted)

	// The transaction voids the log entry along with the credit.
	session, err = repo.ReloadSession(session.ID)
	require.NoError(t, err)
	require.Equal(t, 0, session.Score)
	require.Empty(t, session.Guesses)
}

func TestRevealNextAdvancesAndPenalizes(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))

	session, err := repo.GetOrCreateSession("user-1", "challenge-1")
	require.NoError(t, err)

	require.NoError(t, repo.RevealNext(session.ID, 1))
	require.NoError(t, repo.RevealNext(session.ID, 1))

	session, err = repo.ReloadSession(session.ID)
	require.NoError(t, err)
	require.Equal(t, 2, session.CurrentImageIndex)
	require.Equal(t, -2, session.Score)

	// All three stills are visible now.
	err = repo.RevealNext(session.ID, 1)
	require.ErrorIs(t, err, ErrNoMoreImages)

	session, err = repo.ReloadSession(session.ID)
	require.NoError(t, err)
	require.Equal(t, 2, session.CurrentImageIndex)
	require.Equal(t, -2, session.Score)
}

func TestRevealNextOnCompletedSession(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))

	session, err := repo.GetOrCreateSession("user-1", "challenge-1")
	require.NoError(t, err)
	require.NoError(t, repo.Finalize(session.ID, time.Now()))

	err = repo.RevealNext(session.ID, 1)
	require.ErrorIs(t, err, ErrSessionCompleted)
}

func TestFinalizeIsOneWay(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))

	session, err := repo.GetOrCreateSession("user-1", "challenge-1")
	require.NoError(t, err)

	first := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Finalize(session.ID, first))

	// Repeat finalization never moves the timestamp.
	require.NoError(t, repo.Finalize(session.ID, first.Add(time.Hour)))

	session, err = repo.ReloadSession(session.ID)
	require.NoError(t, err)
	require.True(t, session.Completed())
	require.Equal(t, first.Unix(), session.CompletedAt.Unix())
}

func TestTopScoresOrdersCompletedSessions(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, fixture := range []struct {
		user  string
		score int
		done  bool
	}{
		{"user-low", 1, true},
		{"user-high", 3, true},
		{"user-mid", 2, true},
		{"user-open", 5, false},
	} {
		session, err := repo.GetOrCreateSession(fixture.user, "challenge-1")
		require.NoError(t, err)

		updates := map[string]interface{}{"score": fixture.score}
		if fixture.done {
			updates["completed_at"] = base.Add(time.Duration(i) * time.Minute)
		}
		require.NoError(t, db.Model(&model.GuessSession{}).Where("id = ?", session.ID).Updates(updates).Error)
	}

	top, err := repo.TopScores("challenge-1", 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, "user-high", top[0].UserID)
	require.Equal(t, "user-mid", top[1].UserID)
}
