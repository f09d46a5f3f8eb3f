package services

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stillframe-app/stillframe_api/dto"
	"github.com/stillframe-app/stillframe_api/game"
	"github.com/stillframe-app/stillframe_api/model"
	"github.com/stillframe-app/stillframe_api/services/repositories"
	"github.com/stillframe-app/stillframe_api/shared"
)

func newChallengeTestDB(t *testing.T) *gorm.DB {
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

// newChallengeService assembles the service against the test database. The redis
// client points at a closed port so every cache and board read exercises the
// database paths.
func newChallengeService(t *testing.T, db *gorm.DB) *ChallengeService {
	t.Helper()

	svc := &ChallengeService{
		matcherCfg:        game.DefaultConfig(),
		challengeCacheTTL: time.Hour,
	}
	svc.sqlSvc = &PostgresService{db: db}
	svc.redisSvc = &RedisService{redis: redis.NewClient(&redis.Options{Addr: "localhost:1", MaxRetries: -1})}
	svc.mediaSvc = &MediaService{}
	svc.authSvc = &AuthService{userRepo: repositories.NewUserRepository(db)}
	svc.challengeRepo = repositories.NewChallengeRepository(db)
	svc.sessionRepo = repositories.NewSessionRepository(db)
	return svc
}

func seedChallengeFixture(t *testing.T, db *gorm.DB) *model.DailyChallenge {
	t.Helper()

	require.NoError(t, db.Create(&model.Movie{
		ID:          "movie-pf",
		TmdbID:      680,
		Title:       "Pulp Fiction",
		ReleaseYear: 1994,
	}).Error)

	character := "Mia Wallace"
	require.NoError(t, db.Create(&[]model.MovieCredit{
		{ID: "credit-dir", MovieID: "movie-pf", PersonName: "Quentin Tarantino", Role: shared.CreditRoleDirector},
		{ID: "credit-act", MovieID: "movie-pf", PersonName: "Uma Thurman", Role: shared.CreditRoleActor, Character: &character},
	}).Error)

	require.NoError(t, db.Create(&[]model.MovieImage{
		{ID: "img-1", MovieID: "movie-pf", FilePath: "/one.jpg", Width: 1920},
		{ID: "img-2", MovieID: "movie-pf", FilePath: "/two.jpg", Width: 1920},
		{ID: "img-3", MovieID: "movie-pf", FilePath: "/three.jpg", Width: 1920},
	}).Error)

	challenge := &model.DailyChallenge{
		ID:       "challenge-1",
		Date:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		MovieID:  "movie-pf",
		Image1ID: "img-1",
		Image2ID: "img-2",
		Image3ID: "img-3",
	}
	require.NoError(t, db.Create(challenge).Error)
	return challenge
}

func TestSubmitGuessCreditsUniqueMatchOnce(t *testing.T) {
	db := newChallengeTestDB(t)
	svc := newChallengeService(t, db)
	seedChallengeFixture(t, db)

	// First title match earns the credit.
	resp, err := svc.SubmitGuess("user-1", dto.SubmitGuessRequest{
		ChallengeID: "challenge-1",
		GuessText:   "Pulp Fiction",
	})
	require.NoError(t, err)
	require.True(t, resp.Guess.IsCorrect)
	require.False(t, resp.IsDuplicate)
	require.Equal(t, 1, resp.Score)

	// A typo resolving to the same answer is a duplicate: logged, never credited.
	resp, err = svc.SubmitGuess("user-1", dto.SubmitGuessRequest{
		ChallengeID: "challenge-1",
		GuessText:   "pulp fictoin",
	})
	require.NoError(t, err)
	require.True(t, resp.IsDuplicate)
	require.False(t, resp.Guess.IsCorrect)
	require.Equal(t, 1, resp.Score)

	// A different category still earns its own credit.
	resp, err = svc.SubmitGuess("user-1", dto.SubmitGuessRequest{
		ChallengeID: "challenge-1",
		GuessText:   "tarantino",
	})
	require.NoError(t, err)
	require.True(t, resp.Guess.IsCorrect)
	require.Equal(t, 2, resp.Score)

	// A miss changes nothing.
	resp, err = svc.SubmitGuess("user-1", dto.SubmitGuessRequest{
		ChallengeID: "challenge-1",
		GuessText:   "completely unrelated words",
	})
	require.NoError(t, err)
	require.False(t, resp.Guess.IsCorrect)
	require.False(t, resp.IsDuplicate)
	require.Equal(t, 2, resp.Score)

	session, err := svc.sessionRepo.GetSession("user-1", "challenge-1")
	require.NoError(t, err)
	require.Equal(t, 2, session.Score)
	require.Len(t, session.Guesses, 4)
}

func TestSubmitGuessOnFinalizedSession(t *testing.T) {
	db := newChallengeTestDB(t)
	svc := newChallengeService(t, db)
	seedChallengeFixture(t, db)

	session, err := svc.sessionRepo.GetOrCreateSession("user-1", "challenge-1")
	require.NoError(t, err)
	require.NoError(t, svc.sessionRepo.Finalize(session.ID, time.Now()))

	_, err = svc.SubmitGuess("user-1", dto.SubmitGuessRequest{
		ChallengeID: "challenge-1",
		GuessText:   "Pulp Fiction",
	})
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	require.Equal(t, "ALREADY_COMPLETED", appErr.Code)
}

func TestLeaderboardFallsBackToStore(t *testing.T) {
	db := newChallengeTestDB(t)
	svc := newChallengeService(t, db)
	seedChallengeFixture(t, db)

	require.NoError(t, db.Create(&[]model.User{
		{ID: "user-high", Email: "high@example.com", Username: "high"},
		{ID: "user-low", Email: "low@example.com", Username: "low"},
	}).Error)

	done := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, fixture := range []struct {
		user  string
		score int
	}{
		{"user-low", 1},
		{"user-high", 3},
	} {
		session, err := svc.sessionRepo.GetOrCreateSession(fixture.user, "challenge-1")
		require.NoError(t, err)
		require.NoError(t, db.Model(&model.GuessSession{}).Where("id = ?", session.ID).
			Updates(map[string]interface{}{"score": fixture.score, "completed_at": done}).Error)
	}

	// The redis client cannot connect, so the board must come from the database.
	resp, err := svc.Leaderboard("user-low", "challenge-1")
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
	require.Equal(t, "high", resp.Entries[0].Username)
	require.Equal(t, 3, resp.Entries[0].Score)
	require.Equal(t, "low", resp.Entries[1].Username)

	require.NotNil(t, resp.UserRank)
	require.Equal(t, 2, resp.UserRank.Rank)
	require.Equal(t, 1, resp.UserRank.Score)
}
