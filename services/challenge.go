// services/challenge.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stillframe-app/stillframe_api/dto"
	"github.com/stillframe-app/stillframe_api/game"
	"github.com/stillframe-app/stillframe_api/model"
	"github.com/stillframe-app/stillframe_api/services/repositories"
	"github.com/stillframe-app/stillframe_api/shared"
)

// ChallengeService owns the per-player session state machine: guess evaluation,
// image reveals and finalization. Sessions move Created -> InProgress -> Completed;
// Completed is terminal. Score changes only through the +1 unique-match credit and
// the -1 reveal penalty, both applied as atomic row updates.
type ChallengeService struct {
	appContext.DefaultService

	sqlSvc   *PostgresService
	redisSvc *RedisService
	mediaSvc *MediaService
	authSvc  *AuthService

	challengeRepo *repositories.ChallengeRepository
	sessionRepo   *repositories.SessionRepository

	matcherCfg game.Config

	challengeCacheTTL time.Duration
}

const CHALLENGE_SVC = "challenge_svc"

func (svc ChallengeService) Id() string {
	return CHALLENGE_SVC
}

func (svc *ChallengeService) Configure(ctx *appContext.Context) error {
	svc.matcherCfg = game.DefaultConfig()
	svc.challengeCacheTTL = time.Hour
	return svc.DefaultService.Configure(ctx)
}

func (svc *ChallengeService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)

	svc.challengeRepo = repositories.NewChallengeRepository(svc.sqlSvc.Db())
	svc.sessionRepo = repositories.NewSessionRepository(svc.sqlSvc.Db())
	return nil
}

// ==================== READ SIDE ====================

// Today returns the current challenge with only the revealed stills and the
// caller's session view. It never creates a session, so repeated calls are
// side-effect free.
func (svc *ChallengeService) Today(userID string) (*dto.TodayChallengeResponse, error) {
	challenge, err := svc.todayChallenge()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("No challenge available today")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	currentImageIndex := 0
	var sessionResp *dto.SessionResponse

	session, err := svc.sessionRepo.GetSession(userID, challenge.ID)
	if err == nil {
		currentImageIndex = session.CurrentImageIndex
		resp := dto.NewSessionResponse(session)
		sessionResp = &resp
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svc.sqlSvc.HandleError(err)
	}

	images := challenge.OrderedImages()
	revealed := make([]dto.ImageResponse, 0, currentImageIndex+1)
	for _, img := range images[:currentImageIndex+1] {
		revealed = append(revealed, svc.imageResponse(&img))
	}

	return &dto.TodayChallengeResponse{
		ChallengeID:       challenge.ID,
		Date:              challenge.Date,
		Images:            revealed,
		CurrentImageIndex: currentImageIndex,
		TotalImages:       shared.ChallengeImageCount,
		Session:           sessionResp,
	}, nil
}

// ==================== TRANSITIONS ====================

// SubmitGuess evaluates free text against the candidate pool scoped to the stills
// the player has revealed. A match that was not credited before counts +1; a match
// that was is logged as a duplicate without credit; everything is appended to the
// guess log.
func (svc *ChallengeService) SubmitGuess(userID string, req dto.SubmitGuessRequest) (*dto.SubmitGuessResponse, error) {
	guessText := strings.TrimSpace(req.GuessText)
	if guessText == "" {
		return nil, shared.NewBadRequestError(nil, "guess_text is required")
	}

	challenge, err := svc.loadChallenge(req.ChallengeID)
	if err != nil {
		return nil, err
	}

	session, err := svc.sessionRepo.GetOrCreateSession(userID, challenge.ID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	if session.Completed() {
		return nil, shared.NewAlreadyCompletedError()
	}

	candidates := game.BuildCandidates(challenge, session.CurrentImageIndex+1)
	match := game.Match(guessText, candidates, svc.matcherCfg)

	isDuplicate := match.Matched && svc.alreadyCredited(session, match)
	isCorrect := match.Matched && !isDuplicate

	guess := &model.Guess{
		GuessText: guessText,
		IsCorrect: isCorrect,
	}
	if isCorrect {
		category := string(match.Category)
		value := match.Value
		guess.MatchedCategory = &category
		guess.MatchedValue = &value
	}

	if err := svc.sessionRepo.AppendGuess(session.ID, guess, isCorrect); err != nil {
		if errors.Is(err, repositories.ErrSessionCompleted) {
			return nil, shared.NewAlreadyCompletedError()
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	score := session.Score
	if isCorrect {
		score++
	}

	recordGuess(guessOutcome(match.Matched, isDuplicate))
	log.WithFields(log.Fields{
		"session_id": session.ID,
		"matched":    match.Matched,
		"duplicate":  isDuplicate,
		"score":      score,
	}).Debug("Guess evaluated")

	return &dto.SubmitGuessResponse{
		Guess:       dto.NewGuessResponse(guess),
		IsDuplicate: isDuplicate,
		Score:       score,
	}, nil
}

// RevealImage advances to the next still for the -1 penalty. The score is allowed
// to go negative.
func (svc *ChallengeService) RevealImage(userID, challengeID string) (*dto.RevealImageResponse, error) {
	challenge, err := svc.loadChallenge(challengeID)
	if err != nil {
		return nil, err
	}

	session, err := svc.sessionRepo.GetOrCreateSession(userID, challenge.ID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	if session.Completed() {
		return nil, shared.NewAlreadyCompletedError()
	}

	if err := svc.sessionRepo.RevealNext(session.ID, game.RevealPenalty); err != nil {
		switch {
		case errors.Is(err, repositories.ErrSessionCompleted):
			return nil, shared.NewAlreadyCompletedError()
		case errors.Is(err, repositories.ErrNoMoreImages):
			return nil, shared.NewNoMoreImagesError()
		default:
			return nil, svc.sqlSvc.HandleError(err)
		}
	}

	session, err = svc.sessionRepo.ReloadSession(session.ID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	images := challenge.OrderedImages()
	newImage := images[session.CurrentImageIndex]

	recordReveal()

	return &dto.RevealImageResponse{
		CurrentImageIndex: session.CurrentImageIndex,
		Score:             session.Score,
		PenaltyApplied:    game.RevealPenalty,
		NewImage:          svc.imageResponse(&newImage),
	}, nil
}

// Results finalizes the session (one-way) and returns the full answer set. The
// projection itself never touches the score.
func (svc *ChallengeService) Results(userID, challengeID string) (*dto.ResultsResponse, error) {
	challenge, err := svc.loadChallenge(challengeID)
	if err != nil {
		return nil, err
	}

	session, err := svc.sessionRepo.GetOrCreateSession(userID, challenge.ID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	if !session.Completed() {
		if err := svc.sessionRepo.Finalize(session.ID, time.Now()); err != nil {
			return nil, svc.sqlSvc.HandleError(err)
		}
		session, err = svc.sessionRepo.ReloadSession(session.ID)
		if err != nil {
			return nil, svc.sqlSvc.HandleError(err)
		}

		svc.recordLeaderboardScore(challenge.ID, userID, session.Score)
		recordCompletion()
	}

	answers := svc.buildAnswerSet(challenge)

	return &dto.ResultsResponse{
		Movie: dto.MovieSummary{
			Title:       challenge.Movie.Title,
			ReleaseYear: challenge.Movie.ReleaseYear,
			Overview:    challenge.Movie.Overview,
		},
		Answers: answers,
		Session: dto.NewSessionResponse(session),
	}, nil
}

// ==================== LEADERBOARD ====================

const leaderboardSize = 10

func leaderboardKey(challengeID string) string {
	return fmt.Sprintf("leaderboard:%s", challengeID)
}

func (svc *ChallengeService) recordLeaderboardScore(challengeID, userID string, score int) {
	ctx := context.Background()
	err := svc.redisSvc.GetClient().ZAdd(ctx, leaderboardKey(challengeID), redis.Z{
		Score:  float64(score),
		Member: userID,
	}).Err()
	if err != nil {
		log.WithError(err).WithField("challenge_id", challengeID).Warn("Failed to record leaderboard score")
	}
	// Daily boards are short-lived.
	svc.redisSvc.GetClient().Expire(ctx, leaderboardKey(challengeID), 48*time.Hour)
}

func (svc *ChallengeService) Leaderboard(userID, challengeID string) (*dto.LeaderboardResponse, error) {
	ctx := context.Background()
	key := leaderboardKey(challengeID)

	members, err := svc.redisSvc.GetClient().ZRevRangeWithScores(ctx, key, 0, leaderboardSize-1).Result()
	if err != nil && err != redis.Nil {
		log.WithError(err).WithField("challenge_id", challengeID).Warn("Leaderboard read from redis failed, falling back to store")
		members = nil
	}

	// A cold or unavailable board rebuilds from completed sessions.
	if len(members) == 0 {
		return svc.leaderboardFromStore(userID, challengeID)
	}

	resp := &dto.LeaderboardResponse{
		ChallengeID: challengeID,
		Entries:     []dto.LeaderboardEntry{},
	}

	for i, member := range members {
		memberID, _ := member.Member.(string)
		resp.Entries = append(resp.Entries, dto.LeaderboardEntry{
			Rank:     i + 1,
			Username: svc.username(memberID),
			Score:    int(member.Score),
		})
	}

	if rank, err := svc.redisSvc.GetClient().ZRevRank(ctx, key, userID).Result(); err == nil {
		score, _ := svc.redisSvc.GetClient().ZScore(ctx, key, userID).Result()
		resp.UserRank = &dto.LeaderboardEntry{
			Rank:     int(rank) + 1,
			Username: svc.username(userID),
			Score:    int(score),
		}
	}

	return resp, nil
}

// leaderboardFromStore ranks completed sessions straight from the database. Slower
// than the ZSET but survives redis restarts and expiry.
func (svc *ChallengeService) leaderboardFromStore(userID, challengeID string) (*dto.LeaderboardResponse, error) {
	sessions, err := svc.sessionRepo.TopScores(challengeID, leaderboardSize)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := &dto.LeaderboardResponse{
		ChallengeID: challengeID,
		Entries:     []dto.LeaderboardEntry{},
	}
	for i, session := range sessions {
		entry := dto.LeaderboardEntry{
			Rank:     i + 1,
			Username: svc.username(session.UserID),
			Score:    session.Score,
		}
		resp.Entries = append(resp.Entries, entry)
		if session.UserID == userID {
			userEntry := entry
			resp.UserRank = &userEntry
		}
	}
	return resp, nil
}

func (svc *ChallengeService) username(userID string) string {
	name, err := svc.authSvc.GetUsername(userID)
	if err != nil {
		return "unknown"
	}
	return name
}

// ==================== HELPERS ====================

func (svc *ChallengeService) loadChallenge(challengeID string) (*model.DailyChallenge, error) {
	if challengeID == "" {
		return nil, shared.NewBadRequestError(nil, "challenge_id is required")
	}

	challenge, err := svc.challengeRepo.GetChallenge(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Challenge not found")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}
	return challenge, nil
}

// todayChallenge resolves today's challenge id through a short-lived redis cache;
// the row itself is always read from the database so preloads stay consistent.
func (svc *ChallengeService) todayChallenge() (*model.DailyChallenge, error) {
	today := TodayUTC()
	cacheKey := fmt.Sprintf("challenge:date:%s", today.Format("2006-01-02"))

	ctx := context.Background()
	if cached, err := svc.redisSvc.Get(ctx, cacheKey); err == nil && cached != "" {
		return svc.challengeRepo.GetChallenge(cached)
	}

	challenge, err := svc.challengeRepo.GetChallengeByDate(today)
	if err != nil {
		return nil, err
	}

	if err := svc.redisSvc.Set(ctx, cacheKey, challenge.ID, svc.challengeCacheTTL); err != nil {
		log.WithError(err).Debug("Failed to cache today's challenge id")
	}

	return challenge, nil
}

func (svc *ChallengeService) alreadyCredited(session *model.GuessSession, match game.Result) bool {
	for _, prior := range session.Guesses {
		if !prior.IsCorrect || prior.MatchedCategory == nil || prior.MatchedValue == nil {
			continue
		}
		if *prior.MatchedCategory == string(match.Category) && *prior.MatchedValue == match.Value {
			return true
		}
	}
	return false
}

func (svc *ChallengeService) imageResponse(img *model.MovieImage) dto.ImageResponse {
	return dto.ImageResponse{
		ID:       img.ID,
		ImageURL: svc.mediaSvc.ImageURL(img.FilePath),
		Width:    img.Width,
		Height:   img.Height,
	}
}

func (svc *ChallengeService) buildAnswerSet(challenge *model.DailyChallenge) dto.AnswerSet {
	answers := dto.AnswerSet{
		Title:     challenge.Movie.Title,
		Directors: []string{},
		Writers:   []string{},
		Actors:    []dto.ActorAnswer{},
	}

	for _, credit := range challenge.Movie.Credits {
		switch credit.Role {
		case shared.CreditRoleDirector:
			answers.Directors = append(answers.Directors, credit.PersonName)
		case shared.CreditRoleWriter:
			answers.Writers = append(answers.Writers, credit.PersonName)
		}
	}

	for _, credit := range game.UniqueActorCredits(challenge) {
		answers.Actors = append(answers.Actors, dto.ActorAnswer{
			Name:      credit.PersonName,
			Character: credit.Character,
		})
	}

	return answers
}

func guessOutcome(matched, duplicate bool) string {
	switch {
	case !matched:
		return "miss"
	case duplicate:
		return "duplicate"
	default:
		return "correct"
	}
}

// TodayUTC is the challenge day boundary: UTC midnight.
func TodayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
