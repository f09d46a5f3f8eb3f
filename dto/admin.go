package dto

type ImportMovieRequest struct {
	TmdbID int `json:"tmdb_id" validate:"required,min=1"`
}

func (r ImportMovieRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ImportMovieResponse struct {
	MovieID     string `json:"movie_id"`
	Title       string `json:"title"`
	CreditCount int    `json:"credit_count"`
	ImageCount  int    `json:"image_count"`
}

type CreateChallengeRequest struct {
	Date     string   `json:"date" validate:"required,datetime=2006-01-02"`
	MovieID  string   `json:"movie_id" validate:"required"`
	ImageIDs []string `json:"image_ids" validate:"required,len=3"`
}

func (r CreateChallengeRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CreateChallengeResponse struct {
	ChallengeID string `json:"challenge_id"`
	Date        string `json:"date"`
}

type TagImageActorRequest struct {
	CreditID string `json:"credit_id" validate:"required"`
}

func (r TagImageActorRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UploadImageResponse struct {
	ImageID  string `json:"image_id"`
	FilePath string `json:"file_path"`
}
