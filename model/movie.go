// model/movie.go
package model

import (
	"time"
)

// Movie is read-only catalog data seeded by the ingest pipeline.
type Movie struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	TmdbID      int       `json:"tmdb_id" gorm:"uniqueIndex;not null"`
	Title       string    `json:"title" gorm:"not null"`
	ReleaseYear int       `json:"release_year"`
	Overview    string    `json:"overview" gorm:"type:text"`
	PosterPath  string    `json:"poster_path"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Credits []MovieCredit `json:"credits,omitempty" gorm:"foreignKey:MovieID"`
	Images  []MovieImage  `json:"images,omitempty" gorm:"foreignKey:MovieID"`
}

// MovieCredit is one guessable contribution. A person holds a given role at most
// once per movie.
type MovieCredit struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	MovieID      string    `json:"movie_id" gorm:"not null;uniqueIndex:idx_movie_person_role"`
	PersonName   string    `json:"person_name" gorm:"not null;uniqueIndex:idx_movie_person_role"`
	Role         string    `json:"role" gorm:"not null;uniqueIndex:idx_movie_person_role"` // DIRECTOR, WRITER, ACTOR
	Character    *string   `json:"character,omitempty"`                                    // ACTOR only
	TmdbPersonID int       `json:"tmdb_person_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MovieImage is a scene still usable in a challenge.
type MovieImage struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	MovieID     string    `json:"movie_id" gorm:"not null;uniqueIndex:idx_movie_file_path"`
	FilePath    string    `json:"file_path" gorm:"not null;uniqueIndex:idx_movie_file_path"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	AspectRatio float64   `json:"aspect_ratio"`
	IsCurated   bool      `json:"is_curated" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Curated ACTOR credits specifically visible in this still. Empty means the
	// still carries no curated tagging.
	ImageActors []ImageActor `json:"image_actors,omitempty" gorm:"foreignKey:ImageID"`
}

// ImageActor tags an ACTOR credit as visible in one still.
type ImageActor struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	ImageID   string    `json:"image_id" gorm:"not null;uniqueIndex:idx_image_credit"`
	CreditID  string    `json:"credit_id" gorm:"not null;uniqueIndex:idx_image_credit"`
	CreatedAt time.Time `json:"created_at"`

	Credit MovieCredit `json:"credit" gorm:"foreignKey:CreditID"`
}

// DailyChallenge pins one movie and exactly three ordered stills to a calendar day.
// Date is unique; the image ordering is fixed at creation.
type DailyChallenge struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Date      time.Time `json:"date" gorm:"uniqueIndex;not null"`
	MovieID   string    `json:"movie_id" gorm:"not null"`
	Image1ID  string    `json:"image1_id" gorm:"not null"`
	Image2ID  string    `json:"image2_id" gorm:"not null"`
	Image3ID  string    `json:"image3_id" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`

	Movie  Movie      `json:"movie" gorm:"foreignKey:MovieID"`
	Image1 MovieImage `json:"image1" gorm:"foreignKey:Image1ID"`
	Image2 MovieImage `json:"image2" gorm:"foreignKey:Image2ID"`
	Image3 MovieImage `json:"image3" gorm:"foreignKey:Image3ID"`
}

// OrderedImages returns the three stills in reveal order.
func (c *DailyChallenge) OrderedImages() []MovieImage {
	return []MovieImage{c.Image1, c.Image2, c.Image3}
}
