package shared

const (
	UserID   = "user_id"
	UserRole = "user_role"

	RoleAdmin  = "admin"
	RolePlayer = "player"

	CreditRoleDirector = "DIRECTOR"
	CreditRoleWriter   = "WRITER"
	CreditRoleActor    = "ACTOR"

	// A challenge always carries exactly three ordered stills, indices 0..2.
	ChallengeImageCount = 3
	MaxImageIndex       = 2
)
