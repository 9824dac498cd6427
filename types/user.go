package types

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gatherapp/gather/id"
	"github.com/gatherapp/gather/validator"
)

var reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type User struct {
	ID                 string    `db:"id" json:"id"`
	Nick               string    `db:"nick" json:"nick"`
	Email              string    `db:"email" json:"email"`
	Description        string    `db:"description" json:"description"`
	FavoriteCategories []string  `db:"favorite_categories" json:"favoriteCategories"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `db:"updated_at" json:"updatedAt"`
}

func ValidEmail(s string) bool {
	return reEmail.MatchString(s)
}

type RetrieveUser struct {
	UserID string
}

func (in *RetrieveUser) Validate() error {
	v := validator.New()

	if in.UserID == "" {
		v.AddError("UserID", "User ID is required")
	}
	if !id.Valid(in.UserID) {
		v.AddError("UserID", "User ID is invalid")
	}

	return v.AsError()
}

type UpdateUser struct {
	Nick               string
	Description        string
	FavoriteCategories []string

	loggedInUserID string
}

func (in *UpdateUser) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in UpdateUser) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *UpdateUser) Validate() error {
	v := validator.New()

	in.Nick = strings.TrimSpace(in.Nick)
	in.Description = strings.TrimSpace(in.Description)

	if in.Nick == "" {
		v.AddError("Nick", "Nick is required")
	}
	if utf8.RuneCountInString(in.Nick) > 30 {
		v.AddError("Nick", "Nick must be at most 30 characters")
	}
	if utf8.RuneCountInString(in.Description) > 500 {
		v.AddError("Description", "Description must be at most 500 characters")
	}
	for _, cat := range in.FavoriteCategories {
		if !EventCategory(cat).Valid() {
			v.AddError("FavoriteCategories", "Unknown category "+cat)
		}
	}

	return v.AsError()
}

type Login struct {
	Email string
}

func (in *Login) Validate() error {
	v := validator.New()

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Email == "" {
		v.AddError("Email", "Email is required")
	}
	if in.Email != "" && !ValidEmail(in.Email) {
		v.AddError("Email", "Email is invalid")
	}

	return v.AsError()
}

type LoginOutput struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
