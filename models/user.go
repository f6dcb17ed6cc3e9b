package models

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"

	"github.com/boldventures/scorecard_backend/config"
	"github.com/boldventures/scorecard_backend/utils"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:100;not null;unique" json:"username"`
	FirstName string    `gorm:"size:100;not null" json:"first_name"`
	LastName  string    `gorm:"size:100;not null" json:"last_name"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	RetypePassword string `json:"retypePassword"`
	Firstname      string `json:"firstname"`
	Lastname       string `json:"lastname"`
}

var ErrorDuplicateUsername = errors.New("username already exists")

// DisplayName is the "scored by" value mirrored into the spreadsheet.
// Captured at submission time, not kept as a live reference.
func (user *User) DisplayName() string {
	return user.FirstName + " " + user.LastName
}

func GetUserByUsername(ctx context.Context, username string) (*User, error) {
	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &user, nil
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	if msg := utils.ValidateRegistrationFields(input.Username, input.Password, input.RetypePassword, input.Firstname, input.Lastname); msg != "" {
		return nil, utils.NewValidationError(msg)
	}
	if input.Password != input.RetypePassword {
		return nil, utils.NewValidationError("Passwords do not match.")
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&User{}).Where("username = ?", input.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrorDuplicateUsername
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Username:  html.EscapeString(strings.TrimSpace(input.Username)),
		FirstName: strings.TrimSpace(input.Firstname),
		LastName:  strings.TrimSpace(input.Lastname),
		Password:  string(hashedPassword),
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// AuthenticateUser verifies login credentials and returns the matching user.
// The same error is returned for unknown users and wrong passwords.
func AuthenticateUser(ctx context.Context, username string, password string) (*User, error) {
	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error; err != nil {
		return nil, errors.New("invalid username or password")
	}

	if err := utils.ComparePassword(user.Password, password); err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return nil, errors.New("invalid username or password")
		}
		return nil, err
	}

	return &user, nil
}
