// Package session keeps the mocked signed-in identity in the OS keyring.
// There is no server: logging in records who is using the journal so the
// user id can be passed to every journal call.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/models"
)

var (
	// ErrNoSession is returned when nobody is logged in
	ErrNoSession = errors.New("not logged in, run 'daybook login' first")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be used
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Session is the stored login.
type Session struct {
	User      models.User `json:"user"`
	Token     string      `json:"token"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Login stores a session for email. The username defaults to the part of
// the address before '@' and a zero userID selects the default user.
func Login(email, username string, userID int64) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Session{}, errors.New("email cannot be empty")
	}
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}
	if userID == 0 {
		userID = constants.DefaultUserID
	}

	now := time.Now().UTC()
	s := Session{
		User:      models.User{ID: userID, Email: email, Username: username},
		Token:     fmt.Sprintf("mock-token-%d", now.UnixMilli()),
		CreatedAt: now,
	}
	data, err := json.Marshal(s)
	if err != nil {
		return Session{}, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := keyring.Set(constants.KeyringService, constants.KeyringUser, string(data)); err != nil {
		return Session{}, fmt.Errorf("failed to store session in keyring: %w", err)
	}
	return s, nil
}

// Current returns the stored session. A session that cannot be decoded is
// removed and reported as ErrNoSession.
func Current() (Session, error) {
	data, err := keyring.Get(constants.KeyringService, constants.KeyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}

	var s Session
	if err := json.Unmarshal([]byte(data), &s); err != nil || s.User.ID == 0 {
		_ = keyring.Delete(constants.KeyringService, constants.KeyringUser)
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Logout removes the stored session.
func Logout() error {
	err := keyring.Delete(constants.KeyringService, constants.KeyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNoSession
	}
	if err != nil {
		return fmt.Errorf("failed to delete session from keyring: %w", err)
	}
	return nil
}

// UserID returns the logged-in user's id, or fallback when there is no
// usable session.
func UserID(fallback int64) int64 {
	s, err := Current()
	if err != nil {
		return fallback
	}
	return s.User.ID
}
