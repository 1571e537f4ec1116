package session

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/daybook/internal/constants"
)

func TestLoginAndCurrent(t *testing.T) {
	gokeyring.MockInit()

	s, err := Login("ada@example.com", "", 0)
	if err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	if s.User.Username != "ada" || s.User.ID != constants.DefaultUserID {
		t.Errorf("unexpected user %+v", s.User)
	}

	got, err := Current()
	if err != nil {
		t.Fatalf("Current() failed: %v", err)
	}
	if got.User != s.User || got.Token != s.Token {
		t.Errorf("Current() = %+v, want %+v", got, s)
	}
	if UserID(99) != constants.DefaultUserID {
		t.Errorf("UserID() should return the session user")
	}
}

func TestLoginExplicitUser(t *testing.T) {
	gokeyring.MockInit()

	s, err := Login("  bob@example.com ", "bobby", 7)
	if err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	if s.User.ID != 7 || s.User.Username != "bobby" || s.User.Email != "bob@example.com" {
		t.Errorf("unexpected user %+v", s.User)
	}
}

func TestLoginEmptyEmail(t *testing.T) {
	gokeyring.MockInit()

	if _, err := Login("   ", "", 0); err == nil {
		t.Error("Login() with empty email should fail")
	}
}

func TestLogout(t *testing.T) {
	gokeyring.MockInit()

	if _, err := Login("ada@example.com", "", 0); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	if err := Logout(); err != nil {
		t.Fatalf("Logout() failed: %v", err)
	}
	if _, err := Current(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Current() after logout error = %v, want %v", err, ErrNoSession)
	}
	if err := Logout(); !errors.Is(err, ErrNoSession) {
		t.Errorf("second Logout() error = %v, want %v", err, ErrNoSession)
	}
	if UserID(5) != 5 {
		t.Error("UserID() should fall back without a session")
	}
}

func TestCorruptSessionIsDiscarded(t *testing.T) {
	gokeyring.MockInit()

	if err := gokeyring.Set(constants.KeyringService, constants.KeyringUser, "{not json"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if _, err := Current(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Current() error = %v, want %v", err, ErrNoSession)
	}
	if _, err := gokeyring.Get(constants.KeyringService, constants.KeyringUser); !errors.Is(err, gokeyring.ErrNotFound) {
		t.Error("corrupt session should have been deleted")
	}
}

func TestKeyringUnavailable(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no dbus"))
	defer gokeyring.MockInit()

	if _, err := Current(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("Current() error = %v, want %v", err, ErrKeyringUnavailable)
	}
	if _, err := Login("ada@example.com", "", 0); err == nil {
		t.Error("Login() should fail without a keyring")
	}
}
