package cli

import (
	"errors"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/daybook/internal/session"
)

type LoginCmd struct {
	Email    string `arg:"" help:"Email address."`
	Username string `help:"Display name. Defaults to the part of the email before '@'."`
	UserID   int64  `name:"user-id" help:"User id to act as. Defaults to the configured user."`
}

func (c *LoginCmd) Run(ctx *Context) error {
	userID := c.UserID
	if userID == 0 {
		userID = ctx.Config.User.DefaultID
	}
	s, err := session.Login(c.Email, c.Username, userID)
	if err != nil {
		return err
	}
	ctx.printf("✓ Logged in as %s (user %d)\n", s.User.Username, s.User.ID)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *Context) error {
	err := session.Logout()
	if errors.Is(err, session.ErrNoSession) {
		ctx.println("Not logged in.")
		return nil
	}
	if err != nil {
		return err
	}
	ctx.println("Logged out.")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *Context) error {
	s, err := session.Current()
	if errors.Is(err, session.ErrNoSession) {
		ctx.printf("Not logged in, using user %d\n", ctx.UserID)
		return nil
	}
	if err != nil {
		return err
	}
	ctx.printf("%s <%s> (user %d), logged in %s\n",
		s.User.Username, s.User.Email, s.User.ID, humanize.Time(s.CreatedAt))
	return nil
}
