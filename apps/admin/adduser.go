package main

import (
	"context"
	"time"

	"github.com/trezcool/equilibrar/core"
	"github.com/trezcool/equilibrar/core/user"
)

// addUser updates or creates an account with the given role.
func (cli *commandLine) addUser(name, email, pwd, role string) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)
	role = core.CleanString(role, true /* lower */)

	now := time.Now().UTC()
	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Name:      name,
			Email:     email,
			CreatedAt: now,
		}
	}
	usr.Role = role
	usr.IsActive = true
	usr.UpdatedAt = now
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if usr.ID == "" {
		_, err = cli.usrRepo.CreateUser(ctx, usr)
	} else {
		isActive := true
		_, err = cli.usrRepo.UpdateUser(ctx, usr, &isActive)
	}
	return err
}
