package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/onlineimmigrant/eduplan/core"
	"github.com/onlineimmigrant/eduplan/core/learner"
)

// addLearner updates or creates a learner.Learner
func (cli *commandLine) addLearner(name, uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	now := time.Now().UTC()
	lrn, err := cli.lrnRepo.GetLearnerByUsernameOrEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) != learner.ErrNotFound {
			return err
		}
		lrn = learner.Learner{
			Name:      name,
			Username:  uname,
			Email:     email,
			CreatedAt: now,
		}
	}
	lrn.Name = name
	if uname != "" {
		lrn.Username = uname
	}
	lrn.IsActive = true
	lrn.Roles = []string{learner.RoleStudent}
	if isAdmin {
		lrn.Roles = learner.AllRoles
	}
	lrn.UpdatedAt = now
	if err := lrn.SetPassword(pwd); err != nil {
		return err
	}

	if lrn.ID == "" {
		_, err = cli.lrnRepo.CreateLearner(ctx, lrn)
	} else {
		_, err = cli.lrnRepo.UpdateLearner(ctx, lrn)
	}
	return err
}
