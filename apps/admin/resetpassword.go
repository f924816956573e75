package main

import (
	"context"
	"time"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	ctx := context.Background()
	lrn, err := cli.lrnRepo.GetLearnerByUsernameOrEmail(ctx, uname)
	if err != nil {
		return err
	}
	if err := lrn.SetPassword(pwd); err != nil {
		return err
	}
	lrn.UpdatedAt = time.Now().UTC()
	if _, err := cli.lrnRepo.UpdateLearner(ctx, lrn); err != nil {
		return err
	}
	return nil
}
