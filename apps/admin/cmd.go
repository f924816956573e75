package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/onlineimmigrant/eduplan/core/learner"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db      *sqlx.DB
	lrnRepo learner.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  addlearner -name NAME -email EMAIL [-username USERNAME] [-admin] - create or update a learner")
	fmt.Println("  resetpassword -username USERNAME|EMAIL - reset learner's password")
	fmt.Println("  migrate COMMAND [args] - run a database migration command")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addLearnerCmd := flag.NewFlagSet("addlearner", flag.ExitOnError)
	addLearnerName := addLearnerCmd.String("name", "", "The learner's full name.")
	addLearnerUname := addLearnerCmd.String("username", "", "The learner's username.")
	addLearnerEmail := addLearnerCmd.String("email", "", "The learner's email. The password will be prompted next.")
	addLearnerAdmin := addLearnerCmd.Bool("admin", false, "Grant admin access.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The learner's username or email. The password will be prompted next.")

	switch args[1] {
	case "addlearner":
		if err := addLearnerCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addLearnerName == "" || *addLearnerEmail == "" {
			addLearnerCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addLearnerCmd.Usage()
			return errHelp
		}
		return cli.addLearner(*addLearnerName, *addLearnerUname, *addLearnerEmail, string(pwd), *addLearnerAdmin)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordUname, string(pwd))
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() ([]byte, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	return pwd, err
}
