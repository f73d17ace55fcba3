package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/equilibrar/core/appointment"
	"github.com/trezcool/equilibrar/core/enrollment"
	"github.com/trezcool/equilibrar/core/program"
	"github.com/trezcool/equilibrar/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db       *sqlx.DB
	usrRepo  user.Repository
	enrRepo  enrollment.Repository
	apptRepo appointment.Repository
	catalog  *program.Catalog
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [args]                 - run DB migrations (up, down, status, ...)")
	fmt.Println("  adduser -name NAME -email EMAIL [-role ROLE] - create or update an account; the password is prompted next")
	fmt.Println("  resetpassword -email EMAIL             - reset an account's password")
	fmt.Println("  seed                                   - load the demo dataset")
	fmt.Println("  export -out FILE                       - export patients & clinical scores to an xlsx file")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserName := addUserCmd.String("name", "", "The account's full name.")
	addUserEmail := addUserCmd.String("email", "", "The account's email. The password will be prompted next.")
	addUserRole := addUserCmd.String("role", user.RoleAdmin, "The account's role.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The account's email. The password will be prompted next.")

	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportOut := exportCmd.String("out", "equilibrar.xlsx", "The output file path.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserName == "" || *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserName, *addUserEmail, pwd, *addUserRole)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)
	case "seed":
		return cli.seed()
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.export(*exportOut)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
