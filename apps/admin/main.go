package main

import (
	"log"
	"os"

	"github.com/trezcool/equilibrar/core"
	"github.com/trezcool/equilibrar/core/program"
	"github.com/trezcool/equilibrar/storage/database"
	"github.com/trezcool/equilibrar/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	errAndDie(database.CreateIfNotExist(core.Conf))
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	// start CLI
	cli := commandLine{
		db:       db,
		usrRepo:  sqlxrepos.NewUserRepository(db),
		enrRepo:  sqlxrepos.NewEnrollmentRepository(db),
		apptRepo: sqlxrepos.NewAppointmentRepository(db),
		catalog:  program.NewCatalog(),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
