package main

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/trezcool/equilibrar/core/enrollment"
	"github.com/trezcool/equilibrar/core/user"
)

var patientHeader = []interface{}{
	"Nombre", "Email", "RUT", "Teléfono", "Isapre", "Seguro", "Dirección",
	"Programa", "Estado", "Inicio", "Semana actual",
	"Autojuicio", "Culpa no adaptativa", "Responsabilidad consciente", "Humanización del error",
}

var nowFunc = time.Now // mockable

var resultHeader = []interface{}{
	"Nombre", "Programa", "Semana", "Fecha",
	"Autojuicio", "Culpa no adaptativa", "Responsabilidad consciente", "Humanización del error",
}

// export writes patient records and their clinical score history to an xlsx
// workbook at out.
func (cli *commandLine) export(out string) error {
	ctx := context.Background()

	patients, err := cli.usrRepo.FilterUsers(ctx, user.QueryFilter{Roles: []string{user.RoleClient}})
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", "Pacientes")
	f.NewSheet("Resultados")
	if err := f.SetSheetRow("Pacientes", "A1", &patientHeader); err != nil {
		return err
	}
	if err := f.SetSheetRow("Resultados", "A1", &resultHeader); err != nil {
		return err
	}

	patientRow, resultRow := 2, 2
	for _, pat := range patients {
		prof, err := cli.usrRepo.GetProfile(ctx, pat.ID)
		if err != nil && err != user.ErrNotFound {
			return err
		}
		if err := cli.exportPatient(ctx, f, pat, prof, &patientRow, &resultRow); err != nil {
			return err
		}
	}

	if err := f.SaveAs(out); err != nil {
		return err
	}
	fmt.Printf("exported %d patients to %s\n", len(patients), out)
	return nil
}

func (cli *commandLine) exportPatient(
	ctx context.Context,
	f *excelize.File,
	pat user.User,
	prof user.Profile,
	patientRow, resultRow *int,
) error {
	row := []interface{}{
		pat.Name, pat.Email, prof.DocumentID, prof.Phone, prof.Isapre, prof.Insurance, prof.Address,
	}

	progName := ""
	enr, err := cli.enrRepo.GetActiveEnrollment(ctx, pat.ID)
	switch err {
	case nil:
		prog, err := cli.catalog.Program(enr.ProgramID)
		if err != nil {
			return err
		}
		progName = prog.Name
		row = append(row, progName, enr.Status, enr.StartDate.Format("02-01-2006"), enr.CurrentWeek(nowFunc()))
	case enrollment.ErrNotFound:
		row = append(row, "", "", "", "")
	default:
		return err
	}

	latest, err := cli.enrRepo.LatestTestResult(ctx, pat.ID)
	if err == nil {
		s := latest.Scores
		row = append(row, s.SelfJudgment, s.MaladaptiveGuilt, s.ConsciousResponsibility, s.ErrorHumanization)
	} else if err != enrollment.ErrNotFound {
		return err
	}

	cell, err := excelize.CoordinatesToCellName(1, *patientRow)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow("Pacientes", cell, &row); err != nil {
		return err
	}
	*patientRow++

	results, err := cli.enrRepo.QueryTestResults(ctx, pat.ID)
	if err != nil {
		return err
	}
	for _, res := range results {
		cell, err := excelize.CoordinatesToCellName(1, *resultRow)
		if err != nil {
			return err
		}
		s := res.Scores
		resRow := []interface{}{
			pat.Name, progName, res.Week, res.Date.Format("02-01-2006"),
			s.SelfJudgment, s.MaladaptiveGuilt, s.ConsciousResponsibility, s.ErrorHumanization,
		}
		if err := f.SetSheetRow("Resultados", cell, &resRow); err != nil {
			return err
		}
		*resultRow++
	}
	return nil
}
