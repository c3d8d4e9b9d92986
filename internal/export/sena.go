// Package export renders homologation workbooks for external academic
// systems.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cavidescun/314q34wefasd/internal/catalog"
	platformstrings "github.com/cavidescun/314q34wefasd/pkg/platform/strings"
)

const (
	SENASheet       = "Homologacion"
	SENAObservation = "RECONOCIMIENTO DE TITULOS"
)

// SENAColumns is the column layout the registry import expects, in order.
var SENAColumns = []struct {
	Header string
	Width  float64
}{
	{"CEDULA", 15},
	{"PROGRAMA", 10},
	{"PENSUM", 10},
	{"MATERIA", 10},
	{"PROG_EQUI", 10},
	{"PEN_EQUI", 10},
	{"CUR_EQUI", 10},
	{"PERIODO", 10},
	{"TIPO - PER", 10},
	{"TIPO_NOTA", 10},
	{"PER - ACUMULA", 15},
	{"ESTADO MAT", 10},
	{"IND.ACUMULA", 15},
	{"DEFINITIVA", 15},
	{"IND.APROBADA - N", 20},
	{"ALFA", 10},
	{"IND.APROBADA - A", 20},
	{"SEMESTRE", 10},
	{"HABILITACION", 15},
	{"OBSERVACION", 30},
}

// SENAInput is everything one workbook needs.
type SENAInput struct {
	// NationalID is written without leading zeros.
	NationalID     string
	ProgramCode    string
	CurriculumCode string
	Period         string
	Subjects       []catalog.Subject
}

var ErrNoSubjects = errors.New("no subjects to export")

// SENARow is the grading decision for one recognized subject.
type SENARow struct {
	Accumulates bool
	Grade       float64
}

// ClassifySubject applies the recognition rules: institutional (CUNISTA)
// subjects and internships do not accumulate, and CUNISTA subjects get the
// top grade.
func ClassifySubject(name string) SENARow {
	upper := platformstrings.FoldAccents(strings.ToUpper(name))
	cunista := strings.Contains(upper, "CUNISTA")
	internship := strings.Contains(upper, "PRACTICA")

	row := SENARow{Accumulates: !(cunista || internship), Grade: 4.5}
	if cunista {
		row.Grade = 5.0
	}
	return row
}

// BuildSENA renders the workbook and returns the xlsx bytes.
func BuildSENA(in SENAInput) ([]byte, error) {
	if len(in.Subjects) == 0 {
		return nil, ErrNoSubjects
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SENASheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(SENAColumns))
	for i, col := range SENAColumns {
		header[i] = col.Header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SENASheet, name, name, col.Width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}
	if err := f.SetSheetRow(SENASheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	last, _ := excelize.ColumnNumberToName(len(SENAColumns))
	if err := f.SetCellStyle(SENASheet, "A1", last+"1", bold); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	nationalID := strings.TrimLeft(in.NationalID, "0")
	for i, subject := range in.Subjects {
		rule := ClassifySubject(subject.Name)
		indAcumula, alfa, indAprobadaA := 1, "", any("")
		if !rule.Accumulates {
			indAcumula, alfa, indAprobadaA = 0, "A", 1
		}
		row := []any{
			nationalID,
			in.ProgramCode,
			in.CurriculumCode,
			subject.SubjectCode,
			"", "", "",
			in.Period,
			"N",
			"HE",
			in.Period,
			1,
			indAcumula,
			rule.Grade,
			1,
			alfa,
			indAprobadaA,
			subject.Level,
			"",
			SENAObservation,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SENASheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// SENAFilename names the workbook download for a student.
func SENAFilename(nationalID string) string {
	return fmt.Sprintf("homologacion_sena_%s.xlsx", nationalID)
}
