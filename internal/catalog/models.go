// Package catalog resolves academic codes against the read-only program
// catalog and academic calendar. Lookups used by the homologation workflow
// never fail the caller: a failing lookup degrades to "none" and is reported.
package catalog

import "strings"

// Lookup names, used as metric labels and in degraded lists.
const (
	LookupProgram  = "program"
	LookupPeriod   = "period"
	LookupSemester = "semester"
)

// Schedules and the curriculum-code suffix each one maps to.
const (
	ScheduleDaytime = "DIURNA"
	ScheduleEvening = "NOCTURNA"

	ModalityVirtual = "VIRTUAL"
)

// ProgramCodes identifies a program in the catalog. Empty fields mean the
// lookup found nothing (or degraded).
type ProgramCodes struct {
	ProgramCode    string `json:"program_code"`
	CurriculumCode string `json:"curriculum_code"`
}

func (c ProgramCodes) Found() bool {
	return c.ProgramCode != "" || c.CurriculumCode != ""
}

// ProgramQuery is the catalog filter derived from a target program.
// Suffix is empty when the curriculum code is not constrained.
type ProgramQuery struct {
	Program     string
	Methodology string
	Suffix      string
}

// NewProgramQuery applies the catalog's schedule conventions: virtual
// programs ignore the schedule, evening curricula end in "N" and every
// other schedule maps to daytime curricula ending in "D".
func NewProgramQuery(program, modality, schedule string) ProgramQuery {
	q := ProgramQuery{Program: strings.TrimSpace(program)}
	if strings.EqualFold(strings.TrimSpace(modality), ModalityVirtual) {
		q.Methodology = ModalityVirtual
		return q
	}
	q.Methodology = strings.TrimSpace(modality)
	q.Suffix = SuffixForSchedule(schedule)
	return q
}

// SuffixForSchedule returns the curriculum-code suffix for a schedule.
func SuffixForSchedule(schedule string) string {
	if strings.EqualFold(strings.TrimSpace(schedule), ScheduleEvening) {
		return "N"
	}
	return "D"
}

// ScheduleForCode is the inverse of SuffixForSchedule. Codes with neither
// suffix have no schedule.
func ScheduleForCode(code string) (string, bool) {
	switch {
	case strings.HasSuffix(code, "N"):
		return ScheduleEvening, true
	case strings.HasSuffix(code, "D"):
		return ScheduleDaytime, true
	}
	return "", false
}

// BaseCurriculum strips the schedule suffix; the curricula table is keyed
// without it.
func BaseCurriculum(code string) string {
	if strings.HasSuffix(code, "N") || strings.HasSuffix(code, "D") {
		return code[:len(code)-1]
	}
	return code
}

// VirtualProgram reports whether a program code denotes a virtual offering.
// Virtual program codes carry a "v" in either case.
func VirtualProgram(code string) bool {
	return strings.ContainsAny(code, "vV")
}

// Subject is one curriculum subject, ordered by level.
type Subject struct {
	ProgramCode    string
	CurriculumCode string
	SubjectCode    string
	Level          int
	Name           string
	Credits        int
}

// Resolution is the outcome of resolving a target program. Degraded names the
// lookups that failed and were treated as "none".
type Resolution struct {
	Codes         ProgramCodes
	Period        string
	SemesterCount int
	Degraded      []string
}
