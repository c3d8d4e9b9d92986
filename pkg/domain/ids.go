// Package domain holds typed identifiers and value primitives shared by the
// homologation packages. Parsing happens once at the trust boundary; inner
// layers only see validated values.
package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "github.com/cavidescun/314q34wefasd/pkg/domain-errors"
)

type (
	StudentID      uuid.UUID
	ContactID      uuid.UUID
	HomologationID uuid.UUID
	DocumentID     uuid.UUID
	IntakeID       uuid.UUID
)

func (id StudentID) String() string      { return uuid.UUID(id).String() }
func (id ContactID) String() string      { return uuid.UUID(id).String() }
func (id HomologationID) String() string { return uuid.UUID(id).String() }
func (id DocumentID) String() string     { return uuid.UUID(id).String() }
func (id IntakeID) String() string       { return uuid.UUID(id).String() }

func (id StudentID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id HomologationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func NewStudentID() StudentID           { return StudentID(uuid.New()) }
func NewContactID() ContactID           { return ContactID(uuid.New()) }
func NewHomologationID() HomologationID { return HomologationID(uuid.New()) }
func NewDocumentID() DocumentID         { return DocumentID(uuid.New()) }
func NewIntakeID() IntakeID             { return IntakeID(uuid.New()) }

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if !utf8.ValidString(s) {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be nil")
	}
	return parsed, nil
}

func ParseStudentID(s string) (StudentID, error) {
	id, err := parseUUID(s, "student id")
	return StudentID(id), err
}

func ParseHomologationID(s string) (HomologationID, error) {
	id, err := parseUUID(s, "homologation id")
	return HomologationID(id), err
}

// NationalID is a normalized government identity number. Separators used
// when the number is printed on a card (dots, spaces, dashes) are removed.
type NationalID string

const (
	minNationalIDLen = 5
	maxNationalIDLen = 15
)

// NormalizeNationalID strips separators and surrounding whitespace.
func NormalizeNationalID(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch r {
		case '.', ',', ' ', '-':
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

// ParseNationalID normalizes s and rejects values that cannot be an
// identity number.
func ParseNationalID(s string) (NationalID, error) {
	n := NormalizeNationalID(s)
	if n == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "national id is required")
	}
	if len(n) < minNationalIDLen || len(n) > maxNationalIDLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "national id has an invalid length")
	}
	for _, r := range n {
		if r > unicode.MaxASCII || !(unicode.IsDigit(r) || unicode.IsLetter(r)) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "national id contains invalid characters")
		}
	}
	return NationalID(n), nil
}

func (n NationalID) String() string { return string(n) }

// WithoutLeadingZeros is the form external academic systems expect.
func (n NationalID) WithoutLeadingZeros() string {
	return strings.TrimLeft(string(n), "0")
}
