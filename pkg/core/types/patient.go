package types

import "github.com/shopspring/decimal"

// Sex constrains PatientProfile.Sex to the three recognized values.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
	SexOther  Sex = "other"
)

// PatientProfile is external input supplied to patient-level runs: the
// demographics and history the cross-document analyzer reasons about.
type PatientProfile struct {
	PatientID            string
	Name                 string
	Age                  int
	Sex                  Sex
	DateOfBirth          string
	Conditions           []string
	Allergies            []string
	PriorSurgicalHistory []string
}

// CoverageCell records whether a canonical transaction appeared in a
// given source document, and the amount that document reported for it.
type CoverageCell struct {
	Present          bool
	AmountAsReported *decimal.Decimal
}

// CoverageMatrix is the two-dimensional presence grid keyed by canonical
// transaction fingerprint on one axis and source document id on the
// other. Every present cell's fingerprint must appear in the reconciler's
// provenance map — callers constructing a matrix are expected to build it
// from the same transaction set the provenance map was built from.
type CoverageMatrix struct {
	Fingerprints []string
	DocumentIDs  []string
	cells        map[string]map[string]CoverageCell
}

// NewCoverageMatrix returns an empty matrix ready for Set calls.
func NewCoverageMatrix() *CoverageMatrix {
	return &CoverageMatrix{cells: map[string]map[string]CoverageCell{}}
}

// Set records a cell, adding the fingerprint/document id to the axis
// lists the first time each is seen.
func (m *CoverageMatrix) Set(fingerprint, documentID string, cell CoverageCell) {
	if m.cells == nil {
		m.cells = map[string]map[string]CoverageCell{}
	}
	row, ok := m.cells[fingerprint]
	if !ok {
		row = map[string]CoverageCell{}
		m.cells[fingerprint] = row
		m.Fingerprints = append(m.Fingerprints, fingerprint)
	}
	if _, seen := row[documentID]; !seen {
		m.DocumentIDs = appendUnique(m.DocumentIDs, documentID)
	}
	row[documentID] = cell
}

// Get returns the cell for a fingerprint/document pair, if present.
func (m *CoverageMatrix) Get(fingerprint, documentID string) (CoverageCell, bool) {
	row, ok := m.cells[fingerprint]
	if !ok {
		return CoverageCell{}, false
	}
	cell, ok := row[documentID]
	return cell, ok
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
