package types

import "github.com/shopspring/decimal"

// MedicalLineItem is a single charge row extracted from a medical bill.
type MedicalLineItem struct {
	DateOfService         string
	Description           string
	CPTCode               *string
	Billed                *decimal.Decimal
	Allowed               *decimal.Decimal
	PatientResponsibility *decimal.Decimal
	Units                 *int
}

// DentalLineItem is a single charge row extracted from a dental bill.
type DentalLineItem struct {
	DateOfService         string
	Description           string
	CDTCode               *string
	ToothNumber           *string
	Billed                *decimal.Decimal
	PatientResponsibility *decimal.Decimal
}

// ReceiptItem is a single line from a pharmacy or FSA-eligible receipt.
type ReceiptItem struct {
	Description       string
	Amount            decimal.Decimal
	FSAEligible       *bool
	EligibilityReason *string
}

// InsuranceClaimItem is a single claim row from an EOB or claim history.
type InsuranceClaimItem struct {
	Date                  string
	Provider              string
	Billed                *decimal.Decimal
	Allowed               *decimal.Decimal
	InsurancePaid         *decimal.Decimal
	PatientResponsibility *decimal.Decimal
	Status                string
}

// FSAClaimItem is a single submitted-claim row from an FSA claim history.
type FSAClaimItem struct {
	DateSubmitted    *string
	Merchant         *string
	Description      string
	AmountSubmitted  *decimal.Decimal
	AmountReimbursed *decimal.Decimal
	Status           *string
}
