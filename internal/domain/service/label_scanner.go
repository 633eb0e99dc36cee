package service

import "context"

// MedicationDraft is the structured result of scanning a medication label.
// Fields mirror what a user would otherwise type in by hand; all optional.
type MedicationDraft struct {
	Name         string   `json:"name"`
	GenericName  string   `json:"generic_name,omitempty"`
	DoseAmount   float64  `json:"dose_amount,omitempty"`
	DoseUnit     string   `json:"dose_unit,omitempty"`
	Instructions []string `json:"instructions,omitempty"`
	Confidence   float64  `json:"confidence"`
}

// LabelScanner defines the interface for extracting medication details from
// a label photo via an external vision/completion model.
type LabelScanner interface {
	ScanLabel(ctx context.Context, imageJPEG []byte) (*MedicationDraft, error)
}
