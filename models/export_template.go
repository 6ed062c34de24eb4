package models

import "time"

type TemplateKind string

const (
	TemplateKindCSV  TemplateKind = "csv"
	TemplateKindXLSX TemplateKind = "xlsx"
)

// ExportTemplate describes a saved report layout (column selection) that
// the export frontend feeds into its file generator.
type ExportTemplate struct {
	ID        int          `json:"id" db:"id"`
	Name      string       `json:"name" db:"name"`
	Kind      TemplateKind `json:"kind" db:"kind"`
	Columns   []string     `json:"columns" db:"columns"`
	CreatedBy int          `json:"created_by" db:"created_by"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}
