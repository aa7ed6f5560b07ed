package models

// CatalogKind selects one of the three append-only program catalogs.
type CatalogKind string

const (
	CatalogCurriculum      CatalogKind = "curriculum"
	CatalogCertification   CatalogKind = "certification"
	CatalogExtracurricular CatalogKind = "extracurricular"
)

// CatalogEntry is a named reference record. Entries are insert-only; no
// update or delete operation exists and duplicate names are permitted.
type CatalogEntry struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}
