package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jhlee-dev/sis-portal/internal/models"
)

// catalogTables whitelists the table backing each catalog kind. Kind is
// interpolated into SQL through this map only.
var catalogTables = map[models.CatalogKind]string{
	models.CatalogCurriculum:      "curriculum_tracks",
	models.CatalogCertification:   "certifications",
	models.CatalogExtracurricular: "extracurricular_programs",
}

// CatalogRepository manages the three append-only program catalogs.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs a CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func catalogTable(kind models.CatalogKind) (string, error) {
	table, ok := catalogTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown catalog kind %q", kind)
	}
	return table, nil
}

// Insert appends a new entry to the catalog and fills in its generated ID.
// There is deliberately no upsert: duplicate names are permitted.
func (r *CatalogRepository) Insert(ctx context.Context, kind models.CatalogKind, entry *models.CatalogEntry) error {
	table, err := catalogTable(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("INSERT INTO %s (name, description) VALUES ($1, $2) RETURNING id", table)
	if err := r.db.GetContext(ctx, &entry.ID, query, entry.Name, entry.Description); err != nil {
		return fmt.Errorf("insert %s entry: %w", kind, err)
	}
	return nil
}

// Recent returns the newest entries of a catalog, up to limit.
func (r *CatalogRepository) Recent(ctx context.Context, kind models.CatalogKind, limit int) ([]models.CatalogEntry, error) {
	table, err := catalogTable(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT id, name, description FROM %s ORDER BY id DESC LIMIT %d", table, limit)
	var entries []models.CatalogEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("recent %s entries: %w", kind, err)
	}
	return entries, nil
}

// All returns every entry of a catalog, newest first.
func (r *CatalogRepository) All(ctx context.Context, kind models.CatalogKind) ([]models.CatalogEntry, error) {
	table, err := catalogTable(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT id, name, description FROM %s ORDER BY id DESC", table)
	var entries []models.CatalogEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list %s entries: %w", kind, err)
	}
	return entries, nil
}
