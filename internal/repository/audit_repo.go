package repository

import (
	"gorm.io/gorm"

	"resellerbot/internal/models"
)

// AuditRepository appends to the audit trail.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *AuditRepository) WithTx(tx *gorm.DB) *AuditRepository {
	return &AuditRepository{db: tx}
}

// Append inserts an audit entry.
func (r *AuditRepository) Append(entry *models.AuditEntry) error {
	return r.db.Create(entry).Error
}

// FindByAction returns entries for an action, oldest first.
func (r *AuditRepository) FindByAction(action string) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := r.db.Where("action = ?", action).Order("id").Find(&entries).Error
	return entries, err
}
