package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resellerbot/internal/models"
)

// ResellerRepository handles reseller database operations.
type ResellerRepository struct {
	db *gorm.DB
}

func NewResellerRepository(db *gorm.DB) *ResellerRepository {
	return &ResellerRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *ResellerRepository) WithTx(tx *gorm.DB) *ResellerRepository {
	return &ResellerRepository{db: tx}
}

// FindByID returns a reseller by Telegram user ID.
func (r *ResellerRepository) FindByID(id string) (*models.Reseller, error) {
	var reseller models.Reseller
	if err := r.db.Where("id = ?", id).First(&reseller).Error; err != nil {
		return nil, err
	}
	return &reseller, nil
}

// Exists checks whether a reseller with the given ID exists.
func (r *ResellerRepository) Exists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Reseller{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Upsert inserts the reseller or replaces every column of an existing row.
func (r *ResellerRepository) Upsert(reseller *models.Reseller) error {
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(reseller).Error
}

// FindAll returns all resellers ordered by ID.
func (r *ResellerRepository) FindAll() ([]models.Reseller, error) {
	var resellers []models.Reseller
	err := r.db.Order("id").Find(&resellers).Error
	return resellers, err
}

// UpdatePlan changes a reseller's plan, leaving dates untouched.
func (r *ResellerRepository) UpdatePlan(id, plan string) error {
	return r.db.Model(&models.Reseller{}).Where("id = ?", id).Update("plan", plan).Error
}

// UpdateContact sets the contact handle. Returns the number of rows changed.
func (r *ResellerRepository) UpdateContact(id, contact string) (int64, error) {
	res := r.db.Model(&models.Reseller{}).Where("id = ?", id).Update("contact", contact)
	return res.RowsAffected, res.Error
}
