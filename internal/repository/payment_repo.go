package repository

import (
	"gorm.io/gorm"

	"resellerbot/internal/models"
)

// PaymentRepository handles payment ledger database operations.
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *PaymentRepository) WithTx(tx *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: tx}
}

// Create inserts a new payment.
func (r *PaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// FindByID returns a payment by ID.
func (r *PaymentRepository) FindByID(id string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.Where("id = ?", id).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// Recent returns the newest payments first.
func (r *PaymentRepository) Recent(limit int) ([]models.Payment, error) {
	if limit <= 0 {
		limit = 30
	}
	var payments []models.Payment
	err := r.db.Order("created DESC").Order("id").Limit(limit).Find(&payments).Error
	return payments, err
}

// FindByUserID returns up to limit payments submitted by a user, newest first.
func (r *PaymentRepository) FindByUserID(userID int64, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("user_id = ?", userID).Order("created DESC").Order("id").Limit(limit).Find(&payments).Error
	return payments, err
}

// Resolve moves a pending payment to status. The update only matches rows that are
// still pending, so the returned count is 0 when another resolution won.
func (r *PaymentRepository) Resolve(id string, status models.PaymentStatus) (int64, error) {
	res := r.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, string(models.PaymentPending)).
		Update("status", string(status))
	return res.RowsAffected, res.Error
}

// CountByStatus counts payments in a status.
func (r *PaymentRepository) CountByStatus(status models.PaymentStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Payment{}).Where("status = ?", string(status)).Count(&count).Error
	return count, err
}
