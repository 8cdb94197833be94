package repository

import (
	"gorm.io/gorm"

	"resellerbot/internal/models"
)

// ClientRepository handles client database operations.
type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *ClientRepository) WithTx(tx *gorm.DB) *ClientRepository {
	return &ClientRepository{db: tx}
}

// FindBySlug returns a client by slug.
func (r *ClientRepository) FindBySlug(slug string) (*models.Client, error) {
	var client models.Client
	if err := r.db.Where("slug = ?", slug).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// FindByOwner returns the client record owned by a Telegram user.
func (r *ClientRepository) FindByOwner(ownerID int64) (*models.Client, error) {
	var client models.Client
	if err := r.db.Where("owner_id = ?", ownerID).Order("created").First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// ExistsByOwner checks whether a Telegram user owns a client record.
func (r *ClientRepository) ExistsByOwner(ownerID int64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Client{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count > 0, err
}

// SlugExists checks whether a slug is taken.
func (r *ClientRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Client{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// Create inserts a new client.
func (r *ClientRepository) Create(client *models.Client) error {
	return r.db.Create(client).Error
}

// CountByReseller counts clients belonging to a reseller.
func (r *ClientRepository) CountByReseller(resellerID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Client{}).Where("reseller_id = ?", resellerID).Count(&count).Error
	return count, err
}

// FindByReseller returns a reseller's clients ordered by slug.
func (r *ClientRepository) FindByReseller(resellerID string) ([]models.Client, error) {
	var clients []models.Client
	err := r.db.Where("reseller_id = ?", resellerID).Order("slug").Find(&clients).Error
	return clients, err
}

// FindAll returns every client ordered by reseller then slug.
func (r *ClientRepository) FindAll() ([]models.Client, error) {
	var clients []models.Client
	err := r.db.Order("reseller_id").Order("slug").Find(&clients).Error
	return clients, err
}

// UpdateExpires sets a client's expiry date.
func (r *ClientRepository) UpdateExpires(slug, expires string) error {
	return r.db.Model(&models.Client{}).Where("slug = ?", slug).Update("expires", expires).Error
}

// UpdateStatus sets a client's service status.
func (r *ClientRepository) UpdateStatus(slug string, status models.ServiceStatus) error {
	return r.db.Model(&models.Client{}).Where("slug = ?", slug).Update("svc_status", string(status)).Error
}

// FindExpiringOn returns clients whose expiry equals date.
func (r *ClientRepository) FindExpiringOn(date string) ([]models.Client, error) {
	var clients []models.Client
	err := r.db.Where("expires = ?", date).Order("slug").Find(&clients).Error
	return clients, err
}

// FindExpiredBy returns clients whose expiry is on or before date.
func (r *ClientRepository) FindExpiredBy(date string) ([]models.Client, error) {
	var clients []models.Client
	err := r.db.Where("expires <= ?", date).Order("slug").Find(&clients).Error
	return clients, err
}
