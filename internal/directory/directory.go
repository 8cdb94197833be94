// Package directory keeps the identity records of resellers and clients and resolves user roles.
package directory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"resellerbot/internal/models"
	"resellerbot/internal/pkg/utils"
	"resellerbot/internal/repository"
)

// DefaultValidity is the lifetime of a new reseller or client.
const DefaultValidity = 30

var (
	ErrResellerNotFound = errors.New("reseller not found")
	ErrClientNotFound   = errors.New("client not found")
	ErrOwnerHasClient   = errors.New("owner already has a client")
	ErrInvalidContact   = errors.New("invalid contact handle")
)

// LimitError reports that a reseller reached the client cap of their plan.
type LimitError struct {
	Limit int
	Used  int64
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("client limit reached (%d/%d)", e.Used, e.Limit)
}

var contactPattern = regexp.MustCompile(`^@?[A-Za-z0-9_]{3,32}$`)

// Repos bundles the repositories the directory reads and writes.
type Repos struct {
	Setting  *repository.SettingRepository
	Reseller *repository.ResellerRepository
	Client   *repository.ClientRepository
}

// Directory owns reseller and client records.
type Directory struct {
	db         *gorm.DB
	repos      Repos
	clientsDir string
	clock      utils.Clock
	logger     *zap.Logger
}

// New creates a directory. clientsDir is the parent of each client's workdir.
func New(db *gorm.DB, repos Repos, clientsDir string, clock utils.Clock, logger *zap.Logger) *Directory {
	return &Directory{db: db, repos: repos, clientsDir: clientsDir, clock: clock, logger: logger}
}

type rolePredicate struct {
	role  models.Role
	match func(userID int64) (bool, error)
}

// rolePredicates are evaluated in order; the first match wins.
func (d *Directory) rolePredicates() []rolePredicate {
	return []rolePredicate{
		{models.RoleAdmin, d.isOwner},
		{models.RoleReseller, func(id int64) (bool, error) { return d.repos.Reseller.Exists(userKey(id)) }},
		{models.RoleClient, d.repos.Client.ExistsByOwner},
	}
}

// RoleOf resolves a user's role: administrator, then reseller, then client, else guest.
func (d *Directory) RoleOf(userID int64) (models.Role, error) {
	for _, p := range d.rolePredicates() {
		ok, err := p.match(userID)
		if err != nil {
			return models.RoleGuest, fmt.Errorf("resolve role: %w", err)
		}
		if ok {
			return p.role, nil
		}
	}
	return models.RoleGuest, nil
}

func (d *Directory) isOwner(userID int64) (bool, error) {
	owner, err := d.repos.Setting.OwnerID()
	if err != nil {
		return false, err
	}
	return owner != 0 && owner == userID, nil
}

// CreateReseller upserts a reseller valid from today for DefaultValidity days.
func (d *Directory) CreateReseller(id string, tier models.ResellerTier, contact string) (*models.Reseller, error) {
	if !tier.Valid() {
		return nil, fmt.Errorf("unknown reseller tier %q", tier)
	}
	today := d.clock.Today()
	reseller := &models.Reseller{
		ID:      id,
		Plan:    string(tier),
		Started: utils.FormatDate(today),
		Expires: utils.FormatDate(today.AddDate(0, 0, DefaultValidity)),
		Contact: contact,
	}
	if err := d.repos.Reseller.Upsert(reseller); err != nil {
		return nil, fmt.Errorf("upsert reseller: %w", err)
	}
	d.logger.Info("Reseller saved", zap.String("reseller_id", id), zap.String("plan", reseller.Plan))
	return reseller, nil
}

// SetContact validates and stores a reseller's contact handle.
func (d *Directory) SetContact(id, contact string) (string, error) {
	if !contactPattern.MatchString(contact) {
		return "", ErrInvalidContact
	}
	if contact[0] != '@' {
		contact = "@" + contact
	}
	n, err := d.repos.Reseller.UpdateContact(id, contact)
	if err != nil {
		return "", fmt.Errorf("update contact: %w", err)
	}
	if n == 0 {
		// Some drivers report zero rows when the value is unchanged.
		if ok, err := d.repos.Reseller.Exists(id); err != nil || !ok {
			return "", ErrResellerNotFound
		}
	}
	return contact, nil
}

// Reseller returns a reseller by id.
func (d *Directory) Reseller(id string) (*models.Reseller, error) {
	r, err := d.repos.Reseller.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResellerNotFound
	}
	return r, err
}

// Resellers returns all resellers.
func (d *Directory) Resellers() ([]models.Reseller, error) {
	return d.repos.Reseller.FindAll()
}

// ClientByOwner returns the client record owned by a user.
func (d *Directory) ClientByOwner(ownerID int64) (*models.Client, error) {
	c, err := d.repos.Client.FindByOwner(ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClientNotFound
	}
	return c, err
}

// ClientBySlug returns a client by slug.
func (d *Directory) ClientBySlug(slug string) (*models.Client, error) {
	c, err := d.repos.Client.FindBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClientNotFound
	}
	return c, err
}

// ClientsOf returns a reseller's clients.
func (d *Directory) ClientsOf(resellerID string) ([]models.Client, error) {
	return d.repos.Client.FindByReseller(resellerID)
}

// AllClients returns every client.
func (d *Directory) AllClients() ([]models.Client, error) {
	return d.repos.Client.FindAll()
}

// NewClient describes a client creation request.
type NewClient struct {
	OwnerID    int64
	ResellerID string
	Plan       string
	Username   string
}

// CreateClient checks the reseller's capacity, then inserts a client under a fresh slug
// with a reserved workdir, a DefaultValidity-day expiry and a stopped service.
func (d *Directory) CreateClient(req NewClient) (*models.Client, error) {
	if req.Plan == "" {
		req.Plan = models.ServicePlanStandard
	}
	var created *models.Client
	var madeDir string
	err := d.db.Transaction(func(tx *gorm.DB) error {
		settings := d.repos.Setting.WithTx(tx)
		resellers := d.repos.Reseller.WithTx(tx)
		clients := d.repos.Client.WithTx(tx)

		if err := checkCapacity(settings, resellers, clients, req.ResellerID); err != nil {
			return err
		}
		owned, err := clients.ExistsByOwner(req.OwnerID)
		if err != nil {
			return err
		}
		if owned {
			return ErrOwnerHasClient
		}

		slug, err := UniqueSlug(strconv.FormatInt(req.OwnerID, 10), clients.SlugExists)
		if err != nil {
			return err
		}
		workdir := filepath.Join(d.clientsDir, slug)

		today := d.clock.Today()
		client := &models.Client{
			Slug:       slug,
			OwnerID:    req.OwnerID,
			Username:   req.Username,
			ResellerID: req.ResellerID,
			Plan:       req.Plan,
			Expires:    utils.FormatDate(today.AddDate(0, 0, DefaultValidity)),
			Created:    d.clock().Format("2006-01-02T15:04:05"),
			Workdir:    workdir,
			SvcStatus:  string(models.ServiceStopped),
		}
		if err := clients.Create(client); err != nil {
			return fmt.Errorf("insert client: %w", err)
		}
		// The row rolls back if the workdir cannot be made.
		fresh, err := reserveWorkdir(workdir)
		if err != nil {
			return err
		}
		if fresh {
			madeDir = workdir
		}
		created = client
		return nil
	})
	if err != nil {
		if madeDir != "" {
			// Remove only removes an empty directory, which is all this call made.
			_ = os.Remove(madeDir)
		}
		return nil, err
	}
	d.logger.Info("Client created",
		zap.String("slug", created.Slug),
		zap.String("reseller_id", created.ResellerID),
		zap.Int64("owner_id", created.OwnerID),
	)
	return created, nil
}

// CheckCapacity returns a *LimitError when the reseller may not add another client.
func (d *Directory) CheckCapacity(resellerID string) error {
	return checkCapacity(d.repos.Setting, d.repos.Reseller, d.repos.Client, resellerID)
}

func checkCapacity(settings *repository.SettingRepository, resellers *repository.ResellerRepository, clients *repository.ClientRepository, resellerID string) error {
	reseller, err := resellers.FindByID(resellerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrResellerNotFound
	}
	if err != nil {
		return err
	}
	limits, err := settings.Limits()
	if err != nil {
		return err
	}
	limit := limits[models.ResellerTier(reseller.Plan)]
	if limit == 0 {
		return nil
	}
	used, err := clients.CountByReseller(resellerID)
	if err != nil {
		return err
	}
	if used >= int64(limit) {
		return &LimitError{Limit: limit, Used: used}
	}
	return nil
}

// reserveWorkdir creates dir and reports whether it did not exist before.
func reserveWorkdir(dir string) (bool, error) {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return false, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("reserve workdir: %w", err)
	}
	return true, nil
}

// ToggleService flips a client's service between active and stopped.
// An unknown status is left as is.
func (d *Directory) ToggleService(slug string) (models.ServiceStatus, error) {
	client, err := d.ClientBySlug(slug)
	if err != nil {
		return models.ServiceUnknown, err
	}
	var next models.ServiceStatus
	switch models.ServiceStatus(client.SvcStatus) {
	case models.ServiceActive:
		next = models.ServiceStopped
	case models.ServiceStopped:
		next = models.ServiceActive
	default:
		return models.ServiceStatus(client.SvcStatus), nil
	}
	if err := d.repos.Client.UpdateStatus(slug, next); err != nil {
		return models.ServiceUnknown, fmt.Errorf("update service status: %w", err)
	}
	return next, nil
}

// ExpiryNotices returns clients expiring tomorrow and clients already expired as of today.
func (d *Directory) ExpiryNotices() (tomorrow, expired []models.Client, err error) {
	today := d.clock.Today()
	tomorrow, err = d.repos.Client.FindExpiringOn(utils.FormatDate(today.Add(24 * time.Hour)))
	if err != nil {
		return nil, nil, err
	}
	expired, err = d.repos.Client.FindExpiredBy(utils.FormatDate(today))
	if err != nil {
		return nil, nil, err
	}
	return tomorrow, expired, nil
}

func userKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
