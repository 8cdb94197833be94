package repository

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resellerbot/internal/models"
)

// Setting keys.
const (
	KeyOwnerID      = "owner_id"
	KeyRate         = "usd_to_cup"
	KeyPayTextSaldo = "pay_text_saldo"
	KeyPayTextCup   = "pay_text_cup"

	pricePrefix = "price_"
	limitPrefix = "limit_"
)

// PriceKeys maps the administrator price codes to their setting keys.
var PriceKeys = map[string]string{
	"res_b": "price_res_b",
	"res_p": "price_res_p",
	"res_e": "price_res_e",
	"c30":   "price_client_30",
	"c90":   "price_client_90",
	"c365":  "price_client_365",
}

// LimitKey returns the client-count limit key of a reseller tier.
func LimitKey(tier models.ResellerTier) string {
	return limitPrefix + string(tier)
}

// Prices is a snapshot of the exchange rate and every price point.
type Prices struct {
	Rate     float64
	Reseller map[models.ResellerTier]float64
	Client   map[int]float64 // keyed by renewal days
}

var defaultPrices = map[string]float64{
	KeyRate:            450,
	"price_res_b":      10,
	"price_res_p":      20,
	"price_res_e":      30,
	"price_client_30":  5,
	"price_client_90":  14,
	"price_client_365": 50,
}

var defaultLimits = map[models.ResellerTier]int{
	models.TierBasic:      3,
	models.TierPro:        10,
	models.TierEnterprise: 0,
}

// SettingRepository is the key/value settings store.
type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *SettingRepository) WithTx(tx *gorm.DB) *SettingRepository {
	return &SettingRepository{db: tx}
}

// DB returns the underlying gorm.DB instance.
func (r *SettingRepository) DB() *gorm.DB {
	return r.db
}

// Get returns the value of key, or def when the key is absent.
// Only storage failures are reported as errors.
func (r *SettingRepository) Get(key, def string) (string, error) {
	var s models.Setting
	err := r.db.Where(clause.Eq{Column: clause.Column{Name: "key"}, Value: key}).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return s.Value, nil
}

// GetFloat returns key parsed as float, or def when absent or unparsable.
func (r *SettingRepository) GetFloat(key string, def float64) (float64, error) {
	v, err := r.Get(key, "")
	if err != nil || v == "" {
		return def, err
	}
	f, ok := parseFinite(v)
	if !ok {
		return def, nil
	}
	return f, nil
}

// parseFinite parses a stored amount. NaN and infinities count as unparsable.
func parseFinite(v string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Set writes key immediately, replacing any previous value.
func (r *SettingRepository) Set(key, value string) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.Setting{Key: key, Value: value}).Error
}

// All returns every setting ordered by key.
func (r *SettingRepository) All() ([]models.Setting, error) {
	var settings []models.Setting
	err := r.db.Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&settings).Error
	return settings, err
}

// OwnerID returns the administrator id, 0 when unset.
func (r *SettingRepository) OwnerID() (int64, error) {
	v, err := r.Get(KeyOwnerID, "0")
	if err != nil {
		return 0, err
	}
	id, perr := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if perr != nil {
		return 0, nil
	}
	return id, nil
}

// Prices reads the exchange rate and all price points in one query.
func (r *SettingRepository) Prices() (*Prices, error) {
	values, err := r.prefixed(pricePrefix, KeyRate)
	if err != nil {
		return nil, err
	}
	get := func(key string) float64 {
		if v, ok := values[key]; ok {
			if f, ok := parseFinite(v); ok {
				return f
			}
		}
		return defaultPrices[key]
	}
	return &Prices{
		Rate: get(KeyRate),
		Reseller: map[models.ResellerTier]float64{
			models.TierBasic:      get("price_res_b"),
			models.TierPro:        get("price_res_p"),
			models.TierEnterprise: get("price_res_e"),
		},
		Client: map[int]float64{
			30:  get("price_client_30"),
			90:  get("price_client_90"),
			365: get("price_client_365"),
		},
	}, nil
}

// Limits returns the client-count cap of every reseller tier (0 = unlimited).
func (r *SettingRepository) Limits() (map[models.ResellerTier]int, error) {
	values, err := r.prefixed(limitPrefix, "")
	if err != nil {
		return nil, err
	}
	limits := make(map[models.ResellerTier]int, len(defaultLimits))
	for tier, def := range defaultLimits {
		limits[tier] = def
		if v, ok := values[LimitKey(tier)]; ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				limits[tier] = n
			}
		}
	}
	return limits, nil
}

func (r *SettingRepository) prefixed(prefix, extra string) (map[string]string, error) {
	var rows []models.Setting
	keyCol := clause.Column{Name: "key"}
	q := r.db.Where(clause.Like{Column: keyCol, Value: prefix + "%"})
	if extra != "" {
		q = q.Or(clause.Eq{Column: keyCol, Value: extra})
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}
