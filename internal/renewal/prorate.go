// Package renewal applies approved payments: reseller plan upgrades and client renewals.
package renewal

import (
	"time"

	"github.com/shopspring/decimal"

	"resellerbot/internal/pkg/utils"
)

// defaultPeriod is used when a plan's start and expiry fall on the same day.
const defaultPeriod = 30

// Prorate returns the cost of moving from oldPrice to newPrice for the days left
// until expiry, rounded to cents. Downgrades, lateral moves and expired plans cost 0.
func Prorate(oldPrice, newPrice float64, start, expiry, today time.Time) float64 {
	if newPrice <= oldPrice || !utils.DateOf(today).Before(utils.DateOf(expiry)) {
		return 0
	}
	period := utils.DaysBetween(start, expiry)
	if period <= 0 {
		period = defaultPeriod
	}
	left := utils.DaysBetween(today, expiry)

	return decimal.NewFromFloat(newPrice).
		Sub(decimal.NewFromFloat(oldPrice)).
		Mul(decimal.NewFromInt(int64(left))).
		Div(decimal.NewFromInt(int64(period))).
		Round(2).
		InexactFloat64()
}

// RenewedExpiry adds days to expiry, or to today when expiry already passed.
func RenewedExpiry(expiry, today time.Time, days int) time.Time {
	base := utils.DateOf(expiry)
	if t := utils.DateOf(today); base.Before(t) {
		base = t
	}
	return base.AddDate(0, 0, days)
}
