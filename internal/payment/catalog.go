package payment

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"resellerbot/internal/models"
	"resellerbot/internal/repository"
)

// ClientTerms are the renewal durations offered to clients, in days.
var ClientTerms = []int{30, 90, 365}

// ClientPlanCode returns the plan code of a client renewal term.
func ClientPlanCode(days int) string {
	return models.ClientPlanPrefix + strconv.Itoa(days)
}

// ClientPlanDays returns the day count of a client plan code.
func ClientPlanDays(code string) (int, bool) {
	if !strings.HasPrefix(code, models.ClientPlanPrefix) {
		return 0, false
	}
	days, err := strconv.Atoi(strings.TrimPrefix(code, models.ClientPlanPrefix))
	if err != nil || !isClientTerm(days) {
		return 0, false
	}
	return days, true
}

func isClientTerm(days int) bool {
	for _, d := range ClientTerms {
		if d == days {
			return true
		}
	}
	return false
}

// ValidPlan reports whether code is a reseller tier or a client renewal term.
func ValidPlan(code string) bool {
	if models.ResellerTier(code).Valid() {
		return true
	}
	_, ok := ClientPlanDays(code)
	return ok
}

// PriceOf returns the reference-currency price of a plan code.
func PriceOf(prices *repository.Prices, code string) (float64, error) {
	if tier := models.ResellerTier(code); tier.Valid() {
		return prices.Reseller[tier], nil
	}
	if days, ok := ClientPlanDays(code); ok {
		return prices.Client[days], nil
	}
	return 0, ErrUnknownPlan
}

// LocalAmount converts a reference amount at rate, truncated to whole local units.
func LocalAmount(usd, rate float64) float64 {
	return decimal.NewFromFloat(usd).Mul(decimal.NewFromFloat(rate)).Floor().InexactFloat64()
}
