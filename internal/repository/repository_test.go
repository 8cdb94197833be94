package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resellerbot/internal/models"
	"resellerbot/internal/repository"
	"resellerbot/internal/testutil"
)

func TestSettingRepository_GetMissingReturnsDefault(t *testing.T) {
	settings := repository.NewSettingRepository(testutil.NewDB(t))

	v, err := settings.Get("does_not_exist", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)
}

func TestSettingRepository_SetReplaces(t *testing.T) {
	settings := repository.NewSettingRepository(testutil.NewDB(t))

	require.NoError(t, settings.Set("greeting", "hola"))
	require.NoError(t, settings.Set("greeting", "hello"))

	v, err := settings.Get("greeting", "")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

func TestSettingRepository_PricesAndLimits(t *testing.T) {
	settings := repository.NewSettingRepository(testutil.NewDB(t))
	require.NoError(t, settings.Set(repository.PriceKeys["c30"], "7.5"))
	require.NoError(t, settings.Set(repository.LimitKey(models.TierPro), "12"))

	prices, err := settings.Prices()
	require.NoError(t, err)
	assert.Equal(t, 450.0, prices.Rate)
	assert.Equal(t, 7.5, prices.Client[30])
	assert.Equal(t, 14.0, prices.Client[90])
	assert.Equal(t, 20.0, prices.Reseller[models.TierPro])

	limits, err := settings.Limits()
	require.NoError(t, err)
	assert.Equal(t, 3, limits[models.TierBasic])
	assert.Equal(t, 12, limits[models.TierPro])
	assert.Equal(t, 0, limits[models.TierEnterprise])
}

func TestSettingRepository_NonFiniteAmountsFallBack(t *testing.T) {
	settings := repository.NewSettingRepository(testutil.NewDB(t))
	require.NoError(t, settings.Set(repository.KeyRate, "NaN"))
	require.NoError(t, settings.Set(repository.PriceKeys["c90"], "+Inf"))
	require.NoError(t, settings.Set(repository.PriceKeys["res_b"], "-Inf"))

	prices, err := settings.Prices()
	require.NoError(t, err)
	assert.Equal(t, 450.0, prices.Rate)
	assert.Equal(t, 14.0, prices.Client[90])
	assert.Equal(t, 10.0, prices.Reseller[models.TierBasic])

	rate, err := settings.GetFloat(repository.KeyRate, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)
}

func TestResellerRepository_UpsertReplaces(t *testing.T) {
	resellers := repository.NewResellerRepository(testutil.NewDB(t))

	require.NoError(t, resellers.Upsert(&models.Reseller{ID: "7", Plan: "res_p", Started: "2026-01-01", Expires: "2026-01-31"}))
	require.NoError(t, resellers.Upsert(&models.Reseller{ID: "7", Plan: "res_b", Started: "2026-03-10", Expires: "2026-04-09"}))

	r, err := resellers.FindByID("7")
	require.NoError(t, err)
	assert.Equal(t, "res_b", r.Plan)
	assert.Equal(t, "2026-04-09", r.Expires)

	n, err := resellers.UpdateContact("404", "@nobody")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClientRepository_ExpiryQueries(t *testing.T) {
	clients := repository.NewClientRepository(testutil.NewDB(t))
	for slug, expires := range map[string]string{"a": "2026-03-09", "b": "2026-03-10", "c": "2026-03-11", "d": "2026-05-01"} {
		require.NoError(t, clients.Create(&models.Client{
			Slug: slug, OwnerID: 1, ResellerID: "7", Plan: models.ServicePlanStandard,
			Expires: expires, Created: "2026-01-01T00:00:00", Workdir: "/tmp/" + slug, SvcStatus: "stopped",
		}))
	}

	tomorrow, err := clients.FindExpiringOn("2026-03-11")
	require.NoError(t, err)
	require.Len(t, tomorrow, 1)
	assert.Equal(t, "c", tomorrow[0].Slug)

	expired, err := clients.FindExpiredBy("2026-03-10")
	require.NoError(t, err)
	require.Len(t, expired, 2)
	assert.Equal(t, "a", expired[0].Slug)
	assert.Equal(t, "b", expired[1].Slug)

	n, err := clients.CountByReseller("7")
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}

func TestPaymentRepository_ResolveOnlyOnce(t *testing.T) {
	payments := repository.NewPaymentRepository(testutil.NewDB(t))
	require.NoError(t, payments.Create(&models.Payment{
		ID: "abcdef012345", UserID: 5, Role: "client", Method: "cup", AmountUSD: 5, AmountLocal: 2250,
		Plan: "client_30", ItemID: "5", Status: string(models.PaymentPending), Created: "2026-03-10T10:00:00", RateUsed: 450,
	}))

	n, err := payments.Resolve("abcdef012345", models.PaymentApproved)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = payments.Resolve("abcdef012345", models.PaymentRejected)
	require.NoError(t, err)
	assert.Zero(t, n)

	p, err := payments.FindByID("abcdef012345")
	require.NoError(t, err)
	assert.Equal(t, string(models.PaymentApproved), p.Status)
}
