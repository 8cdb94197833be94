package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range catalogs[DefaultLocale] {
		assert.Contains(t, catalogs["en"], key, key)
	}
	for key := range catalogs["en"] {
		assert.Contains(t, catalogs[DefaultLocale], key, key)
	}
	assert.Len(t, menuLabels["en"], len(menuLabels[DefaultLocale]))
}

func TestT_ReplacesAndEscapes(t *testing.T) {
	c := New("en")

	got := c.T(PaymentRejected, "reason", "receipt <unreadable>")
	assert.Equal(t, "❌ Payment rejected. Reason: receipt &lt;unreadable&gt;", got)
	assert.Equal(t, "✅ Payment approved. Thank you!", c.T(PaymentApproved))
}

func TestNew_UnknownLocaleFallsBack(t *testing.T) {
	c := New("fr")
	assert.Equal(t, DefaultLocale, c.Locale())
	assert.Equal(t, "Sin motivo", c.T(DefaultReason))
}

func TestActionOf(t *testing.T) {
	c := New("es")

	action, ok := c.ActionOf(" 💳 Pagar / Renovar ")
	assert.True(t, ok)
	assert.Equal(t, MenuPay, action)
	assert.Equal(t, "💳 Pagar / Renovar", c.Label(MenuPay))

	_, ok = c.ActionOf("hola")
	assert.False(t, ok)
}

func TestMenuLabelsAreUnique(t *testing.T) {
	for locale, labels := range menuLabels {
		seen := map[string]bool{}
		for _, label := range labels {
			assert.False(t, seen[label], "%s: duplicate label %q", locale, label)
			seen[label] = true
		}
	}
}
