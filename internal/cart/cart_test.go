package cart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minuteserv/minuteserv-go/internal/models"
)

func service(id uint, name string, price float64) models.Service {
	svc := models.Service{Name: name, Price: price, Active: true}
	svc.ID = id
	return svc
}

func TestAddMergesSameService(t *testing.T) {
	c := New()
	c.Add(service(1, "AC Service", 549), 1)
	c.Add(service(1, "AC Service", 549), 2)
	c.Add(service(2, "Bathroom Cleaning", 399), 1)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity)
	assert.InDelta(t, 549*3+399, c.Subtotal(), 0.001)
}

func TestAddIgnoresNonPositiveQuantity(t *testing.T) {
	c := New()
	c.Add(service(1, "AC Service", 549), 0)
	c.Add(service(1, "AC Service", 549), -2)
	assert.True(t, c.IsEmpty())
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	c := New()
	c.Add(service(1, "AC Service", 549), 2)
	c.Add(service(2, "Bathroom Cleaning", 399), 1)

	c.SetQuantity(1, 5)
	assert.Equal(t, 5, c.Items()[0].Quantity)

	c.SetQuantity(1, 0)
	require.Len(t, c.Items(), 1)
	assert.Equal(t, uint(2), c.Items()[0].ServiceID)
}

func TestServiceFeeSlabs(t *testing.T) {
	cases := []struct {
		subtotal float64
		fee      float64
	}{
		{0, 59},
		{399, 59},
		{400, 59},
		{400.01, 89},
		{1000, 89},
		{1500, 129},
		{2000, 129},
		{2500, 169},
		{3500, 199},
		{4500, 239},
		{5500, 269},
		{6000, 269},
		{6000.01, 279},
		{25000, 279},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.fee, ServiceFee(tc.subtotal), "subtotal %.2f", tc.subtotal)
	}
}

func TestGrandTotalFloorsSubtotalAndTruncates(t *testing.T) {
	// floor(1499.99) + 129 = 1628
	assert.Equal(t, 1628.0, GrandTotalOf(1499.99))
	// floor(549.5) + 89 = 638
	assert.Equal(t, 638.0, GrandTotalOf(549.5))
	assert.Equal(t, 59.0, GrandTotalOf(0))
}

func TestGrandTotalMatchesItemised(t *testing.T) {
	c := New()
	c.Add(service(1, "Deep Home Cleaning", 1499), 1)
	c.Add(service(2, "AC Service", 549), 1)

	subtotal := c.Subtotal()
	assert.InDelta(t, 2048, subtotal, 0.001)
	assert.Equal(t, GrandTotalOf(subtotal), c.GrandTotal())
	assert.Equal(t, 2048+169.0, c.GrandTotal())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")

	c := New()
	c.Add(service(1, "AC Service", 549), 2)
	require.NoError(t, c.Save(path))

	restored := Load(path)
	require.Len(t, restored.Items(), 1)
	assert.Equal(t, 2, restored.Items()[0].Quantity)
	assert.Equal(t, c.GrandTotal(), restored.GrandTotal())

	// An emptied cart removes its file.
	restored.Clear()
	require.NoError(t, restored.Save(path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadMissingOrCorruptFile(t *testing.T) {
	assert.True(t, Load(filepath.Join(t.TempDir(), "absent.json")).IsEmpty())

	path := filepath.Join(t.TempDir(), "cart.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	assert.True(t, Load(path).IsEmpty())
}

func TestCheckoutItems(t *testing.T) {
	c := New()
	c.Add(service(3, "Plumbing Visit", 299), 2)
	c.Add(service(1, "AC Service", 549), 1)

	items := c.CheckoutItems()
	require.Len(t, items, 2)
	assert.Equal(t, uint(3), items[0].ServiceID)
	assert.Equal(t, 2, items[0].Quantity)

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.CheckoutItems())
}
