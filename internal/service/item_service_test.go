package service

import (
	"context"
	"errors"
	"testing"

	"github.com/st9-8/mouegne/internal/apierror"
	"github.com/st9-8/mouegne/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) itemService() ItemService {
	return NewItemService(e.items, e.categories, e.vendors, e.movements, 5)
}

func TestCreateItem_StartsEmpty(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "Drinks")
	svc := env.itemService()

	resp, err := svc.Create(context.Background(), dto.CreateItemRequest{
		Name:          "  Water 1.5L ",
		CategoryID:    cat.ID.String(),
		Price:         decimal.NewFromInt(350),
		PurchasePrice: decimal.NewFromInt(250),
		ExpiringDate:  strPtr("2027-01-31"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Water 1.5L", resp.Name)
	assert.Equal(t, "Drinks", resp.CategoryName)
	assert.Equal(t, 0, resp.Quantity)
	assert.True(t, resp.LowStock)
	assert.NotNil(t, resp.ExpiringDate)
}

func TestCreateItem_Validation(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "Snacks")
	svc := env.itemService()
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateItemRequest{Name: " ", CategoryID: cat.ID.String()})
	assert.True(t, errors.Is(err, apierror.ErrValidation))

	_, err = svc.Create(ctx, dto.CreateItemRequest{Name: "Chips", CategoryID: cat.ID.String(), Price: decimal.NewFromInt(-1)})
	assert.True(t, errors.Is(err, apierror.ErrValidation))

	_, err = svc.Create(ctx, dto.CreateItemRequest{Name: "Chips", CategoryID: uuid.NewString()})
	assert.True(t, errors.Is(err, apierror.ErrNotFound))

	_, err = svc.Create(ctx, dto.CreateItemRequest{Name: "Chips", CategoryID: cat.ID.String(), VendorID: strPtr(uuid.NewString())})
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
}

func TestUpdateItem_NeverTouchesQuantity(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Yoghurt", 9, "400")
	svc := env.itemService()

	price := decimal.NewFromInt(450)
	resp, err := svc.Update(context.Background(), item.ID, dto.UpdateItemRequest{
		Name:  strPtr("Yoghurt 500g"),
		Price: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, "Yoghurt 500g", resp.Name)
	assert.True(t, resp.Price.Equal(price))
	assert.Equal(t, 9, resp.Quantity)
	assert.False(t, resp.LowStock)
}

func TestDeleteItem_RefusedWhileReferenced(t *testing.T) {
	env := newTestEnv(t)
	used := env.seedItem(t, "Used", 0, "100")
	unused := env.seedItem(t, "Unused", 0, "100")
	svc := env.itemService()
	ctx := context.Background()

	_, err := env.purchaseService().Create(ctx, dto.CreatePurchaseRequest{ItemID: used.ID.String(), Quantity: 1})
	require.NoError(t, err)

	assert.True(t, errors.Is(svc.Delete(ctx, used.ID), apierror.ErrValidation))
	require.NoError(t, svc.Delete(ctx, unused.ID))
	_, err = svc.Get(ctx, unused.ID)
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
}

func TestDeleteItem_RefusedWhileLedgerHistoryRemains(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Sugar", 0, "800")
	ctx := context.Background()

	p, err := env.purchaseService().Create(ctx, dto.CreatePurchaseRequest{ItemID: item.ID.String(), Quantity: 3})
	require.NoError(t, err)
	require.NoError(t, env.purchaseService().Delete(ctx, uuid.MustParse(p.ID)))

	err = env.itemService().Delete(ctx, item.ID)
	assert.True(t, errors.Is(err, apierror.ErrValidation))
	_, err = env.itemService().Get(ctx, item.ID)
	assert.NoError(t, err)
}

func TestLowStockAndSearch(t *testing.T) {
	env := newTestEnv(t)
	env.seedItem(t, "Rice 25kg", 2, "15000")
	env.seedItem(t, "Rice 5kg", 40, "3500")
	env.seedItem(t, "Maize", 5, "9000")
	svc := env.itemService()
	ctx := context.Background()

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Rice 25kg", low[0].Name)
	assert.Equal(t, "Maize", low[1].Name)

	found, err := svc.List(ctx, dto.ItemFilter{Q: "rice"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, found.Total)
}

func TestMovements_FilterByItem(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedItem(t, "A", 0, "100")
	b := env.seedItem(t, "B", 0, "100")
	ctx := context.Background()

	for _, it := range []uuid.UUID{a.ID, a.ID, b.ID} {
		_, err := env.purchaseService().Create(ctx, dto.CreatePurchaseRequest{ItemID: it.String(), Quantity: 2})
		require.NoError(t, err)
	}

	list, err := env.itemService().Movements(ctx, dto.MovementFilter{ItemID: a.ID.String()})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Total)
	for _, m := range list.Data {
		assert.Equal(t, "A", m.ItemName)
		assert.Equal(t, 2, m.Delta)
		assert.NotNil(t, m.ReferenceID)
	}
}
