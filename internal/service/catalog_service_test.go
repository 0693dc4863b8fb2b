package service

import (
	"context"
	"errors"
	"testing"

	"github.com/st9-8/mouegne/internal/apierror"
	"github.com/st9-8/mouegne/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) catalogService() CatalogService {
	return NewCatalogService(e.categories, e.vendors, e.customers, e.sales)
}

func TestCategory_UniqueName(t *testing.T) {
	env := newTestEnv(t)
	svc := env.catalogService()
	ctx := context.Background()

	first, err := svc.CreateCategory(ctx, dto.CategoryRequest{Name: "Hardware"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, dto.CategoryRequest{Name: "hardware"})
	assert.True(t, errors.Is(err, apierror.ErrValidation))

	// renaming to its own name is fine
	_, err = svc.UpdateCategory(ctx, uuid.MustParse(first.ID), dto.CategoryRequest{Name: "Hardware"})
	require.NoError(t, err)

	second, err := svc.CreateCategory(ctx, dto.CategoryRequest{Name: "Food"})
	require.NoError(t, err)
	_, err = svc.UpdateCategory(ctx, uuid.MustParse(second.ID), dto.CategoryRequest{Name: "HARDWARE"})
	assert.True(t, errors.Is(err, apierror.ErrValidation))

	list, err := svc.ListCategories(ctx, dto.CatalogFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Total)
	assert.Equal(t, "Food", list.Data[0].Name)
}

func TestCategory_DeleteRefusedWithItems(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Screw", 0, "10")
	svc := env.catalogService()
	ctx := context.Background()

	err := svc.DeleteCategory(ctx, item.CategoryID)
	assert.True(t, errors.Is(err, apierror.ErrValidation))

	empty, err := svc.CreateCategory(ctx, dto.CategoryRequest{Name: "Empty"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCategory(ctx, uuid.MustParse(empty.ID)))
	assert.True(t, errors.Is(svc.DeleteCategory(ctx, uuid.MustParse(empty.ID)), apierror.ErrNotFound))
}

func TestVendor_CRUD(t *testing.T) {
	env := newTestEnv(t)
	svc := env.catalogService()
	ctx := context.Background()

	created, err := svc.CreateVendor(ctx, dto.VendorRequest{Name: "Brasseries", PhoneNumber: strPtr("+237233000000")})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	updated, err := svc.UpdateVendor(ctx, id, dto.VendorRequest{Name: "Brasseries du Cameroun"})
	require.NoError(t, err)
	assert.Equal(t, "Brasseries du Cameroun", updated.Name)

	got, err := svc.GetVendor(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, updated.Name, got.Name)

	_, err = svc.CreateVendor(ctx, dto.VendorRequest{Name: ""})
	assert.True(t, errors.Is(err, apierror.ErrValidation))

	require.NoError(t, svc.DeleteVendor(ctx, id))
	_, err = svc.GetVendor(ctx, id)
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
}

func TestCustomer_DeleteRefusedWithSales(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Bag", 3, "1000")
	svc := env.catalogService()
	ctx := context.Background()

	created, err := svc.CreateCustomer(ctx, dto.CustomerRequest{
		FirstName: "Marie",
		LastName:  strPtr("Ngono"),
		Email:     strPtr("marie@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Marie Ngono", created.FullName)
	id := uuid.MustParse(created.ID)

	_, err = env.saleService().Create(ctx, dto.CreateSaleRequest{
		Customer:   created.ID,
		Financials: testFinancials("1000"),
		Items:      []dto.LineItemRequest{line(item, 1)},
	})
	require.NoError(t, err)

	assert.True(t, errors.Is(svc.DeleteCustomer(ctx, id), apierror.ErrValidation))

	_, err = svc.UpdateCustomer(ctx, id, dto.CustomerRequest{FirstName: "Marie", LoyaltyPoints: -1})
	assert.True(t, errors.Is(err, apierror.ErrValidation))

	updated, err := svc.UpdateCustomer(ctx, id, dto.CustomerRequest{FirstName: "Marie", LoyaltyPoints: 12})
	require.NoError(t, err)
	assert.Equal(t, 12, updated.LoyaltyPoints)
	assert.Nil(t, updated.LastName)
}
