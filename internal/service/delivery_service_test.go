package service

import (
	"context"
	"errors"
	"testing"

	"github.com/st9-8/mouegne/internal/apierror"
	"github.com/st9-8/mouegne/internal/dto"
	"github.com/st9-8/mouegne/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deliveryRequest(items ...dto.LineItemRequest) dto.CreateDeliveryRequest {
	return dto.CreateDeliveryRequest{
		CustomerName: "Jean Paul Mbarga",
		PhoneNumber:  "+237699000111",
		Location:     "Bastos, Yaounde",
		DeliveryDate: "2026-03-10T14:30",
		Financials:   testFinancials("1000"),
		Items:        items,
	}
}

func TestCreateDelivery_BooksWithoutTouchingStock(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Gas bottle", 6, "500")

	resp, err := env.deliveryService().Create(context.Background(), deliveryRequest(line(item, 2)))
	require.NoError(t, err)

	assert.Equal(t, model.DeliveryNotDelivered, resp.Status)
	assert.Equal(t, 2, resp.SumProducts)
	assert.Nil(t, resp.SaleID)
	assert.Equal(t, 6, env.quantity(t, item.ID))
	assert.EqualValues(t, 1, env.count(t, &model.DeliveryDetail{}))
	assert.EqualValues(t, 0, env.count(t, &model.StockMovement{}))
	assert.Equal(t, []string{model.ReceiptDelivery + ":" + resp.ID}, env.dispatcher.receipts)
}

func TestCreateDelivery_InsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Fridge", 1, "150000")

	_, err := env.deliveryService().Create(context.Background(), deliveryRequest(line(item, 2)))
	assert.True(t, errors.Is(err, apierror.ErrInsufficientStock))
	assert.EqualValues(t, 0, env.count(t, &model.Delivery{}))
}

func TestCreateDelivery_RequiredFields(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Fan", 3, "20000")
	svc := env.deliveryService()
	ctx := context.Background()

	for name, mutate := range map[string]func(*dto.CreateDeliveryRequest){
		"customer_name": func(r *dto.CreateDeliveryRequest) { r.CustomerName = "  " },
		"phone_number":  func(r *dto.CreateDeliveryRequest) { r.PhoneNumber = "" },
		"location":      func(r *dto.CreateDeliveryRequest) { r.Location = "" },
		"delivery_date": func(r *dto.CreateDeliveryRequest) { r.DeliveryDate = "next week" },
		"items":         func(r *dto.CreateDeliveryRequest) { r.Items = nil },
	} {
		t.Run(name, func(t *testing.T) {
			req := deliveryRequest(line(item, 1))
			mutate(&req)
			_, err := svc.Create(ctx, req)
			assert.True(t, errors.Is(err, apierror.ErrValidation), "got %v", err)
		})
	}
	assert.EqualValues(t, 0, env.count(t, &model.Delivery{}))
}

func TestConfirmDelivery_DecrementsAndDerivesSale(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Mattress", 6, "500")
	svc := env.deliveryService()
	ctx := context.Background()

	created, err := svc.Create(ctx, deliveryRequest(line(item, 2)))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	resp, err := svc.Confirm(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryDelivered, resp.Status)
	require.NotNil(t, resp.SaleID)
	assert.Equal(t, 4, env.quantity(t, item.ID))
	assert.EqualValues(t, 1, env.count(t, &model.Sale{}))
	assert.EqualValues(t, 1, env.count(t, &model.SaleDetail{}))

	sale, err := env.sales.FindByID(ctx, uuid.MustParse(*resp.SaleID))
	require.NoError(t, err)
	require.NotNil(t, sale.DeliveryID)
	assert.Equal(t, id, *sale.DeliveryID)
	assert.True(t, sale.GrandTotal.Equal(*dec("1000")))
	require.Len(t, sale.Details, 1)
	assert.Equal(t, 2, sale.Details[0].Quantity)

	// customer derived from the delivery
	require.NotNil(t, sale.Customer)
	assert.Equal(t, "Jean", sale.Customer.FirstName)
	require.NotNil(t, sale.Customer.LastName)
	assert.Equal(t, "Paul Mbarga", *sale.Customer.LastName)
	require.NotNil(t, sale.Customer.Address)
	assert.Equal(t, "Bastos, Yaounde", *sale.Customer.Address)

	// second confirmation is rejected with no further movement
	_, err = svc.Confirm(ctx, id)
	assert.True(t, errors.Is(err, apierror.ErrAlreadyDelivered))
	assert.Equal(t, 4, env.quantity(t, item.ID))
	assert.EqualValues(t, 1, env.count(t, &model.SaleDetail{}))

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, resp.SaleID, got.SaleID)
}

func TestConfirmDelivery_NotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.deliveryService().Confirm(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
}

func TestConfirmDelivery_StockSoldSinceBooking(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Radio", 3, "8000")
	customer := env.seedCustomer(t, "Walk-in", nil)
	svc := env.deliveryService()
	ctx := context.Background()

	created, err := svc.Create(ctx, deliveryRequest(line(item, 2)))
	require.NoError(t, err)

	_, err = env.saleService().Create(ctx, dto.CreateSaleRequest{
		Customer:   customer.ID.String(),
		Financials: testFinancials("16000"),
		Items:      []dto.LineItemRequest{line(item, 2)},
	})
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, uuid.MustParse(created.ID))
	assert.True(t, errors.Is(err, apierror.ErrInsufficientStock))
	assert.Equal(t, 1, env.quantity(t, item.ID))

	got, err := svc.Get(ctx, uuid.MustParse(created.ID))
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryNotDelivered, got.Status)
	// only the walk-in sale exists; the derived one was rolled back
	assert.EqualValues(t, 1, env.count(t, &model.Sale{}))
	assert.EqualValues(t, 1, env.count(t, &model.Customer{}))
}

func TestConfirmDelivery_ReusesCustomerByPhone(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Iron", 10, "3000")
	phone := "+237699000111"
	existing := env.seedCustomer(t, "Jean-Paul", &phone)
	svc := env.deliveryService()
	ctx := context.Background()

	created, err := svc.Create(ctx, deliveryRequest(line(item, 1)))
	require.NoError(t, err)
	resp, err := svc.Confirm(ctx, uuid.MustParse(created.ID))
	require.NoError(t, err)

	sale, err := env.sales.FindByID(ctx, uuid.MustParse(*resp.SaleID))
	require.NoError(t, err)
	assert.Equal(t, existing.ID, sale.CustomerID)
	assert.EqualValues(t, 1, env.count(t, &model.Customer{}))
}

func TestConfirmDelivery_IdenticalDeliveriesGetTheirOwnSale(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Kettle", 10, "500")
	svc := env.deliveryService()
	ctx := context.Background()

	var saleIDs []string
	for i := 0; i < 2; i++ {
		created, err := svc.Create(ctx, deliveryRequest(line(item, 2)))
		require.NoError(t, err)
		resp, err := svc.Confirm(ctx, uuid.MustParse(created.ID))
		require.NoError(t, err)
		saleIDs = append(saleIDs, *resp.SaleID)
	}

	assert.NotEqual(t, saleIDs[0], saleIDs[1])
	assert.EqualValues(t, 2, env.count(t, &model.Sale{}))
	assert.EqualValues(t, 2, env.count(t, &model.SaleDetail{}))
	assert.EqualValues(t, 1, env.count(t, &model.Customer{}))
	assert.Equal(t, 6, env.quantity(t, item.ID))
}

func TestUpdateDelivery(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Stove", 5, "500")
	svc := env.deliveryService()
	ctx := context.Background()

	created, err := svc.Create(ctx, deliveryRequest(line(item, 1)))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	loc := "Akwa, Douala"
	resp, err := svc.Update(ctx, id, dto.UpdateDeliveryRequest{Location: &loc})
	require.NoError(t, err)
	assert.Equal(t, loc, resp.Location)
	assert.Equal(t, "Jean Paul Mbarga", resp.CustomerName)

	empty := " "
	_, err = svc.Update(ctx, id, dto.UpdateDeliveryRequest{CustomerName: &empty})
	assert.True(t, errors.Is(err, apierror.ErrValidation))

	_, err = svc.Confirm(ctx, id)
	require.NoError(t, err)
	_, err = svc.Update(ctx, id, dto.UpdateDeliveryRequest{Location: &loc})
	assert.True(t, errors.Is(err, apierror.ErrAlreadyDelivered))
}

func TestDeleteDelivery_LeavesStockAndSale(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Blender", 5, "500")
	svc := env.deliveryService()
	ctx := context.Background()

	created, err := svc.Create(ctx, deliveryRequest(line(item, 2)))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)
	_, err = svc.Confirm(ctx, id)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))
	assert.Equal(t, 3, env.quantity(t, item.ID))
	assert.EqualValues(t, 0, env.count(t, &model.Delivery{}))
	assert.EqualValues(t, 0, env.count(t, &model.DeliveryDetail{}))
	assert.EqualValues(t, 1, env.count(t, &model.Sale{}))
}

func TestListDeliveries_FilterByStatus(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Chair", 10, "500")
	svc := env.deliveryService()
	ctx := context.Background()

	first, err := svc.Create(ctx, deliveryRequest(line(item, 1)))
	require.NoError(t, err)
	_, err = svc.Create(ctx, deliveryRequest(line(item, 1)))
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, uuid.MustParse(first.ID))
	require.NoError(t, err)

	pending, err := svc.List(ctx, dto.DeliveryFilter{Status: model.DeliveryNotDelivered})
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending.Total)

	all, err := svc.List(ctx, dto.DeliveryFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)
}

func TestSplitCustomerName(t *testing.T) {
	cases := []struct{ in, first, last string }{
		{"Awa", "Awa", ""},
		{"  Jean   Paul  Mbarga ", "Jean", "Paul Mbarga"},
		{"", "", ""},
	}
	for _, c := range cases {
		first, last := splitCustomerName(c.in)
		assert.Equal(t, c.first, first, c.in)
		assert.Equal(t, c.last, last, c.in)
	}
}
