package service

import (
	"context"
	"errors"
	"testing"

	"github.com/st9-8/mouegne/internal/apierror"
	"github.com/st9-8/mouegne/internal/dto"
	"github.com/st9-8/mouegne/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSale_DecrementsStock(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Soap", 10, "500")
	customer := env.seedCustomer(t, "Awa", nil)
	svc := env.saleService()

	resp, err := svc.Create(context.Background(), dto.CreateSaleRequest{
		Customer:   customer.ID.String(),
		Financials: testFinancials("2000"),
		Items:      []dto.LineItemRequest{line(item, 4)},
	})
	require.NoError(t, err)

	assert.Equal(t, 6, env.quantity(t, item.ID))
	assert.EqualValues(t, 1, env.count(t, &model.Sale{}))
	assert.EqualValues(t, 1, env.count(t, &model.SaleDetail{}))
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "Soap", resp.Details[0].ItemName)
	assert.True(t, resp.Details[0].TotalDetail.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, "Awa", resp.CustomerName)
	assert.Empty(t, resp.Warning)
	assert.Equal(t, []string{model.ReceiptSale + ":" + resp.ID}, env.dispatcher.receipts)

	movs, total, err := env.movements.List(context.Background(), dto.MovementFilter{Type: model.MovementSale, Pagination: dto.Pagination{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, -4, movs[0].Delta)
}

func TestCreateSale_InsufficientStockLeavesNothing(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Beans", 3, "1000")
	customer := env.seedCustomer(t, "Paul", nil)

	_, err := env.saleService().Create(context.Background(), dto.CreateSaleRequest{
		Customer:   customer.ID.String(),
		Financials: testFinancials("5000"),
		Items:      []dto.LineItemRequest{line(item, 5)},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apierror.ErrInsufficientStock))
	assert.Contains(t, err.Error(), "Beans")

	assert.Equal(t, 3, env.quantity(t, item.ID))
	assert.EqualValues(t, 0, env.count(t, &model.Sale{}))
	assert.EqualValues(t, 0, env.count(t, &model.SaleDetail{}))
	assert.Empty(t, env.dispatcher.receipts)
}

func TestCreateSale_OneShortLineAbortsTheWholeSale(t *testing.T) {
	env := newTestEnv(t)
	plenty := env.seedItem(t, "Bread", 20, "250")
	short := env.seedItem(t, "Butter", 1, "900")
	customer := env.seedCustomer(t, "Ngo", nil)

	_, err := env.saleService().Create(context.Background(), dto.CreateSaleRequest{
		Customer:   customer.ID.String(),
		Financials: testFinancials("3250"),
		Items:      []dto.LineItemRequest{line(plenty, 5), line(short, 2)},
	})
	require.True(t, errors.Is(err, apierror.ErrInsufficientStock))

	assert.Equal(t, 20, env.quantity(t, plenty.ID))
	assert.Equal(t, 1, env.quantity(t, short.ID))
	assert.EqualValues(t, 0, env.count(t, &model.Sale{}))
	assert.EqualValues(t, 0, env.count(t, &model.StockMovement{}))
}

func TestCreateSale_SameItemOnTwoLines(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Egg", 5, "100")
	customer := env.seedCustomer(t, "Eto", nil)

	_, err := env.saleService().Create(context.Background(), dto.CreateSaleRequest{
		Customer:   customer.ID.String(),
		Financials: testFinancials("600"),
		Items:      []dto.LineItemRequest{line(item, 3), line(item, 3)},
	})
	require.True(t, errors.Is(err, apierror.ErrInsufficientStock))
	assert.Equal(t, 5, env.quantity(t, item.ID))
}

func TestCreateSale_Validation(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Juice", 5, "400")
	customer := env.seedCustomer(t, "Ali", nil)
	svc := env.saleService()
	ctx := context.Background()

	cases := map[string]dto.CreateSaleRequest{
		"missing customer": {Financials: testFinancials("400"), Items: []dto.LineItemRequest{line(item, 1)}},
		"missing items":    {Customer: customer.ID.String(), Financials: testFinancials("400")},
		"missing total": {
			Customer:   customer.ID.String(),
			Financials: dto.Financials{SubTotal: dec("400"), AmountPaid: dec("400"), AmountChange: dec("0")},
			Items:      []dto.LineItemRequest{line(item, 1)},
		},
		"zero quantity": {
			Customer:   customer.ID.String(),
			Financials: testFinancials("0"),
			Items:      []dto.LineItemRequest{{ID: item.ID.String(), Price: item.Price}},
		},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, req)
			assert.True(t, errors.Is(err, apierror.ErrValidation), "got %v", err)
		})
	}
	assert.Equal(t, 5, env.quantity(t, item.ID))
}

func TestCreateSale_UnknownCustomerOrItem(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Cola", 5, "400")
	customer := env.seedCustomer(t, "Bob", nil)
	svc := env.saleService()
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateSaleRequest{
		Customer:   uuid.NewString(),
		Financials: testFinancials("400"),
		Items:      []dto.LineItemRequest{line(item, 1)},
	})
	assert.True(t, errors.Is(err, apierror.ErrNotFound))

	_, err = svc.Create(ctx, dto.CreateSaleRequest{
		Customer:   customer.ID.String(),
		Financials: testFinancials("400"),
		Items:      []dto.LineItemRequest{{ID: uuid.NewString(), Price: item.Price, Quantity: 1, TotalItem: item.Price}},
	})
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
	assert.EqualValues(t, 0, env.count(t, &model.Sale{}))
}

func TestCreateSale_DispatchFailureIsAWarning(t *testing.T) {
	env := newTestEnv(t)
	env.dispatcher.failWith = errQueueDown
	item := env.seedItem(t, "Candle", 2, "150")
	customer := env.seedCustomer(t, "Zoe", nil)

	resp, err := env.saleService().Create(context.Background(), dto.CreateSaleRequest{
		Customer:   customer.ID.String(),
		Financials: testFinancials("150"),
		Items:      []dto.LineItemRequest{line(item, 1)},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Warning)
	assert.Equal(t, 1, env.quantity(t, item.ID))
	assert.EqualValues(t, 1, env.count(t, &model.Sale{}))
}

func TestDeleteSale_KeepsStock(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Matches", 10, "50")
	customer := env.seedCustomer(t, "Ama", nil)
	svc := env.saleService()
	ctx := context.Background()

	resp, err := svc.Create(ctx, dto.CreateSaleRequest{
		Customer:   customer.ID.String(),
		Financials: testFinancials("100"),
		Items:      []dto.LineItemRequest{line(item, 2)},
	})
	require.NoError(t, err)

	id := uuid.MustParse(resp.ID)
	require.NoError(t, svc.Delete(ctx, id))
	assert.Equal(t, 8, env.quantity(t, item.ID))
	assert.EqualValues(t, 0, env.count(t, &model.SaleDetail{}))

	_, err = svc.Get(ctx, id)
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
	assert.True(t, errors.Is(svc.Delete(ctx, id), apierror.ErrNotFound))
}

func TestListSales_FilterByCustomer(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Pen", 10, "100")
	a := env.seedCustomer(t, "A", nil)
	b := env.seedCustomer(t, "B", nil)
	svc := env.saleService()
	ctx := context.Background()

	for _, c := range []uuid.UUID{a.ID, a.ID, b.ID} {
		_, err := svc.Create(ctx, dto.CreateSaleRequest{
			Customer:   c.String(),
			Financials: testFinancials("100"),
			Items:      []dto.LineItemRequest{line(item, 1)},
		})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, dto.SaleFilter{CustomerID: a.ID.String()})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Total)
	assert.Len(t, list.Data, 2)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 50, list.Limit)

	_, err = svc.List(ctx, dto.SaleFilter{From: "yesterday"})
	assert.True(t, errors.Is(err, apierror.ErrValidation))
}
