package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/dto"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/model"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSaleSvc() (service.SaleService, *stubSaleRepo, *stubProductRepo, *stubCustomerRepo, *stubMovementRepo) {
	saleRepo := newStubSaleRepo()
	productRepo := newStubProductRepo()
	customerRepo := newStubCustomerRepo()
	movementRepo := &stubMovementRepo{}
	svc := service.NewSaleService(saleRepo, productRepo, customerRepo, movementRepo, nil)
	return svc, saleRepo, productRepo, customerRepo, movementRepo
}

func TestRegisterSale_DecrementsStockAndComputesTotal(t *testing.T) {
	svc, saleRepo, productRepo, _, movementRepo := buildSaleSvc()
	p := productRepo.seed("Windshield Glass - Toyota Camry", "150.00", 5, 2)

	resp, err := svc.RegisterSale(context.Background(), uuid.New(), dto.RegisterSaleRequest{
		PaymentMethod: model.PaymentCash,
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, "300.00", resp.TotalAmount.StringFixed(2))
	assert.Equal(t, model.SaleStatusCompleted, resp.Status)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "150.00", resp.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "300.00", resp.Items[0].TotalPrice.StringFixed(2))

	stored, err := productRepo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.StockQuantity)

	sale, err := saleRepo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, "300.00", sale.TotalAmount.StringFixed(2))

	movs := movementRepo.byType(model.MovementSale)
	require.Len(t, movs, 1)
	assert.Equal(t, -2, movs[0].Quantity)
	assert.Equal(t, 5, movs[0].StockBefore)
	assert.Equal(t, 3, movs[0].StockAfter)
}

func TestRegisterSale_MultiItemTotal(t *testing.T) {
	svc, _, productRepo, _, _ := buildSaleSvc()
	glass := productRepo.seed("Door Glass - Mitsubishi Montero", "100.00", 10, 2)
	sealant := productRepo.seed("Urethane Sealant", "15.00", 20, 5)

	resp, err := svc.RegisterSale(context.Background(), uuid.New(), dto.RegisterSaleRequest{
		PaymentMethod: model.PaymentCredit,
		Items: []dto.SaleItemRequest{
			{ProductID: glass.ID.String(), Quantity: 1},
			{ProductID: sealant.ID.String(), Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "130.00", resp.TotalAmount.StringFixed(2))

	g, _ := productRepo.FindByID(context.Background(), glass.ID)
	s, _ := productRepo.FindByID(context.Background(), sealant.ID)
	assert.Equal(t, 9, g.StockQuantity)
	assert.Equal(t, 18, s.StockQuantity)
}

func TestRegisterSale_InsufficientStock(t *testing.T) {
	svc, _, productRepo, _, movementRepo := buildSaleSvc()
	p := productRepo.seed("Rear Window - Ford Focus", "200.00", 2, 1)

	_, err := svc.RegisterSale(context.Background(), uuid.New(), dto.RegisterSaleRequest{
		PaymentMethod: model.PaymentCash,
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 5}},
	})

	var stockErr *service.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, p.ID, stockErr.ProductID)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 3, stockErr.Shortfall())

	// Stock untouched, no sale movement recorded.
	stored, _ := productRepo.FindByID(context.Background(), p.ID)
	assert.Equal(t, 2, stored.StockQuantity)
	assert.Empty(t, movementRepo.byType(model.MovementSale))
}

func TestRegisterSale_ExactStockSellsToZero(t *testing.T) {
	svc, _, productRepo, _, _ := buildSaleSvc()
	p := productRepo.seed("Aluminum Frame - Standard", "50.00", 4, 2)

	_, err := svc.RegisterSale(context.Background(), uuid.New(), dto.RegisterSaleRequest{
		PaymentMethod: model.PaymentCash,
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 4}},
	})
	require.NoError(t, err)

	stored, _ := productRepo.FindByID(context.Background(), p.ID)
	assert.Equal(t, 0, stored.StockQuantity)
}

func TestRegisterSale_EmptySale(t *testing.T) {
	svc, _, _, _, _ := buildSaleSvc()

	_, err := svc.RegisterSale(context.Background(), uuid.New(), dto.RegisterSaleRequest{
		PaymentMethod: model.PaymentCash,
	})
	var valErr *service.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.ErrorContains(t, err, "empty sale")
}

func TestRegisterSale_NonPositiveQuantity(t *testing.T) {
	svc, _, productRepo, _, _ := buildSaleSvc()
	p := productRepo.seed("Side Mirror - Honda Civic", "25.00", 10, 2)

	for _, qty := range []int{0, -3} {
		_, err := svc.RegisterSale(context.Background(), uuid.New(), dto.RegisterSaleRequest{
			PaymentMethod: model.PaymentCash,
			Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: qty}},
		})
		var valErr *service.ValidationError
		require.ErrorAs(t, err, &valErr)
	}

	stored, _ := productRepo.FindByID(context.Background(), p.ID)
	assert.Equal(t, 10, stored.StockQuantity)
}

func TestRegisterSale_UnknownPaymentMethod(t *testing.T) {
	svc, _, productRepo, _, _ := buildSaleSvc()
	p := productRepo.seed("Wiper Blade Set", "12.00", 10, 2)

	_, err := svc.RegisterSale(context.Background(), uuid.New(), dto.RegisterSaleRequest{
		PaymentMethod: "bitcoin",
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	var valErr *service.ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestRegisterSale_UnknownProduct(t *testing.T) {
	svc, _, _, _, _ := buildSaleSvc()

	_, err := svc.RegisterSale(context.Background(), uuid.New(), dto.RegisterSaleRequest{
		PaymentMethod: model.PaymentCash,
		Items:         []dto.SaleItemRequest{{ProductID: uuid.NewString(), Quantity: 1}},
	})
	var valErr *service.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.ErrorContains(t, err, "not found")
}

func TestRegisterSale_InactiveProduct(t *testing.T) {
	svc, _, productRepo, _, _ := buildSaleSvc()
	p := productRepo.seed("Discontinued Tint Film", "30.00", 10, 2)
	require.NoError(t, productRepo.Deactivate(context.Background(), p.ID))

	_, err := svc.RegisterSale(context.Background(), uuid.New(), dto.RegisterSaleRequest{
		PaymentMethod: model.PaymentCash,
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	var valErr *service.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.ErrorContains(t, err, "inactive")
}

func TestRegisterSale_UnknownCustomer(t *testing.T) {
	svc, _, productRepo, _, _ := buildSaleSvc()
	p := productRepo.seed("Windshield Molding", "18.00", 10, 2)
	ghost := uuid.NewString()

	_, err := svc.RegisterSale(context.Background(), uuid.New(), dto.RegisterSaleRequest{
		CustomerID:    &ghost,
		PaymentMethod: model.PaymentCash,
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	var valErr *service.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.ErrorContains(t, err, "customer")
}

func TestRegisterSale_WithCustomer(t *testing.T) {
	svc, saleRepo, productRepo, customerRepo, _ := buildSaleSvc()
	p := productRepo.seed("Rear Window - Ford Focus", "6500.00", 3, 8)
	cust := customerRepo.seed("John Doe")
	cid := cust.ID.String()

	resp, err := svc.RegisterSale(context.Background(), uuid.New(), dto.RegisterSaleRequest{
		CustomerID:    &cid,
		PaymentMethod: model.PaymentCredit,
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.CustomerID)
	assert.Equal(t, cid, *resp.CustomerID)

	sale, _ := saleRepo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NotNil(t, sale.CustomerID)
	assert.Equal(t, cust.ID, *sale.CustomerID)
}

func TestRegisterSale_PriceCapturedAtSaleTime(t *testing.T) {
	svc, saleRepo, productRepo, _, _ := buildSaleSvc()
	p := productRepo.seed("Door Glass - Mitsubishi Montero", "7000.00", 12, 10)

	resp, err := svc.RegisterSale(context.Background(), uuid.New(), dto.RegisterSaleRequest{
		PaymentMethod: model.PaymentCash,
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	// Raise the catalog price after the sale.
	updated, _ := productRepo.FindByID(context.Background(), p.ID)
	updated.UnitPrice = decimal.RequireFromString("9000.00")
	require.NoError(t, productRepo.Update(context.Background(), updated))

	sale, _ := saleRepo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "7000.00", sale.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "7000.00", sale.TotalAmount.StringFixed(2))
}

func TestRegisterSale_MovementWriteFailure(t *testing.T) {
	saleRepo := newStubSaleRepo()
	productRepo := newStubProductRepo()
	customerRepo := newStubCustomerRepo()
	movementRepo := &failOnCreateMovementRepo{failAt: 1}
	svc := service.NewSaleService(saleRepo, productRepo, customerRepo, movementRepo, nil)

	p := productRepo.seed("Windshield Glass - Toyota Camry", "100.00", 5, 2)
	_, err := svc.RegisterSale(context.Background(), uuid.New(), dto.RegisterSaleRequest{
		PaymentMethod: model.PaymentCash,
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})

	var persistErr *service.PersistenceError
	require.ErrorAs(t, err, &persistErr)
}

func TestVoidSale_RestoresStock(t *testing.T) {
	svc, saleRepo, productRepo, _, movementRepo := buildSaleSvc()
	p := productRepo.seed("Windshield Glass - Toyota Camry", "8500.00", 10, 5)

	resp, err := svc.RegisterSale(context.Background(), uuid.New(), dto.RegisterSaleRequest{
		PaymentMethod: model.PaymentCash,
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 3}},
	})
	require.NoError(t, err)

	mid, _ := productRepo.FindByID(context.Background(), p.ID)
	require.Equal(t, 7, mid.StockQuantity)

	require.NoError(t, svc.VoidSale(context.Background(), uuid.MustParse(resp.ID), "wrong vehicle model"))

	restored, _ := productRepo.FindByID(context.Background(), p.ID)
	assert.Equal(t, 10, restored.StockQuantity)

	sale, _ := saleRepo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	assert.Equal(t, model.SaleStatusVoided, sale.Status)

	movs := movementRepo.byType(model.MovementVoidRestore)
	require.Len(t, movs, 1)
	assert.Equal(t, 3, movs[0].Quantity)
}

func TestVoidSale_AlreadyVoided(t *testing.T) {
	svc, _, productRepo, _, _ := buildSaleSvc()
	p := productRepo.seed("Side Mirror - Honda Civic", "2500.00", 8, 10)

	resp, err := svc.RegisterSale(context.Background(), uuid.New(), dto.RegisterSaleRequest{
		PaymentMethod: model.PaymentCash,
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)
	saleID := uuid.MustParse(resp.ID)

	require.NoError(t, svc.VoidSale(context.Background(), saleID, "customer returned item"))
	err = svc.VoidSale(context.Background(), saleID, "double click")
	var valErr *service.ValidationError
	require.ErrorAs(t, err, &valErr)

	// Stock restored exactly once.
	stored, _ := productRepo.FindByID(context.Background(), p.ID)
	assert.Equal(t, 8, stored.StockQuantity)
}

func TestRegisterSale_ConcurrentNoOversell(t *testing.T) {
	svc, _, productRepo, _, _ := buildSaleSvc()
	p := productRepo.seed("Rear Window - Ford Focus", "6500.00", 5, 2)

	const attempts = 12
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RegisterSale(context.Background(), uuid.New(), dto.RegisterSaleRequest{
				PaymentMethod: model.PaymentCash,
				Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded, failed := 0, 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		failed++
		var stockErr *service.InsufficientStockError
		assert.ErrorAs(t, err, &stockErr)
	}

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, attempts-5, failed)

	stored, _ := productRepo.FindByID(context.Background(), p.ID)
	assert.Equal(t, 0, stored.StockQuantity)
}
