package service_test

import (
	"context"
	"testing"

	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/dto"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/model"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPOSvc() (service.PurchaseOrderService, *stubPORepo, *stubProductRepo, *stubSupplierRepo, *stubMovementRepo) {
	poRepo := newStubPORepo()
	productRepo := newStubProductRepo()
	supplierRepo := newStubSupplierRepo()
	movementRepo := &stubMovementRepo{}
	svc := service.NewPurchaseOrderService(poRepo, productRepo, supplierRepo, movementRepo)
	return svc, poRepo, productRepo, supplierRepo, movementRepo
}

func TestIssuePO_SequentialNumbersAndTotal(t *testing.T) {
	svc, _, productRepo, supplierRepo, _ := buildPOSvc()
	sup := supplierRepo.seed("Glass Pro Philippines")
	p := productRepo.seed("Windshield Glass - Toyota Camry", "8500.00", 2, 10)

	first, err := svc.Issue(context.Background(), uuid.New(), dto.IssuePORequest{
		SupplierID: sup.ID.String(),
		Items: []dto.POItemRequest{
			{ProductID: p.ID.String(), Quantity: 10, UnitPrice: decimal.RequireFromString("6000.00")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "PO-0001", first.PONumber)
	assert.Equal(t, model.POStatusPending, first.Status)
	assert.Equal(t, "60000.00", first.TotalAmount.StringFixed(2))

	second, err := svc.Issue(context.Background(), uuid.New(), dto.IssuePORequest{
		SupplierID: sup.ID.String(),
		Items: []dto.POItemRequest{
			{ProductID: p.ID.String(), Quantity: 1, UnitPrice: decimal.RequireFromString("6000.00")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "PO-0002", second.PONumber)
}

func TestIssuePO_Validation(t *testing.T) {
	svc, _, productRepo, supplierRepo, _ := buildPOSvc()
	sup := supplierRepo.seed("Metro Aluminum Supply")
	p := productRepo.seed("Aluminum Frame - Standard", "1200.00", 5, 10)

	cases := []struct {
		name string
		req  dto.IssuePORequest
	}{
		{"empty order", dto.IssuePORequest{SupplierID: sup.ID.String()}},
		{"unknown supplier", dto.IssuePORequest{
			SupplierID: uuid.NewString(),
			Items:      []dto.POItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
		}},
		{"zero quantity", dto.IssuePORequest{
			SupplierID: sup.ID.String(),
			Items:      []dto.POItemRequest{{ProductID: p.ID.String(), Quantity: 0}},
		}},
		{"negative price", dto.IssuePORequest{
			SupplierID: sup.ID.String(),
			Items: []dto.POItemRequest{
				{ProductID: p.ID.String(), Quantity: 1, UnitPrice: decimal.RequireFromString("-5")},
			},
		}},
		{"unknown product", dto.IssuePORequest{
			SupplierID: sup.ID.String(),
			Items:      []dto.POItemRequest{{ProductID: uuid.NewString(), Quantity: 1}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Issue(context.Background(), uuid.New(), tc.req)
			var valErr *service.ValidationError
			require.ErrorAs(t, err, &valErr)
		})
	}
}

func TestPOLifecycle_DeliveryReceivesStock(t *testing.T) {
	svc, _, productRepo, supplierRepo, movementRepo := buildPOSvc()
	sup := supplierRepo.seed("Glass Pro Philippines")
	p := productRepo.seed("Rear Window - Ford Focus", "6500.00", 3, 8)

	resp, err := svc.Issue(context.Background(), uuid.New(), dto.IssuePORequest{
		SupplierID: sup.ID.String(),
		Items: []dto.POItemRequest{
			{ProductID: p.ID.String(), Quantity: 12, UnitPrice: decimal.RequireFromString("4000.00")},
		},
	})
	require.NoError(t, err)
	poID := uuid.MustParse(resp.ID)

	// Cannot deliver while still pending.
	err = svc.MarkDelivered(context.Background(), poID)
	var valErr *service.ValidationError
	require.ErrorAs(t, err, &valErr)

	require.NoError(t, svc.Approve(context.Background(), poID))
	require.NoError(t, svc.MarkDelivered(context.Background(), poID))

	stored, _ := productRepo.FindByID(context.Background(), p.ID)
	assert.Equal(t, 15, stored.StockQuantity)

	movs := movementRepo.byType(model.MovementPODelivery)
	require.Len(t, movs, 1)
	assert.Equal(t, 12, movs[0].Quantity)
	assert.Equal(t, 3, movs[0].StockBefore)
	assert.Equal(t, 15, movs[0].StockAfter)

	po, err := svc.GetByID(context.Background(), poID)
	require.NoError(t, err)
	assert.Equal(t, model.POStatusDelivered, po.Status)
}

func TestPODelivery_NotTwice(t *testing.T) {
	svc, _, productRepo, supplierRepo, _ := buildPOSvc()
	sup := supplierRepo.seed("Auto Parts Central")
	p := productRepo.seed("Side Mirror - Honda Civic", "2500.00", 8, 10)

	resp, err := svc.Issue(context.Background(), uuid.New(), dto.IssuePORequest{
		SupplierID: sup.ID.String(),
		Items: []dto.POItemRequest{
			{ProductID: p.ID.String(), Quantity: 5, UnitPrice: decimal.RequireFromString("1800.00")},
		},
	})
	require.NoError(t, err)
	poID := uuid.MustParse(resp.ID)

	require.NoError(t, svc.Approve(context.Background(), poID))
	require.NoError(t, svc.MarkDelivered(context.Background(), poID))

	err = svc.MarkDelivered(context.Background(), poID)
	var valErr *service.ValidationError
	require.ErrorAs(t, err, &valErr)

	// Stock received exactly once.
	stored, _ := productRepo.FindByID(context.Background(), p.ID)
	assert.Equal(t, 13, stored.StockQuantity)
}

func TestPOCancel_Transitions(t *testing.T) {
	svc, _, productRepo, supplierRepo, _ := buildPOSvc()
	sup := supplierRepo.seed("Glass Pro Philippines")
	p := productRepo.seed("Door Glass - Mitsubishi Montero", "7000.00", 12, 10)

	issue := func() uuid.UUID {
		resp, err := svc.Issue(context.Background(), uuid.New(), dto.IssuePORequest{
			SupplierID: sup.ID.String(),
			Items: []dto.POItemRequest{
				{ProductID: p.ID.String(), Quantity: 2, UnitPrice: decimal.RequireFromString("5000.00")},
			},
		})
		require.NoError(t, err)
		return uuid.MustParse(resp.ID)
	}

	// pending → cancelled
	pending := issue()
	require.NoError(t, svc.Cancel(context.Background(), pending))

	// approved → cancelled
	approved := issue()
	require.NoError(t, svc.Approve(context.Background(), approved))
	require.NoError(t, svc.Cancel(context.Background(), approved))

	// cancelled orders cannot be approved or delivered
	var valErr *service.ValidationError
	require.ErrorAs(t, svc.Approve(context.Background(), pending), &valErr)
	require.ErrorAs(t, svc.MarkDelivered(context.Background(), approved), &valErr)

	// No stock ever received.
	stored, _ := productRepo.FindByID(context.Background(), p.ID)
	assert.Equal(t, 12, stored.StockQuantity)
}
