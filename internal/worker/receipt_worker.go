package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/infra"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptWorker renders the PDF receipt for a committed sale and, when the
// customer left an email, hands the message off to the email queue. It runs
// strictly after the sale transaction; a failure here never touches the sale.
type ReceiptWorker struct {
	saleRepo     repository.SaleRepository
	dispatcher   *Dispatcher
	storagePath  string
	businessName string
}

func NewReceiptWorker(saleRepo repository.SaleRepository, dispatcher *Dispatcher, storagePath, businessName string) *ReceiptWorker {
	return &ReceiptWorker{
		saleRepo:     saleRepo,
		dispatcher:   dispatcher,
		storagePath:  storagePath,
		businessName: businessName,
	}
}

func (w *ReceiptWorker) Handle(ctx context.Context, payload json.RawMessage) error {
	var job ReceiptJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("receipt: decode payload: %w", err)
	}

	saleID, err := uuid.Parse(job.SaleID)
	if err != nil {
		return fmt.Errorf("receipt: invalid sale id %q: %w", job.SaleID, err)
	}
	sale, err := w.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return fmt.Errorf("receipt: load sale %s: %w", saleID, err)
	}

	path, err := infra.GenerateReceiptPDF(sale, w.businessName, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("sale_id", job.SaleID).Str("path", path).Msg("receipt generated")

	if job.CustomerEmail == "" {
		return nil
	}
	return w.dispatcher.EnqueueEmail(ctx, EmailJob{
		To:         job.CustomerEmail,
		Subject:    fmt.Sprintf("%s — your receipt", w.businessName),
		Body:       fmt.Sprintf("Thank you for your purchase. Your receipt for sale %s is attached.", job.SaleID),
		Attachment: path,
	})
}
