package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/infra"
)

// EmailWorker sends rendered messages through the SMTP mailer.
type EmailWorker struct {
	mailer *infra.Mailer
}

func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Handle(_ context.Context, payload json.RawMessage) error {
	var job EmailJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("email: decode payload: %w", err)
	}
	return w.mailer.Send(job.To, job.Subject, job.Body, job.Attachment)
}

// LowStockWorker turns threshold notifications into mail for the configured
// inventory address. A missing address disables the alerts silently.
type LowStockWorker struct {
	mailer  *infra.Mailer
	alertTo string
}

func NewLowStockWorker(mailer *infra.Mailer, alertTo string) *LowStockWorker {
	return &LowStockWorker{mailer: mailer, alertTo: alertTo}
}

func (w *LowStockWorker) Handle(_ context.Context, payload json.RawMessage) error {
	if w.alertTo == "" {
		return nil
	}
	var job LowStockJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("lowstock: decode payload: %w", err)
	}
	subject := fmt.Sprintf("Low stock: %s", job.Name)
	body := fmt.Sprintf(
		"Product %s (%s) is down to %d units; the reorder threshold is %d. Consider issuing a purchase order.",
		job.Name, job.ProductID, job.StockQuantity, job.MinStockLevel,
	)
	return w.mailer.Send(w.alertTo, subject, body, "")
}
