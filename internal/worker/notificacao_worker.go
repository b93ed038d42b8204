package worker

// notificacao_worker.go
// Emails the cliente when a sale changes status. Confirmed and delivered
// sales carry the PDF receipt. Sends go through the SMTP breaker and
// are retried with exponential backoff (max 3 attempts).

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"simplesales/internal/infra"
	"simplesales/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// NotificacaoVendaPayload is the job payload sent to QueueNotificacoes.
type NotificacaoVendaPayload struct {
	VendaID string `json:"venda_id"`
	Status  string `json:"status"`
}

// VendaLoader loads a sale with Cliente and Itens.Produto.
type VendaLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error)
}

// MailSender is satisfied by *infra.Mailer.
type MailSender interface {
	Send(to, subject, body, pdfPath string) error
}

type NotificacaoWorker struct {
	vendas         VendaLoader
	mailer         MailSender
	breaker        *infra.SMTPBreaker
	pdfStoragePath string
	renderPDF      func(v *model.Venda, dir string) (string, error)
}

func NewNotificacaoWorker(vendas VendaLoader, mailer MailSender, breaker *infra.SMTPBreaker, pdfStoragePath string) *NotificacaoWorker {
	return &NotificacaoWorker{
		vendas:         vendas,
		mailer:         mailer,
		breaker:        breaker,
		pdfStoragePath: pdfStoragePath,
		renderPDF:      infra.GenerateReciboPDF,
	}
}

// Process handles a single notification job:
//  1. Parse NotificacaoVendaPayload
//  2. Load the Venda (skipped if it was deleted meanwhile)
//  3. Render the receipt for Confirmada/Entregue
//  4. Send through the breaker with retries
func (w *NotificacaoWorker) Process(ctx context.Context, raw json.RawMessage) error {
	logger := zerolog.Ctx(ctx)

	var payload NotificacaoVendaPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("notificacao: invalid payload: %w", err)
	}
	vendaID, err := uuid.Parse(payload.VendaID)
	if err != nil {
		return fmt.Errorf("notificacao: invalid venda_id %q", payload.VendaID)
	}

	venda, err := w.vendas.FindByID(ctx, vendaID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Info().Str("venda_id", payload.VendaID).Msg("notificacao: venda no longer exists, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("notificacao: load venda: %w", err)
	}
	if venda.Cliente == nil || venda.Cliente.Email == "" {
		logger.Warn().Str("venda_id", payload.VendaID).Msg("notificacao: cliente without email, skipping")
		return nil
	}

	status := model.StatusVenda(payload.Status)
	subject, body := mensagemVenda(venda, status)

	pdfPath := ""
	if status == model.StatusConfirmada || status == model.StatusEntregue {
		pdfPath, err = w.renderPDF(venda, w.pdfStoragePath)
		if err != nil {
			// The email still goes out without the attachment.
			logger.Error().Err(err).Str("venda_id", payload.VendaID).Msg("notificacao: PDF generation failed")
			pdfPath = ""
		}
	}

	sendErr := withRetry(ctx, maxAttempts, func(attempt int) error {
		disabled := false
		err := w.breaker.Do(func() error {
			err := w.mailer.Send(venda.Cliente.Email, subject, body, pdfPath)
			if errors.Is(err, infra.ErrMailerDisabled) {
				disabled = true
				return nil
			}
			return err
		})
		if disabled {
			return permanent(infra.ErrMailerDisabled)
		}
		if err != nil {
			logger.Warn().Err(err).Int("attempt", attempt+1).Str("venda_id", payload.VendaID).
				Msg("notificacao: send failed")
		}
		return err
	})
	if errors.Is(sendErr, infra.ErrMailerDisabled) {
		logger.Debug().Str("venda_id", payload.VendaID).Msg("notificacao: SMTP not configured, skipping")
		return nil
	}
	if sendErr != nil {
		return fmt.Errorf("notificacao: send after %d attempts: %w", maxAttempts, sendErr)
	}

	logger.Info().Str("venda_id", payload.VendaID).Str("status", payload.Status).Msg("notificacao: email sent")
	return nil
}

func mensagemVenda(v *model.Venda, status model.StatusVenda) (subject, body string) {
	ref := v.ID.String()[:8]
	switch status {
	case model.StatusPendente:
		subject = "Recebemos seu pedido " + ref
	case model.StatusConfirmada:
		subject = "Pedido " + ref + " confirmado"
	case model.StatusEntregue:
		subject = "Pedido " + ref + " entregue"
	case model.StatusCancelada:
		subject = "Pedido " + ref + " cancelado"
	default:
		subject = "Atualização do pedido " + ref
	}
	body = fmt.Sprintf("Olá %s,\n\nSeu pedido %s está com status %s.\nValor total: R$ %s\nItens: %d\n",
		v.Cliente.Nome, v.ID, status, v.ValorTotal.StringFixed(2), len(v.Itens))
	if status == model.StatusConfirmada || status == model.StatusEntregue {
		body += "\nO recibo segue em anexo.\n"
	}
	return subject, body
}
