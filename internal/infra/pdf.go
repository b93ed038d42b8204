package infra

// pdf.go: sale receipt rendered with go-pdf/fpdf.
// Layout: store header, sale id / date / status, cliente, item table
// (produto, quantidade, preço unitário, subtotal) and the bold total.
// The file is saved to storagePath/recibo_{venda_id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"simplesales/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReciboPDF renders a receipt for venda, which must have Cliente and
// Itens.Produto loaded. Returns the path of the written file.
func GenerateReciboPDF(venda *model.Venda, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	filePath := filepath.Join(storagePath, fmt.Sprintf("recibo_%s.pdf", venda.ID))

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(8, 8, 8)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 16

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Simple Sales", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr("Recibo de Venda"), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, "Venda: "+venda.ID.String(), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, "Data: "+venda.DataVenda.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, "Status: "+string(venda.Status), "", 1, "L", false, 0, "")
	if venda.Cliente != nil {
		pdf.CellFormat(contentW, 4, tr("Cliente: "+venda.Cliente.Nome), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(8, pdf.GetY(), pageW-8, pdf.GetY())
	pdf.Ln(2)

	// ── Items ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.46
	col2 := contentW * 0.12
	col3 := contentW * 0.20
	col4 := contentW * 0.22

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 5, "Produto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qtd", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, tr("Preço"), "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, item := range venda.Itens {
		nome := item.ProdutoID.String()[:8]
		if item.Produto != nil {
			nome = item.Produto.Nome
		}
		if r := []rune(nome); len(r) > 34 {
			nome = string(r[:33]) + "."
		}
		pdf.CellFormat(col1, 5, tr(nome), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("%d", item.Quantidade), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "R$ "+item.PrecoUnitario.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, "R$ "+item.Subtotal().StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(8, pdf.GetY(), pageW-8, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1+col2+col3, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 6, "R$ "+venda.ValorTotal.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 4, tr("Obrigado pela preferência!"), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
