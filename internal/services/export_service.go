package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ExportService renders a client's current account as PDF or XLSX.
type ExportService struct {
	clientSvc *ClientService
}

// NewExportService creates a new export service
func NewExportService(clientSvc *ClientService) *ExportService {
	return &ExportService{clientSvc: clientSvc}
}

// StatementPDF renders the client's account statement
func (s *ExportService) StatementPDF(ctx context.Context, tenantID, clientID uint) ([]byte, string, error) {
	client, err := s.clientSvc.FindByID(ctx, tenantID, clientID)
	if err != nil {
		return nil, "", err
	}
	movements, err := s.clientSvc.Movements(ctx, tenantID, clientID)
	if err != nil {
		return nil, "", err
	}
	summary, err := s.clientSvc.AccountSummary(ctx, tenantID, clientID)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Resumen de Cuenta Corriente")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Cliente: %s", client.Name))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("CUIT: %s", client.CUIT))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Emitido: %s", time.Now().Format("02/01/2006")))
	pdf.Ln(10)

	// Table header
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(224, 224, 224)
	pdf.CellFormat(25, 7, "Fecha", "1", 0, "C", true, 0, "")
	pdf.CellFormat(85, 7, "Detalle", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Importe", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Saldo", "1", 0, "C", true, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, m := range movements {
		pdf.CellFormat(25, 6, m.MovementDate.Format("02/01/2006"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(85, 6, m.Detail, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, m.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, m.Balance.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Saldo actual: $%s", summary.Balance.StringFixed(2)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render statement PDF: %w", err)
	}

	filename := fmt.Sprintf("cuenta_corriente_%d_%s.pdf", clientID, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// MovementsXLSX exports the client's ledger as a spreadsheet
func (s *ExportService) MovementsXLSX(ctx context.Context, tenantID, clientID uint) ([]byte, string, error) {
	client, err := s.clientSvc.FindByID(ctx, tenantID, clientID)
	if err != nil {
		return nil, "", err
	}
	movements, err := s.clientSvc.Movements(ctx, tenantID, clientID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Movimientos"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", fmt.Sprintf("Cuenta corriente: %s", client.Name))
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	headers := []string{"Fecha", "Detalle", "Tipo", "Importe", "Saldo", "Usuario"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, m := range movements {
		row := i + 4
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.MovementDate.Format("02/01/2006"))
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.Detail)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), m.MovementType)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), m.Amount.StringFixed(2))
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), m.Balance.StringFixed(2))
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), m.User.FullName)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render movements XLSX: %w", err)
	}

	filename := fmt.Sprintf("movimientos_%d_%s.xlsx", clientID, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
