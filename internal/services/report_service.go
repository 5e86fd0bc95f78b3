package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"

	"github.com/azizjun/kvartal-api/internal/repository"
)

// ReportService renders printable PDF documents
type ReportService struct {
	contractRepo repository.ContractRepository
	paymentRepo  repository.PaymentRepository
}

func NewReportService(contractRepo repository.ContractRepository, paymentRepo repository.PaymentRepository) *ReportService {
	return &ReportService{
		contractRepo: contractRepo,
		paymentRepo:  paymentRepo,
	}
}

// GenerateContractStatement renders a payment statement for one contract.
func (s *ReportService) GenerateContractStatement(ctx context.Context, contractID uint) (*bytes.Buffer, string, error) {
	contract, err := s.contractRepo.FindByIDWithDetails(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Contract %s", contract.ContractNumber), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Contract Statement")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	writeLine := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}

	writeLine("Contract:", contract.ContractNumber)
	writeLine("Client:", contract.Client.FullName)
	writeLine("Phone:", contract.Client.Phone)
	writeLine("Apartment:", fmt.Sprintf("%s, block %s", contract.Apartment.ApartmentNumber, contract.Apartment.Block.Name))
	if contract.Apartment.Block.Complex != nil {
		writeLine("Complex:", contract.Apartment.Block.Complex.Name)
	}
	writeLine("Status:", contract.Status)
	writeLine("Start date:", contract.StartDate.Format("2006-01-02"))
	pdf.Ln(4)

	writeLine("Total amount:", fmt.Sprintf("%.2f", contract.TotalAmount))
	writeLine("Paid:", fmt.Sprintf("%.2f (%.1f%%)", contract.PaidAmount, contract.PercentPaid()))
	writeLine("Remaining:", fmt.Sprintf("%.2f", contract.RemainingAmount()))
	pdf.Ln(8)

	// Payment table
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(224, 224, 224)
	pdf.CellFormat(35, 8, "Payment #", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 0, "R", true, 0, "")
	pdf.CellFormat(28, 8, "Type", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Status", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, p := range contract.Payments {
		pdf.CellFormat(35, 7, p.PaymentNumber, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, p.PaymentDate.Format("2006-01-02"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", p.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(28, 7, p.PaymentType, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, p.Status, "1", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02 15:04")))

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("contract_%s.pdf", contract.ContractNumber)
	return buf, filename, nil
}

// GenerateOverduePaymentsReport renders the list of overdue payments.
func (s *ReportService) GenerateOverduePaymentsReport(ctx context.Context) (*bytes.Buffer, string, error) {
	payments, err := s.paymentRepo.FindOverdue(ctx, time.Now())
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Overdue Payments", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Overdue Payments")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(224, 224, 224)
	pdf.CellFormat(35, 8, "Payment #", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Contract #", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 8, "Client", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, "Due date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Days late", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	var total float64
	for _, p := range payments {
		pdf.CellFormat(35, 7, p.PaymentNumber, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, p.Contract.ContractNumber, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, p.Contract.Client.FullName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", p.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, p.PaymentDate.Format("2006-01-02"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", p.OverdueDays()), "1", 1, "R", false, 0, "")
		total += p.Amount
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Total overdue: %.2f (%d payments)", total, len(payments)))

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("overdue_payments_%s.pdf", time.Now().Format("2006-01-02"))
	return buf, filename, nil
}
