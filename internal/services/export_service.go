package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/azizjun/kvartal-api/internal/repository"
)

// ExportService renders contract and payment data as spreadsheet downloads
type ExportService struct {
	contractRepo repository.ContractRepository
	paymentRepo  repository.PaymentRepository
	analyticsSvc *AnalyticsService
}

func NewExportService(contractRepo repository.ContractRepository, paymentRepo repository.PaymentRepository, analyticsSvc *AnalyticsService) *ExportService {
	return &ExportService{
		contractRepo: contractRepo,
		paymentRepo:  paymentRepo,
		analyticsSvc: analyticsSvc,
	}
}

// ExportContractsXLSX writes the filtered contract list into a workbook.
func (s *ExportService) ExportContractsXLSX(ctx context.Context, query *repository.ContractQuery) ([]byte, string, error) {
	contracts, _, err := s.contractRepo.List(ctx, query)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Contracts"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	headers := []string{"Contract #", "Client", "Apartment", "Block", "Total", "Paid", "Remaining", "Status", "Start Date"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, c := range contracts {
		values := []interface{}{
			c.ContractNumber,
			c.Client.FullName,
			c.Apartment.ApartmentNumber,
			c.Apartment.Block.Name,
			c.TotalAmount,
			c.PaidAmount,
			c.RemainingAmount(),
			c.Status,
			c.StartDate.Format("2006-01-02"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "I", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("contracts_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportPaymentsXLSX writes the filtered payment list into a workbook.
func (s *ExportService) ExportPaymentsXLSX(ctx context.Context, query *repository.PaymentQuery) ([]byte, string, error) {
	payments, _, err := s.paymentRepo.List(ctx, query)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Payments"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	headers := []string{"Payment #", "Contract #", "Client", "Amount", "Type", "Status", "Due Date"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, p := range payments {
		values := []interface{}{
			p.PaymentNumber,
			p.Contract.ContractNumber,
			p.Contract.Client.FullName,
			p.Amount,
			p.PaymentType,
			p.Status,
			p.PaymentDate.Format("2006-01-02"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "G", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("payments_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportDashboardCSV writes the dashboard summary as CSV.
func (s *ExportService) ExportDashboardCSV(ctx context.Context) ([]byte, string, error) {
	data, err := s.analyticsSvc.GetDashboard(ctx, 12)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Sales report", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})

	_ = writer.Write([]string{"Summary"})
	_ = writer.Write([]string{"Metric", "Value"})
	_ = writer.Write([]string{"Complexes", fmt.Sprintf("%d", data.Summary.TotalComplexes)})
	_ = writer.Write([]string{"Blocks", fmt.Sprintf("%d", data.Summary.TotalBlocks)})
	_ = writer.Write([]string{"Apartments", fmt.Sprintf("%d", data.Summary.TotalApartments)})
	_ = writer.Write([]string{"Sold", fmt.Sprintf("%d", data.Summary.SoldApartments)})
	_ = writer.Write([]string{"Reserved", fmt.Sprintf("%d", data.Summary.ReservedApartments)})
	_ = writer.Write([]string{"Available", fmt.Sprintf("%d", data.Summary.AvailableApartments)})
	_ = writer.Write([]string{"Active contracts", fmt.Sprintf("%d", data.Summary.ActiveContracts)})
	_ = writer.Write([]string{"Revenue", fmt.Sprintf("%.2f", data.Summary.TotalRevenue)})
	_ = writer.Write([]string{"Outstanding", fmt.Sprintf("%.2f", data.Summary.OutstandingAmount)})
	_ = writer.Write([]string{""})

	_ = writer.Write([]string{"Occupancy by complex"})
	_ = writer.Write([]string{"Complex", "Total", "Sold", "Reserved", "Available"})
	for _, o := range data.ComplexOccupancy {
		_ = writer.Write([]string{
			o.ComplexName,
			fmt.Sprintf("%d", o.Total),
			fmt.Sprintf("%d", o.Sold),
			fmt.Sprintf("%d", o.Reserved),
			fmt.Sprintf("%d", o.Available),
		})
	}

	writer.Flush()

	filename := fmt.Sprintf("dashboard_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
