// internal/label/export.go
package label

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/lacra/agritrace-backend/internal/models"
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func accuracy(a *models.GPSAccuracy) string {
	if a == nil {
		return ""
	}
	return string(*a)
}

// CertificateFileName is the download name for a certificate export.
func CertificateFileName(code string) string {
	return "certificate-" + code + ".csv"
}

// CertificateCSV writes one Field,Value row per certificate attribute.
func CertificateCSV(c *models.Commodity) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("certificate requires a commodity record")
	}

	rows := [][]string{
		{"Field", "Value"},
		{"Batch Number", c.BatchNumber},
		{"Commodity", c.Name},
		{"Crop Type", c.Type},
		{"Quantity", c.Quantity.StringFixed(2)},
		{"Unit", c.Unit},
		{"Quality Grade", c.QualityGrade.Label()},
		{"County", c.County},
		{"District", c.District},
		{"Farmer", deref(c.FarmerName)},
		{"Harvest Date", c.HarvestDate.Format("2006-01-02")},
		{"GPS Coordinates", deref(c.GPSCoordinates)},
		{"GPS Accuracy", accuracy(c.GPSAccuracy)},
		{"Status", string(c.Status)},
		{"Registered At", c.CreatedAt.UTC().Format(time.RFC3339)},
	}
	if c.ReviewedBy != nil {
		rows = append(rows, []string{"Reviewed By", *c.ReviewedBy})
	}
	if c.ReviewedAt != nil {
		rows = append(rows, []string{"Reviewed At", c.ReviewedAt.UTC().Format(time.RFC3339)})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write certificate: %w", err)
	}
	return buf.Bytes(), nil
}

const workbookSheet = "Commodities"

var workbookHeaders = []string{
	"Batch Number", "Commodity", "Crop Type", "Quantity", "Unit", "Quality Grade",
	"County", "District", "Farmer", "Harvest Date", "GPS Coordinates", "GPS Accuracy", "Status",
}

// CommodityWorkbook exports records as a single-sheet XLSX file.
func CommodityWorkbook(records []models.Commodity) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", workbookSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DCFCE7"}},
	})

	for i, h := range workbookHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(workbookSheet, cell, h)
		f.SetCellStyle(workbookSheet, cell, cell, boldStyle)
	}

	for i := range records {
		c := &records[i]
		row := i + 2
		quantity, _ := c.Quantity.Float64()
		values := []interface{}{
			c.BatchNumber, c.Name, c.Type, quantity, c.Unit, c.QualityGrade.Label(),
			c.County, c.District, deref(c.FarmerName), c.HarvestDate.Format("2006-01-02"),
			deref(c.GPSCoordinates), accuracy(c.GPSAccuracy), string(c.Status),
		}
		for j, v := range values {
			col, _ := excelize.ColumnNumberToName(j + 1)
			f.SetCellValue(workbookSheet, fmt.Sprintf("%s%d", col, row), v)
		}
	}

	widths := []float64{24, 18, 14, 10, 8, 20, 18, 16, 22, 12, 28, 10, 12}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(workbookSheet, col, col, w)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
