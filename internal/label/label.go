// internal/label/label.go
package label

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/lacra/agritrace-backend/internal/batchcode"
	"github.com/lacra/agritrace-backend/internal/errs"
	"github.com/lacra/agritrace-backend/internal/models"
)

const (
	DefaultOrganization = "LACRA - AgriTrace360™"
	defaultQRSize       = 160
)

// Draft carries the form values used for a label printed before the
// commodity has been registered.
type Draft struct {
	CropType  string
	County    string
	Latitude  string
	Longitude string
}

type Options struct {
	// VerifyBaseURL is joined with the batch code to form the QR payload.
	// Empty omits the QR code.
	VerifyBaseURL string
	Organization  string
	QRSize        int
	Clock         func() time.Time
	Draft         *Draft
}

type detailRow struct {
	Label     string
	Value     string
	Monospace bool
}

type labelView struct {
	BatchCode    string
	Organization string
	Rows         []detailRow
	QRDataURI    template.URL
	VerifyHost   string
	GeneratedAt  string
}

// FileName is the download name for a rendered label.
func FileName(code string) string {
	return "batch-label-" + code + ".html"
}

// VerifyURL is the public verification address encoded in the QR code.
func VerifyURL(baseURL, code string) string {
	if baseURL == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/" + url.PathEscape(code)
}

// Render produces the printable HTML label for code. With a nil record the
// draft layout is used. Rendering is pure; the only varying input is the
// generated-at line taken from opts.Clock.
func Render(code string, record *models.Commodity, opts Options) ([]byte, error) {
	if _, err := batchcode.Parse(code); err != nil {
		return nil, err
	}
	if record != nil && record.BatchNumber != "" && record.BatchNumber != code {
		return nil, errs.Validation("batch_number", fmt.Sprintf("record belongs to %s, not %s", record.BatchNumber, code))
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	org := opts.Organization
	if org == "" {
		org = DefaultOrganization
	}

	view := labelView{
		BatchCode:    code,
		Organization: org,
		GeneratedAt:  clock().Format("2006-01-02 15:04 MST"),
	}
	if record != nil {
		view.Rows = recordRows(record)
	} else {
		view.Rows = draftRows(opts.Draft, clock())
	}

	if verifyURL := VerifyURL(opts.VerifyBaseURL, code); verifyURL != "" {
		size := opts.QRSize
		if size <= 0 {
			size = defaultQRSize
		}
		png, err := qrcode.Encode(verifyURL, qrcode.Medium, size)
		if err != nil {
			return nil, fmt.Errorf("failed to encode label QR code: %w", err)
		}
		view.QRDataURI = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
		if u, err := url.Parse(opts.VerifyBaseURL); err == nil && u.Host != "" {
			view.VerifyHost = u.Host
		}
	}

	var buf bytes.Buffer
	if err := labelTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render label: %w", err)
	}
	return buf.Bytes(), nil
}

func recordRows(c *models.Commodity) []detailRow {
	crop := batchcode.CropLabel(c.Type)
	rows := []detailRow{{Label: "Crop", Value: crop}}
	if c.Name != "" && !strings.EqualFold(c.Name, crop) {
		rows = append(rows, detailRow{Label: "Commodity", Value: c.Name})
	}
	rows = append(rows, []detailRow{
		{Label: "County", Value: c.County},
		{Label: "Quantity", Value: c.Quantity.StringFixed(2) + " " + c.Unit},
		{Label: "Quality", Value: c.QualityGrade.Label()},
		{Label: "Harvest", Value: c.HarvestDate.Format("2006-01-02")},
	}...)
	if c.FarmerName != nil && *c.FarmerName != "" {
		rows = append(rows, detailRow{Label: "Farmer", Value: *c.FarmerName})
	}
	if c.GPSCoordinates != nil && *c.GPSCoordinates != "" {
		rows = append(rows, detailRow{Label: "GPS", Value: *c.GPSCoordinates, Monospace: true})
	}
	if c.GPSAccuracy != nil && *c.GPSAccuracy != "" {
		rows = append(rows, detailRow{Label: "Accuracy", Value: string(*c.GPSAccuracy)})
	}
	return rows
}

func draftRows(d *Draft, now time.Time) []detailRow {
	if d == nil {
		d = &Draft{}
	}
	crop := "N/A"
	if d.CropType != "" {
		crop = batchcode.CropLabel(d.CropType)
	}
	rows := []detailRow{
		{Label: "Crop", Value: crop},
		{Label: "County", Value: d.County},
		{Label: "Generated", Value: now.Format("2006-01-02")},
	}
	if d.Latitude != "" && d.Longitude != "" {
		rows = append(rows, detailRow{Label: "GPS", Value: d.Latitude + ", " + d.Longitude, Monospace: true})
	}
	return rows
}

var labelTemplate = template.Must(template.New("label").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Batch Code Label - {{.BatchCode}}</title>
<style>
body { font-family: 'Arial', sans-serif; margin: 0; padding: 20px; background: #f9fafb; }
.label { background: white; border: 2px solid #16a34a; width: 400px; margin: 0 auto; padding: 20px; }
.header { text-align: center; border-bottom: 1px solid #16a34a; padding-bottom: 10px; margin-bottom: 15px; }
.logo { color: #16a34a; font-size: 18px; font-weight: bold; }
.batch-code { font-size: 24px; font-weight: bold; text-align: center; background: #f0f9ff; padding: 10px; border-radius: 5px; margin: 15px 0; letter-spacing: 2px; }
.details { font-size: 12px; }
.detail-row { display: flex; justify-content: space-between; margin: 5px 0; }
.mono { font-family: monospace; font-size: 10px; }
.qr { display: block; width: 120px; height: 120px; margin: 10px auto; }
.footer { text-align: center; font-size: 10px; margin-top: 10px; color: #666; }
</style>
</head>
<body>
<div class="label">
<div class="header">
<div class="logo">{{.Organization}}</div>
<div style="font-size: 14px; font-weight: bold;">CROP BATCH LABEL</div>
</div>
<div class="batch-code" data-field="batch-code">{{.BatchCode}}</div>
<div class="details">
{{- range .Rows}}
<div class="detail-row"><span><strong>{{.Label}}:</strong></span><span{{if .Monospace}} class="mono"{{end}}>{{.Value}}</span></div>
{{- end}}
</div>
{{- if .QRDataURI}}
<img class="qr" alt="Verification QR code" src="{{.QRDataURI}}">
{{- end}}
<div class="footer">
{{- if .QRDataURI}}
<p>Scan QR code to verify authenticity</p>
{{- end}}
{{- if .VerifyHost}}
<p>For verification visit: {{.VerifyHost}}</p>
{{- end}}
<p>Generated at {{.GeneratedAt}}</p>
</div>
</div>
</body>
</html>
`))
