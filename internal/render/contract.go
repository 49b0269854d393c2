// Package render produces the human-readable contract document shown to
// both parties before signing. The HTML is the canonical representation;
// the PDF is a derived artifact generated once at draft time.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"renthub-backend/internal/domain"
)

type ContractData struct {
	Contract *domain.Contract
	Product  *domain.Product
	Owner    *domain.User
	Renter   *domain.User
	Order    *domain.Order
}

var contractTemplate = template.Must(template.New("contract").Funcs(template.FuncMap{
	"date":  func(t time.Time) string { return t.Format("January 2, 2006") },
	"money": formatAmount,
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Rental Contract {{.Contract.ContractNumber}}</title></head>
<body>
<h1>Rental Contract</h1>
<p>Contract No. <strong>{{.Contract.ContractNumber}}</strong> &mdash; Order {{.Order.OrderNumber}}</p>

<h2>Parties</h2>
<p>Owner: {{.Owner.Name}} ({{.Owner.Email}})<br>
Renter: {{.Renter.Name}} ({{.Renter.Email}})</p>

<h2>Item</h2>
<p>{{.Product.Name}}{{if .Product.Description}} &mdash; {{.Product.Description}}{{end}}</p>

<h2>Rental Period</h2>
<p>From {{date .Contract.Terms.StartDate}} to {{date .Contract.Terms.EndDate}}.</p>

<h2>Financial Terms</h2>
<table>
<tr><td>Daily rate</td><td>{{money .Contract.Terms.RentalRate}}</td></tr>
<tr><td>Security deposit</td><td>{{money .Contract.Terms.Deposit}}</td></tr>
<tr><td>Total due</td><td>{{money .Contract.Terms.Total}}</td></tr>
</table>

<h2>Penalties</h2>
<p>Late return is billed per overdue day at {{.Contract.Terms.LatePenaltyRate}}&times; the daily rate.
Damage is assessed on return and deducted from the deposit{{if .Contract.Terms.DamagePenalty}},
up to {{money .Contract.Terms.DamagePenalty}}{{end}}.</p>

<h2>Signatures</h2>
<p>This contract takes effect once both parties have signed. Each signature
is verified by a one-time code sent to the signer's email address.</p>
<p>Signing window closes {{date .Contract.ExpiresAt}}.</p>
</body>
</html>`))

// RenderContractHTML fills the contract template. The output is stored on
// the contract row so the document both parties signed is preserved even if
// the template changes later.
func RenderContractHTML(data ContractData) (string, error) {
	var buf bytes.Buffer
	if err := contractTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render contract: %w", err)
	}
	return buf.String(), nil
}

func formatAmount(v int64) string {
	s := fmt.Sprintf("%d", v)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}

// PDFGenerator turns a rendered contract into a downloadable document and
// returns its URL.
type PDFGenerator interface {
	Generate(ctx context.Context, contractNumber, html string) (string, error)
}

// FilePDFGenerator writes documents to the local filesystem and serves them
// under baseURL. It stands in for a real document service in development
// and single-node deployments.
type FilePDFGenerator struct {
	outputDir string
	baseURL   string
}

func NewFilePDFGenerator(outputDir, baseURL string) (*FilePDFGenerator, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create contract output directory: %w", err)
	}
	return &FilePDFGenerator{outputDir: outputDir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (g *FilePDFGenerator) Generate(ctx context.Context, contractNumber, html string) (string, error) {
	filename := fmt.Sprintf("%s.html", contractNumber)
	path := filepath.Join(g.outputDir, filename)
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("failed to write contract document: %w", err)
	}
	return fmt.Sprintf("%s/contracts/%s", g.baseURL, filename), nil
}
