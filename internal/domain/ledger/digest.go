package ledger

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// EmailSender is the part of the resend client used for digests.
type EmailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Digest emails a monthly summary with the month's workbook attached.
type Digest struct {
	sender EmailSender
	from   string
	to     []string
	logger *slog.Logger
}

// NewDigest creates a digest mailer. A nil sender disables sending.
func NewDigest(sender EmailSender, from string, to []string, logger *slog.Logger) *Digest {
	return &Digest{sender: sender, from: from, to: to, logger: logger}
}

// NewResendDigest builds a digest backed by resend, or a disabled digest when
// apiKey is empty.
func NewResendDigest(apiKey, from string, to []string, logger *slog.Logger) *Digest {
	var sender EmailSender
	if apiKey != "" {
		sender = resend.NewClient(apiKey).Emails
	}
	return NewDigest(sender, from, to, logger)
}

// Enabled reports whether Send will deliver anything.
func (d *Digest) Enabled() bool {
	return d != nil && d.sender != nil && len(d.to) > 0
}

var digestTemplate = template.Must(template.New("digest").Parse(`<h2>Spend summary for {{.Month}}</h2>
<p>Total spend: <strong>{{.Total}}</strong> across {{.Count}} transactions.</p>
{{if .Rows}}<table>
<tr><th align="left">Category</th><th align="right">Amount</th><th align="right">Count</th></tr>
{{range .Rows}}<tr><td style="background:{{.Color}}">{{.Category}}</td><td align="right">{{.Amount}}</td><td align="right">{{.Count}}</td></tr>
{{end}}</table>{{end}}`))

type digestRow struct {
	Category string
	Color    string
	Amount   string
	Count    int
}

// Send emails stats with the workbook attached. It is a no-op when the
// digest is disabled.
func (d *Digest) Send(ctx context.Context, stats MonthlyStats, workbook []byte) error {
	if !d.Enabled() {
		d.logger.Warn("resend client not configured, skipping monthly digest",
			slog.String("month", stats.Month.String()),
		)
		return nil
	}

	data := struct {
		Month string
		Total string
		Count int
		Rows  []digestRow
	}{
		Month: stats.Month.String(),
		Total: stats.TotalSpend.Display(),
		Count: stats.TransactionCount,
	}
	for _, c := range stats.TopCategories() {
		total := stats.Categories[c]
		data.Rows = append(data.Rows, digestRow{
			Category: string(c),
			Color:    c.Color(),
			Amount:   total.Amount.Display(),
			Count:    total.Count,
		})
	}

	var html bytes.Buffer
	if err := digestTemplate.Execute(&html, data); err != nil {
		return fmt.Errorf("failed to render digest: %w", err)
	}

	req := &resend.SendEmailRequest{
		From:    d.from,
		To:      d.to,
		Subject: fmt.Sprintf("Spend summary: %s", stats.Month),
		Html:    html.String(),
	}
	if len(workbook) > 0 {
		req.Attachments = []*resend.Attachment{{
			Content:     workbook,
			Filename:    stats.Month.String() + ".xlsx",
			ContentType: workbookContentType,
		}}
	}

	resp, err := d.sender.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to send monthly digest: %w", err)
	}

	d.logger.Info("monthly digest sent",
		slog.String("month", stats.Month.String()),
		slog.String("email_id", resp.Id),
	)
	return nil
}
