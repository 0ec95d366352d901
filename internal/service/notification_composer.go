package service

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	texttemplate "text/template"
	"time"

	"ylc-be-svc/internal/mailer"
	"ylc-be-svc/internal/models"
	"ylc-be-svc/internal/storage"
	"ylc-be-svc/pkg/logger"
)

// Composition holds the two messages for one submission. Customer is nil when no email was given.
type Composition struct {
	Operator      *mailer.Message
	Customer      *mailer.Message
	ReferenceCode string
}

// NotificationComposer renders the operator and customer emails
type NotificationComposer interface {
	Compose(ctx context.Context, req *SubmissionRequest, quoteID uint, images []models.StoredImage) (*Composition, error)
}

// ComposerConfig holds addressing and contact details rendered into the emails
type ComposerConfig struct {
	OperatorTo   string
	ContactPhone string
	BusinessName string
}

// NextSteps are shown to the customer after every submission
var NextSteps = []string{
	"We review your project details and photos.",
	"A local craftsman contacts you within 1-2 business days to discuss the work.",
	"We schedule a visit if needed and send you a written quote.",
}

type notificationComposer struct {
	config   ComposerConfig
	store    storage.ImageStore
	codes    ReferenceCodeGenerator
	logger   *logger.Logger
	now      func() time.Time
	opHTML   *htmltemplate.Template
	opText   *texttemplate.Template
	custHTML *htmltemplate.Template
	custText *texttemplate.Template
}

// NewNotificationComposer creates a new instance of NotificationComposer
func NewNotificationComposer(config ComposerConfig, store storage.ImageStore, codes ReferenceCodeGenerator, logger *logger.Logger) NotificationComposer {
	if config.BusinessName == "" {
		config.BusinessName = "Your Local Craftsman"
	}
	return &notificationComposer{
		config:   config,
		store:    store,
		codes:    codes,
		logger:   logger,
		now:      time.Now,
		opHTML:   htmltemplate.Must(htmltemplate.New("operator.html").Parse(operatorHTMLTemplate)),
		opText:   texttemplate.Must(texttemplate.New("operator.txt").Parse(operatorTextTemplate)),
		custHTML: htmltemplate.Must(htmltemplate.New("customer.html").Parse(customerHTMLTemplate)),
		custText: texttemplate.Must(texttemplate.New("customer.txt").Funcs(textFuncs).Parse(customerTextTemplate)),
	}
}

var textFuncs = texttemplate.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

type imageView struct {
	Index     int
	Name      string
	Type      string
	ContentID string
	Embedded  bool
}

type emailView struct {
	BusinessName  string
	QuoteID       uint
	ReferenceCode string
	Name          string
	Phone         string
	Email         string
	Service       string
	Budget        string
	Description   string
	Location      string
	SubmittedAt   string
	Images        []imageView
	NextSteps     []string
	ContactPhone  string
}

// Compose builds both messages. Stored image bytes are read back from the image store; an
// unreadable image is listed by name but not attached. When only the customer message fails
// to render, the composition is returned with the operator message and a NotificationError.
func (c *notificationComposer) Compose(ctx context.Context, req *SubmissionRequest, quoteID uint, images []models.StoredImage) (*Composition, error) {
	view := emailView{
		BusinessName: c.config.BusinessName,
		QuoteID:      quoteID,
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Service:      req.Service,
		Budget:       formatBudget(req.BudgetMin, req.BudgetMax),
		Description:  req.Description,
		Location:     req.Location,
		SubmittedAt:  c.now().Format("January 2, 2006 3:04 PM"),
		NextSteps:    NextSteps,
		ContactPhone: c.config.ContactPhone,
	}

	var attachments []mailer.Attachment
	for i, img := range images {
		iv := imageView{
			Index:     i + 1,
			Name:      img.OriginalName,
			Type:      img.MimeType,
			ContentID: fmt.Sprintf("image%d", i+1),
		}
		content, err := c.readImage(ctx, img)
		if err != nil {
			c.logger.WithError(err).WithFields(map[string]interface{}{
				"quote_id":    quoteID,
				"stored_name": img.StoredName,
			}).Warn("Failed to read stored image for attachment")
		} else {
			iv.Embedded = true
			attachments = append(attachments, mailer.Attachment{
				Content:     content,
				Filename:    img.OriginalName,
				ContentType: img.MimeType,
				ContentID:   iv.ContentID,
			})
		}
		view.Images = append(view.Images, iv)
	}

	operator, err := c.render(c.opHTML, c.opText, view)
	if err != nil {
		return nil, &NotificationError{Kind: models.NotificationKindOperator, Recipient: c.config.OperatorTo, Err: err}
	}
	operator.To = c.config.OperatorTo
	operator.Subject = fmt.Sprintf("New Quote Request #%d - %s", quoteID, req.Service)
	operator.Attachments = attachments

	composition := &Composition{Operator: operator}

	if req.Email == "" {
		return composition, nil
	}

	view.ReferenceCode = c.codes.Generate(quoteID)
	customer, err := c.render(c.custHTML, c.custText, view)
	if err != nil {
		// the operator message stays deliverable
		return composition, &NotificationError{Kind: models.NotificationKindCustomer, Recipient: req.Email, Err: err}
	}
	customer.To = req.Email
	customer.Subject = fmt.Sprintf("We received your quote request (%s)", view.ReferenceCode)

	composition.Customer = customer
	composition.ReferenceCode = view.ReferenceCode
	return composition, nil
}

func (c *notificationComposer) readImage(ctx context.Context, img models.StoredImage) ([]byte, error) {
	rc, err := c.store.Open(ctx, img.StoredName)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, MaxImageSize+1))
}

func (c *notificationComposer) render(html *htmltemplate.Template, text *texttemplate.Template, view emailView) (*mailer.Message, error) {
	var htmlBuf, textBuf bytes.Buffer
	if err := html.Execute(&htmlBuf, view); err != nil {
		return nil, fmt.Errorf("failed to render html body: %w", err)
	}
	if err := text.Execute(&textBuf, view); err != nil {
		return nil, fmt.Errorf("failed to render text body: %w", err)
	}
	return &mailer.Message{
		HTML: htmlBuf.String(),
		Text: strings.TrimSpace(textBuf.String()) + "\n",
	}, nil
}

func formatBudget(min, max int) string {
	switch {
	case min == 0 && max == 0:
		return "Not specified"
	case max == 0:
		return fmt.Sprintf("From $%s", groupThousands(min))
	case min == 0:
		return fmt.Sprintf("Up to $%s", groupThousands(max))
	default:
		return fmt.Sprintf("$%s - $%s", groupThousands(min), groupThousands(max))
	}
}

func groupThousands(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

const operatorHTMLTemplate = `<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background:#f4f4f4;font-family:Arial,Helvetica,sans-serif;color:#333;">
<table width="100%" cellpadding="0" cellspacing="0" style="max-width:640px;margin:0 auto;background:#ffffff;">
  <tr><td style="background:#1f3a5f;color:#ffffff;padding:20px;">
    <h1 style="margin:0;font-size:22px;">New Quote Request #{{.QuoteID}}</h1>
    <p style="margin:4px 0 0;font-size:13px;">Received {{.SubmittedAt}}</p>
  </td></tr>
  <tr><td style="padding:20px;">
    <h2 style="font-size:16px;border-bottom:1px solid #ddd;padding-bottom:6px;">Contact</h2>
    <p><strong>Name:</strong> {{.Name}}<br>
    <strong>Phone:</strong> <a href="tel:{{.Phone}}">{{.Phone}}</a><br>
    <strong>Email:</strong> {{if .Email}}<a href="mailto:{{.Email}}">{{.Email}}</a>{{else}}Not provided{{end}}<br>
    <strong>Location:</strong> {{.Location}}</p>
    <h2 style="font-size:16px;border-bottom:1px solid #ddd;padding-bottom:6px;">Project</h2>
    <p><strong>Service:</strong> {{.Service}}<br>
    <strong>Budget:</strong> {{.Budget}}</p>
    <p style="white-space:pre-wrap;">{{.Description}}</p>
    <h2 style="font-size:16px;border-bottom:1px solid #ddd;padding-bottom:6px;">Images</h2>
    {{- if .Images}}
    {{- range .Images}}
    <div style="margin-bottom:16px;">
      <p style="margin:0 0 6px;font-size:13px;">Image {{.Index}}: {{.Name}}</p>
      {{- if .Embedded}}
      <img src="cid:{{.ContentID}}" alt="{{.Name}}" style="max-width:100%;border:1px solid #ddd;">
      {{- else}}
      <p style="margin:0;font-size:13px;color:#999;">(image could not be attached)</p>
      {{- end}}
    </div>
    {{- end}}
    {{- else}}
    <p style="color:#999;">No images uploaded</p>
    {{- end}}
  </td></tr>
</table>
</body>
</html>
`

const operatorTextTemplate = `NEW QUOTE REQUEST #{{.QuoteID}}
Received {{.SubmittedAt}}

CONTACT
Name: {{.Name}}
Phone: {{.Phone}}
Email: {{if .Email}}{{.Email}}{{else}}Not provided{{end}}
Location: {{.Location}}

PROJECT
Service: {{.Service}}
Budget: {{.Budget}}

{{.Description}}

IMAGES
{{- if .Images}}
{{- range .Images}}
Image {{.Index}}: {{.Name}}{{if not .Embedded}} (could not be attached){{end}}
{{- end}}
{{- else}}
No images uploaded
{{- end}}
`

const customerHTMLTemplate = `<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background:#f4f4f4;font-family:Arial,Helvetica,sans-serif;color:#333;">
<table width="100%" cellpadding="0" cellspacing="0" style="max-width:640px;margin:0 auto;background:#ffffff;">
  <tr><td style="background:#1f3a5f;color:#ffffff;padding:20px;">
    <h1 style="margin:0;font-size:22px;">Thank you, {{.Name}}!</h1>
    <p style="margin:4px 0 0;font-size:13px;">We received your quote request.</p>
  </td></tr>
  <tr><td style="padding:20px;">
    <p style="font-size:15px;">Your reference code is <strong style="font-family:monospace;font-size:18px;">{{.ReferenceCode}}</strong>. Please mention it when you contact us.</p>
    <h2 style="font-size:16px;border-bottom:1px solid #ddd;padding-bottom:6px;">Your project</h2>
    <p><strong>Service:</strong> {{.Service}}<br>
    <strong>Location:</strong> {{.Location}}<br>
    <strong>Budget:</strong> {{.Budget}}</p>
    <p style="white-space:pre-wrap;">{{.Description}}</p>
    <h2 style="font-size:16px;border-bottom:1px solid #ddd;padding-bottom:6px;">What happens next</h2>
    <ol>
    {{- range .NextSteps}}
      <li style="margin-bottom:6px;">{{.}}</li>
    {{- end}}
    </ol>
    <p>Questions? Call us at <a href="tel:{{.ContactPhone}}">{{.ContactPhone}}</a>.</p>
    <p style="font-size:13px;color:#777;">{{.BusinessName}}</p>
  </td></tr>
</table>
</body>
</html>
`

const customerTextTemplate = `Thank you, {{.Name}}!

We received your quote request.
Your reference code is {{.ReferenceCode}}. Please mention it when you contact us.

YOUR PROJECT
Service: {{.Service}}
Location: {{.Location}}
Budget: {{.Budget}}

{{.Description}}

WHAT HAPPENS NEXT
{{- range $i, $step := .NextSteps}}
{{inc $i}}. {{$step}}
{{- end}}

Questions? Call us at {{.ContactPhone}}.

{{.BusinessName}}
`
