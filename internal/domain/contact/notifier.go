package contact

import (
	"bytes"
	"context"
	"html/template"
	"sync"
	"time"

	"go.uber.org/zap"

	"diezagency/internal/i18n"
	"diezagency/internal/locale"
	"diezagency/internal/pkg/mailer"
	"diezagency/internal/realtime"
)

const mailTimeout = 30 * time.Second

var leadMail = template.Must(template.New("lead").Parse(`<h2>{{.Intro}}</h2>
<table cellpadding="6">
<tr><td><strong>{{.Label "first_name"}}</strong></td><td>{{.C.FirstName}}</td></tr>
<tr><td><strong>{{.Label "need"}}</strong></td><td>{{.Need}}</td></tr>
<tr><td><strong>{{.Label "budget"}}</strong></td><td>{{.Budget}}</td></tr>
<tr><td><strong>{{.Label "timeline"}}</strong></td><td>{{.Timeline}}</td></tr>
<tr><td><strong>{{.Label "email"}}</strong></td><td><a href="mailto:{{.C.Email}}">{{.C.Email}}</a></td></tr>
{{if .C.Phone}}<tr><td><strong>{{.Label "phone"}}</strong></td><td>{{.C.Phone}}</td></tr>{{end}}
<tr><td><strong>{{.Label "lang"}}</strong></td><td>{{.C.Lang}}</td></tr>
</table>
<p style="white-space:pre-wrap">{{.C.Description}}</p>
`))

type leadMailData struct {
	Intro    string
	Need     string
	Budget   string
	Timeline string
	C        *Contact

	lang    locale.Locale
	catalog *i18n.Catalog
}

// Label returns the localized caption of a mail row.
func (d leadMailData) Label(field string) string {
	return d.catalog.T(d.lang, "email.lead.labels."+field)
}

// LeadNotifier mails the agency inbox and pushes dashboard events. Mail is
// sent in the background; failures are logged only.
type LeadNotifier struct {
	sender  mailer.Sender
	to      string
	catalog *i18n.Catalog
	pub     realtime.Publisher
	log     *zap.Logger
	wg      sync.WaitGroup
}

func NewLeadNotifier(sender mailer.Sender, to string, catalog *i18n.Catalog, pub realtime.Publisher, log *zap.Logger) *LeadNotifier {
	return &LeadNotifier{sender: sender, to: to, catalog: catalog, pub: pub, log: log}
}

func (n *LeadNotifier) LeadCreated(ctx context.Context, c *Contact) {
	n.pub.Publish(realtime.EventContactCreated, c)

	if n.sender == nil || n.to == "" {
		return
	}
	msg, err := n.buildMail(c)
	if err != nil {
		n.log.Error("render lead mail", zap.Int64("contact_id", c.ID), zap.Error(err))
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mailTimeout)
		defer cancel()
		if err := n.sender.Send(sendCtx, msg); err != nil {
			n.log.Error("lead notification mail failed", zap.Int64("contact_id", c.ID), zap.Error(err))
		}
	}()
}

func (n *LeadNotifier) StatusChanged(_ context.Context, c *Contact) {
	n.pub.Publish(realtime.EventContactUpdated, map[string]any{"id": c.ID, "status": c.Status})
}

// Wait blocks until pending mails are handed to the SMTP server.
func (n *LeadNotifier) Wait() {
	n.wg.Wait()
}

// buildMail renders the inbox notification in the agency's own language.
func (n *LeadNotifier) buildMail(c *Contact) (mailer.Message, error) {
	l := locale.Primary
	data := leadMailData{
		Intro:    n.catalog.T(l, "email.lead.intro"),
		Need:     n.catalog.T(l, "contact.need."+string(c.Need)),
		Budget:   n.catalog.T(l, "contact.budget."+string(c.Budget)),
		Timeline: n.catalog.T(l, "contact.timeline."+string(c.Timeline)),
		C:        c,
		lang:     l,
		catalog:  n.catalog,
	}

	var body bytes.Buffer
	if err := leadMail.Execute(&body, data); err != nil {
		return mailer.Message{}, err
	}
	return mailer.Message{
		To:       n.to,
		ReplyTo:  c.Email,
		Subject:  n.catalog.T(l, "email.lead.subject", c.FirstName, data.Need),
		HTMLBody: body.String(),
	}, nil
}
