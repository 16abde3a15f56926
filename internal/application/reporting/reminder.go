package reporting

import (
	"strings"
	"text/template"
	"time"

	"github.com/turtacn/PatentVault/internal/domain/patent"
	"github.com/turtacn/PatentVault/pkg/errors"
)

const (
	// ReminderSender is the From header of every reminder.
	ReminderSender = "PatentVault System <no-reply@patentvault.com>"

	recipientsUnset = "尚未設定 (請至編輯頁面新增)"
	mailboxUnset    = "未設定信箱"
)

var reminderBody = template.Must(template.New("reminder").Parse(
	`以下專利請於{{.AnnuityDate}}(即年費到期日)前繳納年費，避免專利失效。

專利名稱：{{.Name}}
申請國家：{{.Country}}
專利權人：{{.Patentee}}
申請號/公開號：{{.AppNumber}} / {{.PubNumber}}
專利期間：{{.Duration}}
年費到期日/年次：{{.AnnuityDate}}，第{{.AnnuityYear}}年`))

// Reminder is an annuity payment notice for one patent.
type Reminder struct {
	PatentID   string   `json:"patentId"`
	From       string   `json:"from"`
	To         []string `json:"to"`
	ToDisplay  string   `json:"toDisplay"`
	Date       string   `json:"date"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	Configured bool     `json:"recipientsConfigured"`
}

// PlainText renders the reminder for copying into a mail client.
func (r Reminder) PlainText() string {
	return "Subject: " + r.Subject + "\n\n" + r.Body
}

// NewReminder builds the reminder for p dated now (UTC calendar date).
func NewReminder(p *patent.Patent, now time.Time) (Reminder, error) {
	if p == nil {
		return Reminder{}, errors.InvalidParam("patent is required")
	}
	body, err := render(reminderBody, p)
	if err != nil {
		return Reminder{}, err
	}

	to := p.Recipients()
	display := strings.TrimSpace(p.NotificationEmails)
	if display == "" {
		display = recipientsUnset
	}
	return Reminder{
		PatentID:   p.ID,
		From:       ReminderSender,
		To:         to,
		ToDisplay:  display,
		Date:       now.UTC().Format(patent.DateLayout),
		Subject:    "【專利繳費提醒】" + p.Name + "專利",
		Body:       strings.TrimSpace(body),
		Configured: len(to) > 0,
	}, nil
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to render template").WithDetail(tmpl.Name())
	}
	return sb.String(), nil
}

// SendResult reports a simulated delivery.
type SendResult struct {
	Reminder   Reminder `json:"reminder"`
	Recipients []string `json:"recipients"`
	Message    string   `json:"message"`
}

func sendMessage(p *patent.Patent) string {
	target := strings.TrimSpace(p.NotificationEmails)
	if target == "" {
		target = mailboxUnset
	}
	return "模擬發送成功！\n已將信件寄送至：" + target
}

//Personal.AI order the ending
