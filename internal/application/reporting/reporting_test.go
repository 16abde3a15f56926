package reporting

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"text/template"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/turtacn/PatentVault/internal/domain/patent"
	"github.com/turtacn/PatentVault/internal/testutil"
	"github.com/turtacn/PatentVault/pkg/errors"
)

func TestExportFileName(t *testing.T) {
	now := time.Date(2024, 5, 1, 23, 30, 0, 0, time.FixedZone("UTC-2", -2*3600))
	assert.Equal(t, "Patent_Export_2024-05-02.xlsx", ExportFileName(now))
}

func TestExportXLSX(t *testing.T) {
	ps := []*patent.Patent{
		testutil.SamplePatent("1", "散熱模組"),
		{Name: "Lens", Patentee: "Acme", Country: patent.CountryUS, Status: patent.StatusExpired, Type: patent.TypeDesign},
	}
	var buf bytes.Buffer
	svc := NewService(nil, nil)
	require.NoError(t, svc.ExportXLSX(&buf, ps))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	sheet, ok := f.Sheet[ExportSheetName]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)

	row := func(i int) []string {
		out := make([]string, len(sheet.Rows[i].Cells))
		for j, c := range sheet.Rows[i].Cells {
			out[j] = c.String()
		}
		return out
	}
	assert.Equal(t, ExportColumns, row(0))
	assert.Equal(t, []string{"散熱模組", "台灣精密股份有限公司", "TW", "Active", "Invention", "112100001", "I800001", "2025-03-15"}, row(1))
	assert.Equal(t, "Lens", row(2)[0])
	assert.Equal(t, "Design", row(2)[4])
}

func TestExportXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportXLSX(&buf, nil))
	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	assert.Len(t, f.Sheet[ExportSheetName].Rows, 1)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, fmt.Errorf("disk full") }

func TestExportXLSX_WriteError(t *testing.T) {
	logger := testutil.NewMockLogger()
	err := NewService(nil, logger).ExportXLSX(failingWriter{}, nil)
	require.Error(t, err)
	assert.True(t, logger.HasMessage("error", "export failed"))
}

func TestReminderPreview(t *testing.T) {
	p := testutil.SamplePatent("1", "散熱模組")
	r, err := NewService(nil, nil).ReminderPreview(p, time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "PatentVault System <no-reply@patentvault.com>", r.From)
	assert.Equal(t, "2025-02-01", r.Date)
	assert.Equal(t, "【專利繳費提醒】散熱模組專利", r.Subject)
	assert.Equal(t, []string{"ip@example.com", "legal@example.com"}, r.To)
	assert.Equal(t, "ip@example.com, legal@example.com", r.ToDisplay)
	assert.True(t, r.Configured)

	want := "以下專利請於2025-03-15(即年費到期日)前繳納年費，避免專利失效。\n\n" +
		"專利名稱：散熱模組\n" +
		"申請國家：TW\n" +
		"專利權人：台灣精密股份有限公司\n" +
		"申請號/公開號：112100001 / I800001\n" +
		"專利期間：2023-03-15 ~ 2043-03-15\n" +
		"年費到期日/年次：2025-03-15，第3年"
	assert.Equal(t, want, r.Body)
	assert.Equal(t, "Subject: 【專利繳費提醒】散熱模組專利\n\n"+want, r.PlainText())
}

func TestReminderPreview_NoRecipients(t *testing.T) {
	p := &patent.Patent{Name: "X"}
	r, err := NewReminder(p, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "尚未設定 (請至編輯頁面新增)", r.ToDisplay)
	assert.Empty(t, r.To)
	assert.False(t, r.Configured)
	assert.Contains(t, r.Body, "第0年")
}

func TestRender_ReportsTemplateErrors(t *testing.T) {
	tmpl := template.Must(template.New("broken").Parse("{{.Missing}}"))
	_, err := render(tmpl, testutil.SamplePatent("1", "x"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInternal))

	_, err = NewReminder(nil, time.Now())
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestSendReminder(t *testing.T) {
	pub := &testutil.RecordingPublisher{}
	logger := testutil.NewMockLogger()
	svc := NewService(pub, logger)
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	res, err := svc.SendReminder(context.Background(), testutil.SamplePatent("1", "散熱模組"), now)
	require.NoError(t, err)
	assert.Equal(t, "模擬發送成功！\n已將信件寄送至：ip@example.com, legal@example.com", res.Message)
	assert.Len(t, res.Recipients, 2)

	events := pub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, patent.EventReminderSent, events[0].Type)
	assert.Equal(t, res.Recipients, events[0].Recipients)
	assert.True(t, logger.HasMessage("info", "reminder sent (simulated)"))
}

func TestSendReminder_Unconfigured(t *testing.T) {
	pub := &testutil.RecordingPublisher{Err: fmt.Errorf("broker down")}
	logger := testutil.NewMockLogger()
	res, err := NewService(pub, logger).SendReminder(context.Background(), &patent.Patent{ID: "2", Name: "Y"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "模擬發送成功！\n已將信件寄送至：未設定信箱", res.Message)
	assert.Empty(t, res.Recipients)
	assert.False(t, res.Reminder.Configured)
	assert.True(t, logger.HasMessage("warn", "publishing reminder event failed"))

	_, err = NewService(nil, nil).SendReminder(context.Background(), nil, time.Now())
	assert.Error(t, err)
}

//Personal.AI order the ending
