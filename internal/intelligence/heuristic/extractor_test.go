package heuristic

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PatentVault/internal/domain/patent"
)

var refNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

const twGazette = `[19] 中華民國
[12] 專利公報 (B)
[11] 證書號數：I712345
[45] 公告日：2021/01/01
[21] 申請案號：108112233
[22] 申請日：2019/04/08
[54] 發明名稱：半導體封裝結構
[73] 專利權人：台灣積體電路製造股份有限公司
[72] 發明人：王小明`

func TestExtract_NoRecognisableFields(t *testing.T) {
	p := Extract("hello world\nsecond line", refNow)

	require.NotNil(t, p)
	assert.Equal(t, "hello world", p.Name)
	assert.Empty(t, p.AppNumber)
	assert.Empty(t, p.PubNumber)
	assert.Empty(t, p.AppDate)
	assert.Empty(t, p.PubDate)
	assert.Empty(t, p.Patentee)
	assert.Empty(t, p.Duration)
	assert.Empty(t, p.AnnuityDate)
	assert.Zero(t, p.AnnuityYear)
	assert.Empty(t, p.Inventor)
	assert.Empty(t, p.Link)
	assert.Equal(t, patent.CountryTW, p.Country)
	assert.Equal(t, patent.StatusActive, p.Status)
	assert.Equal(t, patent.TypeInvention, p.Type)
}

func TestExtract_NameFallback(t *testing.T) {
	assert.Equal(t, Placeholder, Extract("", refNow).Name)
	assert.Equal(t, Placeholder, Extract("   \n   ", refNow).Name)
	assert.Equal(t, Placeholder, Extract(strings.Repeat("字", 60), refNow).Name)

	exact := strings.Repeat("字", 49)
	assert.Equal(t, exact, Extract(exact+"\n內文", refNow).Name)
	assert.Equal(t, Placeholder, Extract(strings.Repeat("字", 50), refNow).Name)
}

func TestExtract_NameFallbackKeepsLineVerbatim(t *testing.T) {
	assert.Equal(t, "  散熱 模組\t", Extract("  散熱 模組\t\r\n內文", refNow).Name)

	padded := " " + strings.Repeat("字", 49)
	assert.Equal(t, Placeholder, Extract(padded, refNow).Name, "padding counts toward the length limit")
}

func TestExtract_GazetteSnippet(t *testing.T) {
	p := Extract("[54] 發明名稱 太陽能板\n[22] 申請日 2020-01-15", refNow)

	assert.Contains(t, p.Name, "太陽能板")
	assert.Equal(t, "2020-01-15", p.AppDate)
	assert.Equal(t, patent.TypeInvention, p.Type)
	assert.Equal(t, "2020-01-15 ~ 2040-01-15", p.Duration)
	assert.Equal(t, "2025-01-15", p.AnnuityDate)
	assert.Equal(t, 5, p.AnnuityYear)
}

func TestExtract_FullGazette(t *testing.T) {
	p := Extract(twGazette, refNow)

	assert.Equal(t, "半導體封裝結構", p.Name)
	assert.Equal(t, "I712345", p.PubNumber)
	assert.Equal(t, "2021-01-01", p.PubDate)
	assert.Equal(t, "108112233", p.AppNumber)
	assert.Equal(t, "2019-04-08", p.AppDate)
	assert.Equal(t, "台灣積體電路製造股份有限公司", p.Patentee)
	assert.Equal(t, patent.CountryTW, p.Country)
	assert.Equal(t, patent.StatusActive, p.Status)
	assert.Equal(t, patent.TypeInvention, p.Type)
	assert.Equal(t, "2019-04-08 ~ 2039-04-08", p.Duration)
	assert.Equal(t, "2025-04-08", p.AnnuityDate)
	assert.Equal(t, 6, p.AnnuityYear)
	assert.Equal(t, 6, Coverage(p))
}

func TestExtract_FullWidthInput(t *testing.T) {
	p := Extract("［５４］發明名稱：智慧型手環\n［２１］申請案號：１０９１２３４５６\n［２２］申請日：２０２０／０３／０５", refNow)

	assert.Equal(t, "智慧型手環", p.Name)
	assert.Equal(t, "109123456", p.AppNumber)
	assert.Equal(t, "2020-03-05", p.AppDate)
}

func TestExtract_ChineseLabels(t *testing.T) {
	text := "專利名稱：無線充電裝置 申請號：110204567 申請日：2021.7.9 公告號：M620001 專利權人：宏達電子"
	p := Extract(text, refNow)

	assert.Equal(t, "無線充電裝置", p.Name)
	assert.Equal(t, "110204567", p.AppNumber)
	assert.Equal(t, "2021-07-09", p.AppDate)
	assert.Equal(t, "M620001", p.PubNumber)
	assert.Equal(t, "宏達電子", p.Patentee)
	assert.Equal(t, patent.TypeUtility, p.Type)
	assert.Equal(t, "2021-07-09 ~ 2031-07-09", p.Duration)
	assert.Equal(t, "2024-07-09", p.AnnuityDate)
	assert.Equal(t, 4, p.AnnuityYear)
}

func TestExtract_GazetteBeatsLabel(t *testing.T) {
	p := Extract("專利名稱：標籤名稱 [54] 發明名稱：公報名稱 [21] 123", refNow)
	assert.Equal(t, "公報名稱", p.Name)
}

func TestExtract_EnglishLabels(t *testing.T) {
	text := "United States Patent\nPatent No.: US 10,123,456 B2\nTitle: Widget assembly\nFiling Date: 2018-05-20\nAssignee: Acme Corp.\nInventor: Jane Doe"
	p := Extract(text, refNow)

	assert.Equal(t, "Widget assembly", p.Name)
	assert.Equal(t, "US 10,123,456", p.PubNumber)
	assert.Equal(t, "2018-05-20", p.AppDate)
	assert.Equal(t, "Acme Corp.", p.Patentee)
	assert.Equal(t, patent.CountryUS, p.Country)
}

func TestExtract_InvalidDateSkipsSchedule(t *testing.T) {
	p := Extract("[54] 測試 [22] 申請日 2020-02-30", refNow)

	assert.Empty(t, p.AppDate)
	assert.Empty(t, p.Duration)
	assert.Empty(t, p.AnnuityDate)
	assert.Zero(t, p.AnnuityYear)
}

func TestExtract_TermByType(t *testing.T) {
	utility := Extract("[54] 新型名稱 折疊椅 [22] 申請日 2020-01-15", refNow)
	assert.Equal(t, patent.TypeUtility, utility.Type)
	assert.Equal(t, "2020-01-15 ~ 2030-01-15", utility.Duration)

	design := Extract("[54] 設計名稱 椅子 [22] 申請日 2020-01-15", refNow)
	assert.Equal(t, patent.TypeDesign, design.Type)
	assert.Equal(t, "2020-01-15 ~ 2035-01-15", design.Duration)
}

func TestInferStatus(t *testing.T) {
	cases := []struct {
		text string
		want patent.Status
	}{
		{"本專利已屆期，先前曾於審查中", patent.StatusExpired},
		{"專利權消滅", patent.StatusExpired},
		{"Status: LAPSED", patent.StatusExpired},
		{"status expired", patent.StatusExpired},
		{"實體審查中", patent.StatusPending},
		{"Application PENDING", patent.StatusPending},
		{"核准公告", patent.StatusActive},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Extract(tc.text, refNow).Status, tc.text)
	}
}

func TestInferType(t *testing.T) {
	assert.Equal(t, patent.TypeInvention, inferType("plain", "I123456"))
	assert.Equal(t, patent.TypeUtility, inferType("plain", "M600123"))
	assert.Equal(t, patent.TypeUtility, inferType("Utility model", ""))
	assert.Equal(t, patent.TypeDesign, inferType("plain", "D210000"))
	assert.Equal(t, patent.TypeDesign, inferType("新型", "D210000"))
	assert.Equal(t, patent.TypeDesign, inferType("Utility and DESIGN", "M600123"))
}

func TestInferCountry(t *testing.T) {
	cases := []struct {
		text string
		want patent.Country
	}{
		{"no cues at all", patent.CountryTW},
		{"United States Patent", patent.CountryUS},
		{"美國專利 US 9876543", patent.CountryUS},
		{"United States Patent, priority from Taiwan", patent.CountryTW},
		{"美國 中華民國", patent.CountryTW},
		{"国家知识产权局 发明专利", patent.CountryCN},
		{"United States CN 112345678 A", patent.CountryCN},
		{"中華民國 中華人民共和國", patent.CountryCN},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, inferCountry(tc.text), tc.text)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "[54] 名稱: A B", Normalize("  ［５４］\t名稱：\n\nＡ   Ｂ  "))
}

func TestExtract_Idempotent(t *testing.T) {
	a := Extract(twGazette, refNow)
	b := Extract(twGazette, refNow)
	assert.Equal(t, a, b)
}

func TestExtract_ConcurrentCalls(t *testing.T) {
	want := Extract(twGazette, refNow)

	var wg sync.WaitGroup
	results := make([]*patent.Patent, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Extract(twGazette, refNow)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestCoverage(t *testing.T) {
	assert.Zero(t, Coverage(nil))
	assert.Zero(t, Coverage(&patent.Patent{Name: Placeholder}))
	assert.Equal(t, 2, Coverage(&patent.Patent{Name: "x", AppDate: "2020-01-01"}))
}

//Personal.AI order the ending
