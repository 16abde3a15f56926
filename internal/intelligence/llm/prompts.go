package llm

import "google.golang.org/genai"

// SystemInstruction is the assistant persona shared by every provider.
const SystemInstruction = "你是一位專業的專利代理人與智慧財產權顧問助手。\n" +
	"你的職責是協助用戶管理專利組合，分析專利風險，提供年費維持建議。\n" +
	"請使用繁體中文 (zh-TW) 回答，保持專業、簡潔且精確。"

const (
	parseTextPrompt = "請將以下專利資訊解析為 JSON 格式：\n"
	parseFilePrompt = "請從此文件中提取專利資訊並轉換為 JSON 格式。"

	// jsonOnlySuffix is appended for providers without a response schema.
	jsonOnlySuffix = "\n\n只輸出一個 JSON 物件，欄位：name, patentee, country, status, type, appNumber, pubNumber, appDate, pubDate, duration, annuityDate, annuityYear (數字), inventor, abstract。"
)

// ParseTextPrompt returns the user prompt for text parsing.
func ParseTextPrompt(text string) string {
	return parseTextPrompt + text
}

// patentFields lists the string properties of the extraction schema in
// output order. annuityYear is the only numeric property.
var patentFields = []string{
	"name", "patentee", "country", "status", "type",
	"appNumber", "pubNumber", "appDate", "pubDate", "duration",
	"annuityDate", "inventor", "abstract",
}

// PatentSchema is the structured-output schema for a single patent record.
func PatentSchema() *genai.Schema {
	props := make(map[string]*genai.Schema, len(patentFields)+1)
	for _, f := range patentFields {
		props[f] = &genai.Schema{Type: genai.TypeString}
	}
	props["annuityYear"] = &genai.Schema{Type: genai.TypeNumber}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   []string{"name"},
	}
}

//Personal.AI order the ending
