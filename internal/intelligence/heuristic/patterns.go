package heuristic

import "regexp"

// ---------------------------------------------------------------------------
// Shared fragments
// ---------------------------------------------------------------------------

const (
	// datePart matches YYYY then M/MM then D/DD separated by -, / or .
	datePart = `(\d{4}[-/.]\d{1,2}[-/.]\d{1,2})`

	// idPart matches application and publication identifiers such as
	// 109123456, I712345, M600001, D210000, 16/123,456 or US 10,123,456.
	idPart = `((?:[A-Za-z]{1,4}\s?)?\d[0-9A-Za-z,\-/.]*)`

	// gazetteStop ends a free-text field at the next numbered gazette code.
	gazetteStop = `\s*(?:\[\d{2}\]|$)`

	// labelStop ends a free-text field at the next known Chinese label.
	labelStop = `\s*(?:\[\d{2}\]|專利名稱|發明名稱|新型名稱|設計名稱|申請案號|申請號|申請日|公告號|公開號|公告日|公開日|證書號|專利號|專利權人|申請人|權利人|發明人|創作人|設計人|國際分類|優先權|摘要|$)`

	// englishStop ends a free-text field at the next known English label.
	englishStop = `\s*(?i:\[\d{2}\]|Title\s*:|Application\s*(?:No|Number)|Appl\.\s*No|Filing\s*Date|Filed\s*:|Publication|Patent\s*(?:No|Number)|Date\s*of\s*Patent|Assignee|Patentee|Applicant|Inventor|Abstract|$)`
)

// ---------------------------------------------------------------------------
// Field patterns, ordered by precedence: numbered gazette codes first, then
// Chinese labels, then English labels.
// ---------------------------------------------------------------------------

var (
	namePatterns = compileAll(
		`\[54\]\s*(?:發明名稱|新型名稱|設計名稱|名稱)?\s*:?\s*(.+?)`+gazetteStop,
		`(?:專利名稱|發明名稱|新型名稱|設計名稱)\s*:?\s*(.+?)`+labelStop,
		`(?i)\bTitle\s*:\s*(.+?)`+englishStop,
	)

	appNumberPatterns = compileAll(
		`\[21\]\s*(?:申請案號|申請號碼|申請號)?\s*:?\s*`+idPart,
		`(?:申請案號|申請號碼|申請號)\s*:?\s*`+idPart,
		`(?i)(?:Application\s*(?:No|Number)|Appl\.\s*No)\.?\s*:?\s*`+idPart,
	)

	pubNumberPatterns = compileAll(
		`\[11\]\s*(?:證書號數|證書號|公告號|公開號|專利號)?\s*:?\s*`+idPart,
		`(?:公告號|公告編號|公開號|公開編號|證書號數|證書號|專利號)\s*:?\s*`+idPart,
		`(?i)(?:Publication\s*(?:No|Number)|Patent\s*(?:No|Number))\.?\s*:?\s*`+idPart,
	)

	appDatePatterns = compileAll(
		`\[22\]\s*(?:申請日期|申請日)?\s*:?\s*`+datePart,
		`(?:申請日期|申請日)\s*:?\s*`+datePart,
		`(?i)(?:Filing\s*Date|Application\s*Date|Filed)\s*:?\s*`+datePart,
	)

	pubDatePatterns = compileAll(
		`\[(?:45|43)\]\s*(?:公告日期|公告日|公開日期|公開日)?\s*:?\s*`+datePart,
		`(?:公告日期|公告日|公開日期|公開日)\s*:?\s*`+datePart,
		`(?i)(?:Publication\s*Date|Date\s*of\s*Patent|Issue\s*Date)\s*:?\s*`+datePart,
	)

	patenteePatterns = compileAll(
		`\[73\]\s*(?:專利權人|申請人|權利人)?\s*:?\s*(.+?)`+gazetteStop,
		`(?:專利權人|申請人|權利人)\s*:?\s*(.+?)`+labelStop,
		`(?i)\b(?:Assignee|Patentee|Applicant)s?\s*:\s*(.+?)`+englishStop,
	)
)

// ---------------------------------------------------------------------------
// Inference cues
// ---------------------------------------------------------------------------

var (
	expiredCue = regexp.MustCompile(`(?i)消滅|屆期|expired|lapsed`)
	pendingCue = regexp.MustCompile(`(?i)審查|pending`)

	utilityCue = regexp.MustCompile(`(?i)新型|utility`)
	designCue  = regexp.MustCompile(`(?i)設計|design`)

	usCue  = regexp.MustCompile(`(?i)美國|united\s+states|\bU\.S\.|\bUSPTO\b|\bUS\s?\d`)
	rocCue = regexp.MustCompile(`(?i)中華民國|臺灣|台灣|智慧財產局|\btaiwan\b|\bR\.?O\.?C\b|\bTW\s?[A-Z]?\d`)
	cnCue  = regexp.MustCompile(`(?i)中華人民共和國|中华人民共和国|中国|国家知识产权局|國家知識產權局|\bCNIPA\b|\bCN\s?\d{6,}`)
)

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

//Personal.AI order the ending
