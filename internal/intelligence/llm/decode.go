package llm

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/PatentVault/internal/domain/patent"
	"github.com/turtacn/PatentVault/pkg/errors"
)

var (
	reJSONFence  = regexp.MustCompile("```json\\s*([\\s\\S]*?)\\s*```")
	reAnyFence   = regexp.MustCompile("```\\s*([\\s\\S]*?)\\s*```")
	reLeadJSON   = regexp.MustCompile("^```json\\s*")
	reLeadFence  = regexp.MustCompile("^```\\s*")
	reTrailFence = regexp.MustCompile("\\s*```$")
	reDigits     = regexp.MustCompile(`\d+`)
)

// CleanJSON pulls the JSON payload out of a model reply. A ```json fenced
// block wins over any other fenced block; without fences, stray leading or
// trailing fence markers are removed.
func CleanJSON(text string) string {
	if text == "" {
		return ""
	}
	if m := reJSONFence.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := reAnyFence.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	out := reLeadJSON.ReplaceAllString(text, "")
	out = reLeadFence.ReplaceAllString(out, "")
	out = reTrailFence.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// wirePatent mirrors the extraction schema. Models are loose with types, so
// annuityYear accepts numbers and numeric strings.
type wirePatent struct {
	Name               string   `json:"name"`
	Patentee           string   `json:"patentee"`
	Country            string   `json:"country"`
	Status             string   `json:"status"`
	Type               string   `json:"type"`
	AppNumber          string   `json:"appNumber"`
	PubNumber          string   `json:"pubNumber"`
	AppDate            string   `json:"appDate"`
	PubDate            string   `json:"pubDate"`
	Duration           string   `json:"duration"`
	AnnuityDate        string   `json:"annuityDate"`
	AnnuityYear        flexYear `json:"annuityYear"`
	Inventor           string   `json:"inventor"`
	Link               string   `json:"link"`
	Abstract           string   `json:"abstract"`
	NotificationEmails string   `json:"notificationEmails"`
}

type flexYear int

func (y *flexYear) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		*y = 0
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*y = flexYear(int(f))
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	// "第5年", "5th"
	if d := reDigits.FindString(str); d != "" {
		n, _ := strconv.Atoi(d)
		*y = flexYear(n)
		return nil
	}
	*y = 0
	return nil
}

func (w wirePatent) toPatent() *patent.Patent {
	p := &patent.Patent{
		Name:               strings.TrimSpace(w.Name),
		Patentee:           strings.TrimSpace(w.Patentee),
		Country:            normalizeCountry(w.Country),
		AppNumber:          strings.TrimSpace(w.AppNumber),
		PubNumber:          strings.TrimSpace(w.PubNumber),
		AppDate:            normalizeDate(w.AppDate),
		PubDate:            normalizeDate(w.PubDate),
		Duration:           strings.TrimSpace(w.Duration),
		AnnuityDate:        normalizeDate(w.AnnuityDate),
		AnnuityYear:        int(w.AnnuityYear),
		Inventor:           strings.TrimSpace(w.Inventor),
		Link:               strings.TrimSpace(w.Link),
		Abstract:           strings.TrimSpace(w.Abstract),
		NotificationEmails: strings.TrimSpace(w.NotificationEmails),
	}
	if s, ok := patent.ParseStatus(w.Status); ok {
		p.Status = s
	}
	if t, ok := patent.ParseType(w.Type); ok {
		p.Type = t
	}
	if p.AnnuityYear < 0 {
		p.AnnuityYear = 0
	}
	return p
}

// normalizeDate keeps only dates the domain accepts.
func normalizeDate(raw string) string {
	d, ok := patent.NormalizeDate(strings.TrimSpace(raw))
	if !ok {
		return ""
	}
	return d
}

func normalizeCountry(raw string) patent.Country {
	s := strings.TrimSpace(raw)
	switch strings.ToUpper(s) {
	case "":
		return ""
	case "TW", "TWN", "ROC", "TAIWAN", "台灣", "臺灣", "中華民國":
		return patent.CountryTW
	case "US", "USA", "UNITED STATES", "美國":
		return patent.CountryUS
	case "CN", "CHN", "PRC", "CHINA", "中國", "中国", "中華人民共和國":
		return patent.CountryCN
	}
	return patent.Country(strings.ToUpper(s))
}

// DecodePatents decodes a model reply holding either one record or an array
// of records. An empty reply yields (nil, nil). Records without a name are
// dropped.
func DecodePatents(text string) ([]*patent.Patent, error) {
	raw := bytes.TrimSpace([]byte(CleanJSON(text)))
	if len(raw) == 0 {
		return nil, nil
	}

	var wires []wirePatent
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &wires); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeAIResponseInvalid, "decoding patent array")
		}
	} else {
		var w wirePatent
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeAIResponseInvalid, "decoding patent object")
		}
		wires = []wirePatent{w}
	}

	out := make([]*patent.Patent, 0, len(wires))
	for _, w := range wires {
		p := w.toPatent()
		if p.Name == "" {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// DecodePatent returns the first record of a model reply, or (nil, nil) when
// the reply holds none.
func DecodePatent(text string) (*patent.Patent, error) {
	ps, err := DecodePatents(text)
	if err != nil || len(ps) == 0 {
		return nil, err
	}
	return ps[0], nil
}

//Personal.AI order the ending
