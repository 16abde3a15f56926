package client

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Patent is a portfolio record. Dates are YYYY-MM-DD strings.
type Patent struct {
	ID                 string    `json:"id,omitempty"`
	Name               string    `json:"name"`
	Patentee           string    `json:"patentee"`
	Country            string    `json:"country"`
	Status             string    `json:"status"`
	Type               string    `json:"type"`
	AppNumber          string    `json:"appNumber"`
	PubNumber          string    `json:"pubNumber"`
	AppDate            string    `json:"appDate"`
	PubDate            string    `json:"pubDate"`
	Duration           string    `json:"duration"`
	AnnuityDate        string    `json:"annuityDate"`
	AnnuityYear        int       `json:"annuityYear"`
	Inventor           string    `json:"inventor"`
	Link               string    `json:"link"`
	Abstract           string    `json:"abstract"`
	NotificationEmails string    `json:"notificationEmails"`
	CreatedAt          time.Time `json:"createdAt,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt,omitempty"`
}

// ListOptions filter List and Export. Search matches name and patentee
// case-insensitively; Status "" or "All" disables the status filter.
type ListOptions struct {
	Search string
	Status string
}

func (o ListOptions) query() string {
	v := url.Values{}
	if o.Search != "" {
		v.Set("q", o.Search)
	}
	if o.Status != "" {
		v.Set("status", o.Status)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// Stats is the dashboard summary.
type Stats struct {
	Total           int            `json:"total"`
	ByStatus        map[string]int `json:"byStatus"`
	ByType          map[string]int `json:"byType"`
	ByCountry       map[string]int `json:"byCountry"`
	SurvivalRate    int            `json:"survivalRate"`
	AlertCount      int            `json:"alertCount"`
	AlertWindowDays int            `json:"alertWindowDays"`
}

// Alert is an active patent whose annuity falls due soon.
type Alert struct {
	Patent   Patent `json:"patent"`
	DaysLeft int    `json:"daysLeft"`
}

// Reminder is an annuity payment notice.
type Reminder struct {
	PatentID             string   `json:"patentId"`
	From                 string   `json:"from"`
	To                   []string `json:"to"`
	ToDisplay            string   `json:"toDisplay"`
	Date                 string   `json:"date"`
	Subject              string   `json:"subject"`
	Body                 string   `json:"body"`
	RecipientsConfigured bool     `json:"recipientsConfigured"`
}

// SendResult reports a simulated reminder delivery.
type SendResult struct {
	Reminder   Reminder `json:"reminder"`
	Recipients []string `json:"recipients"`
	Message    string   `json:"message"`
}

// Export is a rendered Excel workbook.
type Export struct {
	FileName string
	Data     []byte
}

// PatentsClient manages portfolio records.
type PatentsClient struct {
	client *Client
}

func patentPath(id string) string {
	return "/patents/" + url.PathEscape(id)
}

func (pc *PatentsClient) List(ctx context.Context, opts ListOptions) ([]Patent, error) {
	var out []Patent
	if err := pc.client.get(ctx, "/patents"+opts.query(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (pc *PatentsClient) Get(ctx context.Context, id string) (*Patent, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: patent id is required", ErrInvalidArgument)
	}
	var out Patent
	if err := pc.client.get(ctx, patentPath(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create stores p. Server-side inference fills status and the annuity
// schedule when they are left empty.
func (pc *PatentsClient) Create(ctx context.Context, p *Patent) (*Patent, error) {
	var out Patent
	if err := pc.client.post(ctx, "/patents", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the record p.ID with p.
func (pc *PatentsClient) Update(ctx context.Context, p *Patent) (*Patent, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("%w: patent id is required", ErrInvalidArgument)
	}
	var out Patent
	if err := pc.client.put(ctx, patentPath(p.ID), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (pc *PatentsClient) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: patent id is required", ErrInvalidArgument)
	}
	return pc.client.delete(ctx, patentPath(id))
}

func (pc *PatentsClient) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := pc.client.get(ctx, "/patents/stats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Alerts lists annuities due within the given number of days; zero uses the
// server's window.
func (pc *PatentsClient) Alerts(ctx context.Context, withinDays int) ([]Alert, error) {
	path := "/patents/alerts"
	if withinDays > 0 {
		path += "?within=" + strconv.Itoa(withinDays)
	}
	var out []Alert
	if err := pc.client.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Export downloads the filtered portfolio as an .xlsx workbook.
func (pc *PatentsClient) Export(ctx context.Context, opts ListOptions) (*Export, error) {
	resp, err := pc.client.send(ctx, http.MethodGet, "/patents/export"+opts.query(), nil, "*/*")
	if err != nil {
		return nil, err
	}
	out := &Export{Data: resp.body}
	if _, params, err := mime.ParseMediaType(resp.header.Get("Content-Disposition")); err == nil {
		out.FileName = params["filename"]
	}
	return out, nil
}

func (pc *PatentsClient) Reminder(ctx context.Context, id string) (*Reminder, error) {
	var out Reminder
	if err := pc.client.get(ctx, patentPath(id)+"/reminder", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReminderText returns the reminder as plain mail text.
func (pc *PatentsClient) ReminderText(ctx context.Context, id string) (string, error) {
	resp, err := pc.client.send(ctx, http.MethodGet, patentPath(id)+"/reminder?format=text", nil, "text/plain")
	if err != nil {
		return "", err
	}
	return string(resp.body), nil
}

// SendReminder triggers the simulated reminder delivery.
func (pc *PatentsClient) SendReminder(ctx context.Context, id string) (*SendResult, error) {
	var out SendResult
	if err := pc.client.post(ctx, patentPath(id)+"/reminder/send", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
