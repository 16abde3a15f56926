package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
)

// ImportOptions control extraction. HeuristicOnly skips the AI provider;
// Commit stores the extracted records.
type ImportOptions struct {
	HeuristicOnly bool
	Commit        bool
}

func (o ImportOptions) query() string {
	v := url.Values{}
	if o.HeuristicOnly {
		v.Set("heuristicOnly", "true")
	}
	if o.Commit {
		v.Set("commit", "true")
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// ImportResult is the outcome of one extraction. Method is "ai" or
// "heuristic".
type ImportResult struct {
	Patents     []Patent `json:"patents"`
	Method      string   `json:"method"`
	Provider    string   `json:"provider,omitempty"`
	DocumentKey string   `json:"documentKey,omitempty"`
	Committed   bool     `json:"committed"`
}

// BatchItem is the outcome of one document in a batch.
type BatchItem struct {
	Name   string        `json:"name"`
	Result *ImportResult `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
	Code   string        `json:"code,omitempty"`
}

// BatchResult lists items in upload order.
type BatchResult struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// Document is a file to upload.
type Document struct {
	Name string
	Data []byte
}

// ImportClient extracts patent records from text and documents.
type ImportClient struct {
	client *Client
}

// Text extracts records from pasted gazette text.
func (ic *ImportClient) Text(ctx context.Context, text string, opts ImportOptions) (*ImportResult, error) {
	body := struct {
		Text          string `json:"text"`
		HeuristicOnly bool   `json:"heuristicOnly"`
		Commit        bool   `json:"commit"`
	}{text, opts.HeuristicOnly, opts.Commit}
	var out ImportResult
	if err := ic.client.post(ctx, "/import/text", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// File uploads one PDF or text document.
func (ic *ImportClient) File(ctx context.Context, doc Document, opts ImportOptions) (*ImportResult, error) {
	var out ImportResult
	if err := ic.upload(ctx, "/import/file"+opts.query(), "file", []Document{doc}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Batch uploads several documents; a failing document does not fail the
// others.
func (ic *ImportClient) Batch(ctx context.Context, docs []Document, opts ImportOptions) (*BatchResult, error) {
	var out BatchResult
	if err := ic.upload(ctx, "/import/batch"+opts.query(), "files", docs, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ic *ImportClient) upload(ctx context.Context, path, field string, docs []Document, result interface{}) error {
	if len(docs) == 0 {
		return fmt.Errorf("%w: no documents to upload", ErrInvalidArgument)
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, d := range docs {
		part, err := mw.CreateFormFile(field, d.Name)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", d.Name, err)
		}
		if _, err := part.Write(d.Data); err != nil {
			return fmt.Errorf("failed to encode %s: %w", d.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to encode upload: %w", err)
	}

	resp, err := ic.client.send(ctx, http.MethodPost, path,
		&payload{contentType: mw.FormDataContentType(), data: buf.Bytes()}, "application/json")
	if err != nil {
		return err
	}
	return decodeBody(resp.body, result)
}

//Personal.AI order the ending
