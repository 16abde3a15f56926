// Package importing turns pasted text and uploaded documents into patent
// records. A configured AI provider is tried first; the heuristic extractor
// is the fallback and never fails.
package importing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/turtacn/PatentVault/internal/domain/patent"
	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentVault/internal/intelligence/heuristic"
	"github.com/turtacn/PatentVault/internal/intelligence/llm"
	"github.com/turtacn/PatentVault/pkg/errors"
)

// Method names the extraction path that produced a result.
type Method string

const (
	MethodAI        Method = "ai"
	MethodHeuristic Method = "heuristic"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEText = "text/plain"

	DefaultMaxDocumentBytes = 15 << 20
	DefaultBatchConcurrency = 4
	DefaultCacheTTL         = 24 * time.Hour
)

// Options control a single import.
type Options struct {
	HeuristicOnly bool `json:"heuristicOnly"`
	Commit        bool `json:"commit"` // store the records in the portfolio
}

// Document is an uploaded file.
type Document struct {
	Name     string
	Data     []byte
	MIMEType string
}

// Result is the outcome of one import.
type Result struct {
	Patents     []*patent.Patent `json:"patents"`
	Method      Method           `json:"method"`
	Provider    string           `json:"provider,omitempty"`
	DocumentKey string           `json:"documentKey,omitempty"`
	Committed   bool             `json:"committed"`
}

// Cache memoizes AI parse results by input digest.
type Cache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
}

// DocumentStore keeps the original uploads.
type DocumentStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// TextExtractor pulls plain text out of a binary document.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte, mimeType string) (string, error)
}

// Committer stores imported records, typically portfolio.Service.
type Committer interface {
	Import(ctx context.Context, records ...*patent.Patent) ([]*patent.Patent, error)
}

// Metrics records extraction outcomes.
type Metrics interface {
	ObserveExtraction(method, outcome string, elapsed time.Duration)
}

// Config bounds imports.
type Config struct {
	MaxDocumentBytes int64
	BatchConcurrency int
	HeuristicOnly    bool
	CacheTTL         time.Duration
}

// Deps are the collaborators of the service. Only Extractor is required
// for file imports; every other dependency may be nil.
type Deps struct {
	Provider  llm.Provider
	Cache     Cache
	Store     DocumentStore
	Extractor TextExtractor
	Committer Committer
	Metrics   Metrics
	Logger    logging.Logger
	Now       func() time.Time
}

// Service imports patent records.
type Service struct {
	cfg  Config
	deps Deps
	log  logging.Logger
}

// NewService creates an import service.
func NewService(cfg Config, deps Deps) *Service {
	if cfg.MaxDocumentBytes <= 0 {
		cfg.MaxDocumentBytes = DefaultMaxDocumentBytes
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = DefaultBatchConcurrency
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Service{cfg: cfg, deps: deps, log: deps.Logger.Named("importing")}
}

func (s *Service) aiEnabled(opts Options) bool {
	return s.deps.Provider != nil && !opts.HeuristicOnly && !s.cfg.HeuristicOnly
}

// FromText imports pasted text.
func (s *Service) FromText(ctx context.Context, text string, opts Options) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New(errors.ErrCodeImportEmptyInput, "no text to import")
	}
	res := s.parseText(ctx, text, opts)
	return s.finish(ctx, res, opts)
}

func (s *Service) parseText(ctx context.Context, text string, opts Options) *Result {
	if s.aiEnabled(opts) {
		ps, err := s.aiParse(ctx, "text", []byte(text), func(ctx context.Context) (string, error) {
			return s.deps.Provider.ParseText(ctx, text)
		})
		if err == nil && len(ps) > 0 {
			return &Result{Patents: ps, Method: MethodAI, Provider: s.deps.Provider.Name()}
		}
		s.log.Info("AI text parsing unavailable, using heuristic extractor", logging.Err(err))
	}
	return s.heuristic(text)
}

func (s *Service) heuristic(text string) *Result {
	start := time.Now()
	p := heuristic.Extract(text, s.deps.Now())
	s.observe(MethodHeuristic, "success", start)
	s.log.Debug("heuristic extraction", logging.Int("coverage", heuristic.Coverage(p)))
	return &Result{Patents: []*patent.Patent{p}, Method: MethodHeuristic}
}

// FromFile imports an uploaded document. PDFs go to the provider as files
// when it accepts them; otherwise their text is extracted and parsed.
func (s *Service) FromFile(ctx context.Context, doc Document, opts Options) (*Result, error) {
	res, err := s.parseFile(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, res, opts)
}

func (s *Service) parseFile(ctx context.Context, doc Document, opts Options) (*Result, error) {
	if len(doc.Data) == 0 {
		return nil, errors.New(errors.ErrCodeImportEmptyInput, "empty document").WithDetail(doc.Name)
	}
	if int64(len(doc.Data)) > s.cfg.MaxDocumentBytes {
		return nil, errors.New(errors.ErrCodeImportTooLarge, "document exceeds size limit").WithDetail(doc.Name)
	}
	mimeType := DetectMIME(doc.Name, doc.MIMEType, doc.Data)
	if mimeType != MIMEPDF && mimeType != MIMEText {
		return nil, errors.New(errors.ErrCodeImportUnsupportedDoc, "unsupported document type").WithDetail(mimeType)
	}

	key := s.store(ctx, doc, mimeType)

	var res *Result
	if mimeType == MIMEText {
		text := string(doc.Data)
		if strings.TrimSpace(text) == "" {
			return nil, errors.New(errors.ErrCodeImportEmptyInput, "empty document").WithDetail(doc.Name)
		}
		res = s.parseText(ctx, text, opts)
	} else {
		var err error
		if res, err = s.parsePDF(ctx, doc, opts); err != nil {
			return nil, err
		}
	}
	res.DocumentKey = key
	return res, nil
}

func (s *Service) parsePDF(ctx context.Context, doc Document, opts Options) (*Result, error) {
	if s.aiEnabled(opts) {
		ps, err := s.aiParse(ctx, "file", doc.Data, func(ctx context.Context) (string, error) {
			return s.deps.Provider.ParseFile(ctx, doc.Data, MIMEPDF)
		})
		if err == nil && len(ps) > 0 {
			return &Result{Patents: ps, Method: MethodAI, Provider: s.deps.Provider.Name()}, nil
		}
		if !errors.IsCode(err, errors.ErrCodeAIUnsupported) {
			s.log.Info("AI file parsing unavailable, extracting text", logging.String("document", doc.Name), logging.Err(err))
		}
	}

	if s.deps.Extractor == nil {
		return nil, errors.New(errors.ErrCodeImportDocumentRead, "no document text extractor configured")
	}
	text, err := s.deps.Extractor.ExtractText(ctx, doc.Data, MIMEPDF)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeImportDocumentRead, "extracting document text").WithDetail(doc.Name)
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New(errors.ErrCodeImportDocumentRead, "document has no text layer").WithDetail(doc.Name)
	}
	return s.parseText(ctx, text, opts), nil
}

// aiParse runs call through the cache and decodes its reply.
func (s *Service) aiParse(ctx context.Context, kind string, input []byte, call func(context.Context) (string, error)) ([]*patent.Patent, error) {
	start := time.Now()
	load := func(ctx context.Context) (interface{}, error) {
		reply, err := call(ctx)
		if err != nil {
			return nil, err
		}
		ps, err := llm.DecodePatents(reply)
		if err != nil {
			return nil, err
		}
		if ps == nil {
			ps = []*patent.Patent{}
		}
		return ps, nil
	}

	var ps []*patent.Patent
	var err error
	if s.deps.Cache != nil {
		err = s.deps.Cache.GetOrSet(ctx, s.cacheKey(kind, input), &ps, s.cfg.CacheTTL, load)
	} else {
		var v interface{}
		if v, err = load(ctx); err == nil {
			ps = v.([]*patent.Patent)
		}
	}

	switch {
	case err != nil:
		s.observe(MethodAI, "error", start)
	case len(ps) == 0:
		s.observe(MethodAI, "empty", start)
	default:
		s.observe(MethodAI, "success", start)
	}
	return ps, err
}

func (s *Service) cacheKey(kind string, input []byte) string {
	h := sha256.New()
	h.Write([]byte(s.deps.Provider.Name()))
	h.Write([]byte{0})
	h.Write(input)
	return "import:" + kind + ":" + hex.EncodeToString(h.Sum(nil))
}

func (s *Service) store(ctx context.Context, doc Document, mimeType string) string {
	if s.deps.Store == nil {
		return ""
	}
	key, err := s.deps.Store.Put(ctx, doc.Name, doc.Data, mimeType)
	if err != nil {
		s.log.Warn("storing uploaded document failed", logging.String("document", doc.Name), logging.Err(err))
		return ""
	}
	return key
}

// finish fills defaults and derived fields and optionally commits.
func (s *Service) finish(ctx context.Context, res *Result, opts Options) (*Result, error) {
	now := s.deps.Now()
	for _, p := range res.Patents {
		p.ApplyDefaults()
		p.FillSchedule(now)
	}
	if !opts.Commit {
		return res, nil
	}
	if s.deps.Committer == nil {
		return nil, errors.New(errors.ErrCodeNotImplemented, "import commit is not available")
	}
	stored, err := s.deps.Committer.Import(ctx, res.Patents...)
	if err != nil {
		return nil, err
	}
	res.Patents, res.Committed = stored, true
	return res, nil
}

func (s *Service) observe(m Method, outcome string, start time.Time) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveExtraction(string(m), outcome, time.Since(start))
	}
}

// DetectMIME resolves a document type from the declared type, the file
// extension and finally the content.
func DetectMIME(name, declared string, data []byte) string {
	declared = strings.ToLower(strings.TrimSpace(strings.SplitN(declared, ";", 2)[0]))
	switch declared {
	case MIMEPDF, MIMEText:
		return declared
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return MIMEPDF
	case ".txt", ".text":
		return MIMEText
	}
	if len(data) >= 5 && string(data[:5]) == "%PDF-" {
		return MIMEPDF
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if isText(data) {
		return MIMEText
	}
	return "application/octet-stream"
}

func isText(data []byte) bool {
	if len(data) > 512 {
		data = data[:512]
	}
	return utf8.Valid(data) && !strings.ContainsRune(string(data), 0)
}

//Personal.AI order the ending
