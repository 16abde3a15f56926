package importing

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PatentVault/internal/application/portfolio"
	"github.com/turtacn/PatentVault/internal/domain/patent"
	"github.com/turtacn/PatentVault/internal/infrastructure/database/memory"
	"github.com/turtacn/PatentVault/internal/intelligence/heuristic"
	"github.com/turtacn/PatentVault/internal/intelligence/llm"
	"github.com/turtacn/PatentVault/internal/testutil"
	"github.com/turtacn/PatentVault/pkg/errors"
)

var testNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

const gazetteText = "[54] 發明名稱 太陽能板\n[22] 申請日 2020-01-15"

type mockProvider struct{ mock.Mock }

func (m *mockProvider) Name() string { return "mock" }
func (m *mockProvider) Chat(ctx context.Context, history []llm.Message, message string) (string, error) {
	args := m.Called(ctx, history, message)
	return args.String(0), args.Error(1)
}
func (m *mockProvider) ParseText(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}
func (m *mockProvider) ParseFile(ctx context.Context, data []byte, mimeType string) (string, error) {
	args := m.Called(ctx, data, mimeType)
	return args.String(0), args.Error(1)
}

// mapCache is an in-process Cache with JSON round-tripping.
type mapCache struct {
	mu    sync.Mutex
	items map[string][]byte
	loads int
}

func newMapCache() *mapCache { return &mapCache{items: map[string][]byte{}} }

func (c *mapCache) GetOrSet(ctx context.Context, key string, dest interface{}, _ time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if raw, ok := c.items[key]; ok {
		return json.Unmarshal(raw, dest)
	}
	c.loads++
	v, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.items[key] = raw
	return json.Unmarshal(raw, dest)
}

type fakeStore struct {
	mu   sync.Mutex
	puts []string
	err  error
}

func (s *fakeStore) Put(_ context.Context, name string, _ []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.puts = append(s.puts, name+"|"+contentType)
	return "documents/" + name, nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (e fakeExtractor) ExtractText(context.Context, []byte, string) (string, error) {
	return e.text, e.err
}

type observation struct{ method, outcome string }

type recordingMetrics struct {
	mu  sync.Mutex
	obs []observation
}

func (m *recordingMetrics) ObserveExtraction(method, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obs = append(m.obs, observation{method, outcome})
}

func (m *recordingMetrics) all() []observation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]observation(nil), m.obs...)
}

func pdfDoc(name string) Document {
	return Document{Name: name, Data: []byte("%PDF-1.7 fake"), MIMEType: MIMEPDF}
}

func TestFromText_EmptyInput(t *testing.T) {
	svc := NewService(Config{}, Deps{})
	_, err := svc.FromText(context.Background(), "  \n ", Options{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeImportEmptyInput))
}

func TestFromText_HeuristicWithoutProvider(t *testing.T) {
	metrics := &recordingMetrics{}
	svc := NewService(Config{}, Deps{Metrics: metrics, Now: testutil.FixedClock(testNow)})

	res, err := svc.FromText(context.Background(), gazetteText, Options{})
	require.NoError(t, err)
	assert.Equal(t, MethodHeuristic, res.Method)
	require.Len(t, res.Patents, 1)
	p := res.Patents[0]
	assert.Contains(t, p.Name, "太陽能板")
	assert.Equal(t, "2020-01-15", p.AppDate)
	assert.Equal(t, "2025-01-15", p.AnnuityDate)
	assert.Equal(t, 5, p.AnnuityYear)
	assert.False(t, res.Committed)
	assert.Equal(t, []observation{{"heuristic", "success"}}, metrics.all())
}

func TestFromText_AIResult(t *testing.T) {
	prov := new(mockProvider)
	prov.On("ParseText", mock.Anything, "some text").
		Return("```json\n{\"name\":\"散熱模組\",\"appDate\":\"2023/3/15\",\"type\":\"發明\",\"status\":\"存續中\"}\n```", nil).Once()
	svc := NewService(Config{}, Deps{Provider: prov, Now: testutil.FixedClock(testNow)})

	res, err := svc.FromText(context.Background(), "some text", Options{})
	require.NoError(t, err)
	assert.Equal(t, MethodAI, res.Method)
	assert.Equal(t, "mock", res.Provider)
	require.Len(t, res.Patents, 1)
	p := res.Patents[0]
	assert.Equal(t, "散熱模組", p.Name)
	assert.Equal(t, "2023-03-15", p.AppDate)
	assert.Equal(t, patent.StatusActive, p.Status)
	assert.Equal(t, patent.TypeInvention, p.Type)
	assert.Equal(t, patent.CountryTW, p.Country)
	assert.Equal(t, "2023-03-15 ~ 2043-03-15", p.Duration)
	assert.Equal(t, "2025-03-15", p.AnnuityDate)
	assert.Equal(t, 2, p.AnnuityYear)
	prov.AssertExpectations(t)
}

func TestFromText_FallsBackToHeuristic(t *testing.T) {
	cases := map[string]struct {
		reply string
		err   error
	}{
		"provider error": {err: stderrors.New("boom")},
		"empty reply":    {reply: ""},
		"undecodable":    {reply: "I cannot help with that."},
		"nameless":       {reply: `{"patentee":"ACME"}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			prov := new(mockProvider)
			prov.On("ParseText", mock.Anything, gazetteText).Return(tc.reply, tc.err).Once()
			svc := NewService(Config{}, Deps{Provider: prov, Now: testutil.FixedClock(testNow)})

			res, err := svc.FromText(context.Background(), gazetteText, Options{})
			require.NoError(t, err)
			assert.Equal(t, MethodHeuristic, res.Method)
			assert.Equal(t, heuristic.Extract(gazetteText, testNow), res.Patents[0])
			prov.AssertExpectations(t)
		})
	}
}

func TestFromText_HeuristicOnlySkipsProvider(t *testing.T) {
	prov := new(mockProvider)
	svc := NewService(Config{}, Deps{Provider: prov, Now: testutil.FixedClock(testNow)})

	res, err := svc.FromText(context.Background(), gazetteText, Options{HeuristicOnly: true})
	require.NoError(t, err)
	assert.Equal(t, MethodHeuristic, res.Method)

	svc = NewService(Config{HeuristicOnly: true}, Deps{Provider: prov, Now: testutil.FixedClock(testNow)})
	res, err = svc.FromText(context.Background(), gazetteText, Options{})
	require.NoError(t, err)
	assert.Equal(t, MethodHeuristic, res.Method)
	prov.AssertNotCalled(t, "ParseText", mock.Anything, mock.Anything)
}

func TestFromText_CachesAIResults(t *testing.T) {
	prov := new(mockProvider)
	prov.On("ParseText", mock.Anything, "cached").Return(`[{"name":"A"},{"name":"B"}]`, nil).Once()
	cache := newMapCache()
	metrics := &recordingMetrics{}
	svc := NewService(Config{}, Deps{Provider: prov, Cache: cache, Metrics: metrics, Now: testutil.FixedClock(testNow)})

	for i := 0; i < 2; i++ {
		res, err := svc.FromText(context.Background(), "cached", Options{})
		require.NoError(t, err)
		assert.Equal(t, MethodAI, res.Method)
		require.Len(t, res.Patents, 2)
		assert.Equal(t, "A", res.Patents[0].Name)
	}
	assert.Equal(t, 1, cache.loads)
	prov.AssertExpectations(t)
	assert.Equal(t, []observation{{"ai", "success"}, {"ai", "success"}}, metrics.all())
}

func TestFromText_ProviderErrorsAreNotCached(t *testing.T) {
	prov := new(mockProvider)
	prov.On("ParseText", mock.Anything, "x").Return("", stderrors.New("down")).Twice()
	cache := newMapCache()
	svc := NewService(Config{}, Deps{Provider: prov, Cache: cache, Now: testutil.FixedClock(testNow)})

	for i := 0; i < 2; i++ {
		_, err := svc.FromText(context.Background(), "x", Options{})
		require.NoError(t, err)
	}
	assert.Empty(t, cache.items)
	prov.AssertExpectations(t)
}

func TestFromText_Commit(t *testing.T) {
	repo := memory.NewPatentRepository()
	pub := &testutil.RecordingPublisher{}
	folio := portfolio.NewService(repo, pub, nil, portfolio.WithClock(testutil.FixedClock(testNow)))
	svc := NewService(Config{}, Deps{Committer: folio, Now: testutil.FixedClock(testNow)})

	res, err := svc.FromText(context.Background(), gazetteText, Options{Commit: true})
	require.NoError(t, err)
	assert.True(t, res.Committed)
	require.Len(t, res.Patents, 1)
	assert.NotEmpty(t, res.Patents[0].ID)
	assert.Equal(t, 1, repo.Len())
	assert.Equal(t, []patent.EventType{patent.EventImported}, pub.Types())
}

func TestFromText_CommitWithoutCommitter(t *testing.T) {
	svc := NewService(Config{}, Deps{Now: testutil.FixedClock(testNow)})
	_, err := svc.FromText(context.Background(), gazetteText, Options{Commit: true})
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotImplemented))
}

func TestFromFile_Validation(t *testing.T) {
	svc := NewService(Config{MaxDocumentBytes: 8}, Deps{})
	ctx := context.Background()

	_, err := svc.FromFile(ctx, Document{Name: "a.pdf"}, Options{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeImportEmptyInput))

	_, err = svc.FromFile(ctx, Document{Name: "a.pdf", Data: []byte("%PDF-1.7 too large")}, Options{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeImportTooLarge))

	_, err = svc.FromFile(ctx, Document{Name: "a.png", Data: []byte{0x89, 'P', 'N', 'G'}, MIMEType: "image/png"}, Options{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeImportUnsupportedDoc))
}

func TestFromFile_AIFileParsing(t *testing.T) {
	prov := new(mockProvider)
	prov.On("ParseFile", mock.Anything, mock.Anything, MIMEPDF).Return(`{"name":"Gemini 專利","country":"美國"}`, nil).Once()
	store := &fakeStore{}
	svc := NewService(Config{}, Deps{Provider: prov, Store: store, Extractor: fakeExtractor{err: stderrors.New("unused")}, Now: testutil.FixedClock(testNow)})

	res, err := svc.FromFile(context.Background(), pdfDoc("g.pdf"), Options{})
	require.NoError(t, err)
	assert.Equal(t, MethodAI, res.Method)
	assert.Equal(t, "documents/g.pdf", res.DocumentKey)
	assert.Equal(t, patent.CountryUS, res.Patents[0].Country)
	assert.Equal(t, []string{"g.pdf|application/pdf"}, store.puts)
	prov.AssertExpectations(t)
}

func TestFromFile_UnsupportedFileInputUsesText(t *testing.T) {
	prov := new(mockProvider)
	prov.On("ParseFile", mock.Anything, mock.Anything, MIMEPDF).Return("", llm.ErrFileInputUnsupported).Once()
	prov.On("ParseText", mock.Anything, "pdf text").Return(`{"name":"Claude 專利"}`, nil).Once()
	svc := NewService(Config{}, Deps{Provider: prov, Extractor: fakeExtractor{text: "pdf text"}, Now: testutil.FixedClock(testNow)})

	res, err := svc.FromFile(context.Background(), pdfDoc("c.pdf"), Options{})
	require.NoError(t, err)
	assert.Equal(t, MethodAI, res.Method)
	assert.Equal(t, "Claude 專利", res.Patents[0].Name)
	assert.Empty(t, res.DocumentKey)
	prov.AssertExpectations(t)
}

func TestFromFile_HeuristicFromExtractedText(t *testing.T) {
	store := &fakeStore{err: stderrors.New("bucket missing")}
	svc := NewService(Config{}, Deps{Store: store, Extractor: fakeExtractor{text: gazetteText}, Now: testutil.FixedClock(testNow)})

	res, err := svc.FromFile(context.Background(), Document{Name: "scan.PDF", Data: []byte("%PDF-1.4")}, Options{})
	require.NoError(t, err)
	assert.Equal(t, MethodHeuristic, res.Method)
	assert.Empty(t, res.DocumentKey)
	assert.Contains(t, res.Patents[0].Name, "太陽能板")
}

func TestFromFile_ExtractionFailures(t *testing.T) {
	ctx := context.Background()

	svc := NewService(Config{}, Deps{})
	_, err := svc.FromFile(ctx, pdfDoc("a.pdf"), Options{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeImportDocumentRead))

	svc = NewService(Config{}, Deps{Extractor: fakeExtractor{err: stderrors.New("corrupt xref")}})
	_, err = svc.FromFile(ctx, pdfDoc("a.pdf"), Options{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeImportDocumentRead))

	svc = NewService(Config{}, Deps{Extractor: fakeExtractor{text: "   "}})
	_, err = svc.FromFile(ctx, pdfDoc("a.pdf"), Options{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeImportDocumentRead))
}

func TestFromFile_PlainText(t *testing.T) {
	svc := NewService(Config{}, Deps{Now: testutil.FixedClock(testNow)})
	res, err := svc.FromFile(context.Background(), Document{Name: "notes.txt", Data: []byte(gazetteText)}, Options{})
	require.NoError(t, err)
	assert.Equal(t, MethodHeuristic, res.Method)
	assert.Equal(t, "2020-01-15", res.Patents[0].AppDate)
}

func TestDetectMIME(t *testing.T) {
	tests := []struct {
		name, declared string
		data           []byte
		want           string
	}{
		{"a.bin", "application/pdf; charset=binary", nil, MIMEPDF},
		{"a.pdf", "application/octet-stream", nil, MIMEPDF},
		{"a.txt", "", nil, MIMEText},
		{"upload", "", []byte("%PDF-1.5"), MIMEPDF},
		{"upload", "", []byte("純文字"), MIMEText},
		{"upload", "image/png", []byte{0x89, 'P'}, "image/png"},
		{"upload", "", []byte{0x00, 0x01}, "application/octet-stream"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectMIME(tt.name, tt.declared, tt.data), tt.name+" "+tt.declared)
	}
}

//Personal.AI order the ending
