package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImport_Text(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/import/text", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "[54] 發明名稱 太陽能板", body["text"])
		assert.Equal(t, true, body["commit"])
		assert.Equal(t, false, body["heuristicOnly"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"patents":[{"id":"p-1","name":"太陽能板"}],"method":"heuristic","committed":true}`))
	}
	res, err := newTestClient(t, handler).Import().Text(context.Background(), "[54] 發明名稱 太陽能板", ImportOptions{Commit: true})
	require.NoError(t, err)
	assert.Equal(t, "heuristic", res.Method)
	assert.True(t, res.Committed)
	require.Len(t, res.Patents, 1)
}

func TestImport_File(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/import/file", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("heuristicOnly"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, fh, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "gazette.txt", fh.Filename)
		assert.Equal(t, "[54] 新型名稱 水壺", string(data))
		w.Write([]byte(`{"patents":[{"name":"水壺","type":"Utility"}],"method":"heuristic","committed":false}`))
	}
	res, err := newTestClient(t, handler).Import().File(context.Background(),
		Document{Name: "gazette.txt", Data: []byte("[54] 新型名稱 水壺")}, ImportOptions{HeuristicOnly: true})
	require.NoError(t, err)
	assert.Equal(t, "Utility", res.Patents[0].Type)
	assert.False(t, res.Committed)
}

func TestImport_Batch(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/import/batch", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Len(t, r.MultipartForm.File["files"], 2)
		w.Write([]byte(`{"items":[{"name":"a.txt","result":{"method":"heuristic"}},{"name":"b.pdf","error":"unreadable","code":"IMP_003"}],"succeeded":1,"failed":1}`))
	}
	res, err := newTestClient(t, handler).Import().Batch(context.Background(), []Document{
		{Name: "a.txt", Data: []byte("a")},
		{Name: "b.pdf", Data: []byte("b")},
	}, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, "IMP_003", res.Items[1].Code)
}

func TestImport_BatchEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	_, err := c.Import().Batch(context.Background(), nil, ImportOptions{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAssistant_Chat(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/assistant/chat", r.URL.Path)
		switch r.Method {
		case http.MethodPost:
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "hello", body["message"])
			w.Write([]byte(`{"reply":"hi"}`))
		case http.MethodGet:
			w.Write([]byte(`[{"role":"user","text":"hello"},{"role":"model","text":"hi"}]`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}
	ac := newTestClient(t, handler).Assistant()
	ctx := context.Background()

	reply, err := ac.Chat(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi", reply)

	history, err := ac.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "model", history[1].Role)

	assert.NoError(t, ac.Reset(ctx))
}

//Personal.AI order the ending
