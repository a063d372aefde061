package rpc

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmkteam/zenrpc/v2"

	"github.com/daniilsolovey/vsk-portal/internal/cms"
	"github.com/daniilsolovey/vsk-portal/internal/cms/cmstest"
	"github.com/daniilsolovey/vsk-portal/internal/db"
	"github.com/daniilsolovey/vsk-portal/internal/upload"
)

func newTestServer(t *testing.T) (*zenrpc.Server, *cms.Manager, *cmstest.Stores) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	stores := cmstest.NewStores()
	uploads := upload.New(t.TempDir(), nil, logger).
		WithClock(func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local) })
	manager := cms.NewManager(stores.CMS(), uploads, logger)

	return New(logger, manager, uploads), manager, stores
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func call(t *testing.T, srv *zenrpc.Server, method string, params any) rpcResponse {
	t.Helper()

	body, err := json.Marshal(map[string]any{"jsonrpc": "2.0", "id": 1, "method": method, "params": params})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/rpc/", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestContentService_List(t *testing.T) {
	srv, manager, stores := newTestServer(t)
	ctx := context.Background()

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stores.Gallery.Now = func() time.Time { at = at.Add(time.Minute); return at }

	_, err := manager.Gallery.Create(ctx, &db.GalleryItem{Title: "Photo", Type: db.MediaImage},
		&upload.File{Name: "photo.png", Body: strings.NewReader("png")})
	require.NoError(t, err)
	_, err = manager.Gallery.Create(ctx, &db.GalleryItem{Title: "Clip", Type: db.MediaVideo},
		&upload.File{Name: "clip.mp4", Body: strings.NewReader("mp4")})
	require.NoError(t, err)

	t.Run("All", func(t *testing.T) {
		resp := call(t, srv, "content.list", map[string]any{"kind": cms.Gallery})
		require.Nil(t, resp.Error)

		var items []Item
		require.NoError(t, json.Unmarshal(resp.Result, &items))
		require.Len(t, items, 2)
		assert.Equal(t, "Clip", items[0].Title)
		assert.Equal(t, "/uploads/videos/clip_20240309_140507.mp4", items[0].FileURL)
		assert.Equal(t, db.MediaVideo, items[0].MediaType)
		assert.Equal(t, "/uploads/images/photo_20240309_140507.png", items[1].FileURL)
	})

	t.Run("Filtered", func(t *testing.T) {
		resp := call(t, srv, "content.list", map[string]any{"kind": cms.Gallery, "filter": Filter{Type: db.MediaImage}})
		require.Nil(t, resp.Error)

		var items []Item
		require.NoError(t, json.Unmarshal(resp.Result, &items))
		require.Len(t, items, 1)
		assert.Equal(t, "Photo", items[0].Title)
	})

	t.Run("PositionalParams", func(t *testing.T) {
		resp := call(t, srv, "content.list", []any{cms.News})
		require.Nil(t, resp.Error)
		assert.JSONEq(t, `[]`, string(resp.Result))
	})

	t.Run("UnknownKind", func(t *testing.T) {
		resp := call(t, srv, "content.list", map[string]any{"kind": "events"})
		require.NotNil(t, resp.Error)
		assert.Equal(t, 400, resp.Error.Code)
	})
}

func TestContentService_ByID(t *testing.T) {
	srv, manager, _ := newTestServer(t)
	ctx := context.Background()

	id, err := manager.ImportantDays.Create(ctx, &db.ImportantDay{Title: "Founding", Date: "1 May", Description: "D"}, nil)
	require.NoError(t, err)

	resp := call(t, srv, "content.byId", map[string]any{"kind": cms.ImportantDays, "id": id})
	require.Nil(t, resp.Error)

	var item Item
	require.NoError(t, json.Unmarshal(resp.Result, &item))
	assert.Equal(t, id, item.ID)
	assert.Equal(t, cms.ImportantDays, item.Kind)
	assert.Equal(t, "1 May", item.Date)
	assert.Equal(t, "D", item.Body)

	tests := []struct {
		name   string
		params map[string]any
		code   int
	}{
		{"Missing", map[string]any{"kind": cms.ImportantDays, "id": 99}, 404},
		{"OtherKind", map[string]any{"kind": cms.News, "id": id}, 404},
		{"NonPositive", map[string]any{"kind": cms.News, "id": 0}, 400},
		{"UnknownKind", map[string]any{"kind": "events", "id": 1}, 400},
		{"InvalidParams", map[string]any{"kind": cms.News, "id": "one"}, zenrpc.InvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, srv, "content.byId", tt.params)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestContentService_Stats(t *testing.T) {
	srv, manager, _ := newTestServer(t)
	ctx := context.Background()

	_, err := manager.Others.Create(ctx, &db.OtherItem{Title: "O", Content: "C"}, nil)
	require.NoError(t, err)
	_, err = manager.Articles.Create(ctx, &db.Article{Title: "A", Content: "C"}, nil)
	require.NoError(t, err)

	resp := call(t, srv, "content.stats", nil)
	require.Nil(t, resp.Error)

	var stats Stats
	require.NoError(t, json.Unmarshal(resp.Result, &stats))
	assert.Equal(t, Stats{Articles: 1, Others: 1}, stats)
}

func TestContentService_MethodNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := call(t, srv, "content.delete", map[string]any{"kind": cms.News, "id": 1})
	require.NotNil(t, resp.Error)
	assert.Equal(t, zenrpc.MethodNotFound, resp.Error.Code)
}

func TestServer_SMD(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/rpc/?smd", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := strings.ToLower(rec.Body.String())
	for _, method := range []string{"content.list", "content.byid", "content.stats"} {
		assert.Contains(t, body, method)
	}
}
