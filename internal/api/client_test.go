package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikbrunner/postmark/internal/api"
	"github.com/nikbrunner/postmark/internal/httpserver"
	"github.com/nikbrunner/postmark/internal/httpserver/deps"
	"github.com/nikbrunner/postmark/internal/linkpreview"
	"github.com/nikbrunner/postmark/internal/logger"
	"github.com/nikbrunner/postmark/internal/model"
	"github.com/nikbrunner/postmark/internal/storage"
)

type stubResolver struct{}

func (stubResolver) Fetch(_ context.Context, rawURL string) (model.Preview, error) {
	return model.Preview{URL: rawURL, Title: "stub"}, nil
}

func newClient(t *testing.T) *api.Client {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "postmark.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ts := httptest.NewServer(httpserver.NewRouter(deps.Deps{
		Logger:    logger.Nop(),
		StartTime: time.Now(),
		Storage:   store,
		Previews:  linkpreview.NewService(stubResolver{}, nil, time.Hour, nil),
	}))
	t.Cleanup(ts.Close)

	c, err := api.NewClient(ts.URL+"/", time.Second)
	require.NoError(t, err)
	return c
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	_, err := api.NewClient("localhost:8080", 0)
	assert.Error(t, err)
}

func TestClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	folders, err := c.ListFolders(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	defaultID := folders[0].ID

	work, err := c.CreateFolder(ctx, "Work")
	require.NoError(t, err)

	work, err = c.RenameFolder(ctx, work.ID, "Office")
	require.NoError(t, err)
	assert.Equal(t, "Office", work.Name)

	b, err := c.CreateBookmark(ctx, "https://x.com/golang/status/1", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{defaultID}, b.FolderIDs)

	b, err = c.SetBookmarkFolders(ctx, b.ID, []string{work.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{work.ID}, b.FolderIDs)

	list, err := c.ListBookmarks(ctx, model.BookmarkQuery{FolderID: &work.ID, Q: "golang"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	p, err := c.Preview(ctx, b.URL)
	require.NoError(t, err)
	assert.Equal(t, "stub", p.Title)

	require.NoError(t, c.DeleteFolder(ctx, work.ID, model.DeleteBookmarks))

	list, err = c.ListBookmarks(ctx, model.BookmarkQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestClient_RemoteErrors(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	folders, err := c.ListFolders(ctx)
	require.NoError(t, err)
	defaultID := folders[0].ID

	_, err = c.CreateFolder(ctx, "Work")
	require.NoError(t, err)

	_, err = c.CreateFolder(ctx, "Work")
	var remote *model.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusConflict, remote.Status)
	assert.Contains(t, remote.Detail, "Work")
	assert.ErrorIs(t, err, model.ErrRemote)
	assert.ErrorIs(t, err, model.ErrConflict)

	err = c.DeleteFolder(ctx, defaultID, model.DeleteKeep)
	assert.ErrorIs(t, err, model.ErrDefaultFolder)

	err = c.DeleteBookmark(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestClient_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()

	c, err := api.NewClient(ts.URL, 100*time.Millisecond)
	require.NoError(t, err)

	_, err = c.ListFolders(context.Background())
	var remote *model.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, 0, remote.Status)
	assert.ErrorIs(t, err, model.ErrRemote)
}

func TestClient_PlainTextErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer ts.Close()

	c, err := api.NewClient(ts.URL, time.Second)
	require.NoError(t, err)

	_, err = c.ListBookmarks(context.Background(), model.BookmarkQuery{})
	var remote *model.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusBadGateway, remote.Status)
	assert.Equal(t, "upstream down", remote.Detail)
	assert.Equal(t, "list bookmarks: status 502: upstream down", err.Error())
}

func TestClient_EscapesIDsOnce(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	c, err := api.NewClient(ts.URL+"/v1", time.Second)
	require.NoError(t, err)

	require.NoError(t, c.DeleteBookmark(context.Background(), "a/b c"))
	assert.Equal(t, "/v1/api/bookmarks/a%2Fb%20c", got)
}
