package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/lendtrack/internal/config"
	"github.com/jask/lendtrack/internal/database"
	"github.com/jask/lendtrack/internal/domain"
	"github.com/jask/lendtrack/internal/service"
)

func newTestServer(t *testing.T, cfg config.ServerConfig) *httptest.Server {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrations(db, database.DriverSQLite))

	srv := httptest.NewServer(NewHandler(cfg, service.NewLendingService(db)))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func errorOf(t *testing.T, body []byte) string {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	return e.Error
}

func TestFriendLifecycle(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})
	base := srv.URL + "/api"

	resp, body := do(t, http.MethodGet, base+"/friends", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `[]`, string(body))

	resp, body = do(t, http.MethodPost, base+"/friends", friendRequest{Name: "Zoe"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var zoe domain.Friend
	require.NoError(t, json.Unmarshal(body, &zoe))
	require.Equal(t, "Zoe", zoe.Name)

	_, _ = do(t, http.MethodPost, base+"/friends", friendRequest{Name: "Amy"})

	resp, body = do(t, http.MethodGet, base+"/friends", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []domain.Friend
	require.NoError(t, json.Unmarshal(body, &list))
	require.Equal(t, []string{"Amy", "Zoe"}, domain.FriendNames(list))

	resp, body = do(t, http.MethodPost, base+"/friends", friendRequest{Name: "Zoe"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "Friend already exists", errorOf(t, body))

	resp, body = do(t, http.MethodGet, base+"/friends/abc", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid friend ID", errorOf(t, body))

	resp, body = do(t, http.MethodGet, base+"/friends/999", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Friend not found", errorOf(t, body))

	resp, body = do(t, http.MethodDelete, srv.URL+"/api/friends/"+itoa(zoe.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"result":"success"}`, string(body))
}

func TestCreateFriendValidation(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})

	resp, body := do(t, http.MethodPost, srv.URL+"/api/friends", "{not json")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid request payload", errorOf(t, body))

	resp, body = do(t, http.MethodPost, srv.URL+"/api/friends", friendRequest{Name: "  "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Friend name is required", errorOf(t, body))
}

func TestItemLifecycle(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})
	base := srv.URL + "/api"

	_, body := do(t, http.MethodPost, base+"/friends", friendRequest{Name: "Ben"})
	var ben domain.Friend
	require.NoError(t, json.Unmarshal(body, &ben))

	resp, body := do(t, http.MethodPost, base+"/items", itemRequest{Name: "kayak", FriendID: ben.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var kayak domain.Item
	require.NoError(t, json.Unmarshal(body, &kayak))
	require.Equal(t, ben.ID, kayak.FriendID)
	require.Contains(t, string(body), `"friendId"`)

	resp, body = do(t, http.MethodGet, base+"/friends/"+itoa(ben.ID)+"/items", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []domain.Item
	require.NoError(t, json.Unmarshal(body, &items))
	require.Len(t, items, 1)

	resp, _ = do(t, http.MethodGet, base+"/items/"+itoa(kayak.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, http.MethodDelete, base+"/friends/"+itoa(ben.ID), nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "Friend still has borrowed items", errorOf(t, body))

	resp, _ = do(t, http.MethodDelete, base+"/items/"+itoa(kayak.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, http.MethodDelete, base+"/items/"+itoa(kayak.ID), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Item not found", errorOf(t, body))

	for _, path := range []string{"/items/0", "/friends/0", "/friends/0/items"} {
		resp, body = do(t, http.MethodGet, base+path, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}

	resp, body = do(t, http.MethodGet, base+"/items/x", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid item ID", errorOf(t, body))
}

func TestCreateItemValidation(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})

	cases := []struct {
		body any
		want string
	}{
		{body: "[", want: "Invalid request payload"},
		{body: itemRequest{Name: "", FriendID: 1}, want: "Item name is required"},
		{body: itemRequest{Name: "rope"}, want: "Friend ID is required"},
		{body: itemRequest{Name: "rope", FriendID: 77}, want: "Friend does not exist"},
	}
	for _, tc := range cases {
		resp, body := do(t, http.MethodPost, srv.URL+"/api/items", tc.body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, tc.want, errorOf(t, body))
	}
}

func TestBearerToken(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{APIToken: "s3cret"})

	resp, body := do(t, http.MethodGet, srv.URL+"/api/friends", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Unauthorized", errorOf(t, body))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/friends", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer s3cret")
	ok, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	ok.Body.Close()
	require.Equal(t, http.StatusOK, ok.StatusCode)

	up, _ := do(t, http.MethodGet, srv.URL+"/up", nil)
	require.Equal(t, http.StatusOK, up.StatusCode, "health check is not behind the token")
}

func TestCORSAndRequestID(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/items", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Less(t, resp.StatusCode, 300)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	get, _ := do(t, http.MethodGet, srv.URL+"/api/friends", nil)
	require.NotEmpty(t, get.Header.Get(requestIDHeader))

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/api/friends", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "abc-123")
	echoed, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	echoed.Body.Close()
	require.Equal(t, "abc-123", echoed.Header.Get(requestIDHeader))
}

func TestStaticDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>lendtrack</h1>"), 0o644))
	srv := newTestServer(t, config.ServerConfig{StaticDir: dir})

	resp, body := do(t, http.MethodGet, srv.URL+"/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "lendtrack")
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
