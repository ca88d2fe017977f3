package http

import (
	"Shortly-Backend/internal/auth"
	"Shortly-Backend/internal/config"
	"Shortly-Backend/internal/repository/memory"
	"Shortly-Backend/internal/service"
	"Shortly-Backend/pkg/useragent"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testBaseURL = "http://sho.rt"

func newTestServer(t *testing.T) (http.Handler, *memory.MemStorage) {
	t.Helper()

	storage := memory.New()
	log := zap.NewNop()

	jwtService := auth.NewJWTService(&auth.JWTConfig{
		SecretKey: []byte("test-secret"),
		TokenTTL:  time.Hour,
		Issuer:    "Shortly-Backend-test",
	})

	cfg := &config.URLShortener{CodeLength: 7, BaseURL: testBaseURL}
	urlShortener := service.NewURLShortener(storage, cfg)
	resolver := service.NewResolver(storage, nil, log)

	server := NewServer(
		storage,
		urlShortener,
		resolver,
		jwtService,
		auth.NewPasswordService(),
		useragent.New(log),
		log,
		testBaseURL,
	)

	return server.SetupRoutes(), storage
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, handler http.Handler, email, password string) string {
	t.Helper()

	rec := doJSON(t, handler, http.MethodPost, "/register", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, handler, http.MethodPost, "/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

type linkRecord struct {
	ID        int64     `json:"id"`
	Full      string    `json:"full"`
	Short     string    `json:"short"`
	Clicks    int64     `json:"clicks"`
	Owner     int64     `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
}

func TestEndToEnd_RegisterLoginCreateResolveList(t *testing.T) {
	handler, _ := newTestServer(t)

	token := registerAndLogin(t, handler, "a@x.com", "pw123")

	// Create a link with a custom slug.
	rec := doJSON(t, handler, http.MethodPost, "/shortUrls", token,
		map[string]string{"fullUrl": "https://example.com", "customSlug": "ex1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created linkRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "ex1", created.Short)
	assert.Equal(t, "https://example.com", created.Full)
	assert.Equal(t, int64(0), created.Clicks)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	// Anonymous resolution redirects and counts the click.
	rec = doJSON(t, handler, http.MethodGet, "/ex1", "", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://example.com", rec.Header().Get("Location"))

	// The owner's listing shows the incremented counter.
	rec = doJSON(t, handler, http.MethodGet, "/shortUrls", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var links []linkRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &links))
	require.Len(t, links, 1)
	assert.Equal(t, "ex1", links[0].Short)
	assert.Equal(t, int64(1), links[0].Clicks)
}

func TestEndToEnd_OwnershipIsolation(t *testing.T) {
	handler, _ := newTestServer(t)

	tokenA := registerAndLogin(t, handler, "a@x.com", "pw123")
	tokenB := registerAndLogin(t, handler, "b@x.com", "pw456")

	rec := doJSON(t, handler, http.MethodPost, "/shortUrls", tokenA,
		map[string]string{"fullUrl": "https://a.com", "customSlug": "linka"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/shortUrls", tokenB,
		map[string]string{"fullUrl": "https://b.com", "customSlug": "linkb"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/shortUrls", tokenA, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var links []linkRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &links))
	require.Len(t, links, 1)
	assert.Equal(t, "linka", links[0].Short)
}

func TestEndToEnd_ConcurrentResolutions(t *testing.T) {
	handler, storage := newTestServer(t)

	token := registerAndLogin(t, handler, "a@x.com", "pw123")
	rec := doJSON(t, handler, http.MethodPost, "/shortUrls", token,
		map[string]string{"fullUrl": "https://example.com", "customSlug": "hot"})
	require.Equal(t, http.StatusOK, rec.Code)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/hot", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusFound, rec.Code)
		}()
	}
	wg.Wait()

	link, err := storage.GetLink(t.Context(), "hot")
	require.NoError(t, err)
	assert.Equal(t, int64(n), link.ClickCount)
}

func TestShortURLs_RequiresAuth(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/shortUrls", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/shortUrls", "",
		map[string]string{"fullUrl": "https://example.com"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/shortUrls", "forged-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister_MethodNotAllowed(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/register", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
