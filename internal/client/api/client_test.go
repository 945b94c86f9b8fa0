package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{Origin: srv.URL, APIBase: "/api", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c, srv
}

func TestResolveBase(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		apiBase string
		want    string
		wantErr bool
	}{
		{"relative base", "http://localhost:5000", "/api", "http://localhost:5000/api", false},
		{"absolute base wins", "http://localhost:5000", "https://api.example.com/v1", "https://api.example.com/v1", false},
		{"origin with path", "http://host:8080/app", "api", "http://host:8080/app/api", false},
		{"empty base", "http://host", "", "http://host", false},
		{"relative origin", "localhost:5000", "/api", "", true},
		{"no origin", "", "/api", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ResolveBase(tt.origin, tt.apiBase)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.String())
		})
	}
}

func TestRequest_DefaultHeadersAndCacheBust(t *testing.T) {
	var got *http.Request
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	c.now = func() time.Time { return time.UnixMilli(1700000000123) }
	c.SetTokenSource(TokenFunc(func() string { return "tok-1" }))

	resp, err := c.Request(context.Background(), "/vehicles?status=perdido", WithQuery(url.Values{"marca": {"Seat"}}))
	require.NoError(t, err)
	assert.True(t, resp.JSON())

	require.NotNil(t, got)
	assert.Equal(t, "/api/vehicles", got.URL.Path)
	assert.Equal(t, "1700000000123", got.URL.Query().Get(CacheBustParam))
	assert.Equal(t, "perdido", got.URL.Query().Get("status"))
	assert.Equal(t, "Seat", got.URL.Query().Get("marca"))
	assert.Equal(t, "no-cache, no-store, must-revalidate", got.Header.Get("Cache-Control"))
	assert.Equal(t, "no-cache", got.Header.Get("Pragma"))
	assert.Equal(t, "0", got.Header.Get("Expires"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "Bearer tok-1", got.Header.Get("Authorization"))
	assert.NotEmpty(t, got.Header.Get(RequestIDHeader))
}

func TestRequest_CallerHeadersWin(t *testing.T) {
	var auth, cc string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		cc = r.Header.Get("Cache-Control")
		w.WriteHeader(http.StatusNoContent)
	})
	c.SetTokenSource(TokenFunc(func() string { return "installed" }))

	_, err := c.Request(context.Background(), "/auth/me", WithBearer("candidate"), WithHeader("Cache-Control", "max-age=0"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer candidate", auth)
	assert.Equal(t, "max-age=0", cc)
}

func TestRequest_NoTokenNoAuthorization(t *testing.T) {
	var present bool
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header["Authorization"]
		w.WriteHeader(http.StatusOK)
	})

	_, err := c.Request(context.Background(), "/health")
	require.NoError(t, err)
	assert.False(t, present)
}

func TestRequest_JSONBodyAndMethod(t *testing.T) {
	var method string
	var body bytes.Buffer
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		_, _ = body.ReadFrom(r.Body)
		w.WriteHeader(http.StatusCreated)
	})

	_, err := c.Request(context.Background(), "/vehicles", WithMethod(http.MethodPost), WithJSON(map[string]string{"matricula": "AA-11-BB"}))
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, method)
	assert.JSONEq(t, `{"matricula":"AA-11-BB"}`, body.String())
}

func TestRequest_NonJSONSuccessIsNotAnError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	resp, err := c.Request(context.Background(), "/ping")
	require.NoError(t, err)
	assert.False(t, resp.JSON())
	assert.Equal(t, "pong", resp.Text())

	var v map[string]any
	require.ErrorIs(t, resp.Decode(&v), ErrMalformedResponse)
}

func TestRequest_ErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantMsg     string
		wantIs      error
	}{
		{"json message", 400, "application/json", `{"message":"Marca já existe"}`, "Marca já existe", ErrValidation},
		{"json error field", 400, "application/json", `{"error":"Veículo com esta matrícula já existe"}`, "Veículo com esta matrícula já existe", ErrValidation},
		{"json without message", 422, "application/json", `{"detail":"x"}`, "HTTP 422: Unprocessable Entity", ErrValidation},
		{"plain text", 502, "text/plain", "  bad gateway upstream \n", "bad gateway upstream", ErrServer},
		{"html body", 500, "text/html", "<h1>boom</h1>", "<h1>boom</h1>", ErrServer},
		{"empty body", 500, "", "", "HTTP 500: Internal Server Error", ErrServer},
		{"unauthorized", 401, "application/json", `{"message":"Token has expired"}`, "Token has expired", ErrUnauthorized},
		{"forbidden", 403, "application/json", `{"message":"Admin privileges required"}`, "Admin privileges required", ErrForbidden},
		{"not found empty", 404, "", "", "HTTP 404: Not Found", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Request(context.Background(), "/x")
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.NotEmpty(t, err.Error())
			assert.ErrorIs(t, err, tt.wantIs)
		})
	}
}

func TestError_IsIsExclusive(t *testing.T) {
	err := &Error{StatusCode: 401, Message: "x"}
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrServer)

	err = &Error{StatusCode: 409, Message: "x"}
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRequest_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, err := New(Config{Origin: addr, APIBase: "/api", Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.Request(context.Background(), "/health")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "cannot reach the server, check your connection", UserMessage(err))
}

func TestRequest_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := c.Request(ctx, "/slow")
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestDownload(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/documents/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="queixa policia.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.4 data"))
	})

	var buf bytes.Buffer
	name, err := c.DownloadDocument(context.Background(), 7, &buf)
	require.NoError(t, err)
	assert.Equal(t, "queixa policia.pdf", name)
	assert.Equal(t, "%PDF-1.4 data", buf.String())
}

func TestDownload_ErrorAndNoDisposition(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/documents/1" {
			_, _ = w.Write([]byte("raw"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	var buf bytes.Buffer
	name, err := c.DownloadDocument(context.Background(), 1, &buf)
	require.NoError(t, err)
	assert.Empty(t, name)

	_, err = c.DownloadDocument(context.Background(), 2, &buf)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "cancelled", UserMessage(context.Canceled))
	assert.Equal(t, "Marca já existe", UserMessage(&Error{StatusCode: 400, Message: "Marca já existe"}))
	assert.Equal(t, "server error: HTTP 500: Internal Server Error", UserMessage(&Error{StatusCode: 500, Message: "HTTP 500: Internal Server Error"}))
	assert.Equal(t, "unexpected response from the server", UserMessage(ErrMalformedResponse))
	assert.Equal(t, "boom", UserMessage(errors.New("boom")))
}
