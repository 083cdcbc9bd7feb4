package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Engagic/packet-extraction-service/internal/config"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	cfg := config.Load()
	cfg.AllowPrivateNet = true // httptest listens on loopback
	return New(cfg, nil)
}

func pdfBody(n int) string {
	return "%PDF-1.7\n" + strings.Repeat("x", n)
}

func TestFetchValidPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla")
		_, _ = w.Write([]byte(pdfBody(512)))
	}))
	defer srv.Close()

	data, err := testClient(t).Fetch(context.Background(), srv.URL+"/packet.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestFetchRejectsNonPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>" + strings.Repeat("login required ", 20) + "</html>"))
	}))
	defer srv.Close()

	_, err := testClient(t).Fetch(context.Background(), srv.URL)
	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Contains(t, srcErr.Error(), "not a PDF")
}

func TestFetchRejectsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(t).Fetch(context.Background(), srv.URL)
	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
}

func TestFetchEnforcesSizeCap(t *testing.T) {
	cfg := config.Load()
	cfg.AllowPrivateNet = true
	cfg.MaxPDFBytes = 1024
	c := New(cfg, nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(pdfBody(4096)))
	}))
	defer srv.Close()

	_, err := c.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
}

func TestValidateURL(t *testing.T) {
	c := testClient(t)

	assert.Error(t, c.validateURL("ftp://example.gov/packet.pdf"))
	assert.Error(t, c.validateURL("https://"))
	assert.Error(t, c.validateURL("https://example.gov/"+strings.Repeat("a", 2100)))
	assert.NoError(t, c.validateURL("https://example.gov/packet.pdf"))
}

func TestValidateURLBlocksPrivateNetworks(t *testing.T) {
	cfg := config.Load()
	cfg.AllowPrivateNet = false
	c := New(cfg, nil)

	err := c.validateURL("http://127.0.0.1/packet.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked network")
}

func TestValidateMagic(t *testing.T) {
	assert.Error(t, validateMagic([]byte("short")))
	assert.Error(t, validateMagic([]byte(strings.Repeat("<html>", 30))))
	assert.NoError(t, validateMagic([]byte(pdfBody(200))))
}

func TestSourceErrorUnwraps(t *testing.T) {
	base := errors.New("inner")
	err := &SourceError{URL: "https://example.gov", Err: base}
	assert.ErrorIs(t, err, base)
}
