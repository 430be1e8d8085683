package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"jailpop/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><div class="ua">` + r.UserAgent() + `</div></body></html>`))
	})
	mux.HandleFunc("/redirect", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/page", http.StatusFound)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestDocument(t *testing.T) {
	server := newServer(t)
	tel := &telemetry.Recorder{}
	client := NewClient(tel, Options{Timeout: 5 * time.Second})

	doc, pageUrl, err := client.Document(context.Background(), server.URL+"/redirect")
	require.NoError(t, err)
	require.Equal(t, DefaultUserAgent, doc.Find("div.ua").Text())
	require.Equal(t, "/page", pageUrl.Path)

	require.NotEmpty(t, tel.Filter(telemetry.KindDebug))
	require.Empty(t, tel.Filter(telemetry.KindBroken))
}

func TestDocumentStatusError(t *testing.T) {
	server := newServer(t)
	tel := &telemetry.Recorder{}
	client := NewClient(tel, Options{UserAgent: "jailpop-test"})

	_, _, err := client.Document(context.Background(), server.URL+"/missing")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusNotFound, statusErr.Status)

	broken := tel.Filter(telemetry.KindBroken)
	require.Len(t, broken, 1)
	require.Equal(t, "fetch.client.document", broken[0].ID)

	// Get does not treat the status as an error
	res, err := client.Get(context.Background(), server.URL+"/missing")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, res.StatusCode())
}

func TestDump(t *testing.T) {
	server := newServer(t)
	dir := t.TempDir()
	output, err := telemetry.NewDirectoryOutput(dir)
	require.NoError(t, err)

	client := NewClient(&telemetry.Recorder{}, Options{Dump: output})
	_, err = client.Get(context.Background(), server.URL+"/page")
	require.NoError(t, err)

	contents, err := os.ReadFile(dir + "/1.txt")
	require.NoError(t, err)
	require.Contains(t, string(contents), "GET "+server.URL+"/page")
	require.Contains(t, string(contents), "200 OK")
}

func TestRateLimit(t *testing.T) {
	server := newServer(t)
	client := NewClient(&telemetry.Recorder{}, Options{RequestsPerSecond: 10})

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.Get(context.Background(), server.URL+"/page")
		require.NoError(t, err)
	}
	// the first request uses the initial token, the next two wait ~100ms each
	require.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}
