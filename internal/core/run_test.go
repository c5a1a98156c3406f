package core

import (
	"bytes"
	"context"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/siops/insights-cli/internal/api"
	"github.com/siops/insights-cli/internal/config"
	"github.com/siops/insights-cli/internal/logging"
)

type fakeAPI struct {
	server      *httptest.Server
	tokenStatus int
	listingHits int
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{tokenStatus: nethttp.StatusOK}

	mux := nethttp.NewServeMux()
	mux.HandleFunc("/restapi/v1/tenants/tenant-1/token", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			w.WriteHeader(nethttp.StatusMethodNotAllowed)
			return
		}
		if f.tokenStatus != nethttp.StatusOK {
			w.WriteHeader(f.tokenStatus)
			w.Write([]byte("token exchange refused"))
			return
		}
		w.Write([]byte(`{"result":{"token":"TOK-123","expiration":1700000000000}}`))
	})
	mux.HandleFunc("/restapi/v1/tenants/tenant-1/storage-systems", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			w.WriteHeader(nethttp.StatusMethodNotAllowed)
			return
		}
		f.listingHits++
		if r.Header.Get("x-api-token") != "TOK-123" {
			w.WriteHeader(nethttp.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"storageType":"block","data":[{"name":"sys1","condition":"Normal"}]}`))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func newTestRunner(t *testing.T, f *fakeAPI) (*Runner, map[string][]byte, *bytes.Buffer) {
	t.Helper()

	client, err := api.NewClient(api.Options{})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	endpoints := config.Endpoints{
		BaseURL:            f.server.URL,
		TokenPath:          "/restapi/v1/tenants/{tenant}/token",
		StorageSystemsPath: "/restapi/v1/tenants/{tenant}/storage-systems",
	}

	runner := NewRunner(client, endpoints, logging.NewLogger(io.Discard))

	written := make(map[string][]byte)
	runner.WriteFile = func(path string, data []byte) error {
		written[path] = data
		return nil
	}
	stdout := &bytes.Buffer{}
	runner.Stdout = stdout

	return runner, written, stdout
}

var runCreds = &config.Credentials{APIKey: "key-1", TenantID: "tenant-1"}

// TestRunWritesAllArtifacts verifies one invocation produces the token,
// JSON, and table artifacts, each with a trailing newline, plus the
// stdout table.
func TestRunWritesAllArtifacts(t *testing.T) {
	runner, written, stdout := newTestRunner(t, newFakeAPI(t))

	err := runner.Run(context.Background(), runCreds, Options{
		StorageType: "block",
		JSONOut:     "payload.json",
		TableOut:    "table.txt",
		TokenOut:    "token.txt",
		PrintTable:  true,
		Limit:       -1,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := string(written["token.txt"]); got != "TOK-123\n" {
		t.Errorf("token artifact = %q, want %q", got, "TOK-123\n")
	}

	jsonOut := string(written["payload.json"])
	if !strings.HasSuffix(jsonOut, "\n") {
		t.Error("JSON artifact missing trailing newline")
	}
	if !strings.Contains(jsonOut, "\n  \"storageType\": \"block\"") {
		t.Errorf("JSON artifact not pretty-printed: %q", jsonOut)
	}

	tableOut := string(written["table.txt"])
	if !strings.HasSuffix(tableOut, "\n") {
		t.Error("table artifact missing trailing newline")
	}
	if !strings.Contains(tableOut, "sys1") || !strings.Contains(tableOut, "Normal") {
		t.Errorf("table artifact missing the record row: %q", tableOut)
	}
	if !strings.HasPrefix(tableOut, "Name ") {
		t.Errorf("table artifact missing the header row: %q", tableOut)
	}

	if !strings.Contains(stdout.String(), "sys1") {
		t.Error("--table output missing from stdout")
	}
}

// TestRunSkipsUnrequestedArtifacts verifies nothing is written when no
// artifact path is given.
func TestRunSkipsUnrequestedArtifacts(t *testing.T) {
	runner, written, stdout := newTestRunner(t, newFakeAPI(t))

	if err := runner.Run(context.Background(), runCreds, Options{StorageType: "block", Limit: -1}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(written) != 0 {
		t.Errorf("%d artifacts written, want 0", len(written))
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty without --table", stdout.String())
	}
}

// TestRunAbortsOnTokenFailure verifies a failed token exchange stops
// the run before the listing is ever fetched.
func TestRunAbortsOnTokenFailure(t *testing.T) {
	fake := newFakeAPI(t)
	fake.tokenStatus = nethttp.StatusInternalServerError
	runner, written, _ := newTestRunner(t, fake)

	err := runner.Run(context.Background(), runCreds, Options{
		StorageType: "block",
		JSONOut:     "payload.json",
		Limit:       -1,
	})
	if err == nil {
		t.Fatal("Run() should fail when the token exchange fails")
	}
	if !api.IsHTTPStatus(err, nethttp.StatusInternalServerError) {
		t.Errorf("error = %v, want the underlying HTTPStatusError", err)
	}
	if fake.listingHits != 0 {
		t.Errorf("listing fetched %d times after token failure, want 0", fake.listingHits)
	}
	if len(written) != 0 {
		t.Errorf("%d artifacts written after failure, want 0", len(written))
	}
}

// TestRunAbortsOnArtifactWriteFailure verifies an artifact write error
// propagates exactly like a pipeline failure.
func TestRunAbortsOnArtifactWriteFailure(t *testing.T) {
	runner, _, _ := newTestRunner(t, newFakeAPI(t))
	diskFull := errors.New("disk full")
	runner.WriteFile = func(path string, data []byte) error { return diskFull }

	err := runner.Run(context.Background(), runCreds, Options{
		StorageType: "block",
		TokenOut:    "token.txt",
		Limit:       -1,
	})
	if !errors.Is(err, diskFull) {
		t.Errorf("Run() error = %v, want the write failure wrapped", err)
	}
}

// TestRunHonorsLimit verifies the limit option caps table rows.
func TestRunHonorsLimit(t *testing.T) {
	runner, written, _ := newTestRunner(t, newFakeAPI(t))

	err := runner.Run(context.Background(), runCreds, Options{
		StorageType: "block",
		TableOut:    "table.txt",
		Limit:       0,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// header + divider + trailing newline, zero body rows
	lines := strings.Split(strings.TrimRight(string(written["table.txt"]), "\n"), "\n")
	if len(lines) != 2 {
		t.Errorf("table has %d lines, want 2 with limit 0", len(lines))
	}
}
