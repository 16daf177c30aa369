package backend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := testStore(t)
	ts := httptest.NewServer(NewServer("127.0.0.1:0", store).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("content type = %q", got)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}

	var body map[string]string
	decode(t, resp, &body)
	if body["status"] != "healthy" {
		t.Errorf("body = %v", body)
	}
}

func TestUserEndpoints(t *testing.T) {
	ts := testServer(t)

	payload := `{"name": "Gopher", "email": "gopher@example.com", "progress": {"basic_01": 2}}`
	resp, err := http.Post(ts.URL+"/users/u1", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/users/u1")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET status = %d", resp.StatusCode)
	}
	var u User
	decode(t, resp, &u)
	if u.Name != "Gopher" || u.Email != "gopher@example.com" {
		t.Errorf("user = %+v", u)
	}
	if got := u.Progress["basic_01"]; got != float64(2) {
		t.Errorf("progress basic_01 = %v", got)
	}
}

func TestGetUserNotFoundEnvelope(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/users/ghost")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body ErrorResponse
	decode(t, resp, &body)
	if body.Error.Code != ErrCodeNotFound {
		t.Errorf("error code = %q", body.Error.Code)
	}
}

func TestPutUserRejectsBadBodies(t *testing.T) {
	ts := testServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"not_json", "not json"},
		{"unknown_field", `{"name": "A", "bogus": true}`},
		{"trailing_garbage", `{"name": "A"}{"again": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/users/u1", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestPutUserSanitizesName(t *testing.T) {
	ts := testServer(t)

	payload := `{"name": "<script>alert(1)</script>Gopher", "email": "g@example.com"}`
	resp, err := http.Post(ts.URL+"/users/u2", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/users/u2")
	if err != nil {
		t.Fatal(err)
	}
	var u User
	decode(t, resp, &u)
	if strings.Contains(u.Name, "<script>") {
		t.Errorf("name not sanitized: %q", u.Name)
	}
	if u.Name != "Gopher" {
		t.Errorf("name = %q, want %q", u.Name, "Gopher")
	}
}

func TestDataEndpoints(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/data/theme", "application/json", strings.NewReader(`{"value": "dark"}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/data/theme")
	if err != nil {
		t.Fatal(err)
	}
	var body map[string]string
	decode(t, resp, &body)
	if body["value"] != "dark" {
		t.Errorf("value = %q", body["value"])
	}

	resp, err = http.Get(ts.URL + "/data/missing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing key status = %d", resp.StatusCode)
	}
}

func TestMetricsEndpointCounts(t *testing.T) {
	ts := testServer(t)

	for i := 0; i < 3; i++ {
		resp, err := http.Get(ts.URL + "/health")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
	}
	resp, err := http.Get(ts.URL + "/users/ghost")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	var snap MetricsSnapshot
	decode(t, resp, &snap)

	if snap.Requests < 4 {
		t.Errorf("requests = %d, want >= 4", snap.Requests)
	}
	if snap.ClientErrors < 1 {
		t.Errorf("client_errors = %d, want >= 1", snap.ClientErrors)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := testServer(t)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/users/u1", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}
