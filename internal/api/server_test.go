package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zappabad/bullrun/internal/session"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	cfg := session.DefaultConfig()
	cfg.Seed = 1
	srv := New(Options{SessionDefaults: cfg, MaxSessions: 4}, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Shutdown()
	})
	return srv, ts
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, out
}

func createSession(t *testing.T, ts *httptest.Server, difficulty string) string {
	t.Helper()
	resp, out := doJSON(t, http.MethodPost, ts.URL+"/v1/sessions", map[string]any{
		"difficulty": difficulty,
		"seed":       1,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session: status %d, body %v", resp.StatusCode, out)
	}
	id, _ := out["id"].(string)
	if id == "" {
		t.Fatal("create session: missing id")
	}
	return id
}

func TestCreateSession(t *testing.T) {
	_, ts := newTestServer(t)

	resp, out := doJSON(t, http.MethodPost, ts.URL+"/v1/sessions", map[string]any{
		"difficulty": "easy",
		"seed":       7,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status: got %d, want 201", resp.StatusCode)
	}
	if out["difficulty"] != "easy" {
		t.Errorf("difficulty: got %v", out["difficulty"])
	}
	if out["round"] != float64(1) {
		t.Errorf("round: got %v, want 1", out["round"])
	}
	if out["cash"] != float64(15000) {
		t.Errorf("easy starting cash: got %v, want 15000", out["cash"])
	}
}

func TestCreateSessionUnknownDifficulty(t *testing.T) {
	_, ts := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/v1/sessions", map[string]any{
		"difficulty": "nightmare",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestSessionLimit(t *testing.T) {
	_, ts := newTestServer(t)

	for i := 0; i < 4; i++ {
		createSession(t, ts, "normal")
	}
	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/v1/sessions", map[string]any{})
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", resp.StatusCode)
	}
}

func TestGetSession(t *testing.T) {
	_, ts := newTestServer(t)
	id := createSession(t, ts, "normal")

	resp, out := doJSON(t, http.MethodGet, ts.URL+"/v1/sessions/"+id, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	if out["id"] != id {
		t.Errorf("id mismatch: got %v", out["id"])
	}
	prices, ok := out["prices"].(map[string]any)
	if !ok || len(prices) != 4 {
		t.Errorf("expected 4 asset prices, got %v", out["prices"])
	}
}

func TestGetSessionErrors(t *testing.T) {
	_, ts := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/v1/sessions/not-a-uuid", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid id: got %d, want 400", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/v1/sessions/00000000-0000-0000-0000-000000000001", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown id: got %d, want 404", resp.StatusCode)
	}
}

func TestTradeEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	id := createSession(t, ts, "normal")

	resp, out := doJSON(t, http.MethodPost, ts.URL+"/v1/sessions/"+id+"/trades", map[string]any{
		"asset":  "stocks",
		"action": "buy",
		"amount": map[string]any{"dollars": 1000},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, body %v", resp.StatusCode, out)
	}
	if out["action"] != "BUY" || out["cost"] != float64(1000) {
		t.Errorf("unexpected trade result: %v", out)
	}

	_, snap := doJSON(t, http.MethodGet, ts.URL+"/v1/sessions/"+id, nil)
	if snap["cash"] != float64(9000) {
		t.Errorf("cash after buy: got %v, want 9000", snap["cash"])
	}
}

func TestTradeEndpointRejections(t *testing.T) {
	_, ts := newTestServer(t)
	id := createSession(t, ts, "normal")
	url := ts.URL + "/v1/sessions/" + id + "/trades"

	cases := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"bad action", map[string]any{"asset": "stocks", "action": "yolo", "amount": map[string]any{"dollars": 1}}, http.StatusBadRequest},
		{"ambiguous amount", map[string]any{"asset": "stocks", "action": "buy", "amount": map[string]any{"dollars": 1, "units": 1}}, http.StatusBadRequest},
		{"empty amount", map[string]any{"asset": "stocks", "action": "buy", "amount": map[string]any{}}, http.StatusBadRequest},
		{"unknown asset", map[string]any{"asset": "tulips", "action": "buy", "amount": map[string]any{"dollars": 1}}, http.StatusBadRequest},
		{"insufficient funds", map[string]any{"asset": "stocks", "action": "buy", "amount": map[string]any{"dollars": 999999}}, http.StatusConflict},
		{"sell with no holdings", map[string]any{"asset": "oil", "action": "sell", "amount": map[string]any{"units": 1}}, http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, out := doJSON(t, http.MethodPost, url, tc.body)
			if resp.StatusCode != tc.status {
				t.Errorf("status: got %d, want %d (body %v)", resp.StatusCode, tc.status, out)
			}
		})
	}
}

func TestPauseEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	id := createSession(t, ts, "normal")

	resp, out := doJSON(t, http.MethodPost, ts.URL+"/v1/sessions/"+id+"/pause", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	if out["paused"] != true {
		t.Error("session should be paused")
	}

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/v1/sessions/"+id+"/trades", map[string]any{
		"asset": "stocks", "action": "buy", "amount": map[string]any{"dollars": 100},
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("trade while paused: got %d, want 409", resp.StatusCode)
	}

	_, out = doJSON(t, http.MethodPost, ts.URL+"/v1/sessions/"+id+"/pause", nil)
	if out["paused"] != false {
		t.Error("session should be resumed")
	}
}

func TestAcceptOpportunityWithoutOffer(t *testing.T) {
	_, ts := newTestServer(t)
	id := createSession(t, ts, "normal")

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/v1/sessions/"+id+"/opportunity/accept", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestEndAndDeleteSession(t *testing.T) {
	srv, ts := newTestServer(t)
	id := createSession(t, ts, "normal")

	resp, out := doJSON(t, http.MethodPost, ts.URL+"/v1/sessions/"+id+"/end", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("end status: got %d", resp.StatusCode)
	}
	if out["game_over"] != true {
		t.Error("end should terminate the game")
	}
	if _, ok := out["result"].(map[string]any); !ok {
		t.Error("end should include a result record")
	}

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/v1/sessions/"+id, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status: got %d", resp.StatusCode)
	}
	if srv.reg.count() != 0 {
		t.Errorf("registry should be empty, has %d", srv.reg.count())
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/v1/sessions/"+id, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete: got %d, want 404", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)
	resp, out := doJSON(t, http.MethodGet, ts.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	if out["ok"] != true {
		t.Errorf("unexpected body: %v", out)
	}
}

func TestWebSocketStreamsTradeEvents(t *testing.T) {
	_, ts := newTestServer(t)
	id := createSession(t, ts, "normal")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/sessions/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Give the hub a moment to register the client before trading.
	time.Sleep(100 * time.Millisecond)

	resp, out := doJSON(t, http.MethodPost, ts.URL+"/v1/sessions/"+id+"/trades", map[string]any{
		"asset": "gold", "action": "buy", "amount": map[string]any{"dollars": 500},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("trade failed: %v", out)
	}

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var msg struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("no trade_executed frame before deadline: %v", err)
		}
		if msg.Type == "trade_executed" {
			var payload struct {
				Trade tradeResultDTO `json:"trade"`
			}
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				t.Fatal(err)
			}
			if payload.Trade.Asset != "gold" {
				t.Errorf("trade asset: got %s, want gold", payload.Trade.Asset)
			}
			return
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text") {
		t.Errorf("unexpected content type %q", ct)
	}
}
