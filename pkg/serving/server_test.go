package serving

import (
	"encoding/json"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HostMonitor/pkg/metrics"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// fakeSource reports monotonically growing network totals.
type fakeSource struct {
	calls atomic.Uint64
}

func (f *fakeSource) CollectAll() metrics.Snapshot {
	n := f.calls.Add(1)
	return metrics.Snapshot{
		CPUUsagePercent: 12.5,
		MemoryUsedKB:    2048,
		Network:         metrics.NetworkStats{BytesSent: 100 * n, BytesReceived: 200 * n},
		ProcessCount:    42,
		LoadAverage:     metrics.LoadAverage{One: 0.5, Five: 0.25, Fifteen: 0.126},
	}
}

var client = &http.Client{
	Timeout:   5 * time.Second,
	Transport: &http.Transport{DisableKeepAlives: true},
}

func startServer(t *testing.T, opts ...Option) (*Server, *fakeSource, string) {
	t.Helper()
	c := &fakeSource{}
	s := New(c, opts...)
	require.NoError(t, s.Start(0))
	t.Cleanup(s.Stop)
	return s, c, "http://" + s.Addr()
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHealth(t *testing.T) {
	_, c, base := startServer(t)

	resp, body := get(t, base+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"status":"ok"}`, body)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, int64(len(body)), resp.ContentLength)
	assert.True(t, resp.Close, "connection should be closed after the response")
	assert.Zero(t, c.calls.Load(), "health does not collect")
}

func TestRouting(t *testing.T) {
	_, _, base := startServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		status int
		body   string
	}{
		{"unknown path", http.MethodGet, "/unknown", http.StatusNotFound, `{"error":"Not Found"}`},
		{"nested path", http.MethodGet, "/metrics/extra", http.StatusNotFound, `{"error":"Not Found"}`},
		{"post metrics", http.MethodPost, "/metrics", http.StatusMethodNotAllowed, `{"error":"Method Not Allowed"}`},
		{"delete health", http.MethodDelete, "/health", http.StatusMethodNotAllowed, `{"error":"Method Not Allowed"}`},
		{"put unknown", http.MethodPut, "/unknown", http.StatusMethodNotAllowed, `{"error":"Method Not Allowed"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, base+tt.path, strings.NewReader("ignored"))
			require.NoError(t, err)
			resp, err := client.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.body, string(body))
			assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestMetrics(t *testing.T) {
	_, c, base := startServer(t)

	for _, path := range []string{"/metrics", "/"} {
		resp, body := get(t, base+path)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(body), &doc), body)
		for _, key := range []string{"cpu_usage_percent", "memory_used_kb", "network", "disk", "process_count", "load_average"} {
			assert.Contains(t, doc, key)
		}
		assert.Contains(t, body, `"cpu_usage_percent": 12.50`)
		assert.Contains(t, body, `"15min": 0.13`)
	}
	assert.Equal(t, uint64(2), c.calls.Load(), "each metrics request collects once")
}

func TestMetricsNetworkMonotonic(t *testing.T) {
	_, _, base := startServer(t)

	type doc struct {
		Network struct {
			BytesSent     uint64 `json:"bytes_sent"`
			BytesReceived uint64 `json:"bytes_received"`
		} `json:"network"`
	}

	var prev doc
	for i := 0; i < 3; i++ {
		_, body := get(t, base+"/metrics")
		var cur doc
		require.NoError(t, json.Unmarshal([]byte(body), &cur))
		assert.GreaterOrEqual(t, cur.Network.BytesSent, prev.Network.BytesSent)
		assert.GreaterOrEqual(t, cur.Network.BytesReceived, prev.Network.BytesReceived)
		prev = cur
	}
}

func TestConcurrentClientsAreServed(t *testing.T) {
	_, c, base := startServer(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := client.Get(base + "/metrics")
			if !assert.NoError(t, err) {
				return
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(8), c.calls.Load())
}

func TestStartIsIdempotent(t *testing.T) {
	s, _, _ := startServer(t)
	addr := s.Addr()

	require.NoError(t, s.Start(0))
	assert.Equal(t, addr, s.Addr())
	assert.True(t, s.IsRunning())
	assert.Equal(t, Listening, s.State())
}

func TestStopRefusesConnections(t *testing.T) {
	s := New(&fakeSource{}, WithShutdownTimeout(time.Second))
	require.NoError(t, s.Start(0))
	addr := s.Addr()

	resp, _ := get(t, "http://"+addr+"/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}

	assert.False(t, s.IsRunning())
	assert.Equal(t, Stopped, s.State())
	assert.Empty(t, s.Addr())

	conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
	if err == nil {
		conn.Close()
	}
	assert.Error(t, err)

	s.Stop()
}

func TestStopWithSilentClient(t *testing.T) {
	s := New(&fakeSource{}, WithShutdownTimeout(200*time.Millisecond))
	require.NoError(t, s.Start(0))

	conn, err := net.Dial("tcp", s.Addr())
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte("GET /health HTTP/1.1\r\n"))
	require.NoError(t, err)

	start := time.Now()
	s.Stop()
	assert.Less(t, time.Since(start), 3*time.Second)
	assert.False(t, s.IsRunning())
}

func TestStopReportsStoppedDuringGracePeriod(t *testing.T) {
	s := New(&fakeSource{}, WithShutdownTimeout(time.Second))
	require.NoError(t, s.Start(0))

	// A half-sent request keeps Shutdown waiting for the full grace period.
	conn, err := net.Dial("tcp", s.Addr())
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte("GET /health HTTP/1.1\r\n"))
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, 500*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, Stopped, s.State())

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestQueryStringDoesNotAffectRouting(t *testing.T) {
	_, c, base := startServer(t)

	resp, body := get(t, base+"/metrics?x=1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, body, `"cpu_usage_percent": 12.50`)
	assert.Equal(t, uint64(1), c.calls.Load())

	resp, body = get(t, base+"/health?verbose=1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"status":"ok"}`, body)

	resp, _ = get(t, base+"/unknown?x=1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRestartAfterStop(t *testing.T) {
	s := New(&fakeSource{})
	require.NoError(t, s.Start(0))
	s.Stop()

	require.NoError(t, s.Start(0))
	defer s.Stop()
	resp, _ := get(t, "http://"+s.Addr()+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBindFailureLeavesServerStopped(t *testing.T) {
	occupied, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer occupied.Close()
	port := occupied.Addr().(*net.TCPAddr).Port

	s := New(&fakeSource{})
	assert.Error(t, s.Start(port))
	assert.Equal(t, Stopped, s.State())
	assert.False(t, s.IsRunning())
	assert.Empty(t, s.Addr())

	assert.Error(t, s.Start(70000))
	assert.Equal(t, Stopped, s.State())
}

func TestSilentClientIsReleasedByReadTimeout(t *testing.T) {
	_, _, base := startServer(t, WithReadTimeout(100*time.Millisecond))
	addr := strings.TrimPrefix(base, "http://")

	idle, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer idle.Close()

	// The idle connection holds the only slot until the read deadline expires.
	resp, body := get(t, base+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"status":"ok"}`, body)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "stopped", Stopped.String())
	assert.Equal(t, "starting", Starting.String())
	assert.Equal(t, "listening", Listening.String())
	assert.Equal(t, "state(9)", State(9).String())
}
