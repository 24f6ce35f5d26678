package watcher

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bufbuild/connect-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/net/http2"

	"github.com/lemony312/FreeRide/internal/config"
	"github.com/lemony312/FreeRide/internal/rpc"
	"github.com/lemony312/FreeRide/internal/rpc/connectjson"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server, string) {
	t.Helper()
	hostPath, statePath := writeFixture(t)

	cfg := &config.Config{}
	cfg.Host.ConfigPath = hostPath
	cfg.Host.StatePath = statePath
	cfg.Rotation.PollInterval = time.Hour
	cfg.Server.MetricsEnabled = true

	s := NewServer(cfg, zap.NewNop())

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot open listener in sandbox: %v", err)
	}
	srv := httptest.NewUnstartedServer(s.handler())
	srv.Listener = ln
	srv.Start()
	t.Cleanup(srv.Close)
	return s, srv, statePath
}

func h2cClient() *http.Client {
	return &http.Client{
		Transport: &http2.Transport{
			AllowHTTP: true,
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, network, addr)
			},
		},
	}
}

func TestServerStatusAndRotateNow(t *testing.T) {
	_, srv, statePath := newTestServer(t)

	statusClient := connect.NewClient[rpc.StatusRequest, rpc.StatusResponse](
		h2cClient(), srv.URL+StatusProcedure, connect.WithCodec(connectjson.Codec{}))
	rotateClient := connect.NewClient[rpc.RotateRequest, rpc.RotateResponse](
		h2cClient(), srv.URL+RotateNowProcedure, connect.WithCodec(connectjson.Codec{}))

	ctx := context.Background()

	status, err := statusClient.CallUnary(ctx, connect.NewRequest(&rpc.StatusRequest{}))
	require.NoError(t, err)
	require.Equal(t, string(StateIdle), status.Msg.State)
	require.Equal(t, "openrouter/qwen/qwen3-coder:free", status.Msg.Primary)
	require.Len(t, status.Msg.Fallbacks, 3)

	res, err := rotateClient.CallUnary(ctx, connect.NewRequest(&rpc.RotateRequest{Reason: "rate_limited"}))
	require.NoError(t, err)
	require.Equal(t, "openrouter/meta-llama/llama-3.3-70b-instruct:free", res.Msg.ToModel)
	require.Equal(t, 1, res.Msg.CurrentIndex)

	status, err = statusClient.CallUnary(ctx, connect.NewRequest(&rpc.StatusRequest{}))
	require.NoError(t, err)
	require.Equal(t, 1, status.Msg.CurrentIndex)
	require.Len(t, status.Msg.History, 1)
	require.Equal(t, "openrouter/meta-llama/llama-3.3-70b-instruct:free", status.Msg.Primary)

	st, _, err := LoadState(statePath)
	require.NoError(t, err)
	require.Equal(t, 1, st.CurrentIndex)
}

func TestServerRotateExhaustedIsFailedPrecondition(t *testing.T) {
	_, srv, statePath := newTestServer(t)
	require.NoError(t, SaveState(statePath, RotationState{State: StateMonitoring, CurrentIndex: 2}))

	rotateClient := connect.NewClient[rpc.RotateRequest, rpc.RotateResponse](
		h2cClient(), srv.URL+RotateNowProcedure, connect.WithCodec(connectjson.Codec{}))

	_, err := rotateClient.CallUnary(context.Background(), connect.NewRequest(&rpc.RotateRequest{}))
	require.Error(t, err)
	require.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))
}

func TestServerHealthAndMetrics(t *testing.T) {
	_, srv, _ := newTestServer(t)

	res, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	res2, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer res2.Body.Close()
	require.Equal(t, http.StatusOK, res2.StatusCode)
}
