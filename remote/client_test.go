package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"nexus/api"
	"nexus/motion"
)

func newViewer(t *testing.T) (*motion.StepAnimator, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	animator := motion.NewStepAnimator(motion.DefaultConfig(), nil)
	r := gin.New()
	api.NewServer(animator).SetupRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return animator, srv
}

func TestClientAgainstServer(t *testing.T) {
	animator, srv := newViewer(t)
	client := NewClient(srv.URL + "/")
	ctx := context.Background()

	if client.IsConnected() {
		t.Error("尚未请求时不应处于连接状态")
	}

	status, err := client.SendCommand(ctx, "forward")
	if err != nil {
		t.Fatalf("SendCommand(forward) = %v", err)
	}
	if !status.IsWalking {
		t.Error("前进后 is_walking 应为 true")
	}
	if !client.IsConnected() {
		t.Error("请求成功后应处于连接状态")
	}

	_, err = client.SendCommand(ctx, "jump")
	if !errors.Is(err, motion.ErrBusy) {
		t.Errorf("走步中 SendCommand(jump) = %v, 期望 busy", err)
	}

	_, err = client.SendCommand(ctx, "moonwalk")
	if !errors.Is(err, motion.ErrUnknownCommand) {
		t.Errorf("SendCommand(moonwalk) = %v, 期望 unknown_command", err)
	}

	client.Post(motion.CommandReset)
	if animator.State() != motion.StateIdle {
		t.Errorf("Post(reset) 后状态 = %s", animator.State())
	}

	client.Post(motion.CommandRotateRight)
	got, err := client.Status(ctx)
	if err != nil {
		t.Fatalf("Status() = %v", err)
	}
	if got.Rotation[1] != 15 || got.IsWalking {
		t.Errorf("Status() = %+v, 期望 yaw=15", got)
	}
}

func TestClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.SendCommand(context.Background(), "nod"); err == nil {
		t.Error("服务端 500 时应返回错误")
	}
	if _, err := client.Status(context.Background()); err == nil {
		t.Error("服务端 500 时 Status 应返回错误")
	}
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url)
	if _, err := client.Status(context.Background()); err == nil {
		t.Error("服务不可达时应返回错误")
	}
	if client.IsConnected() {
		t.Error("服务不可达时不应处于连接状态")
	}
	// Post 不返回错误，也不应 panic
	client.Post(motion.CommandJump)
}

func TestClientPostsSequentially(t *testing.T) {
	var (
		mu     sync.Mutex
		tokens []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Command string `json:"command"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		mu.Lock()
		tokens = append(tokens, req.Command)
		mu.Unlock()
		_, _ = w.Write([]byte(`{"status":"success","data":{"is_walking":false,"position":[0,0,0],"rotation":[0,0,0]}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	for _, cmd := range []motion.Command{motion.CommandWave, motion.CommandDance} {
		client.Post(cmd)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(tokens) != 2 || tokens[0] != "wave" || tokens[1] != "dance" {
		t.Errorf("tokens = %v", tokens)
	}
}
