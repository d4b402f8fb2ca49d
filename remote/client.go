package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"nexus/define"
	"nexus/logger"
	"nexus/motion"
)

const defaultTimeout = 5 * time.Second

// Commander 定义了向运行中的角色服务发送指令的能力
type Commander interface {
	// SendCommand 通过 POST /command 提交指令，被拒绝时返回 *motion.RejectedError
	SendCommand(ctx context.Context, token string) (define.StatusResponse, error)

	// Status 通过 GET /status 获取角色状态
	Status(ctx context.Context) (define.StatusResponse, error)

	// IsConnected 最近一次请求是否成功到达服务
	IsConnected() bool
}

// Client 实现与角色服务的 HTTP 通信
type Client struct {
	serviceURL string
	client     *http.Client
	log        *logrus.Entry
	connected  atomic.Bool
}

var _ Commander = (*Client)(nil)

func NewClient(serviceURL string) *Client {
	return &Client{
		serviceURL: strings.TrimRight(serviceURL, "/"),
		client:     &http.Client{Timeout: defaultTimeout},
		log:        logger.L().WithFields(logrus.Fields{"component": "remote", "url": serviceURL}),
	}
}

func (c *Client) SendCommand(ctx context.Context, token string) (define.StatusResponse, error) {
	jsonData, err := json.Marshal(define.CommandRequest{Command: token})
	if err != nil {
		return define.StatusResponse{}, fmt.Errorf("序列化指令失败：%w", err)
	}

	url := fmt.Sprintf("%s/command", c.serviceURL)

	// 创建带有 context 的请求
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return define.StatusResponse{}, fmt.Errorf("创建 HTTP 请求失败：%w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var status define.StatusResponse
	apiResp, err := c.do(req, &status)
	if err != nil {
		return define.StatusResponse{}, err
	}

	switch apiResp.Status {
	case define.StatusSuccess:
		return status, nil
	case define.StatusBusy:
		return status, &motion.RejectedError{Token: token, Reason: motion.ReasonBusy}
	case define.StatusUnknownCommand:
		return status, &motion.RejectedError{Token: token, Reason: motion.ReasonUnknownCommand}
	}
	return status, fmt.Errorf("服务返回未知状态 %q: %s", apiResp.Status, apiResp.Error)
}

func (c *Client) Status(ctx context.Context) (define.StatusResponse, error) {
	url := fmt.Sprintf("%s/status", c.serviceURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return define.StatusResponse{}, fmt.Errorf("创建 HTTP 请求失败：%w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.connected.Store(false)
		return define.StatusResponse{}, fmt.Errorf("发送 HTTP 请求失败：%w", err)
	}
	defer resp.Body.Close()
	c.connected.Store(true)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return define.StatusResponse{}, fmt.Errorf("角色服务返回错误: %d, %s", resp.StatusCode, string(body))
	}

	var status define.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return define.StatusResponse{}, fmt.Errorf("解析状态响应失败：%w", err)
	}
	return status, nil
}

func (c *Client) IsConnected() bool {
	return c.connected.Load()
}

// Post 实现 serial.CommandSink，失败只记录日志
func (c *Client) Post(cmd motion.Command) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if _, err := c.SendCommand(ctx, cmd.String()); err != nil {
		if reason := motion.ReasonOf(err); reason != "" {
			c.log.Debugf("⏳ 指令 %s 被拒绝: %s", cmd, reason)
			return
		}
		c.log.Warnf("⚠️ 转发指令 %s 失败: %v", cmd, err)
	}
}

// do 发送请求并解析统一响应，data 字段解码到 data
func (c *Client) do(req *http.Request, data any) (define.ApiResponse, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		c.connected.Store(false)
		return define.ApiResponse{}, fmt.Errorf("发送 HTTP 请求失败：%w", err)
	}
	defer resp.Body.Close()
	c.connected.Store(true)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return define.ApiResponse{}, fmt.Errorf("读取响应失败：%w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return define.ApiResponse{}, fmt.Errorf("角色服务返回错误: %d, %s", resp.StatusCode, string(body))
	}

	var raw struct {
		define.ApiResponse
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return define.ApiResponse{}, fmt.Errorf("解析响应失败：%w", err)
	}
	if data != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			return define.ApiResponse{}, fmt.Errorf("解析响应数据失败：%w", err)
		}
	}
	return raw.ApiResponse, nil
}
