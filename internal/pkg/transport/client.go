package transport

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"time"

	"github.com/imroc/req/v3"
	log "github.com/sirupsen/logrus"
)

// APIError 远端返回非 2xx
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote returned status %d: %s", e.StatusCode, e.Body)
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	Debug   bool
}

// Client 全局共享的远端 HTTP 客户端
type Client struct {
	client *req.Client
}

func New(opts Options) *Client {
	jar, _ := cookiejar.New(nil)
	c := req.C().
		SetBaseURL(opts.BaseURL).
		SetCookieJar(jar).
		SetCommonHeader("Accept", "application/json").
		OnAfterResponse(logFailure)
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}
	if opts.Debug {
		c.EnableDebugLog()
	}
	return &Client{client: c}
}

// logFailure 只记录失败，不吞掉也不改写错误
func logFailure(_ *req.Client, resp *req.Response) error {
	if resp.Err != nil {
		log.Errorf("API Error: %s", resp.Err.Error())
		return nil
	}
	if !resp.IsSuccessState() {
		log.Errorf("API Error: %s", resp.String())
	}
	return nil
}

func (c *Client) R(ctx context.Context) *req.Request {
	return c.client.R().SetContext(ctx)
}

func (c *Client) BaseURL() string {
	return c.client.BaseURL
}

// Check 把传输错误和非 2xx 统一成 error
func Check(resp *req.Response, err error) error {
	if err != nil {
		return err
	}
	if resp == nil {
		return fmt.Errorf("empty response")
	}
	if !resp.IsSuccessState() {
		return &APIError{StatusCode: resp.StatusCode, Body: resp.String()}
	}
	return nil
}
