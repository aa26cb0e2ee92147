package crawler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Fetcher 对单个上游接口发起请求并返回原始字节。
// 不在内部重试：上游有限流，失败等下一个调度周期即可。
type Fetcher struct {
	client *resty.Client
	logger *logrus.Logger
}

// NewFetcher 创建Fetcher，timeout 约束单次请求全程耗时
func NewFetcher(timeout time.Duration, logger *logrus.Logger) *Fetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "CSGOSkinMetrics/1.0")
	return &Fetcher{client: client, logger: logger}
}

// Fetch 拉取上游原始响应。附加毫秒时间戳参数穿透中间缓存。
// 超时/连接失败/非2xx统一返回 *TransportError，不产生快照。
func (f *Fetcher) Fetch(ctx context.Context, endpoint string) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10)).
		Get(endpoint)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &TransportError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}
	if len(resp.Body()) == 0 {
		return nil, &TransportError{StatusCode: resp.StatusCode(), Err: errors.New("从API收到空响应")}
	}
	return resp.Body(), nil
}
