package vndb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/John-Robertt/VNDA/internal/domain"
)

// EndpointVN 是视觉小说条目的查询端点（POST <base>/vn）。
const EndpointVN = "vn"

// Request 是 kana API 查询端点的请求体。
// 全部字段 omitempty：计数查询只携带 filters/fields/count，与分页查询共用一个结构。
type Request struct {
	Filters Filter `json:"filters,omitempty"`
	Fields  string `json:"fields,omitempty"`
	Count   bool   `json:"count,omitempty"`
	Sort    string `json:"sort,omitempty"`
	Reverse bool   `json:"reverse,omitempty"`
	Results int    `json:"results,omitempty"`
	Page    int    `json:"page,omitempty"`
}

// Response 是查询端点的响应体。键缺失时各字段取零值：
// count 缺省为 0，results 缺省为 nil（上层据此判断“没有结果数组”）。
type Response struct {
	Results []domain.VNRecord `json:"results"`
	More    bool              `json:"more"`
	Count   int               `json:"count"`
}

// DBStats 是 GET /stats 返回的数据库各表条目总数。
type DBStats struct {
	Chars     int `json:"chars"`
	Producers int `json:"producers"`
	Releases  int `json:"releases"`
	Staff     int `json:"staff"`
	Tags      int `json:"tags"`
	Traits    int `json:"traits"`
	VN        int `json:"vn"`
}

// Client 是 kana API 的最小客户端。
//
// 约束：
// - 所有请求（含 /stats）共用一个令牌桶限速，请求间隔由构造时的 delay 决定
// - 不做重试/退避：失败原样返回，由上层决定降级方式
// - 非 200 一律返回 *StatusError（带状态码与响应体文本）
type Client struct {
	base string
	hc   *http.Client
	lim  *rate.Limiter
}

// New 构造客户端。delay<=0 表示不限速（测试用）。
func New(base string, hc *http.Client, delay time.Duration) *Client {
	c := &Client{base: strings.TrimRight(base, "/"), hc: hc}
	if delay > 0 {
		c.lim = rate.NewLimiter(rate.Every(delay), 1)
	}
	return c
}

// Query 向 <base>/<endpoint> POST 一个查询并解码响应。
func (c *Client) Query(ctx context.Context, endpoint string, q Request) (*Response, error) {
	// 线格式必须与原始载荷逐字节一致：禁用 HTML 转义（> 不能变成 >），
	// 并去掉 Encoder 追加的换行。
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(q); err != nil {
		return nil, err
	}
	body := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	b, err := c.do(ctx, http.MethodPost, c.base+"/"+endpoint, body)
	if err != nil {
		return nil, err
	}
	var out Response
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats 获取数据库总量（GET <base>/stats）。
func (c *Client) Stats(ctx context.Context) (*DBStats, error) {
	b, err := c.do(ctx, http.MethodGet, c.base+"/stats", nil)
	if err != nil {
		return nil, err
	}
	var out DBStats
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do 执行单个请求：限速等待 → 发送 → 读取全文 → 状态码检查。
func (c *Client) do(ctx context.Context, method, u string, body []byte) ([]byte, error) {
	if c.hc == nil {
		return nil, errors.New("http client 不能为空")
	}
	if c.lim != nil {
		if err := c.lim.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: u, StatusCode: resp.StatusCode, Body: truncBody(b)}
	}
	return b, nil
}

// 错误响应体只保留前 512 字符：API 的错误文本都很短，不把整页 HTML 带进报告。
const maxErrBody = 512

func truncBody(b []byte) string {
	s := strings.TrimSpace(string(b))
	r := []rune(s)
	if len(r) <= maxErrBody {
		return s
	}
	return string(r[:maxErrBody]) + "…"
}
