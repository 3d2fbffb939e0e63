package httpx

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 20 * time.Second

// UserAgent 是本工具对 API 的固定标识。
// API 不需要浏览器伪装，但要求调用方可被识别（限速沟通用）。
const UserAgent = "vnda/0.1 (github.com/John-Robertt/VNDA)"

// Transport 把“固定 UA + 代理”固化为统一策略。
//
// 设计目标：上层只负责“构造请求 + 解析 JSON”，不关心网络策略细节。
// 不做重试：失败原样上抛，由报告层呈现。
type Transport struct {
	Base *http.Transport

	// UserAgent 为空时退回包级默认值。
	UserAgent string
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.Base == nil {
		return nil, errors.New("nil base transport")
	}

	// Clone 会复制 Header 等，避免在 RoundTripper 内部“污染”调用方的 request。
	r := req.Clone(req.Context())
	if r.Header.Get("User-Agent") == "" {
		ua := t.UserAgent
		if ua == "" {
			ua = UserAgent
		}
		r.Header.Set("User-Agent", ua)
	}
	return t.Base.RoundTrip(r)
}

// NewAPIClient 构造访问 kana API 的 HTTP client。
//
// 规则：
// - proxyURL 非空：必须走代理（API 在部分网络不可直达）
// - 顺序调用复用连接：不禁用 keep-alive
// - 总超时 20s，握手/首字节单独设限
func NewAPIClient(proxyURL string) (*http.Client, error) {
	base := &http.Transport{
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
	}

	proxyURL = strings.TrimSpace(proxyURL)
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, err
		}
		base.Proxy = http.ProxyURL(u)
	}

	return &http.Client{
		Transport: &Transport{Base: base},
		Timeout:   defaultTimeout,
	}, nil
}
