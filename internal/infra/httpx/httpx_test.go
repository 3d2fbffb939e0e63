package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewAPIClient_ProxyOptional(t *testing.T) {
	c, err := NewAPIClient("http://127.0.0.1:8080")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	tr, ok := c.Transport.(*Transport)
	if !ok {
		t.Fatalf("期望 *Transport，实际 %T", c.Transport)
	}
	if tr.Base.Proxy == nil {
		t.Fatalf("期望启用代理，但 Proxy=nil")
	}

	c2, err := NewAPIClient("")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	tr2 := c2.Transport.(*Transport)
	if tr2.Base.Proxy != nil {
		t.Fatalf("不期望启用代理，但 Proxy!=nil")
	}
	// 顺序调用场景必须保留连接复用。
	if tr2.Base.DisableKeepAlives {
		t.Fatalf("不应禁用 keep-alive")
	}
}

func TestNewAPIClient_InvalidProxyURL(t *testing.T) {
	_, err := NewAPIClient("http://[::1")
	if err == nil {
		t.Fatalf("期望错误，但得到 nil")
	}
}

func TestTransport_StampsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	c, err := NewAPIClient("")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	resp, err := c.Get(srv.URL)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	resp.Body.Close()
	if gotUA != UserAgent {
		t.Fatalf("期望 UA %q，实际 %q", UserAgent, gotUA)
	}
}

func TestTransport_KeepsCallerUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	c, err := NewAPIClient("")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set("User-Agent", "custom/1")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	resp.Body.Close()
	if gotUA != "custom/1" {
		t.Fatalf("调用方自带 UA 不应被覆盖：%q", gotUA)
	}
}
