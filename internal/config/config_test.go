package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv 把三个覆盖变量清空，避免外部环境影响断言。
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvProxyURL, "")
	t.Setenv(EnvDelayMS, "")
}

func TestLoadEffective_Defaults(t *testing.T) {
	clearEnv(t)
	cwd := t.TempDir()

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.OutDir != cwd {
		t.Fatalf("期望 out=%q，实际=%q", cwd, eff.OutDir)
	}
	if eff.BaseURL != DefaultBaseURL {
		t.Fatalf("期望 base_url=%q，实际=%q", DefaultBaseURL, eff.BaseURL)
	}
	if eff.Delay != DefaultDelayMS*time.Millisecond {
		t.Fatalf("期望 delay=%v，实际=%v", DefaultDelayMS*time.Millisecond, eff.Delay)
	}
	if eff.Pages != DefaultPages || eff.PageSize != PageSize {
		t.Fatalf("期望 pages=%d/page_size=%d，实际=%d/%d", DefaultPages, PageSize, eff.Pages, eff.PageSize)
	}
	if eff.TotalFallback != DefaultTotalVNs || eff.SalesPerVote != DefaultSalesPerVote {
		t.Fatalf("分析默认值不正确：%+v", eff)
	}
	if eff.ProxyURL != "" {
		t.Fatalf("不期望代理：%q", eff.ProxyURL)
	}
}

func TestLoadEffective_FileOverrides(t *testing.T) {
	clearEnv(t)
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "vnda.json"), []byte(`{
		"out": "reports",
		"base_url": "https://mirror.test/kana/",
		"delay_ms": 20,
		"pages": 2,
		"total_vns": 60000,
		"sales_per_vote": 50,
		"proxy": {"url": "http://127.0.0.1:7890"}
	}`))

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if want := filepath.Join(cwd, "reports"); eff.OutDir != want {
		t.Fatalf("期望 out=%q，实际=%q", want, eff.OutDir)
	}
	// 末尾斜杠必须被归一（client 负责拼接端点）。
	if eff.BaseURL != "https://mirror.test/kana" {
		t.Fatalf("期望归一后的 base_url，实际=%q", eff.BaseURL)
	}
	if eff.Delay != 20*time.Millisecond || eff.Pages != 2 {
		t.Fatalf("delay/pages 不正确：%+v", eff)
	}
	if eff.TotalFallback != 60000 || eff.SalesPerVote != 50 {
		t.Fatalf("total_vns/sales_per_vote 不正确：%+v", eff)
	}
	if eff.ProxyURL != "http://127.0.0.1:7890" {
		t.Fatalf("proxy 不正确：%q", eff.ProxyURL)
	}
}

func TestLoadEffective_CLIPathAndPagesOverride(t *testing.T) {
	clearEnv(t)
	cwd := t.TempDir()
	root := filepath.Join(cwd, "root")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	writeFile(t, filepath.Join(root, "vnda.json"), []byte(`{"pages": 5}`))

	eff, err := LoadEffective(cwd, CLIArgs{Path: root, Pages: 1, PagesSet: true})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.OutDir != root {
		t.Fatalf("期望 out=%q，实际=%q", root, eff.OutDir)
	}
	// --pages=1 必须能覆盖 config.pages=5。
	if eff.Pages != 1 {
		t.Fatalf("期望 pages=1，实际=%d", eff.Pages)
	}
}

func TestLoadEffective_PagesClamped(t *testing.T) {
	clearEnv(t)
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "vnda.json"), []byte(`{"pages": 99}`))

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Pages != MaxPages {
		t.Fatalf("期望截断到 %d，实际=%d", MaxPages, eff.Pages)
	}

	eff2, err := LoadEffective(cwd, CLIArgs{Pages: -3, PagesSet: true})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff2.Pages != 1 {
		t.Fatalf("期望截断到 1，实际=%d", eff2.Pages)
	}
}

func TestLoadEffective_EnvOverridesFile(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "vnda.json"), []byte(`{"base_url":"https://file.test","delay_ms":100,"proxy":{"url":"http://file-proxy:1"}}`))

	t.Setenv(EnvBaseURL, "https://env.test/kana")
	t.Setenv(EnvDelayMS, "0")
	t.Setenv(EnvProxyURL, "http://env-proxy:2")

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.BaseURL != "https://env.test/kana" {
		t.Fatalf("期望环境变量覆盖 base_url，实际=%q", eff.BaseURL)
	}
	// delay_ms=0 是合法显式值（不限速），必须能覆盖文件的 100。
	if eff.Delay != 0 {
		t.Fatalf("期望 delay=0，实际=%v", eff.Delay)
	}
	if eff.ProxyURL != "http://env-proxy:2" {
		t.Fatalf("期望环境变量覆盖 proxy，实际=%q", eff.ProxyURL)
	}
}

func TestLoadEffective_EnvInvalidDelay(t *testing.T) {
	cwd := t.TempDir()
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvProxyURL, "")
	t.Setenv(EnvDelayMS, "abc")

	_, err := LoadEffective(cwd, CLIArgs{})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func TestLoadEffective_InvalidBaseURL(t *testing.T) {
	clearEnv(t)
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "vnda.json"), []byte(`{"base_url":"ftp://mirror.test"}`))

	_, err := LoadEffective(cwd, CLIArgs{})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func TestLoadEffective_InvalidProxyURL(t *testing.T) {
	clearEnv(t)
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "vnda.json"), []byte(`{"proxy":{"url":"http://[::1"}}`))

	_, err := LoadEffective(cwd, CLIArgs{})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func TestLoadEffective_NegativeDelay(t *testing.T) {
	clearEnv(t)
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "vnda.json"), []byte(`{"delay_ms":-1}`))

	_, err := LoadEffective(cwd, CLIArgs{})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func TestLoadEffective_NegativeTotalVNs(t *testing.T) {
	clearEnv(t)
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "vnda.json"), []byte(`{"total_vns":-5}`))

	_, err := LoadEffective(cwd, CLIArgs{})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func TestLoadEffective_CLIPath_InvalidConfig(t *testing.T) {
	clearEnv(t)
	cwd := t.TempDir()
	root := filepath.Join(cwd, "root")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	writeFile(t, filepath.Join(root, "vnda.json"), []byte(`{`))

	_, err := LoadEffective(cwd, CLIArgs{Path: root})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func writeFile(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("写入文件失败 %q：%v", path, err)
	}
}
