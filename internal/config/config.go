package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// ErrCodeInvalid 表示配置文件无法读取/解析，或某个字段不合法。
	ErrCodeInvalid = "config_invalid"
)

const (
	// DefaultBaseURL 是 kana API 的官方地址。
	DefaultBaseURL = "https://api.vndb.org/kana"
	// DefaultDelayMS 是请求间隔的内置默认值（≈6.7 次/秒，符合 API 的限速礼仪）。
	DefaultDelayMS = 150
	// DefaultPages / MaxPages：榜单抓取固定上限 5 页；--pages 只能调小。
	DefaultPages = 5
	MaxPages     = 5
	// PageSize 是榜单每页条数。
	PageSize = 100
	// DefaultTotalVNs 是数据库总量的退路值：/stats 不可达时使用（来自历史快照）。
	DefaultTotalVNs = 58868
	// DefaultSalesPerVote 是“每票 ≈ 多少份销量”的粗略系数。
	// 该系数是分析立论的一部分，原样沿用，不在代码里修正。
	DefaultSalesPerVote = 75
)

// 环境变量覆盖层（进程 env 或 .env/.env.local；后者由 main 负责加载）。
const (
	EnvBaseURL  = "VNDA_BASE_URL"
	EnvProxyURL = "VNDA_PROXY_URL"
	EnvDelayMS  = "VNDA_DELAY_MS"
)

// CLIArgs 只包含 CLI 暴露的两项入口（path/--pages），并保留“是否显式指定”的信息。
// 这能保证覆盖优先级可实现：例如 --pages=1 必须能覆盖 config.pages=5。
type CLIArgs struct {
	Path string

	Pages    int
	PagesSet bool
}

// FileConfig 对应 vnda.json 的解析结构。所有字段可选。
type FileConfig struct {
	Out          string       `json:"out"`
	BaseURL      string       `json:"base_url"`
	DelayMS      *int         `json:"delay_ms"`
	Pages        int          `json:"pages"`
	TotalVNs     int          `json:"total_vns"`
	SalesPerVote int          `json:"sales_per_vote"`
	Proxy        *ProxyConfig `json:"proxy"`
}

type ProxyConfig struct {
	URL string `json:"url"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置
// （实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	OutDir string

	BaseURL  string
	ProxyURL string
	Delay    time.Duration

	Pages    int
	PageSize int

	// TotalFallback 是 /stats 不可达时的数据库总量退路值。
	TotalFallback int
	// SalesPerVote 是票数换算销量的系数（必为正）。
	SalesPerVote int
}

// Error 是配置阶段的结构化错误（带 error_code）。
// Path 是出错的来源：配置文件路径，或环境变量名。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s：%q 无效：%v", e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("%s：%q 无效", e.Code, e.Path)
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 发现并读取配置文件，然后与环境变量、CLI 参数合并为最终配置。
//
// 发现规则（固定）：
// 1) CLI 提供 path：尝试读取 <path>/vnda.json（可选）
// 2) CLI 未提供 path：尝试读取 <cwd>/vnda.json（可选），输出目录取 out 字段或 cwd
//
// 覆盖优先级（固定）：
// - out：CLI path > config out > cwd
// - pages：CLI --pages > config > 默认 5（范围 [1,5]，超出截断）
// - base_url / proxy / delay_ms：环境变量 > config > 默认
// - total_vns / sales_per_vote：仅由 config 控制（CLI 不暴露）
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	var outDir, cfgPath string
	if strings.TrimSpace(cli.Path) != "" {
		outDir = absCleanFrom(cwdAbs, cli.Path)
		cfgPath = filepath.Join(outDir, "vnda.json")
	} else {
		cfgPath = filepath.Join(cwdAbs, "vnda.json")
	}

	fc, _, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	if outDir == "" {
		if strings.TrimSpace(fc.Out) != "" {
			outDir = absCleanFrom(cwdAbs, fc.Out)
		} else {
			outDir = cwdAbs
		}
	}

	return merge(outDir, cli, fc, cfgPath)
}

func merge(outDir string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	ev, err := readEnv()
	if err != nil {
		return EffectiveConfig{}, err
	}

	// base_url：env > config > 默认
	baseURL := DefaultBaseURL
	if strings.TrimSpace(fc.BaseURL) != "" {
		baseURL = strings.TrimSpace(fc.BaseURL)
	}
	if ev.BaseURL != "" {
		baseURL = ev.BaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("base_url 无效：%q", baseURL)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("base_url 必须是 http/https：%q", baseURL)}
	}

	// delay_ms：env > config > 默认；不允许负值（0 表示不限速）
	delayMS := DefaultDelayMS
	if fc.DelayMS != nil {
		delayMS = *fc.DelayMS
	}
	if ev.DelayMS != nil {
		delayMS = *ev.DelayMS
	}
	if delayMS < 0 {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("delay_ms 不能为负：%d", delayMS)}
	}

	// pages：CLI > config > 默认；范围 [1, MaxPages]，超出截断
	pages := DefaultPages
	if fc.Pages != 0 {
		pages = fc.Pages
	}
	if cli.PagesSet {
		pages = cli.Pages
	}
	if pages < 1 {
		pages = 1
	}
	if pages > MaxPages {
		pages = MaxPages
	}

	// proxy：env > config；留空表示直连
	proxyURL := ""
	if fc.Proxy != nil {
		proxyURL = strings.TrimSpace(fc.Proxy.URL)
	}
	if ev.ProxyURL != "" {
		proxyURL = ev.ProxyURL
	}
	if proxyURL != "" {
		if _, err := url.Parse(proxyURL); err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("proxy.url 无效：%w", err)}
		}
	}

	totalVNs := DefaultTotalVNs
	if fc.TotalVNs != 0 {
		if fc.TotalVNs < 0 {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("total_vns 必须为正：%d", fc.TotalVNs)}
		}
		totalVNs = fc.TotalVNs
	}

	salesPerVote := DefaultSalesPerVote
	if fc.SalesPerVote != 0 {
		if fc.SalesPerVote < 0 {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("sales_per_vote 必须为正：%d", fc.SalesPerVote)}
		}
		salesPerVote = fc.SalesPerVote
	}

	return EffectiveConfig{
		OutDir:        outDir,
		BaseURL:       strings.TrimRight(baseURL, "/"),
		ProxyURL:      proxyURL,
		Delay:         time.Duration(delayMS) * time.Millisecond,
		Pages:         pages,
		PageSize:      PageSize,
		TotalFallback: totalVNs,
		SalesPerVote:  salesPerVote,
	}, nil
}

// env 覆盖层：部署环境（CI/容器/代理切换）只改网络相关配置，不动文件。
type envOverrides struct {
	BaseURL  string
	ProxyURL string
	DelayMS  *int
}

func readEnv() (envOverrides, error) {
	var ev envOverrides
	ev.BaseURL = strings.TrimSpace(os.Getenv(EnvBaseURL))
	ev.ProxyURL = strings.TrimSpace(os.Getenv(EnvProxyURL))
	if s := strings.TrimSpace(os.Getenv(EnvDelayMS)); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return envOverrides{}, &Error{Code: ErrCodeInvalid, Path: EnvDelayMS, Err: err}
		}
		ev.DelayMS = &n
	}
	return ev, nil
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
// - p 若已是绝对路径：直接 Clean
// - p 若是相对路径：Join(base, p) 后 Clean
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
