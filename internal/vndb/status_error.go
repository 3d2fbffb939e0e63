package vndb

import "fmt"

// StatusError 表示 API 返回了非 200 的 HTTP 状态码。
// Body 保留响应体文本，供报告层原样展示（429 的限速说明就写在 body 里）。
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}
