package domain

// CommercialCount 是单个商业口径筛选的计数结果。Filter 为口径名，谓词本身不落盘。
type CommercialCount struct {
	Filter string `json:"filter"`
	Count  int    `json:"count"`

	Failed bool   `json:"failed,omitempty"`
	Error  string `json:"error,omitempty"`
}
