package domain

// SalesRange 是估算销量区间 (MinSales, MaxSales]；MaxSales==0 表示无上界。
// 计数前需按固定系数换算回票数区间（见 census.SalesVoteRange）。
type SalesRange struct {
	MinSales int
	MaxSales int
	Label    string
}

func (r SalesRange) Unbounded() bool { return r.MaxSales <= 0 }

// SalesBucket 是销量区间换算回票数后的计数结果。仅用于控制台展示，不落盘。
type SalesBucket struct {
	Label    string
	MinSales int
	MaxSales int
	MinVotes int
	MaxVotes int
	Count    int

	Failed bool
	Error  string
}
