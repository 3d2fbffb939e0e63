package domain

// UnboundedMax 是汇总文件里无上界区间 max 字段的哨兵值（沿用既有文件格式）。
const UnboundedMax = 999999

// VoteRange 是一个左开右闭的票数区间 (Min, Max]；Max==0 表示无上界。
type VoteRange struct {
	Min   int
	Max   int
	Label string
}

func (r VoteRange) Unbounded() bool { return r.Max <= 0 }

// Bucket 是单个票数区间的计数结果。
//
// 规则：
// - 每个输入区间恰好产出一个 Bucket，顺序与输入一致
// - 查询失败时 Count=0 且 Failed=true、Error 带原因：失败与真实的 0 必须可区分
type Bucket struct {
	Label string `json:"range"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Count int    `json:"count"`

	Failed bool   `json:"failed,omitempty"`
	Error  string `json:"error,omitempty"`
}

// NewBucket 由区间构造空桶；无上界时 max 取哨兵值 UnboundedMax。
func NewBucket(r VoteRange) Bucket {
	max := r.Max
	if r.Unbounded() {
		max = UnboundedMax
	}
	return Bucket{Label: r.Label, Min: r.Min, Max: max}
}
