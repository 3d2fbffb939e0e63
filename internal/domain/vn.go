package domain

// VNRecord 是 kana API /vn 查询返回的单条视觉小说记录（本工具请求字段的最小集合）。
//
// 约束：
// - JSON 键与 API 响应一致，原样落盘（vndb_top500.json 就是这些记录的数组）
// - 可缺失字段用指针表达：API 对无评分/未知时长返回 null，落盘时保留 null
type VNRecord struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	VoteCount  *int     `json:"votecount"`
	Popularity float64  `json:"popularity"`
	Rating     *float64 `json:"rating"`
	OLang      string   `json:"olang"`
	Length     *int     `json:"length"`
}

// Votes 返回记录的票数；缺失按 0 处理。
func (v VNRecord) Votes() int {
	if v.VoteCount == nil {
		return 0
	}
	return *v.VoteCount
}
