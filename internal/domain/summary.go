package domain

import "time"

// TopStats 是 top 榜票数的描述统计。
// 中位数与均值保留浮点；偶数个样本时中位数取中间两值的均值。
type TopStats struct {
	MaxVotes    int     `json:"max_votes"`
	MedianVotes float64 `json:"median_votes"`
	MeanVotes   float64 `json:"mean_votes"`
	MinVotes    int     `json:"min_votes"`
}

// Summary 是对外稳定输出（vndb_analysis_summary.json / stdout JSON）的结构。
type Summary struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	TotalVNs     int               `json:"total_vns"`
	Distribution []Bucket          `json:"votecount_distribution"`
	Commercial   []CommercialCount `json:"commercial_counts"`
	TopStats     TopStats          `json:"top_500_stats"`
}

// Finalize 做两件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) nil 切片归一为空切片（落盘为 [] 而非 null）
func (s *Summary) Finalize() {
	s.StartedAt = s.StartedAt.UTC()
	s.FinishedAt = s.FinishedAt.UTC()
	if s.Distribution == nil {
		s.Distribution = []Bucket{}
	}
	if s.Commercial == nil {
		s.Commercial = []CommercialCount{}
	}
}
