package stats

import (
	"sort"

	"github.com/John-Robertt/VNDA/internal/domain"
)

// Votes 提取记录中存在且为正的票数。缺失或 0 视为无效样本，跳过。
func Votes(records []domain.VNRecord) []int {
	out := make([]int, 0, len(records))
	for _, r := range records {
		if n := r.Votes(); n > 0 {
			out = append(out, n)
		}
	}
	return out
}

// Summarize 计算描述统计。空输入返回全零（上层以样本数决定是否展示）。
func Summarize(votes []int) domain.TopStats {
	if len(votes) == 0 {
		return domain.TopStats{}
	}
	sorted := make([]int, len(votes))
	copy(sorted, votes)
	sort.Ints(sorted)

	sum := 0
	for _, n := range sorted {
		sum += n
	}

	return domain.TopStats{
		MaxVotes:    sorted[len(sorted)-1],
		MedianVotes: median(sorted),
		MeanVotes:   float64(sum) / float64(len(sorted)),
		MinVotes:    sorted[0],
	}
}

// median 要求输入已升序；偶数个样本取中间两值的均值。
func median(sorted []int) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}
