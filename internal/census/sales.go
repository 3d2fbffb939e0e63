package census

import (
	"context"

	"github.com/John-Robertt/VNDA/internal/domain"
)

// SalesVoteRange 按固定系数把销量区间换算回票数区间（整数除法，向下取整）。
// perVote 必须为正（config 层已校验）。
func SalesVoteRange(s domain.SalesRange, perVote int) domain.VoteRange {
	r := domain.VoteRange{Min: s.MinSales / perVote, Label: s.Label}
	if !s.Unbounded() {
		r.Max = s.MaxSales / perVote
	}
	return r
}

// CountSales 把每个销量档位换算回票数后计数，复用区间计数的失败语义。
// 结果仅供展示，不落盘。
func CountSales(ctx context.Context, q Querier, ranges []domain.SalesRange, perVote int, onBucket func(domain.SalesBucket)) []domain.SalesBucket {
	out := make([]domain.SalesBucket, 0, len(ranges))
	for _, s := range ranges {
		vr := SalesVoteRange(s, perVote)
		b := domain.SalesBucket{
			Label:    s.Label,
			MinSales: s.MinSales,
			MaxSales: s.MaxSales,
			MinVotes: vr.Min,
			MaxVotes: vr.Max,
		}
		n, err := countOne(ctx, q, VoteFilter(vr))
		if err != nil {
			b.Failed = true
			b.Error = err.Error()
		} else {
			b.Count = n
		}
		if onBucket != nil {
			onBucket(b)
		}
		out = append(out, b)
	}
	return out
}
