package census

import (
	"context"

	"github.com/John-Robertt/VNDA/internal/domain"
	"github.com/John-Robertt/VNDA/internal/vndb"
)

// Querier 是聚合器对 API 客户端的最小依赖。*vndb.Client 实现之；测试注入桩。
type Querier interface {
	Query(ctx context.Context, endpoint string, q vndb.Request) (*vndb.Response, error)
}

// CountFields 计数查询只取 id 字段：count 才是目标，响应体积越小越好。
const CountFields = "id"

// VoteFilter 把票数区间翻译为 API 谓词：
// 有界 (Min, Max] → ["and",["votecount",">",Min],["votecount","<=",Max]]
// 无上界时只留下界 → ["votecount",">",Min]
func VoteFilter(r domain.VoteRange) vndb.Filter {
	if r.Unbounded() {
		return vndb.Expr("votecount", ">", r.Min)
	}
	return vndb.And(vndb.Expr("votecount", ">", r.Min), vndb.Expr("votecount", "<=", r.Max))
}

// countOne 发送单个计数查询，返回命中数。
func countOne(ctx context.Context, q Querier, f vndb.Filter) (int, error) {
	resp, err := q.Query(ctx, vndb.EndpointVN, vndb.Request{Filters: f, Fields: CountFields, Count: true})
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// CountRanges 逐区间计数。
//
// 规则：
// - 顺序与输入一致，每个区间恰好产出一个桶
// - 单个失败不中断：该桶 Count=0 并带 Failed/Error 标记
// - onBucket 在每个桶完成时回调（可为 nil），用于边跑边报
func CountRanges(ctx context.Context, q Querier, ranges []domain.VoteRange, onBucket func(domain.Bucket)) []domain.Bucket {
	out := make([]domain.Bucket, 0, len(ranges))
	for _, r := range ranges {
		b := domain.NewBucket(r)
		n, err := countOne(ctx, q, VoteFilter(r))
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
