package census

import (
	"context"

	"github.com/John-Robertt/VNDA/internal/domain"
	"github.com/John-Robertt/VNDA/internal/vndb"
)

// CommercialFilter 是一个带名字的固定谓词。名字随结果落盘，谓词本身不落盘。
type CommercialFilter struct {
	Label  string
	Filter vndb.Filter
}

// CountCommercial 逐口径计数，失败语义与 CountRanges 相同。
func CountCommercial(ctx context.Context, q Querier, filters []CommercialFilter, onCount func(domain.CommercialCount)) []domain.CommercialCount {
	out := make([]domain.CommercialCount, 0, len(filters))
	for _, f := range filters {
		c := domain.CommercialCount{Filter: f.Label}
		n, err := countOne(ctx, q, f.Filter)
		if err != nil {
			c.Failed = true
			c.Error = err.Error()
		} else {
			c.Count = n
		}
		if onCount != nil {
			onCount(c)
		}
		out = append(out, c)
	}
	return out
}
