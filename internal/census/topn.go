package census

import (
	"context"
	"errors"

	"github.com/John-Robertt/VNDA/internal/domain"
	"github.com/John-Robertt/VNDA/internal/vndb"
)

// TopFields 是榜单抓取请求的字段列表，与落盘记录一一对应。
const TopFields = "id, title, votecount, popularity, rating, olang, length"

// TopOptions 控制榜单抓取的分页形状。
type TopOptions struct {
	PageSize int // 每页条数
	Pages    int // 最多抓取页数（页号 1 起）
}

// PageResult 是单页抓取的回执，供进度回调使用。
type PageResult struct {
	Page int
	Got  int
	Err  error
}

// FetchTop 按票数降序抓取前 Pages×PageSize 条记录。
//
// 规则：
// - 页号从 1 开始顺序抓取，结果按页序拼接
// - 某页失败、响应缺少结果数组、或不足一整页时停止后续抓取，保留已得部分
// - onPage 在每页完成时回调（可为 nil）
func FetchTop(ctx context.Context, q Querier, opt TopOptions, onPage func(PageResult)) []domain.VNRecord {
	records := make([]domain.VNRecord, 0, opt.PageSize*opt.Pages)
	for page := 1; page <= opt.Pages; page++ {
		resp, err := q.Query(ctx, vndb.EndpointVN, vndb.Request{
			Filters: vndb.Expr("votecount", ">", 0),
			Fields:  TopFields,
			Sort:    "votecount",
			Reverse: true,
			Results: opt.PageSize,
			Page:    page,
		})
		if err == nil && resp.Results == nil {
			err = errors.New("响应缺少 results 数组")
		}
		if err != nil {
			if onPage != nil {
				onPage(PageResult{Page: page, Err: err})
			}
			break
		}
		records = append(records, resp.Results...)
		if onPage != nil {
			onPage(PageResult{Page: page, Got: len(resp.Results)})
		}
		if len(resp.Results) < opt.PageSize {
			break
		}
	}
	return records
}
