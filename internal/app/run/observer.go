package run

import (
	"github.com/John-Robertt/VNDA/internal/config"
	"github.com/John-Robertt/VNDA/internal/domain"
)

// Observer 用于把“流水线进度/每步结果”从核心执行流程中解耦出来。
//
// 约束：
// - run 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON 契约）。
// - 流水线严格串行：事件按发生顺序逐一回调，实现无需考虑并发。
type Observer interface {
	// OnStart 在 ExecuteWithObserver 开始时调用（应尽量早，保证用户 1 秒内看到输出）。
	OnStart(eff config.EffectiveConfig)
	// OnTotal 在数据库总量确定后调用。live=false 表示 /stats 未被采用，
	// total 为配置的兜底值；err 为失败原因（可能为 nil）。
	OnTotal(total int, live bool, err error)
	// OnStepStart 在每个编号步骤开始时调用。
	OnStepStart(step int, title string)
	// OnBucket 在 STEP 1 每个票数区间计数完成时调用。
	OnBucket(b domain.Bucket)
	// OnCommercial 在 STEP 2 每个商业口径计数完成时调用。
	OnCommercial(c domain.CommercialCount)
	// OnPage 在 STEP 3 每页抓取完成时调用；err 非空表示该页失败，之后不再有页事件。
	OnPage(page, pages, got int, err error)
	// OnSaved 在每个产物文件落盘后调用（err 非空表示写入失败）。
	OnSaved(path string, err error)
	// OnStats 在 STEP 4 统计完成时调用；ok=false 表示榜单无有效票数，统计量全零。
	OnStats(st domain.TopStats, est SalesEstimate, ok bool)
	// OnSales 在 STEP 5 每个销量档位计数完成时调用。
	OnSales(b domain.SalesBucket)
	// OnVerdict 在模型对照结论得出时调用。
	OnVerdict(predicted, total int)
}
