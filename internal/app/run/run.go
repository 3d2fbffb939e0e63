package run

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/John-Robertt/VNDA/internal/census"
	"github.com/John-Robertt/VNDA/internal/config"
	"github.com/John-Robertt/VNDA/internal/domain"
	"github.com/John-Robertt/VNDA/internal/infra/fsx"
	"github.com/John-Robertt/VNDA/internal/stats"
	"github.com/John-Robertt/VNDA/internal/vndb"
)

// 产物文件名沿用原始分析脚本的命名，下游读取方式不变。
const (
	TopFile     = "vndb_top500.json"
	SummaryFile = "vndb_analysis_summary.json"
)

// Client 是流水线对 VNDB API 客户端的最小依赖。*vndb.Client 实现之；测试注入桩。
type Client interface {
	Query(ctx context.Context, endpoint string, q vndb.Request) (*vndb.Response, error)
	Stats(ctx context.Context) (*vndb.DBStats, error)
}

// SalesEstimate 是“票数 × 系数 ≈ 销量”对榜首/榜末两条记录的粗略换算。
type SalesEstimate struct {
	TopCopies    int
	BottomCopies int
}

// Result 是一次分析的对外回执。
//
// 约束：Errors 只收环境/落盘类错误。单次 API 调用失败计入 FailedCalls，
// 并以 Failed 标记留在对应桶里，不影响退出码。
type Result struct {
	Summary     domain.Summary
	Top         []domain.VNRecord
	Files       []string
	FailedCalls int
	Errors      []error
}

// Execute 顺序执行一次完整分析，并返回对外稳定的 Result。
func Execute(ctx context.Context, eff config.EffectiveConfig, api Client) Result {
	return ExecuteWithObserver(ctx, eff, api, nil)
}

// ExecuteWithObserver 与 Execute 相同，但允许传入 Observer 以输出进度/报告（由上层决定是否启用）。
// 该函数尽量把错误“降级”为桶级失败：单次查询失败不影响其余步骤，流水线跑到底并保留已得数据。
func ExecuteWithObserver(ctx context.Context, eff config.EffectiveConfig, api Client, obs Observer) Result {
	started := time.Now().UTC()

	if obs != nil {
		obs.OnStart(eff)
	}

	res := Result{Files: make([]string, 0, 2)}
	sum := domain.Summary{StartedAt: started}

	// 输出目录先行检查：让“目录被同名文件占位”这类问题尽早浮出，
	// 而不是等到两次落盘各报一遍。检查失败不拦截分析本身。
	if err := fsx.EnsureDir(eff.OutDir); err != nil {
		res.Errors = append(res.Errors, err)
	}

	// 前奏：/stats 拿数据库总量；失败退回配置的兜底值。
	total := eff.TotalFallback
	live := false
	st, err := api.Stats(ctx)
	if err != nil {
		res.FailedCalls++
	} else if st.VN > 0 {
		total = st.VN
		live = true
	}
	if obs != nil {
		obs.OnTotal(total, live, err)
	}
	sum.TotalVNs = total

	if obs != nil {
		obs.OnStepStart(1, "Distribution by Vote Count (proxy for sales)")
	}
	sum.Distribution = census.CountRanges(ctx, api, census.DefaultVoteRanges, func(b domain.Bucket) {
		if b.Failed {
			res.FailedCalls++
		}
		if obs != nil {
			obs.OnBucket(b)
		}
	})

	if obs != nil {
		obs.OnStepStart(2, "Commercial Visual Novels")
	}
	sum.Commercial = census.CountCommercial(ctx, api, census.DefaultCommercialFilters, func(c domain.CommercialCount) {
		if c.Failed {
			res.FailedCalls++
		}
		if obs != nil {
			obs.OnCommercial(c)
		}
	})

	if obs != nil {
		obs.OnStepStart(3, fmt.Sprintf("Fetching top %d VNs by vote count...", eff.Pages*eff.PageSize))
	}
	res.Top = census.FetchTop(ctx, api, census.TopOptions{PageSize: eff.PageSize, Pages: eff.Pages}, func(pr census.PageResult) {
		if pr.Err != nil {
			res.FailedCalls++
		}
		if obs != nil {
			obs.OnPage(pr.Page, eff.Pages, pr.Got, pr.Err)
		}
	})
	saveJSON(eff.OutDir, TopFile, res.Top, &res, obs)

	if obs != nil {
		obs.OnStepStart(4, "Statistical Analysis")
	}
	votes := stats.Votes(res.Top)
	sum.TopStats = stats.Summarize(votes)
	est := SalesEstimate{
		TopCopies:    sum.TopStats.MaxVotes * eff.SalesPerVote,
		BottomCopies: sum.TopStats.MinVotes * eff.SalesPerVote,
	}
	if obs != nil {
		obs.OnStats(sum.TopStats, est, len(votes) > 0)
	}

	if obs != nil {
		obs.OnStepStart(5, "Comparison to Logarithmic Model")
	}
	census.CountSales(ctx, api, census.DefaultSalesRanges, eff.SalesPerVote, func(b domain.SalesBucket) {
		if b.Failed {
			res.FailedCalls++
		}
		if obs != nil {
			obs.OnSales(b)
		}
	})

	if obs != nil {
		obs.OnVerdict(census.ModelPredictedVNs, total)
	}

	sum.FinishedAt = time.Now().UTC()
	sum.Finalize()
	res.Summary = sum
	saveJSON(eff.OutDir, SummaryFile, res.Summary, &res, obs)
	return res
}

// saveJSON 原子落盘一个产物文件并上报结果。失败记入 Result.Errors，不中断流水线。
func saveJSON(dir, name string, v any, res *Result, obs Observer) {
	path := filepath.Join(dir, name)
	b, err := json.MarshalIndent(v, "", "  ")
	if err == nil {
		err = fsx.WriteFileAtomicReplace(dir, name, append(b, '\n'))
	}
	if err != nil {
		res.Errors = append(res.Errors, fmt.Errorf("写入 %s 失败：%w", name, err))
	} else {
		res.Files = append(res.Files, path)
	}
	if obs != nil {
		obs.OnSaved(path, err)
	}
}
