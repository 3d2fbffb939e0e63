package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/John-Robertt/VNDA/internal/app/run"
	"github.com/John-Robertt/VNDA/internal/config"
	"github.com/John-Robertt/VNDA/internal/domain"
)

var _ run.Observer = (*reportUI)(nil)

// reportUI 把流水线事件渲染成分析报告（对外文案沿用原始脚本的英文输出）。
//
// 设计目标：
// - 所有输出写到进度 writer（默认 stderr），不污染 stdout 的 JSON 输出契约
// - 数字一律千位分隔（原脚本的 {:,} 格式）
// - 失败的查询打印失败行而非伪装成 0，与落盘里的 Failed 标记一一对应
type reportUI struct {
	w io.Writer
	p *message.Printer

	perVote int // 票数→销量系数，OnStart 时从生效配置取
	fetched int // STEP 3 已取回条数，驱动 "Saved N VNs" 与统计标题
}

func newReportUI(w io.Writer) *reportUI {
	return &reportUI{w: w, p: message.NewPrinter(language.English)}
}

const bannerWidth = 70

func (u *reportUI) banner() string { return strings.Repeat("=", bannerWidth) }

func (u *reportUI) OnStart(eff config.EffectiveConfig) {
	u.perVote = eff.SalesPerVote
	fmt.Fprintln(u.w, u.banner())
	fmt.Fprintln(u.w, "VNDB Visual Novel Distribution Analysis")
	fmt.Fprintln(u.w, u.banner())
}

func (u *reportUI) OnTotal(total int, live bool, err error) {
	u.p.Fprintf(u.w, "\nTotal VNs in database: %d\n", total)
	if !live {
		reason := "stats unavailable"
		if err != nil {
			reason = truncate(err.Error(), 120)
		}
		fmt.Fprintf(u.w, "  (using configured fallback: %s)\n", reason)
	}
}

func (u *reportUI) OnStepStart(step int, title string) {
	fmt.Fprintf(u.w, "\n%s\n", u.banner())
	fmt.Fprintf(u.w, "STEP %d: %s\n", step, title)
	fmt.Fprintln(u.w, u.banner())
	if step == 5 {
		fmt.Fprintf(u.w, "\nEstimated sales ranges (votecount × %d):\n", u.perVote)
		fmt.Fprintln(u.w, "Note: This is a VERY rough approximation!")
	}
}

func (u *reportUI) OnBucket(b domain.Bucket) {
	if b.Failed {
		fmt.Fprintf(u.w, "  %15s votes: query failed (%s)\n", b.Label, truncate(b.Error, 90))
		return
	}
	u.p.Fprintf(u.w, "  %15s votes: %6d VNs\n", b.Label, b.Count)
}

func (u *reportUI) OnCommercial(c domain.CommercialCount) {
	if c.Failed {
		fmt.Fprintf(u.w, "  %-40s: query failed (%s)\n", c.Filter, truncate(c.Error, 90))
		return
	}
	u.p.Fprintf(u.w, "  %-40s: %6d VNs\n", c.Filter, c.Count)
}

func (u *reportUI) OnPage(page, pages, got int, err error) {
	if err != nil {
		fmt.Fprintf(u.w, "  Page %d/%d: Failed to retrieve (%s)\n", page, pages, truncate(err.Error(), 90))
		return
	}
	u.fetched += got
	fmt.Fprintf(u.w, "  Page %d/%d: Retrieved %d VNs\n", page, pages, got)
}

func (u *reportUI) OnSaved(path string, err error) {
	name := filepath.Base(path)
	if err != nil {
		fmt.Fprintf(u.w, "\n  Failed to save %s: %s\n", name, truncate(err.Error(), 120))
		return
	}
	// 摘要文件静默落盘，结尾的 Finish 统一列出产物；榜单落盘按原脚本报一行。
	if name == run.TopFile {
		fmt.Fprintf(u.w, "\n  Saved %d VNs to %s\n", u.fetched, name)
	}
}

func (u *reportUI) OnStats(st domain.TopStats, est run.SalesEstimate, ok bool) {
	if !ok {
		fmt.Fprintln(u.w, "\n  (no vote data retrieved; statistics skipped)")
		return
	}
	u.p.Fprintf(u.w, "\nTop %d VNs Vote Count Statistics:\n", u.fetched)
	u.p.Fprintf(u.w, "  Max:     %8d votes\n", st.MaxVotes)
	u.p.Fprintf(u.w, "  Median:  %8.0f votes\n", st.MedianVotes)
	u.p.Fprintf(u.w, "  Mean:    %8.0f votes\n", st.MeanVotes)
	u.p.Fprintf(u.w, "  Min:     %8d votes\n", st.MinVotes)

	fmt.Fprintf(u.w, "\nEstimated Sales (if votecount × %d ≈ sales):\n", u.perVote)
	u.p.Fprintf(u.w, "  %-9s~%9d copies\n", "#1 VN:", est.TopCopies)
	u.p.Fprintf(u.w, "  %-9s~%9d copies\n", fmt.Sprintf("#%d VN:", u.fetched), est.BottomCopies)
}

func (u *reportUI) OnSales(b domain.SalesBucket) {
	if b.Failed {
		fmt.Fprintf(u.w, "  %12s sales: query failed (%s)\n", b.Label, truncate(b.Error, 90))
		return
	}
	maxVotes := "∞"
	if b.MaxVotes > 0 {
		maxVotes = fmt.Sprintf("%d", b.MaxVotes)
	}
	u.p.Fprintf(u.w, "  %12s sales: %6d VNs (votecounts %5s-%5s)\n",
		b.Label, b.Count, u.p.Sprintf("%d", b.MinVotes), maxVotes,
	)
}

func (u *reportUI) OnVerdict(predicted, total int) {
	fmt.Fprintf(u.w, "\n%s\n", u.banner())
	fmt.Fprintln(u.w, "REALITY CHECK: Model vs. Actual")
	fmt.Fprintln(u.w, u.banner())
	u.p.Fprintf(u.w, "\nLogarithmic model predicted: ~%d VNs (1k-100k sales)\n", predicted)
	u.p.Fprintf(u.w, "VNDB total database:         ~%9d VNs\n", total)
	u.p.Fprintf(u.w, "Ratio:                        %.1fx overestimate!\n", float64(predicted)/float64(total))
	fmt.Fprintln(u.w, "\nConclusion: The logarithmic model breaks down dramatically")
	fmt.Fprintln(u.w, "when extrapolated to lower sales ranges. The actual market")
	fmt.Fprintln(u.w, "is much more concentrated at the top than the model suggests.")
}

// Finish 打印结尾的产物清单（原脚本的 "Analysis complete!" 块）。
// 不属于 Observer：由 main 在 Execute 返回后、拿到最终产物列表时调用。
func (u *reportUI) Finish(res run.Result) {
	fmt.Fprintf(u.w, "\n%s\n", u.banner())
	fmt.Fprintln(u.w, "Analysis complete! Files saved:")
	if len(res.Files) == 0 {
		fmt.Fprintln(u.w, "  (none)")
	}
	for _, f := range res.Files {
		fmt.Fprintf(u.w, "  - %s%s\n", f, fileNote(filepath.Base(f)))
	}
	fmt.Fprintln(u.w, u.banner())
}

func fileNote(name string) string {
	switch name {
	case run.TopFile:
		return " (raw data)"
	case run.SummaryFile:
		return " (summary)"
	default:
		return ""
	}
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
