package census

import (
	"github.com/John-Robertt/VNDA/internal/domain"
	"github.com/John-Robertt/VNDA/internal/vndb"
)

// 商业口径用到的刻度：length 为 API 的时长档位（2=短篇及以上，3=中篇及以上），
// votecount>10 作为“有人玩过”的最低门槛。
const (
	LengthShort     = 2
	LengthMedium    = 3
	EngagementVotes = 10
)

// ModelPredictedVNs 是对数销量模型（y = 77.66 - 5.69·ln(x)）给出的商业 VN 总量预测。
// 该值是被检验的对象，只作对比展示，不参与任何计算。
const ModelPredictedVNs = 1_700_000

// DefaultVoteRanges 是报告的 13 个票数区间，从高到低。
var DefaultVoteRanges = []domain.VoteRange{
	{Min: 10000, Label: "10,000+"},
	{Min: 5000, Max: 10000, Label: "5,000-10,000"},
	{Min: 2000, Max: 5000, Label: "2,000-5,000"},
	{Min: 1000, Max: 2000, Label: "1,000-2,000"},
	{Min: 500, Max: 1000, Label: "500-1,000"},
	{Min: 250, Max: 500, Label: "250-500"},
	{Min: 100, Max: 250, Label: "100-250"},
	{Min: 50, Max: 100, Label: "50-100"},
	{Min: 25, Max: 50, Label: "25-50"},
	{Min: 10, Max: 25, Label: "10-25"},
	{Min: 5, Max: 10, Label: "5-10"},
	{Min: 1, Max: 5, Label: "1-5"},
	{Min: 0, Max: 1, Label: "0-1"},
}

// DefaultCommercialFilters 是 5 个商业口径，逐步收紧：
// 语言 → 语言+时长 → 语言+互动量 → 语言+时长+互动量。
var DefaultCommercialFilters = []CommercialFilter{
	{Label: "All Japanese VNs", Filter: vndb.Expr("olang", "=", "ja")},
	{Label: "Japanese + Short or longer", Filter: vndb.And(
		vndb.Expr("olang", "=", "ja"),
		vndb.Expr("length", ">=", LengthShort),
	)},
	{Label: "Japanese + Medium or longer", Filter: vndb.And(
		vndb.Expr("olang", "=", "ja"),
		vndb.Expr("length", ">=", LengthMedium),
	)},
	{Label: "Japanese + Some engagement", Filter: vndb.And(
		vndb.Expr("olang", "=", "ja"),
		vndb.Expr("votecount", ">", EngagementVotes),
	)},
	{Label: "Japanese + Medium + Engagement", Filter: vndb.And(
		vndb.Expr("olang", "=", "ja"),
		vndb.Expr("length", ">=", LengthMedium),
		vndb.Expr("votecount", ">", EngagementVotes),
	)},
}

// DefaultSalesRanges 是 6 个估算销量档位，从高到低。
var DefaultSalesRanges = []domain.SalesRange{
	{MinSales: 100000, Label: "100k+"},
	{MinSales: 50000, MaxSales: 100000, Label: "50k-100k"},
	{MinSales: 25000, MaxSales: 50000, Label: "25k-50k"},
	{MinSales: 10000, MaxSales: 25000, Label: "10k-25k"},
	{MinSales: 5000, MaxSales: 10000, Label: "5k-10k"},
	{MinSales: 1000, MaxSales: 5000, Label: "1k-5k"},
}
