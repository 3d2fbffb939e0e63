package domain

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestSummary_Finalize_UTCAndEmptySlices(t *testing.T) {
	s := Summary{
		StartedAt:  time.Date(2026, 8, 23, 10, 0, 0, 0, time.FixedZone("X", 8*3600)),
		FinishedAt: time.Date(2026, 8, 23, 10, 0, 1, 0, time.FixedZone("X", 8*3600)),
		TotalVNs:   58868,
	}

	s.Finalize()

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("json.Marshal 失败：%v", err)
	}
	// time.Time 在 UTC 下应输出 'Z' 后缀。
	if !bytes.Contains(b, []byte("\"started_at\":\"2026-08-23T02:00:00Z\"")) {
		t.Fatalf("started_at 不是 UTC RFC3339：%s", string(b))
	}
	// nil 切片必须落盘为 []，而不是 null。
	if !bytes.Contains(b, []byte("\"votecount_distribution\":[]")) || !bytes.Contains(b, []byte("\"commercial_counts\":[]")) {
		t.Fatalf("nil 切片未归一为空数组：%s", string(b))
	}
}

func TestSummary_RoundTrip(t *testing.T) {
	s := Summary{
		TotalVNs: 100,
		Distribution: []Bucket{
			NewBucket(VoteRange{Min: 10000, Label: "10,000+"}),
			{Label: "0-1", Min: 0, Max: 1, Count: 7, Failed: true, Error: "HTTP 429"},
		},
		Commercial: []CommercialCount{{Filter: "All Japanese VNs", Count: 42}},
		TopStats:   TopStats{MaxVotes: 9, MedianVotes: 4.5, MeanVotes: 5.2, MinVotes: 1},
	}
	s.Finalize()

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("json.Marshal 失败：%v", err)
	}
	var got Summary
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("json.Unmarshal 失败：%v", err)
	}
	if got.TotalVNs != 100 || len(got.Distribution) != 2 || len(got.Commercial) != 1 {
		t.Fatalf("回读后字段不一致：%+v", got)
	}
	// 无上界桶的 max 必须是哨兵值；失败桶的标记必须保留。
	if got.Distribution[0].Max != UnboundedMax {
		t.Fatalf("期望 max=%d，实际 %d", UnboundedMax, got.Distribution[0].Max)
	}
	if !got.Distribution[1].Failed || got.Distribution[1].Error == "" {
		t.Fatalf("失败标记丢失：%+v", got.Distribution[1])
	}
	if got.TopStats.MedianVotes != 4.5 {
		t.Fatalf("期望 median=4.5，实际 %v", got.TopStats.MedianVotes)
	}
}

func TestNewBucket(t *testing.T) {
	b := NewBucket(VoteRange{Min: 10, Max: 25, Label: "10-25"})
	if b.Min != 10 || b.Max != 25 || b.Label != "10-25" || b.Count != 0 {
		t.Fatalf("有界桶构造不正确：%+v", b)
	}
	u := NewBucket(VoteRange{Min: 10000, Label: "10,000+"})
	if u.Max != UnboundedMax {
		t.Fatalf("期望无上界哨兵 %d，实际 %d", UnboundedMax, u.Max)
	}
}

func TestVNRecord_Votes(t *testing.T) {
	n := 120
	if (VNRecord{VoteCount: &n}).Votes() != 120 {
		t.Fatalf("期望 120")
	}
	if (VNRecord{}).Votes() != 0 {
		t.Fatalf("缺失票数应按 0 处理")
	}
}
