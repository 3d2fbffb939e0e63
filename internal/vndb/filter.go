package vndb

// Filter 是 kana API 的谓词表达式，序列化为嵌套数组：
// ["votecount", ">", 0] 或 ["and", ["olang","=","ja"], ["length",">=",3]]。
// 构造后视为只读（同一棵树会被多个请求共享）。
type Filter []any

// Expr 构造单个比较谓词 [field, op, value]。
func Expr(field, op string, v any) Filter {
	return Filter{field, op, v}
}

// And 把若干谓词合并为 ["and", f1, f2, ...]。
// kana 的 and 接受任意个操作数，不需要两两嵌套。
func And(fs ...Filter) Filter {
	f := make(Filter, 0, len(fs)+1)
	f = append(f, "and")
	for _, sub := range fs {
		f = append(f, sub)
	}
	return f
}
