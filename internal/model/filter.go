// Package model はドメインモデルを定義する。
package model

// JobFilter は仕事一覧に適用する正規化済みのフィルタクエリを表す。
// すべてのフィールドは任意で、設定されたものだけがANDで適用される。
// 生のクエリパラメータからの正規化はHTTP層（ParseJobFilter）の責務。
type JobFilter struct {
	// MinBudget / MaxBudget は予算の数値下限・上限（両端含む）。nilは制約なし。
	MinBudget *float64
	MaxBudget *float64
	// Query はタイトルまたは説明文への大文字小文字を区別しない部分一致。
	Query string
	// Location は所在地への大文字小文字を区別しない部分一致。
	Location string
	// Skills は小文字に正規化済みの要求スキル。1つでも共通すれば一致。
	Skills []string
}

// IsEmpty はフィルタ条件が1つも設定されていないかを返す。
// 空フィルタはすべての仕事に一致するため、呼び出し側は評価をスキップしてよい。
func (f JobFilter) IsEmpty() bool {
	return f.MinBudget == nil && f.MaxBudget == nil &&
		f.Query == "" && f.Location == "" && len(f.Skills) == 0
}
