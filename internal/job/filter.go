// Package job は仕事のライフサイクル管理とフィルタリングのドメインロジックを提供する。
package job

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/hitoshi/shigotoba/internal/model"
)

// Matches は仕事が正規化済みフィルタに一致するかを判定する純粋な述語。
// 設定されたフィルタ条件のすべてを満たす場合のみtrueを返す（AND結合）。
// 条件が1つも設定されていない場合はすべての仕事に一致する。
func Matches(j *model.Job, f model.JobFilter) bool {
	// 予算フィルタ: 予算が数値として解釈できない場合、
	// 適用されたいずれの数値フィルタにも一致しない
	if f.MinBudget != nil || f.MaxBudget != nil {
		budget, err := strconv.ParseFloat(strings.TrimSpace(j.Budget), 64)
		if err != nil {
			return false
		}
		if f.MinBudget != nil && budget < *f.MinBudget {
			return false
		}
		if f.MaxBudget != nil && budget > *f.MaxBudget {
			return false
		}
	}

	// キーワード: タイトルまたは説明文への部分一致（大文字小文字を区別しない）
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		title := strings.ToLower(j.Title)
		desc := strings.ToLower(j.Description)
		if !strings.Contains(title, q) && !strings.Contains(desc, q) {
			return false
		}
	}

	// 所在地: 部分一致（大文字小文字を区別しない）
	if f.Location != "" {
		if !strings.Contains(strings.ToLower(j.Location), strings.ToLower(f.Location)) {
			return false
		}
	}

	// スキル: 積集合が空でなければ一致（全包含ではない）
	if len(f.Skills) > 0 {
		if !hasSkillIntersection(j.Skills, f.Skills) {
			return false
		}
	}

	return true
}

// hasSkillIntersection は仕事のスキルと要求スキルに共通要素があるかを返す。
// 要求スキルは正規化済み（小文字）であることを前提とし、
// 仕事側のスキルはここで小文字に折りたたんで比較する。
func hasSkillIntersection(jobSkills, wantSkills []string) bool {
	if len(jobSkills) == 0 {
		return false
	}

	have := make(map[string]struct{}, len(jobSkills))
	for _, s := range jobSkills {
		have[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	for _, want := range wantSkills {
		if _, ok := have[want]; ok {
			return true
		}
	}
	return false
}

// ParseJobFilter は生のクエリパラメータを正規化済みのJobFilterに変換する。
// minBudget/maxBudgetは数値として解釈できない場合は未設定として無視する。
// skillsはカンマ区切りで分割し、小文字に正規化して空要素を除く。
func ParseJobFilter(query url.Values) model.JobFilter {
	f := model.JobFilter{
		Query:    strings.TrimSpace(query.Get("q")),
		Location: strings.TrimSpace(query.Get("location")),
	}

	if raw := strings.TrimSpace(query.Get("minBudget")); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			f.MinBudget = &v
		}
	}
	if raw := strings.TrimSpace(query.Get("maxBudget")); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			f.MaxBudget = &v
		}
	}

	if raw := strings.TrimSpace(query.Get("skills")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			skill := strings.ToLower(strings.TrimSpace(part))
			if skill != "" {
				f.Skills = append(f.Skills, skill)
			}
		}
	}

	return f
}

// ParseStatusFilter はstatusクエリパラメータを正規化する。
// "all"、空文字列、未サポートの値はすべて「全件」を意味する空文字列に変換する。
func ParseStatusFilter(raw string) model.JobStatus {
	status := model.JobStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.IsValid() {
		return ""
	}
	return status
}
