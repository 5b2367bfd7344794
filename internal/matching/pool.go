package matching

import (
	"sort"
	"strconv"
	"strings"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/model"
)

// ── 表示タブ ──

// Tab キャスト一覧の表示タブ。タブごとに母集合が変わる。
type Tab string

const (
	TabToday      Tab = "today"      // 当日出勤キャスト
	TabAll        Tab = "all"        // 全キャスト（店舗条件での絞り込みは行わない）
	TabMatched    Tab = "matched"    // いずれかのオーダーに仮置き済み
	TabUnassigned Tab = "unassigned" // 当日出勤のうち未仮置き
)

// ── 単一選択ソート ──

// PrimarySort 相互排他の単一選択ソート。合成ソート軸より先に適用される。
type PrimarySort string

const (
	SortNone     PrimarySort = ""
	SortWageDesc PrimarySort = "wage_desc" // 希望時給の高い順
	SortAgeAsc   PrimarySort = "age_asc"
	SortAgeDesc  PrimarySort = "age_desc"
)

// PageSizes 選択可能なページサイズ
var PageSizes = []int{20, 50, 100}

// DefaultPageSize 既定のページサイズ
const DefaultPageSize = 20

// ── 年齢バケット ──

// AgeBucket 年齢帯の絞り込みバケット
type AgeBucket string

const (
	AgeAny     AgeBucket = ""
	AgeUnder20 AgeBucket = "under20" // 〜19
	AgeEarly20 AgeBucket = "20-24"
	AgeLate20  AgeBucket = "25-29"
	AgeOver30  AgeBucket = "30over"
)

// bounds バケットの下限・上限（nil は制約なし）
func (b AgeBucket) bounds() (min, max *int) {
	iptr := func(n int) *int { return &n }
	switch b {
	case AgeUnder20:
		return nil, iptr(19)
	case AgeEarly20:
		return iptr(20), iptr(24)
	case AgeLate20:
		return iptr(25), iptr(29)
	case AgeOver30:
		return iptr(30), nil
	default:
		return nil, nil
	}
}

// ViewQuery キャスト一覧の表示条件を表す不変の値オブジェクト。
// 個別のトグルを散在させず、この 1 つを純粋な射影関数に渡して再計算する。
type ViewQuery struct {
	Tab       Tab
	Keyword   string      // コード / 名前 / 旧 ID の部分一致
	Shop      *model.Shop // nil なら店舗条件での絞り込みなし
	Genres    []string    // 空なら絞り込みなし（いずれかに一致で通過）
	AgeBucket AgeBucket

	Primary PrimarySort // 単一選択ソート（合成軸より先）
	NumAsc  bool        // 合成軸: コード数値昇順
	NumDesc bool        // 合成軸: コード数値降順
	Alpha   bool        // 合成軸: 名前五十音（辞書順）

	Page     int // 1 始まり
	PageSize int
}

// Page 射影結果の 1 ページ
type Page struct {
	Items      []model.Cast
	Total      int
	PageIndex  int // 範囲内に補正済みの 1 始まりページ番号
	PageSize   int
	TotalPages int
}

// Project 母集合に対して絞り込み・ソート・ページングを適用する。
// staged にはオーダーへ仮置き済みのキャスト ID 集合を渡す
// （matched / unassigned タブの判定に使用、他タブでは無視される）。
// 入力スライスは変更しない。
func Project(todayRoster, allCasts []model.Cast, staged map[string]bool, q ViewQuery) Page {
	// ── タブごとの母集合 ──
	var base []model.Cast
	switch q.Tab {
	case TabAll:
		base = allCasts
	case TabMatched:
		for _, c := range todayRoster {
			if staged[c.CastID] {
				base = append(base, c)
			}
		}
	case TabUnassigned:
		for _, c := range todayRoster {
			if !staged[c.CastID] {
				base = append(base, c)
			}
		}
	default:
		base = todayRoster
	}

	// ── 絞り込み ──
	ageMin, ageMax := q.AgeBucket.bounds()
	keyword := strings.TrimSpace(q.Keyword)

	filtered := make([]model.Cast, 0, len(base))
	for i := range base {
		c := &base[i]

		if keyword != "" && !matchKeyword(c, keyword) {
			continue
		}
		// 「全キャスト」タブでは店舗条件での絞り込みを行わない
		if q.Tab != TabAll && !IsEligible(c, q.Shop) {
			continue
		}
		if len(q.Genres) > 0 && !matchGenres(c, q.Genres) {
			continue
		}
		if ageMin != nil && c.Age < *ageMin {
			continue
		}
		if ageMax != nil && c.Age > *ageMax {
			continue
		}

		filtered = append(filtered, *c)
	}

	sortCasts(filtered, q)

	// ── ページング ──
	pageSize := q.PageSize
	if !validPageSize(pageSize) {
		pageSize = DefaultPageSize
	}

	total := len(filtered)
	totalPages := total / pageSize
	if total%pageSize > 0 {
		totalPages++
	}
	if totalPages == 0 {
		totalPages = 1
	}

	// 絞り込みで件数が減った場合はページ番号を範囲内へ補正する
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items:      filtered[start:end],
		Total:      total,
		PageIndex:  page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// ── 内部ヘルパ ──

func validPageSize(n int) bool {
	for _, s := range PageSizes {
		if n == s {
			return true
		}
	}
	return false
}

func matchKeyword(c *model.Cast, keyword string) bool {
	kw := strings.ToLower(keyword)
	if strings.Contains(strings.ToLower(c.Code), kw) {
		return true
	}
	if strings.Contains(strings.ToLower(c.Name), kw) {
		return true
	}
	if c.LegacyID != nil && strings.Contains(strings.ToLower(*c.LegacyID), kw) {
		return true
	}
	return false
}

func matchGenres(c *model.Cast, genres []string) bool {
	for _, g := range genres {
		if c.Genres.Contains(g) {
			return true
		}
	}
	return false
}

// sortCasts 単一選択ソート → 合成軸（数値昇順 → 数値降順 → 五十音）の
// 固定優先順で安定ソートする。
func sortCasts(casts []model.Cast, q ViewQuery) {
	type cmp func(a, b *model.Cast) int
	var chain []cmp

	switch q.Primary {
	case SortWageDesc:
		chain = append(chain, func(a, b *model.Cast) int { return b.DesiredHourly - a.DesiredHourly })
	case SortAgeAsc:
		chain = append(chain, func(a, b *model.Cast) int { return a.Age - b.Age })
	case SortAgeDesc:
		chain = append(chain, func(a, b *model.Cast) int { return b.Age - a.Age })
	}

	if q.NumAsc {
		chain = append(chain, func(a, b *model.Cast) int { return codeNumber(a) - codeNumber(b) })
	}
	if q.NumDesc {
		chain = append(chain, func(a, b *model.Cast) int { return codeNumber(b) - codeNumber(a) })
	}
	if q.Alpha {
		chain = append(chain, func(a, b *model.Cast) int { return strings.Compare(a.Name, b.Name) })
	}

	if len(chain) == 0 {
		return
	}

	sort.SliceStable(casts, func(i, j int) bool {
		for _, f := range chain {
			if d := f(&casts[i], &casts[j]); d != 0 {
				return d < 0
			}
		}
		return false
	})
}

// codeNumber 表示コードの数値部分を取り出す（数値を含まない場合は 0）
func codeNumber(c *model.Cast) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, c.Code)
	n, _ := strconv.Atoi(digits)
	return n
}
