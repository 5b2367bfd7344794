// Package matching 当日マッチングの純粋ロジック。
// 適格判定とロスター射影のみを持ち、I/O や共有状態には一切触れない。
package matching

import (
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/model"
)

// IsEligible キャストが店舗の条件を満たすかを判定する。
// shop が nil の場合（店舗未選択）は常に true ＝ 絞り込みなし。
// 未設定の条件は「制約なし」として扱い、決して失敗しない全域関数であること。
//
// 判定順: NG → 時給下限/上限 → 年齢下限/上限 → 飲酒条件。
func IsEligible(cast *model.Cast, shop *model.Shop) bool {
	if shop == nil {
		return true
	}

	// NG は他の条件に関係なく最優先で除外する
	if cast.IsNGShop(shop.ShopID) {
		return false
	}

	if shop.MinHourly != nil && cast.DesiredHourly < *shop.MinHourly {
		return false
	}
	if shop.MaxHourly != nil && cast.DesiredHourly > *shop.MaxHourly {
		return false
	}

	if shop.MinAge != nil && cast.Age < *shop.MinAge {
		return false
	}
	if shop.MaxAge != nil && cast.Age > *shop.MaxAge {
		return false
	}

	if shop.RequiresDrinker && !cast.DrinkLevel.CanDrink() {
		return false
	}

	return true
}
