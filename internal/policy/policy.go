// internal/policy/policy.go
package policy

import (
	"fmt"
	"sort"

	"arcade_gate/internal/model"
)

// QuotaBand はスコア帯と課される復習枚数の対応を表します。
// MinScore は下限（含む）で、次の帯の下限が上限（含まない）になります。
type QuotaBand struct {
	MinScore int
	Reviews  int
}

// DefaultBands は既定のスコア帯テーブルです。
// 500点未満は20枚、1000点未満は30枚、それ以上は40枚。
var DefaultBands = []QuotaBand{
	{MinScore: 0, Reviews: 20},
	{MinScore: 500, Reviews: 30},
	{MinScore: 1000, Reviews: 40},
}

// ComputeRequiredReviews はゲーム結果から次のゲームまでに必要な
// 復習枚数を計算します。勝利時はスコアに関わらず0です。
// 副作用はありません。負のスコアは ErrInvalidInput を返します。
func ComputeRequiredReviews(result model.GameResult) (int, error) {
	return ComputeRequiredReviewsWith(DefaultBands, result)
}

// ComputeRequiredReviewsWith は任意のスコア帯テーブルで計算します。
// テーブルは MinScore 昇順である必要があります。
func ComputeRequiredReviewsWith(bands []QuotaBand, result model.GameResult) (int, error) {
	if result.Score < 0 {
		return 0, fmt.Errorf("%w: negative score %d", model.ErrInvalidInput, result.Score)
	}
	if result.Won {
		return 0, nil
	}
	if len(bands) == 0 {
		return 0, fmt.Errorf("%w: empty quota band table", model.ErrInvalidInput)
	}
	if !sort.SliceIsSorted(bands, func(i, j int) bool { return bands[i].MinScore < bands[j].MinScore }) {
		return 0, fmt.Errorf("%w: quota bands must be sorted by min_score", model.ErrInvalidInput)
	}

	// 下限昇順のテーブルから、スコアを含む最後の帯を選ぶ
	reviews := bands[0].Reviews
	for _, b := range bands {
		if result.Score >= b.MinScore {
			reviews = b.Reviews
		}
	}
	return reviews, nil
}
