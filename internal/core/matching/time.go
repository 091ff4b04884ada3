package matching

import "math"

// minTimeScore 超時食譜的最低分
const minTimeScore = 0.1

// TimeScore 評估烹飪時間是否符合使用者上限；userMaxTime 為 0 表示沒有限制，
// 比上限快的食譜不扣分
func TimeScore(recipeTime, userMaxTime int) float64 {
	if userMaxTime == 0 || recipeTime <= userMaxTime {
		return 1.0
	}
	diff := math.Abs(float64(recipeTime - userMaxTime))
	longest := math.Max(float64(recipeTime), float64(userMaxTime))
	return math.Max(minTimeScore, 1.0-diff/longest)
}
