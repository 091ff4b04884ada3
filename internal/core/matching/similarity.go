package matching

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity 以 Levenshtein 距離計算兩個字串的相似度，範圍 [0,1]
//
// 長度以 rune 計算；大小寫由呼叫端先行處理。
func Similarity(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return float64(longest-dist) / float64(longest)
}
