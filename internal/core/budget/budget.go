package budget

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// 比較成本時允許的浮點誤差
const epsilon = 1e-9

// Costable 可估算成本的項目
// 第二回傳值為 false 代表無法估價，排序時一律排在最後
type Costable interface {
	CostEstimate() (float64, bool)
}

// 預算上限的表達方式，依序嘗試，第一個命中的為準
var capPatterns = []*regexp.Regexp{
	regexp.MustCompile(`under\s*\$?\s*(\d+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`less\s*than\s*\$?\s*(\d+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`below\s*\$?\s*(\d+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`max(?:imum)?\s*\$?\s*(\d+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`\$\s*(\d+(?:\.\d{1,2})?)\s*(?:or\s*less|and\s*under)`),
	regexp.MustCompile(`budget\s*(?:of\s*)?\$?\s*(\d+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?:relax|expand|raise|increase|up\s*to|to)\s*\$?\s*(\d+(?:\.\d{1,2})?)`),
}

// ParseCap 從自由文字解析預算上限
// 支援 "under $20"、"less than 15 dollars"、"max 8.50"、"budget of $30"、"up to 25" 等寫法
func ParseCap(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	s := strings.ToLower(text)
	for _, re := range capPatterns {
		if m := re.FindStringSubmatch(s); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				return v, true
			}
		}
	}
	return 0, false
}

// FilterByCap 僅保留成本不超過上限的項目，無法估價者一律剔除
func FilterByCap[T Costable](items []T, cap float64) []T {
	var out []T
	for _, item := range items {
		cost, ok := item.CostEstimate()
		if ok && cost <= cap+epsilon {
			out = append(out, item)
		}
	}
	return out
}

// SortByCheapest 回傳依成本由低到高排序的副本，無法估價者排在最後
func SortByCheapest[T Costable](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		ci, oki := out[i].CostEstimate()
		cj, okj := out[j].CostEstimate()
		if !oki {
			return false
		}
		if !okj {
			return true
		}
		return ci < cj
	})
	return out
}
