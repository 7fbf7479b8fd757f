package chat

import (
	"regexp"
	"strings"

	"grocery-assistant/internal/core/catalog"
)

var (
	haveListPattern    = regexp.MustCompile(`(?i)(?:i have|i've got|i got|ingredients?:|have only|only have)\s*:?\s*(.*)`)
	sentenceVerbPattern = regexp.MustCompile(`(?i)\b(give|make|recipe|based|only|just|some|cook|want)\b`)
	listSplitPattern   = regexp.MustCompile(`,|\n| and | & |;|\(|\)`)
)

// ParseIngredientsFromText 從訊息中解析食材清單
// 先抓 "i have ..." 這類子句，像完整句子時改從已知商品名反查
func ParseIngredientsFromText(text string, products []catalog.Product) []string {
	if text == "" {
		return nil
	}

	listText := ""
	if m := haveListPattern.FindStringSubmatch(text); m != nil {
		listText = m[1]
	} else if strings.Contains(text, ",") || strings.Contains(text, "\n") {
		listText = text
	}
	if listText == "" {
		return nil
	}

	// 子句帶動詞時逐一比對商品名，避免把整句尾巴當清單
	if sentenceVerbPattern.MatchString(listText) && len(products) > 0 {
		found := make(map[string]struct{})
		var order []string
		textNorm := Normalize(text)
		textWords := strings.Fields(textNorm)
		wordSet := make(map[string]struct{}, len(textWords))
		for _, w := range textWords {
			wordSet[w] = struct{}{}
		}
		for _, p := range products {
			prod := Normalize(p.Item)
			if prod == "" {
				continue
			}
			if strings.Contains(textNorm, prod) {
				if _, dup := found[prod]; !dup {
					found[prod] = struct{}{}
					order = append(order, prod)
				}
				continue
			}
			for _, w := range strings.Fields(prod) {
				if len(w) < 3 {
					continue
				}
				if _, ok := wordSet[w]; ok {
					if _, dup := found[prod]; !dup {
						found[prod] = struct{}{}
						order = append(order, prod)
					}
					break
				}
			}
		}
		if len(order) > 0 {
			return order
		}
	}

	var normalized []string
	for _, tok := range listSplitPattern.Split(listText, -1) {
		if n := Normalize(tok); n != "" {
			normalized = append(normalized, n)
		}
	}

	// 優先回傳與商品名完全一致的
	if len(products) > 0 {
		prodSet := make(map[string]struct{}, len(products))
		for _, p := range products {
			prodSet[Normalize(p.Item)] = struct{}{}
		}
		var matches []string
		for _, tok := range normalized {
			if _, ok := prodSet[tok]; ok {
				matches = append(matches, tok)
			}
		}
		if len(matches) > 0 {
			return matches
		}
	}
	return normalized
}

// ExtractIngredientsFromMessage 把訊息中的字比對到已知食材集合
// 支援雙向子字串與簡單單複數歸一
func ExtractIngredientsFromMessage(message string, known []string) []string {
	if message == "" {
		return nil
	}

	var candidates []string
	for _, tok := range strings.FieldsFunc(strings.ToLower(message), func(c rune) bool {
		return !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9')
	}) {
		tok = Normalize(tok)
		if len(tok) < 3 {
			continue
		}
		if _, skip := ingredientStopwords[tok]; skip {
			continue
		}
		candidates = append(candidates, tok)
	}

	found := make(map[string]struct{})
	var order []string
	add := func(name string) {
		if _, dup := found[name]; !dup {
			found[name] = struct{}{}
			order = append(order, name)
		}
	}

	knownSet := make(map[string]struct{}, len(known))
	for _, k := range known {
		knownSet[k] = struct{}{}
	}

	for _, cand := range candidates {
		if _, ok := knownSet[cand]; ok {
			add(cand)
			continue
		}
		for _, ing := range known {
			if strings.Contains(ing, cand) || strings.Contains(cand, ing) {
				add(ing)
			} else if singular(ing) != "" && singular(ing) == singular(cand) {
				add(ing)
			}
		}
	}
	return order
}

// KnownIngredients 由商品目錄建立正規化名稱清單
func KnownIngredients(products []catalog.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		if n := Normalize(p.Item); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// SearchProducts 以關鍵字在商品目錄中搜尋，名稱或分類命中即採納
func SearchProducts(query string, products []catalog.Product) []catalog.Product {
	tokens := tokenizeQuery(query)
	if len(tokens) == 0 {
		return nil
	}
	var out []catalog.Product
	for _, p := range products {
		name := Normalize(p.Item)
		category := Normalize(p.Category)
		for _, tk := range tokens {
			if strings.Contains(name, tk) || strings.Contains(category, tk) ||
				strings.Contains(name, singular(tk)) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
