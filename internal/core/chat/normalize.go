package chat

import (
	"strings"
)

// Normalize 將文字轉為比對用的標準形式
// 轉小寫、去除英數與空白以外的字元、壓縮連續空白，結果對重複套用不變
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, c := range strings.ToLower(text) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == ' ', c == '\t', c == '\n':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// queryStopwords 查詢評分時剔除的常見字
var queryStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "to": {}, "for": {}, "me": {}, "i": {},
	"you": {}, "please": {}, "give": {}, "something": {}, "make": {},
	"cook": {}, "want": {}, "just": {}, "one": {}, "more": {}, "recipe": {},
	"recipes": {}, "what": {}, "can": {}, "should": {}, "would": {},
	"need": {}, "some": {}, "that": {}, "show": {},
}

// ingredientStopwords 從訊息抽取食材時剔除的字
var ingredientStopwords = map[string]struct{}{
	"i": {}, "have": {}, "only": {}, "just": {}, "can": {}, "you": {},
	"me": {}, "some": {}, "recipe": {}, "recipes": {}, "give": {},
	"want": {}, "with": {}, "and": {}, "for": {}, "based": {}, "on": {},
	"my": {}, "ingredients": {}, "please": {}, "suggest": {}, "make": {},
	"cook": {}, "quick": {}, "healthy": {}, "dinner": {}, "lunch": {},
	"breakfast": {}, "snack": {}, "more": {}, "the": {}, "a": {}, "an": {},
	"to": {}, "of": {}, "it": {}, "that": {}, "this": {}, "those": {},
	"these": {},
}

// tokenizeQuery 切出查詢關鍵字，剔除停用字與過短的 token
func tokenizeQuery(query string) []string {
	var tokens []string
	for _, tok := range strings.FieldsFunc(strings.ToLower(query), func(c rune) bool {
		return !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9')
	}) {
		if len(tok) <= 2 {
			continue
		}
		if _, skip := queryStopwords[tok]; skip {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// singular 去掉結尾的 s 做簡單單複數歸一
func singular(word string) string {
	return strings.TrimSuffix(word, "s")
}

// containsWord 檢查以空白切分後是否含完整單字
func containsWord(text, word string) bool {
	for _, w := range strings.Fields(text) {
		if w == word {
			return true
		}
	}
	return false
}
