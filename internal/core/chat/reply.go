package chat

import (
	"fmt"
	"strings"
)

type topicLabel struct {
	singular string
	plural   string
}

var topicLabels = map[string]topicLabel{
	"dessert":   {"dessert", "desserts"},
	"snack":     {"snack", "snacks"},
	"breakfast": {"breakfast", "breakfast options"},
	"lunch":     {"lunch", "lunch ideas"},
	"dinner":    {"dinner", "dinner ideas"},
}

func labelsForTopic(topic string) topicLabel {
	if topic == "" {
		return topicLabel{"option", "options"}
	}
	if l, ok := topicLabels[topic]; ok {
		return l
	}
	return topicLabel{topic, topic + " ideas"}
}

// replyOptions 組回覆文字時的情境
type replyOptions struct {
	isMore    bool
	exhausted bool
}

// buildReplyFromSuggestions 依實際回傳的食譜組出一致的回覆文字
// 主題從上一次的實際查詢或目前訊息偵測餐期而來
func buildReplyFromSuggestions(message string, recipes []EnrichedRecipe, ctx *Context, opts replyOptions) string {
	var names []string
	for _, r := range recipes {
		if r.Name != "" {
			names = append(names, r.Name)
		}
	}

	topic := ""
	if ctx != nil {
		topic = ExtractMealTime(strings.ToLower(ctx.LastNonMoreQuery))
	}
	if topic == "" {
		topic = ExtractMealTime(strings.ToLower(message))
	}
	labels := labelsForTopic(topic)

	if opts.exhausted || len(names) == 0 {
		if topic != "" {
			return fmt.Sprintf("Looks like we've reached the end of suggestions for %s. Try a different request or type 'reset' to start over.", labels.plural)
		}
		return "Looks like we've reached the end of suggestions for this topic. Try a different request or type 'reset' to start over."
	}

	switch len(names) {
	case 1:
		if opts.isMore && topic != "" {
			return fmt.Sprintf("Here's another %s option: %s. Want me to add the ingredients or see more?", labels.singular, names[0])
		}
		return fmt.Sprintf("Here's a recipe you might like: %s. Want me to add the ingredients or see more options?", names[0])
	case 2:
		if topic != "" {
			return fmt.Sprintf("Here are two %s to try: %s and %s. Add ingredients or ask for more.", labels.plural, names[0], names[1])
		}
		return fmt.Sprintf("Here are two options: %s and %s. Add ingredients or ask for more.", names[0], names[1])
	default:
		list := strings.Join(names[:3], ", ")
		if topic != "" {
			return fmt.Sprintf("Here are some %s to consider: %s. Add ingredients to your list or ask for more.", labels.plural, list)
		}
		return fmt.Sprintf("Here are some ideas: %s. Add ingredients to your list or ask for more.", list)
	}
}
