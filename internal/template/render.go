// Package template provides rendering of the diary entries generated by
// the end-of-day migrator.
//
// 지원하는 변수 형식:
//
//	{{date}}, {{count}}, {{username}}
package template

import (
	"strconv"
	"strings"
)

const (
	DefaultRollupTitle = "End of day: {{date}}"
	DefaultRollupBody  = "Todos collected for {{date}} ({{count}} items)."
)

// RollupData - 템플릿 렌더링에 사용할 데이터
type RollupData struct {
	Date     string
	Count    int
	Username string
}

// RenderRollup - 템플릿의 변수를 실제 값으로 치환
func RenderRollup(text string, data RollupData) string {
	replacer := strings.NewReplacer(
		"{{date}}", data.Date,
		"{{count}}", strconv.Itoa(data.Count),
		"{{username}}", data.Username,
	)
	return replacer.Replace(text)
}
