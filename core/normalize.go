package core

import (
	"regexp"
	"strings"
)

var (
	nonLetterPattern  = regexp.MustCompile(`[^a-z\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// NormalizeAuthor 归一化作者名：小写、去掉字母与空白之外的字符、空白压缩为单个空格。
// Book.NormalizedAuthors 与查询里的作者偏好都用同一套规则归一化，
// 归一化结果只用于子串匹配，不参与文本相似度计算。
func NormalizeAuthor(author string) string {
	s := strings.ToLower(strings.TrimSpace(author))
	s = nonLetterPattern.ReplaceAllString(s, "")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
