package util

import (
	"math"
	"strconv"
	"strings"
)

// Round 保留 places 位小数
func Round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

// Percentage 返回 part/total 的百分比，保留一位小数；total 为 0 时返回 0
func Percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round(float64(part)/float64(total)*100, 1)
}

// AtoiDefault 解析整数，失败时返回 def
func AtoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// NormalizeAnswer 用于答案比较：去除首尾空白并忽略大小写
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// AnswersMatch reports whether given matches expected after normalization.
func AnswersMatch(given, expected string) bool {
	return NormalizeAnswer(given) == NormalizeAnswer(expected)
}
