// Package grading 按答案键为上传式测试评分
package grading

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxAnswerLength 单题答案规范化后的最大字符数
	MaxAnswerLength = 10
	// MaxKeyLength 答案键最大长度，与 courses.test_answer_key 列宽一致
	MaxKeyLength = 500
)

// Result 评分结果
type Result struct {
	CorrectCount  int `json:"correctCount"`
	QuestionCount int `json:"questionCount"`
	Score         int `json:"score"`
}

// ParseKey 解析逗号分隔的答案键，每项去空格并转大写
func ParseKey(key string) []string {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	parts := strings.Split(key, ",")
	for i, p := range parts {
		parts[i] = Normalize(p)
	}
	return parts
}

func Normalize(answer string) string {
	return strings.ToUpper(strings.TrimSpace(answer))
}

// ValidAnswer 答案不能含逗号，规范化后不超过 MaxAnswerLength 个字符
func ValidAnswer(answer string) bool {
	n := Normalize(answer)
	return !strings.Contains(n, ",") && utf8.RuneCountInString(n) <= MaxAnswerLength
}

// Grade 评分。answers[i] 对应第 i+1 题；空答案以及超出答案键长度的题目均判为错误
func Grade(answers []string, key string, questionCount int) Result {
	res := Result{QuestionCount: questionCount}
	if questionCount <= 0 {
		return res
	}

	keys := ParseKey(key)
	for i := 0; i < questionCount; i++ {
		if i >= len(answers) || i >= len(keys) {
			continue
		}
		got := Normalize(answers[i])
		if got != "" && got == keys[i] {
			res.CorrectCount++
		}
	}
	res.Score = (200*res.CorrectCount + questionCount) / (2 * questionCount)
	return res
}

// Passed 分数达到及格线即通过
func Passed(score, passingScore int) bool {
	return score >= passingScore
}
