package model

import "time"

// TestResult 每个用户每门课程一条测试成绩，只保存原始分数，是否通过按课程当前及格线计算
// Answers 为规范化后答案的 JSON 数组
// swagger:model TestResult
type TestResult struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_test_result_user_course" json:"userId"`
	CourseID      uint      `gorm:"not null;uniqueIndex:idx_test_result_user_course;index" json:"courseId"`
	Score         int       `gorm:"not null" json:"score"`
	CorrectCount  int       `gorm:"not null" json:"correctCount"`
	QuestionCount int       `gorm:"not null" json:"questionCount"`
	Answers       string    `gorm:"type:text" json:"answers"`
	Attempts      int       `gorm:"not null" json:"attempts"`
	SubmittedAt   time.Time `gorm:"not null" json:"submittedAt"`
}

func (TestResult) TableName() string {
	return "test_results"
}
