package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeIsCaseAndSpaceInsensitive(t *testing.T) {
	res := Grade([]string{"A", "b", " C ", "X"}, "A,B,C,D", 4)

	assert.Equal(t, 3, res.CorrectCount)
	assert.Equal(t, 4, res.QuestionCount)
	assert.Equal(t, 75, res.Score)
}

func TestGradeMissingAndEmptyAnswers(t *testing.T) {
	res := Grade([]string{"A", ""}, "A,B,C", 3)

	assert.Equal(t, 1, res.CorrectCount)
	assert.Equal(t, 33, res.Score)
}

func TestGradeShortKeyCountsAsWrong(t *testing.T) {
	res := Grade([]string{"A", "B", "C", "D"}, "a, b", 4)

	assert.Equal(t, 2, res.CorrectCount)
	assert.Equal(t, 50, res.Score)
}

func TestGradeEmptyKeySlotNeverMatchesEmptyAnswer(t *testing.T) {
	res := Grade([]string{"A", ""}, "A,,C", 3)

	assert.Equal(t, 1, res.CorrectCount)
}

func TestGradeZeroQuestions(t *testing.T) {
	res := Grade([]string{"A"}, "A", 0)

	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 0, res.CorrectCount)
}

func TestGradeRoundsHalfUp(t *testing.T) {
	assert.Equal(t, 67, Grade([]string{"A", "B"}, "A,B,C", 3).Score)
	assert.Equal(t, 13, Grade([]string{"A"}, "A,B,C,D,E,F,G,H", 8).Score)
}

func TestPassed(t *testing.T) {
	assert.True(t, Passed(70, 70))
	assert.False(t, Passed(69, 70))
}

func TestValidAnswer(t *testing.T) {
	assert.True(t, ValidAnswer(" b "))
	assert.True(t, ValidAnswer(""))
	assert.True(t, ValidAnswer("ÇĞİÖŞÜABCD"))
	assert.False(t, ValidAnswer("ABCDEFGHIJK"))
	assert.False(t, ValidAnswer("A,B"))
}
