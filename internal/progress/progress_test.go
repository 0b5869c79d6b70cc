package progress

import (
	"testing"

	"workplace_training_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func video(id uint, order int) model.Video {
	v := model.Video{Title: "video", Order: order}
	v.ID = id
	return v
}

func pdf(id uint, order int) model.Pdf {
	p := model.Pdf{Title: "pdf", Order: order}
	p.ID = id
	return p
}

func withTest(c *model.Course) *model.Course {
	c.TestRequired = true
	c.TestFile = "tests/quiz.pdf"
	c.TestFileType = model.TestFilePDF
	c.TestAnswerKey = "A,B,C,D"
	c.TestQuestionCount = 4
	return c
}

func state(videos []uint, pdfs []uint, score *int) State {
	st := State{CompletedVideos: map[uint]bool{}, ViewedPdfs: map[uint]bool{}}
	for _, id := range videos {
		st.CompletedVideos[id] = true
	}
	for _, id := range pdfs {
		st.ViewedPdfs[id] = true
	}
	if score != nil {
		st.TestResult = &model.TestResult{Score: *score}
	}
	return st
}

func intPtr(v int) *int { return &v }

func TestComputeEmptyCourseIsComplete(t *testing.T) {
	course := &model.Course{PassingScore: 70}

	sum := Compute(course, State{})

	assert.True(t, sum.IsCompleted)
	assert.True(t, sum.AllContentCompleted)
	assert.False(t, sum.AllVideosWatched)
	assert.False(t, sum.AllPdfsViewed)
	assert.Equal(t, 0, sum.TotalSteps)
	assert.Equal(t, 100, sum.ProgressPercent)
}

func TestComputePartialProgress(t *testing.T) {
	course := &model.Course{
		PassingScore: 70,
		Videos:       []model.Video{video(1, 1), video(2, 2)},
		Pdfs:         []model.Pdf{pdf(10, 3)},
	}

	sum := Compute(course, state([]uint{1}, nil, nil))

	assert.Equal(t, 1, sum.CompletedVideos)
	assert.Equal(t, 0, sum.CompletedPdfs)
	assert.Equal(t, 1, sum.CompletedSteps)
	assert.Equal(t, 3, sum.TotalSteps)
	assert.Equal(t, 33, sum.ProgressPercent)
	assert.False(t, sum.IsCompleted)
}

func TestComputeIgnoresRecordsOfOtherCourses(t *testing.T) {
	course := &model.Course{Videos: []model.Video{video(1, 1)}}

	sum := Compute(course, state([]uint{1, 99}, []uint{42}, nil))

	assert.Equal(t, 1, sum.CompletedVideos)
	assert.Equal(t, 0, sum.CompletedPdfs)
	assert.Equal(t, 100, sum.ProgressPercent)
	assert.True(t, sum.IsCompleted)
}

func TestComputeTestGatesCompletion(t *testing.T) {
	course := withTest(&model.Course{
		PassingScore: 70,
		Videos:       []model.Video{video(1, 1)},
		Pdfs:         []model.Pdf{pdf(2, 1)},
	})

	cases := []struct {
		name      string
		st        State
		passed    bool
		completed bool
		percent   int
	}{
		{"content pending", state([]uint{1}, nil, intPtr(100)), false, false, 33},
		{"no result", state([]uint{1}, []uint{2}, nil), false, false, 67},
		{"failed", state([]uint{1}, []uint{2}, intPtr(69)), false, false, 67},
		{"passed at threshold", state([]uint{1}, []uint{2}, intPtr(70)), true, true, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sum := Compute(course, tc.st)
			assert.Equal(t, tc.passed, sum.PassedTest)
			assert.Equal(t, tc.completed, sum.IsCompleted)
			assert.Equal(t, tc.percent, sum.ProgressPercent)
			assert.Equal(t, 3, sum.TotalSteps)
		})
	}
}

func TestComputeReportsScoreBeforeContentDone(t *testing.T) {
	course := withTest(&model.Course{PassingScore: 70, Videos: []model.Video{video(1, 1)}})

	sum := Compute(course, state(nil, nil, intPtr(90)))

	require.NotNil(t, sum.TestScore)
	assert.Equal(t, 90, *sum.TestScore)
	assert.False(t, sum.PassedTest)
}

func TestComputePassUsesCurrentThreshold(t *testing.T) {
	course := withTest(&model.Course{PassingScore: 70, Videos: []model.Video{video(1, 1)}})
	st := state([]uint{1}, nil, intPtr(75))

	assert.True(t, Compute(course, st).IsCompleted)

	course.PassingScore = 80
	assert.False(t, Compute(course, st).IsCompleted)
}

func TestComputeTestOnlyCourse(t *testing.T) {
	course := withTest(&model.Course{PassingScore: 70})

	assert.False(t, Compute(course, State{}).IsCompleted)
	assert.Equal(t, 0, Compute(course, State{}).ProgressPercent)

	sum := Compute(course, state(nil, nil, intPtr(80)))
	assert.True(t, sum.IsCompleted)
	assert.Equal(t, 100, sum.ProgressPercent)
}

func TestComputeMonotonic(t *testing.T) {
	course := withTest(&model.Course{
		PassingScore: 50,
		Videos:       []model.Video{video(1, 1), video(2, 2), video(3, 4)},
		Pdfs:         []model.Pdf{pdf(4, 2), pdf(5, 3)},
	})
	st := state(nil, nil, nil)
	last := Compute(course, st).ProgressPercent

	for _, item := range Contents(course) {
		if item.Kind == KindVideo {
			st.CompletedVideos[item.ID] = true
		} else {
			st.ViewedPdfs[item.ID] = true
		}
		pct := Compute(course, st).ProgressPercent
		assert.GreaterOrEqual(t, pct, last)
		last = pct
	}
	st.TestResult = &model.TestResult{Score: 50}
	assert.Equal(t, 100, Compute(course, st).ProgressPercent)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 100, Percent(0, 0))
	assert.Equal(t, 0, Percent(0, 3))
	assert.Equal(t, 50, Percent(1, 2))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 100, Percent(5, 3))
}

func TestNewStateSkipsIncompleteVideos(t *testing.T) {
	st := NewState(
		[]model.Progress{{VideoID: 1, Completed: true}, {VideoID: 2}},
		[]model.PdfProgress{{PdfID: 3}},
		nil,
	)

	assert.True(t, st.CompletedVideos[1])
	assert.False(t, st.CompletedVideos[2])
	assert.True(t, st.ViewedPdfs[3])
}
