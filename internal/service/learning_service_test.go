package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"workplace_training_backend/internal/progress"
	"workplace_training_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseViewRequiresAssignment(t *testing.T) {
	env := newTestEnv(t)
	svc := env.learning()
	assigned := env.user(t, "ayse")
	stranger := env.user(t, "mehmet")
	course := env.course(t, assigned)

	_, err := svc.CourseView(stranger.ID, false, course.ID)
	assert.ErrorIs(t, err, util.ErrNotAssigned)

	_, err = svc.CourseView(assigned.ID, false, course.ID+100)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	view, err := svc.CourseView(assigned.ID, false, course.ID)
	require.NoError(t, err)
	assert.Len(t, view.Contents, 4)
	assert.Equal(t, progress.KindVideo, view.Next.Kind)
	assert.Equal(t, course.Videos[0].ID, view.Next.ID)
	assert.Equal(t, 0, view.Progress.ProgressPercent)
	assert.Nil(t, view.Users)
}

func TestAdminCourseViewListsAssignedUsers(t *testing.T) {
	env := newTestEnv(t)
	svc := env.learning()
	admin := env.user(t, "admin")
	ayse := env.user(t, "ayse")
	course := env.course(t, ayse)

	_, err := svc.CompleteVideo(ayse.ID, false, course.Videos[0].ID)
	require.NoError(t, err)

	view, err := svc.CourseView(admin.ID, true, course.ID)
	require.NoError(t, err)
	require.Len(t, view.Users, 1)
	assert.Equal(t, ayse.ID, view.Users[0].User.ID)
	assert.Equal(t, 1, view.Users[0].Progress.CompletedVideos)
	assert.NotNil(t, view.Users[0].LastCompletion)
}

func TestCompletionWalksTheSequence(t *testing.T) {
	env := newTestEnv(t)
	svc := env.learning()
	u := env.user(t, "ayse")
	course := env.course(t, u)

	res, err := svc.CompleteVideo(u.ID, false, course.Videos[0].ID)
	require.NoError(t, err)
	assert.Equal(t, progress.Item{Kind: progress.KindVideo, ID: course.Videos[1].ID, Title: "Controls", Order: 2}, res.Next)

	// 重复标记不产生新记录
	_, err = svc.CompleteVideo(u.ID, false, course.Videos[0].ID)
	require.NoError(t, err)
	count, err := env.progressRepo.CountVideoProgress(u.ID, course.Videos[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	res, err = svc.CompleteVideo(u.ID, false, course.Videos[1].ID)
	require.NoError(t, err)
	assert.Equal(t, progress.KindPdf, res.Next.Kind)

	res, err = svc.MarkPdfViewed(u.ID, false, course.Pdfs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, progress.KindTest, res.Next.Kind)
	assert.True(t, res.Progress.AllContentCompleted)
	assert.False(t, res.Progress.IsCompleted)
	assert.Equal(t, 75, res.Progress.ProgressPercent)

	pdfView, err := svc.PdfView(u.ID, false, course.Pdfs[0].ID)
	require.NoError(t, err)
	require.NotNil(t, pdfView.Record)
	assert.Equal(t, 3, pdfView.Navigation.Position)
	assert.Equal(t, 4, pdfView.Navigation.Total)
	require.NotNil(t, pdfView.Navigation.Next)
	assert.Equal(t, progress.KindTest, pdfView.Navigation.Next.Kind)
}

func TestVideoViewNavigation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.learning()
	u := env.user(t, "ayse")
	course := env.course(t, u)

	view, err := svc.VideoView(u.ID, false, course.Videos[0].ID)
	require.NoError(t, err)
	assert.Nil(t, view.Record)
	assert.Nil(t, view.Navigation.Previous)
	assert.Equal(t, 1, view.Navigation.Position)
	require.NotNil(t, view.Navigation.Next)
	assert.Equal(t, course.Videos[1].ID, view.Navigation.Next.ID)

	_, err = svc.VideoView(u.ID, false, 9999)
	assert.ErrorIs(t, err, util.ErrContentNotFound)
}

func TestSubmitTestFlow(t *testing.T) {
	env := newTestEnv(t)
	svc := env.learning()
	u := env.user(t, "ayse")
	course := env.course(t, u)
	ctx := context.Background()

	_, err := svc.SubmitTest(ctx, u.ID, false, course.ID, []string{"A", "B", "C", "D"})
	assert.ErrorIs(t, err, util.ErrContentIncomplete)
	_, err = svc.TestView(u.ID, false, course.ID)
	assert.ErrorIs(t, err, util.ErrContentIncomplete)

	env.finish(t, svc, u, course)

	view, err := svc.TestView(u.ID, false, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, view.QuestionCount)
	assert.Equal(t, "/uploads/tests/forklift.pdf", view.FileURL)
	assert.Equal(t, 4, view.Navigation.Position)

	_, err = svc.SubmitTest(ctx, u.ID, false, course.ID, []string{"A", "B", "C", "D", "E"})
	assert.ErrorIs(t, err, util.ErrInvalidAnswers)

	failed, err := svc.SubmitTest(ctx, u.ID, false, course.ID, []string{"a", "x", "x"})
	require.NoError(t, err)
	assert.False(t, failed.Passed)
	assert.Equal(t, 25, failed.Score)
	assert.Equal(t, 1, failed.Attempts)
	assert.Equal(t, progress.KindTest, failed.Next.Kind)

	passed, err := svc.SubmitTest(ctx, u.ID, false, course.ID, []string{"A", "b", " C ", "X"})
	require.NoError(t, err)
	assert.True(t, passed.Passed)
	assert.Equal(t, 3, passed.CorrectCount)
	assert.Equal(t, 75, passed.Score)
	assert.Equal(t, 2, passed.Attempts)
	assert.True(t, passed.Progress.IsCompleted)
	assert.Equal(t, 100, passed.Progress.ProgressPercent)
	assert.Equal(t, progress.KindDashboard, passed.Next.Kind)

	_, err = svc.SubmitTest(ctx, u.ID, false, course.ID, []string{"A", "B", "C", "D"})
	assert.ErrorIs(t, err, util.ErrTestAlreadyPassed)
	_, err = svc.TestView(u.ID, false, course.ID)
	assert.ErrorIs(t, err, util.ErrTestAlreadyPassed)
}

func TestSubmitTestRejectsOversizedAnswers(t *testing.T) {
	env := newTestEnv(t)
	svc := env.learning()
	u := env.user(t, "ayse")
	course := env.course(t, u)
	env.finish(t, svc, u, course)
	ctx := context.Background()

	_, err := svc.SubmitTest(ctx, u.ID, false, course.ID, []string{strings.Repeat("Z", 5000), "B", "C", "D"})
	assert.ErrorIs(t, err, util.ErrInvalidAnswers)
	_, err = svc.SubmitTest(ctx, u.ID, false, course.ID, []string{"A,B", "B"})
	assert.ErrorIs(t, err, util.ErrInvalidAnswers)

	result, err := env.progressRepo.FindTestResult(u.ID, course.ID)
	require.NoError(t, err)
	assert.Nil(t, result)

	_, err = svc.SubmitTest(ctx, u.ID, false, course.ID, []string{" a ", "b", "", "d"})
	require.NoError(t, err)
	result, err = env.progressRepo.FindTestResult(u.ID, course.ID)
	require.NoError(t, err)
	var stored []string
	require.NoError(t, json.Unmarshal([]byte(result.Answers), &stored))
	assert.Equal(t, []string{"A", "B", "", "D"}, stored)
}

func TestPassFailUsesCurrentPassingScore(t *testing.T) {
	env := newTestEnv(t)
	svc := env.learning()
	u := env.user(t, "ayse")
	course := env.course(t, u)
	env.finish(t, svc, u, course)

	res, err := svc.SubmitTest(context.Background(), u.ID, false, course.ID, []string{"A", "B", "C", "X"})
	require.NoError(t, err)
	require.True(t, res.Passed)

	course.PassingScore = 80
	require.NoError(t, env.courseRepo.Update(course))

	view, err := svc.CourseView(u.ID, false, course.ID)
	require.NoError(t, err)
	assert.False(t, view.Progress.PassedTest)
	assert.False(t, view.Progress.IsCompleted)
	assert.Equal(t, progress.KindTest, view.Next.Kind)
}

func TestDashboardListsAssignedCourses(t *testing.T) {
	env := newTestEnv(t)
	svc := env.learning()
	u := env.user(t, "ayse")
	env.course(t, u)
	env.course(t)

	ann := NewAnnouncementService(env.annRepo)
	for _, title := range []string{"one", "two", "three", "four"} {
		_, err := ann.Create(title, "body")
		require.NoError(t, err)
	}

	view, err := svc.Dashboard(u.ID)
	require.NoError(t, err)
	require.Len(t, view.Courses, 1)
	assert.Equal(t, progress.KindVideo, view.Courses[0].Next.Kind)
	require.Len(t, view.Announcements, 3)
	assert.Equal(t, "four", view.Announcements[0].Title)
}
