// Package progress 计算用户在一门课程中的学习进度。
//
// 所有函数都是纯计算，不访问数据库，可并发调用。调用方负责加载课程内容
// 以及用户的完成记录快照。
package progress

import "workplace_training_backend/internal/model"

// State 用户在某门课程上的完成记录快照
type State struct {
	CompletedVideos map[uint]bool
	ViewedPdfs      map[uint]bool
	TestResult      *model.TestResult
}

// NewState 由完成记录构造快照，未完成的视频记录会被忽略
func NewState(progress []model.Progress, pdfProgress []model.PdfProgress, result *model.TestResult) State {
	st := State{
		CompletedVideos: make(map[uint]bool, len(progress)),
		ViewedPdfs:      make(map[uint]bool, len(pdfProgress)),
		TestResult:      result,
	}
	for _, p := range progress {
		if p.Completed {
			st.CompletedVideos[p.VideoID] = true
		}
	}
	for _, p := range pdfProgress {
		st.ViewedPdfs[p.PdfID] = true
	}
	return st
}

// Done 判断某个内容项是否已完成
func (s State) Done(item Item) bool {
	switch item.Kind {
	case KindVideo:
		return s.CompletedVideos[item.ID]
	case KindPdf:
		return s.ViewedPdfs[item.ID]
	}
	return false
}

// Summary 进度汇总
type Summary struct {
	TotalVideos         int  `json:"totalVideos"`
	CompletedVideos     int  `json:"completedVideos"`
	TotalPdfs           int  `json:"totalPdfs"`
	CompletedPdfs       int  `json:"completedPdfs"`
	AllVideosWatched    bool `json:"allVideosWatched"`
	AllPdfsViewed       bool `json:"allPdfsViewed"`
	AllContentCompleted bool `json:"allContentCompleted"`
	TestRequired        bool `json:"testRequired"`
	HasTestMaterial     bool `json:"hasTestMaterial"`
	TestScore           *int `json:"testScore,omitempty"`
	PassingScore        int  `json:"passingScore"`
	PassedTest          bool `json:"passedTest"`
	CompletedSteps      int  `json:"completedSteps"`
	TotalSteps          int  `json:"totalSteps"`
	ProgressPercent     int  `json:"progressPercent"`
	IsCompleted         bool `json:"isCompleted"`
}

// Compute 计算课程进度。
//
// 没有视频（或 PDF）的课程不要求该维度完成，但对应的 AllVideosWatched
// （或 AllPdfsViewed）标志保持 false。测试只在内容全部完成后才计入，
// 是否通过按课程当前及格线判断。
func Compute(course *model.Course, st State) Summary {
	sum := Summary{
		TotalVideos:     len(course.Videos),
		TotalPdfs:       len(course.Pdfs),
		TestRequired:    course.TestRequired,
		HasTestMaterial: course.HasTestMaterial(),
		PassingScore:    course.PassingScore,
	}

	seen := make(map[uint]bool, len(course.Videos))
	for _, v := range course.Videos {
		if !seen[v.ID] && st.CompletedVideos[v.ID] {
			sum.CompletedVideos++
		}
		seen[v.ID] = true
	}
	seen = make(map[uint]bool, len(course.Pdfs))
	for _, p := range course.Pdfs {
		if !seen[p.ID] && st.ViewedPdfs[p.ID] {
			sum.CompletedPdfs++
		}
		seen[p.ID] = true
	}

	sum.AllVideosWatched = sum.TotalVideos > 0 && sum.CompletedVideos >= sum.TotalVideos
	sum.AllPdfsViewed = sum.TotalPdfs > 0 && sum.CompletedPdfs >= sum.TotalPdfs
	sum.AllContentCompleted = (sum.TotalVideos == 0 || sum.AllVideosWatched) &&
		(sum.TotalPdfs == 0 || sum.AllPdfsViewed)

	if st.TestResult != nil {
		score := st.TestResult.Score
		sum.TestScore = &score
	}
	if course.TestRequired && sum.AllContentCompleted && st.TestResult != nil {
		sum.PassedTest = st.TestResult.Score >= course.PassingScore
	}

	sum.CompletedSteps = sum.CompletedVideos + sum.CompletedPdfs
	sum.TotalSteps = sum.TotalVideos + sum.TotalPdfs
	if course.TestRequired {
		sum.TotalSteps++
		if sum.PassedTest {
			sum.CompletedSteps++
		}
	}
	sum.ProgressPercent = Percent(sum.CompletedSteps, sum.TotalSteps)

	sum.IsCompleted = sum.AllContentCompleted && (!course.TestRequired || sum.PassedTest)
	return sum
}

// Percent 四舍五入的百分比，上限 100；total 为 0 时视为 100
func Percent(completed, total int) int {
	if total <= 0 {
		return 100
	}
	if completed <= 0 {
		return 0
	}
	pct := (200*completed + total) / (2 * total)
	if pct > 100 {
		pct = 100
	}
	return pct
}
