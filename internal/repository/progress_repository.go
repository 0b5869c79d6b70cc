package repository

import (
	"errors"
	"time"
	"workplace_training_backend/internal/model"
	"workplace_training_backend/internal/progress"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressRepository 视频完成、PDF 查看和测试成绩记录
type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) WithTx(tx *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: tx}
}

// MarkVideoCompleted 幂等 upsert，并发标记时以最后一次写入的 completed_at 为准
func (r *ProgressRepository) MarkVideoCompleted(userID, videoID uint, at time.Time) error {
	record := &model.Progress{
		UserID:      userID,
		VideoID:     videoID,
		Completed:   true,
		CompletedAt: &at,
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "completed_at"}),
	}).Create(record).Error
}

// MarkPdfViewed 仅首次查看时写入，返回是否新插入
func (r *ProgressRepository) MarkPdfViewed(userID, pdfID uint, at time.Time) (bool, error) {
	res := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "pdf_id"}},
		DoNothing: true,
	}).Create(&model.PdfProgress{UserID: userID, PdfID: pdfID, ViewedAt: at})
	return res.RowsAffected > 0, res.Error
}

// FindVideoProgress 不存在时返回 nil
func (r *ProgressRepository) FindVideoProgress(userID, videoID uint) (*model.Progress, error) {
	var p model.Progress
	err := r.DB.Where("user_id = ? AND video_id = ?", userID, videoID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProgressRepository) FindPdfProgress(userID, pdfID uint) (*model.PdfProgress, error) {
	var p model.PdfProgress
	err := r.DB.Where("user_id = ? AND pdf_id = ?", userID, pdfID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProgressRepository) CountVideoProgress(userID, videoID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Progress{}).Where("user_id = ? AND video_id = ?", userID, videoID).Count(&count).Error
	return count, err
}

func (r *ProgressRepository) FindTestResult(userID, courseID uint) (*model.TestResult, error) {
	var res model.TestResult
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// SaveTestResult 首次提交创建记录，重考覆盖分数并累加次数
func (r *ProgressRepository) SaveTestResult(result *model.TestResult) error {
	existing, err := r.FindTestResult(result.UserID, result.CourseID)
	if err != nil {
		return err
	}
	if existing == nil {
		result.Attempts = 1
		return r.DB.Create(result).Error
	}

	result.ID = existing.ID
	result.Attempts = existing.Attempts + 1
	return r.DB.Model(existing).Updates(map[string]interface{}{
		"score":          result.Score,
		"correct_count":  result.CorrectCount,
		"question_count": result.QuestionCount,
		"answers":        result.Answers,
		"attempts":       result.Attempts,
		"submitted_at":   result.SubmittedAt,
	}).Error
}

func videoIDs(course *model.Course) []uint {
	ids := make([]uint, 0, len(course.Videos))
	for _, v := range course.Videos {
		ids = append(ids, v.ID)
	}
	return ids
}

func pdfIDs(course *model.Course) []uint {
	ids := make([]uint, 0, len(course.Pdfs))
	for _, p := range course.Pdfs {
		ids = append(ids, p.ID)
	}
	return ids
}

// State 加载用户在课程上的完成记录，course 需已预加载 Videos/Pdfs
func (r *ProgressRepository) State(userID uint, course *model.Course) (progress.State, error) {
	states, _, err := r.CourseStates(course, []uint{userID})
	if err != nil {
		return progress.State{}, err
	}
	return states[userID], nil
}

// CourseStates 批量加载多个用户的完成记录，同时返回每个用户最近一次完成时间
func (r *ProgressRepository) CourseStates(course *model.Course, userIDs []uint) (map[uint]progress.State, map[uint]time.Time, error) {
	states := make(map[uint]progress.State, len(userIDs))
	last := make(map[uint]time.Time)
	if len(userIDs) == 0 {
		return states, last, nil
	}

	var videoRows []model.Progress
	if ids := videoIDs(course); len(ids) > 0 {
		if err := r.DB.Where("user_id IN ? AND video_id IN ?", userIDs, ids).Find(&videoRows).Error; err != nil {
			return nil, nil, err
		}
	}
	var pdfRows []model.PdfProgress
	if ids := pdfIDs(course); len(ids) > 0 {
		if err := r.DB.Where("user_id IN ? AND pdf_id IN ?", userIDs, ids).Find(&pdfRows).Error; err != nil {
			return nil, nil, err
		}
	}
	var results []model.TestResult
	if err := r.DB.Where("user_id IN ? AND course_id = ?", userIDs, course.ID).Find(&results).Error; err != nil {
		return nil, nil, err
	}

	touch := func(userID uint, at time.Time) {
		if at.After(last[userID]) {
			last[userID] = at
		}
	}

	byUserVideo := make(map[uint][]model.Progress)
	for _, p := range videoRows {
		byUserVideo[p.UserID] = append(byUserVideo[p.UserID], p)
		if p.Completed && p.CompletedAt != nil {
			touch(p.UserID, *p.CompletedAt)
		}
	}
	byUserPdf := make(map[uint][]model.PdfProgress)
	for _, p := range pdfRows {
		byUserPdf[p.UserID] = append(byUserPdf[p.UserID], p)
		touch(p.UserID, p.ViewedAt)
	}
	byUserResult := make(map[uint]*model.TestResult)
	for i := range results {
		byUserResult[results[i].UserID] = &results[i]
		touch(results[i].UserID, results[i].SubmittedAt)
	}

	for _, id := range userIDs {
		states[id] = progress.NewState(byUserVideo[id], byUserPdf[id], byUserResult[id])
	}
	return states, last, nil
}

func (r *ProgressRepository) CountCompletions() (videos int64, pdfs int64, tests int64, err error) {
	if err = r.DB.Model(&model.Progress{}).Where("completed = ?", true).Count(&videos).Error; err != nil {
		return
	}
	if err = r.DB.Model(&model.PdfProgress{}).Count(&pdfs).Error; err != nil {
		return
	}
	err = r.DB.Model(&model.TestResult{}).Count(&tests).Error
	return
}
