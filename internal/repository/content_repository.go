package repository

import (
	"workplace_training_backend/internal/model"

	"gorm.io/gorm"
)

// ContentRepository 课程视频与 PDF
type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) WithTx(tx *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: tx}
}

func (r *ContentRepository) CreateVideo(video *model.Video) error {
	return r.DB.Create(video).Error
}

func (r *ContentRepository) CreatePdf(pdf *model.Pdf) error {
	return r.DB.Create(pdf).Error
}

func (r *ContentRepository) FindVideo(id uint) (*model.Video, error) {
	var video model.Video
	err := r.DB.First(&video, id).Error
	return &video, err
}

func (r *ContentRepository) FindPdf(id uint) (*model.Pdf, error) {
	var pdf model.Pdf
	err := r.DB.First(&pdf, id).Error
	return &pdf, err
}

// NextOrder 课程内视频和 PDF 共用的下一个序号
func (r *ContentRepository) NextOrder(courseID uint) (int, error) {
	var maxVideo, maxPdf int
	if err := r.DB.Model(&model.Video{}).Where("course_id = ?", courseID).
		Select("COALESCE(MAX(sort_order), 0)").Scan(&maxVideo).Error; err != nil {
		return 0, err
	}
	if err := r.DB.Model(&model.Pdf{}).Where("course_id = ?", courseID).
		Select("COALESCE(MAX(sort_order), 0)").Scan(&maxPdf).Error; err != nil {
		return 0, err
	}
	if maxPdf > maxVideo {
		return maxPdf + 1, nil
	}
	return maxVideo + 1, nil
}

// DeleteVideo 同时删除该视频的完成记录
func (r *ContentRepository) DeleteVideo(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ?", id).Delete(&model.Progress{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Video{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *ContentRepository) DeletePdf(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pdf_id = ?", id).Delete(&model.PdfProgress{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Pdf{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
