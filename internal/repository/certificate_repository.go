package repository

import (
	"workplace_training_backend/internal/model"

	"gorm.io/gorm"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

func (r *CertificateRepository) WithTx(tx *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: tx}
}

// Exists 同一用户同一课程只签发一次
func (r *CertificateRepository) Exists(userID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Certificate{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *CertificateRepository) Create(cert *model.Certificate) error {
	return r.DB.Omit("User", "Course").Create(cert).Error
}

func (r *CertificateRepository) FindByID(id uint) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.Preload("User").Preload("Course").First(&cert, id).Error
	return &cert, err
}

func (r *CertificateRepository) ListByUser(userID uint) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.DB.Preload("Course").Where("user_id = ?", userID).Order("issued_at DESC").Find(&certs).Error
	return certs, err
}

func (r *CertificateRepository) List() ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.DB.Preload("User").Preload("Course").Order("issued_at DESC").Find(&certs).Error
	return certs, err
}

// CourseIDsByUser 用户已获得证书的课程集合
func (r *CertificateRepository) CourseIDsByUser(userID uint) (map[uint]bool, error) {
	var ids []uint
	if err := r.DB.Model(&model.Certificate{}).Where("user_id = ?", userID).Pluck("course_id", &ids).Error; err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *CertificateRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Certificate{}).Count(&count).Error
	return count, err
}

func (r *CertificateRepository) Delete(id uint) error {
	res := r.DB.Delete(&model.Certificate{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
