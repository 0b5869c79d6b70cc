package repository

import (
	"workplace_training_backend/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository struct {
	DB *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func (r *CategoryRepository) List() ([]model.Category, error) {
	var categories []model.Category
	err := r.DB.Order("name").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	err := r.DB.First(&category, id).Error
	return &category, err
}

func (r *CategoryRepository) Create(category *model.Category) error {
	return r.DB.Create(category).Error
}

// CountReferences 引用该分类的课程和证书类型数量
func (r *CategoryRepository) CountReferences(id uint) (int64, error) {
	var courses, types int64
	if err := r.DB.Model(&model.Course{}).Where("category_id = ?", id).Count(&courses).Error; err != nil {
		return 0, err
	}
	if err := r.DB.Model(&model.CertificateType{}).Where("category_id = ?", id).Count(&types).Error; err != nil {
		return 0, err
	}
	return courses + types, nil
}

func (r *CategoryRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Category{}, id).Error
}

func (r *CategoryRepository) ListCertificateTypes() ([]model.CertificateType, error) {
	var types []model.CertificateType
	err := r.DB.Preload("Category").Order("name").Find(&types).Error
	return types, err
}

func (r *CategoryRepository) CreateCertificateType(ct *model.CertificateType) error {
	return r.DB.Omit("Category").Create(ct).Error
}

