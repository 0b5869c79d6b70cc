package service

import (
	"errors"
	"fmt"
	"strings"
	"workplace_training_backend/internal/model"
	"workplace_training_backend/internal/repository"
	"workplace_training_backend/internal/util"

	"gorm.io/gorm"
)

type CertificateTypeInput struct {
	Name                string
	Description         string
	CategoryID          uint
	RequiredCourseCount int
}

// CategoryService 课程分类和证书类型
type CategoryService struct {
	CategoryRepo *repository.CategoryRepository
}

func NewCategoryService(categoryRepo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{CategoryRepo: categoryRepo}
}

func (s *CategoryService) List() ([]model.Category, error) {
	return s.CategoryRepo.List()
}

func (s *CategoryService) Create(name, description string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", util.ErrInvalidInput)
	}
	category := &model.Category{Name: name, Description: strings.TrimSpace(description)}
	if err := s.CategoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 仍被课程或证书类型引用时拒绝删除
func (s *CategoryService) Delete(id uint) error {
	if _, err := s.CategoryRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCategoryNotFound
		}
		return err
	}
	refs, err := s.CategoryRepo.CountReferences(id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return util.ErrCategoryInUse
	}
	return s.CategoryRepo.Delete(id)
}

func (s *CategoryService) ListCertificateTypes() ([]model.CertificateType, error) {
	return s.CategoryRepo.ListCertificateTypes()
}

func (s *CategoryService) CreateCertificateType(in CertificateTypeInput) (*model.CertificateType, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: certificate type name is required", util.ErrInvalidInput)
	}
	if in.RequiredCourseCount < 0 {
		return nil, fmt.Errorf("%w: required course count must not be negative", util.ErrInvalidInput)
	}
	if _, err := s.CategoryRepo.FindByID(in.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCategoryNotFound
		}
		return nil, err
	}

	ct := &model.CertificateType{
		Name:                name,
		Description:         strings.TrimSpace(in.Description),
		CategoryID:          in.CategoryID,
		RequiredCourseCount: in.RequiredCourseCount,
	}
	if err := s.CategoryRepo.CreateCertificateType(ct); err != nil {
		return nil, err
	}
	return ct, nil
}
