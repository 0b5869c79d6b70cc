package repository

import (
	"workplace_training_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) WithTx(tx *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: tx}
}

// Create 创建课程及其内容（Videos/Pdfs 随课程一起插入）
func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Omit("AssignedUsers", "Groups", "Category", "CertificateType").Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

// FindWithContent 预加载视频和 PDF，进度计算依赖这两个集合
func (r *CourseRepository) FindWithContent(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Videos").
		Preload("Pdfs").
		Preload("Category").
		Preload("CertificateType").
		First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) FindWithAssignments(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Videos").
		Preload("Pdfs").
		Preload("Category").
		Preload("AssignedUsers", func(db *gorm.DB) *gorm.DB { return db.Order("users.username") }).
		Preload("Groups").
		First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) List() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Preload("Category").Preload("Videos").Preload("Pdfs").Order("created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) ListWithAssignments(ids []uint) ([]model.Course, error) {
	var courses []model.Course
	q := r.DB.
		Preload("Videos").
		Preload("Pdfs").
		Preload("AssignedUsers", func(db *gorm.DB) *gorm.DB { return db.Order("users.username") })
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	err := q.Order("id").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Course{}).Count(&count).Error
	return count, err
}

func (r *CourseRepository) Latest(limit int) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Order("created_at DESC").Limit(limit).Find(&courses).Error
	return courses, err
}

// Update 只更新课程本身字段
func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Model(course).Select(
		"title", "description", "category_id", "certificate_type_id",
		"passing_score", "test_required", "test_file", "test_file_type",
		"test_question_count", "test_answer_key",
	).Updates(course).Error
}

func (r *CourseRepository) ReplaceAssignedUsers(course *model.Course, users []model.User) error {
	return r.DB.Model(course).Association("AssignedUsers").Replace(users)
}

// AddAssignedUsers 追加分配，已分配的用户不会重复
func (r *CourseRepository) AddAssignedUsers(course *model.Course, users []model.User) error {
	if len(users) == 0 {
		return nil
	}
	return r.DB.Model(course).Association("AssignedUsers").Append(users)
}

func (r *CourseRepository) ReplaceGroups(course *model.Course, groups []model.Group) error {
	return r.DB.Model(course).Association("Groups").Replace(groups)
}

// Delete 物理删除课程及内容、进度、测试成绩和证书
func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		videoIDs := tx.Model(&model.Video{}).Select("id").Where("course_id = ?", id)
		pdfIDs := tx.Model(&model.Pdf{}).Select("id").Where("course_id = ?", id)

		if err := tx.Where("video_id IN (?)", videoIDs).Delete(&model.Progress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pdf_id IN (?)", pdfIDs).Delete(&model.PdfProgress{}).Error; err != nil {
			return err
		}
		for _, m := range []interface{}{
			&model.Video{},
			&model.Pdf{},
			&model.TestResult{},
			&model.Certificate{},
		} {
			if err := tx.Where("course_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		for _, table := range []string{"assigned_courses", "course_groups"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE course_id = ?", id).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&model.Course{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
