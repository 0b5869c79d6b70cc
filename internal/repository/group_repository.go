package repository

import (
	"workplace_training_backend/internal/model"

	"gorm.io/gorm"
)

type GroupRepository struct {
	DB *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

func (r *GroupRepository) List() ([]model.Group, error) {
	var groups []model.Group
	err := r.DB.Preload("Users").Order("name").Find(&groups).Error
	return groups, err
}

func (r *GroupRepository) FindByID(id uint) (*model.Group, error) {
	var group model.Group
	err := r.DB.Preload("Users").First(&group, id).Error
	return &group, err
}

func (r *GroupRepository) FindByIDs(ids []uint) ([]model.Group, error) {
	var groups []model.Group
	if len(ids) == 0 {
		return groups, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&groups).Error
	return groups, err
}

func (r *GroupRepository) Create(group *model.Group, members []model.User) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Users", "Courses").Create(group).Error; err != nil {
			return err
		}
		return tx.Model(group).Association("Users").Replace(members)
	})
}

// Update 更新名称描述并整体替换成员
func (r *GroupRepository) Update(group *model.Group, members []model.User) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(group).Updates(map[string]interface{}{
			"name":        group.Name,
			"description": group.Description,
		}).Error; err != nil {
			return err
		}
		return tx.Model(group).Association("Users").Replace(members)
	})
}

func (r *GroupRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"user_groups", "course_groups"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE group_id = ?", id).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&model.Group{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// MemberIDs 分组成员去重后的用户ID
func (r *GroupRepository) MemberIDs(groupIDs []uint) ([]uint, error) {
	var ids []uint
	if len(groupIDs) == 0 {
		return ids, nil
	}
	err := r.DB.Table("user_groups").
		Where("group_id IN ?", groupIDs).
		Distinct().
		Pluck("user_id", &ids).Error
	return ids, err
}
