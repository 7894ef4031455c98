package models

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Follow is a directed edge: UserID follows AuthorID. The composite
// unique index keeps the edge set free of duplicates even when two
// follow requests race.
type Follow struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_follows_user_author" json:"user_id"`
	AuthorID  uint      `gorm:"not null;index;uniqueIndex:idx_follows_user_author" json:"author_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// SaveFollow creates the edge if it is absent. A repeat call is a
// no-op, reported through the created flag rather than an error.
func (f *Follow) SaveFollow(db *gorm.DB, uid, aid uint) (bool, error) {
	follow := Follow{UserID: uid, AuthorID: aid}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteFollow removes the edge if present. Absent edges are a no-op.
func (f *Follow) DeleteFollow(db *gorm.DB, uid, aid uint) (int64, error) {
	result := db.Where("user_id = ? AND author_id = ?", uid, aid).Delete(&Follow{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (f *Follow) IsFollowing(db *gorm.DB, uid, aid uint) (bool, error) {
	var count int64
	err := db.Model(&Follow{}).
		Where("user_id = ? AND author_id = ?", uid, aid).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteUserFollows drops every edge touching the user, in either
// direction. Used when the account is deleted.
func (f *Follow) DeleteUserFollows(db *gorm.DB, uid uint) error {
	return db.Where("user_id = ? OR author_id = ?", uid, uid).Delete(&Follow{}).Error
}
