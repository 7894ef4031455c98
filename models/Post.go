package models

import (
	"html"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Group     *Group    `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	ImagePath string    `gorm:"size:255;null;" json:"image_path"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Feeds always read newest first; the id tiebreak keeps ordering stable
// when two posts share a timestamp.
const postOrder = "posts.created_at desc, posts.id desc"

func (p *Post) Prepare() {
	p.Text = html.EscapeString(strings.TrimSpace(p.Text))
	p.Author = User{}
	p.Group = nil
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
}

func (p *Post) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if p.Text == "" {
		errorMessages["Required_text"] = "Required Text"
	}
	if p.AuthorID == 0 {
		errorMessages["Required_author"] = "Required Author"
	}
	return errorMessages
}

func (p *Post) SavePost(db *gorm.DB) (*Post, error) {
	if p.GroupID != nil {
		// The referenced group must exist at write time. It may be
		// deleted later, at which point the reference is cleared.
		var group Group
		if err := db.Select("id").Where("id = ?", *p.GroupID).Take(&group).Error; err != nil {
			return nil, err
		}
	}
	if err := db.Create(&p).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Author").Preload("Group").Take(&p, p.ID).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// FindPostByAuthorAndID resolves the compound (username, post id) key.
// An id whose post belongs to a different author is a miss, not a hit.
func (p *Post) FindPostByAuthorAndID(db *gorm.DB, username string, pid uint) (*Post, error) {
	var post Post
	normalized := strings.ToLower(strings.TrimSpace(username))
	err := db.Preload("Author").Preload("Group").
		Joins("JOIN users ON users.id = posts.author_id").
		Where("posts.id = ? AND users.username = ?", pid, normalized).
		Take(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (p *Post) UpdatePost(db *gorm.DB) (*Post, error) {
	if p.GroupID != nil {
		var group Group
		if err := db.Select("id").Where("id = ?", *p.GroupID).Take(&group).Error; err != nil {
			return nil, err
		}
	}
	err := db.Model(&Post{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"text":       p.Text,
		"group_id":   p.GroupID,
		"image_path": p.ImagePath,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}
	var post Post
	if err := db.Preload("Author").Preload("Group").Take(&post, p.ID).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (p *Post) FindAllPosts(db *gorm.DB, limit, offset int) (*[]Post, int64, error) {
	var total int64
	if err := db.Model(&Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var posts []Post
	err := db.Preload("Author").Preload("Group").
		Order(postOrder).Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return &posts, total, nil
}

func (p *Post) FindGroupPosts(db *gorm.DB, gid uint, limit, offset int) (*[]Post, int64, error) {
	var total int64
	if err := db.Model(&Post{}).Where("group_id = ?", gid).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var posts []Post
	err := db.Preload("Author").Preload("Group").
		Where("group_id = ?", gid).
		Order(postOrder).Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return &posts, total, nil
}

func (p *Post) FindAuthorPosts(db *gorm.DB, uid uint, limit, offset int) (*[]Post, int64, error) {
	var total int64
	if err := db.Model(&Post{}).Where("author_id = ?", uid).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var posts []Post
	err := db.Preload("Author").Preload("Group").
		Where("author_id = ?", uid).
		Order(postOrder).Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return &posts, total, nil
}

// FindFeedPosts returns posts authored by anyone the given user follows.
func (p *Post) FindFeedPosts(db *gorm.DB, uid uint, limit, offset int) (*[]Post, int64, error) {
	followed := db.Model(&Follow{}).Select("author_id").Where("user_id = ?", uid)

	var total int64
	if err := db.Model(&Post{}).Where("author_id IN (?)", followed).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var posts []Post
	err := db.Preload("Author").Preload("Group").
		Where("author_id IN (?)", followed).
		Order(postOrder).Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return &posts, total, nil
}

// ClearGroupPosts detaches every post from a group about to be deleted.
// The posts themselves survive.
func (p *Post) ClearGroupPosts(db *gorm.DB, gid uint) (int64, error) {
	result := db.Model(&Post{}).Where("group_id = ?", gid).Update("group_id", nil)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteUserPosts removes a user's posts and the comments attached to them.
func (p *Post) DeleteUserPosts(db *gorm.DB, uid uint) (int64, error) {
	postIDs := db.Model(&Post{}).Select("id").Where("author_id = ?", uid)
	if err := db.Where("post_id IN (?)", postIDs).Delete(&Comment{}).Error; err != nil {
		return 0, err
	}
	result := db.Where("author_id = ?", uid).Delete(&Post{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
