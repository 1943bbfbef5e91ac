// internal/repository/bookmark_repo.go
package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/greenbourne277/zbwcloud/internal/models"
)

type bookmarkStore struct {
	db *gorm.DB
}

func (s *bookmarkStore) Insert(b *models.Bookmark) error {
	if err := s.db.Create(b).Error; err != nil {
		return fmt.Errorf("failed to insert bookmark: %w", err)
	}
	return nil
}

func (s *bookmarkStore) Update(b *models.Bookmark) error {
	return s.db.Model(&models.Bookmark{}).
		Where("bookmark_id = ?", b.BookmarkID).
		Select("*").Omit("bookmark_id", "created_on", "created_by").
		Updates(b).Error
}

func (s *bookmarkStore) GetByIDs(ids []int64) ([]models.Bookmark, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []models.Bookmark
	if err := s.db.Where("bookmark_id IN ?", ids).
		Order("bookmark_id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch bookmarks: %w", err)
	}
	return out, nil
}

func (s *bookmarkStore) List(limit, offset int) ([]models.Bookmark, error) {
	var out []models.Bookmark
	err := s.db.Order("bookmark_id").Limit(limit).Offset(offset).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return out, nil
}

func (s *bookmarkStore) Delete(id int64) error {
	return s.db.Delete(&models.Bookmark{}, "bookmark_id = ?", id).Error
}

func (s *bookmarkStore) NameExists(name string, excludeID int64) (bool, error) {
	var count int64
	q := s.db.Model(&models.Bookmark{}).Where("bookmark_name = ?", name)
	if excludeID != 0 {
		q = q.Where("bookmark_id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *bookmarkStore) InsertTemplatePair(bookmarkID int64, rightID string) error {
	err := s.db.Create(&models.BookmarkTemplatePair{
		BookmarkID: bookmarkID,
		RightID:    rightID,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to insert bookmark template pair: %w", err)
	}
	return nil
}

func (s *bookmarkStore) DeleteTemplatePair(bookmarkID int64, rightID string) error {
	return s.db.Delete(&models.BookmarkTemplatePair{},
		"bookmark_id = ? AND right_id = ?", bookmarkID, rightID).Error
}

func (s *bookmarkStore) DeletePairsByRight(rightID string) error {
	return s.db.Delete(&models.BookmarkTemplatePair{}, "right_id = ?", rightID).Error
}

func (s *bookmarkStore) UpsertTemplatePairs(pairs []models.BookmarkTemplatePair) error {
	if len(pairs) == 0 {
		return nil
	}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&pairs).Error
}

func (s *bookmarkStore) BookmarkIDsByRight(rightID string) ([]int64, error) {
	var ids []int64
	err := s.db.Model(&models.BookmarkTemplatePair{}).
		Where("right_id = ?", rightID).
		Order("bookmark_id").Pluck("bookmark_id", &ids).Error
	return ids, err
}

func (s *bookmarkStore) RightIDsByBookmark(bookmarkID int64) ([]string, error) {
	var ids []string
	err := s.db.Model(&models.BookmarkTemplatePair{}).
		Where("bookmark_id = ?", bookmarkID).
		Order("right_id").Pluck("right_id", &ids).Error
	return ids, err
}

type userStore struct {
	db *gorm.DB
}

func (s *userStore) Insert(u *models.User) error {
	if err := s.db.Create(u).Error; err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *userStore) GetByUsername(username string) (*models.User, error) {
	var u models.User
	err := s.db.First(&u, "username = ?", username).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &u, nil
}

func (s *userStore) UpdatePassword(username, passwordHash string) error {
	return s.db.Model(&models.User{}).
		Where("username = ?", username).
		Update("password_hash", passwordHash).Error
}

func (s *userStore) UpdateRole(username string, role models.UserRole) error {
	return s.db.Model(&models.User{}).
		Where("username = ?", username).
		Update("role", role).Error
}

func (s *userStore) Delete(username string) error {
	return s.db.Delete(&models.User{}, "username = ?", username).Error
}

func (s *userStore) InsertSession(sess *models.Session) error {
	if err := s.db.Create(sess).Error; err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (s *userStore) GetSession(sessionID string) (*models.Session, error) {
	var sess models.Session
	err := s.db.First(&sess, "session_id = ?", sessionID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	return &sess, nil
}

func (s *userStore) DeleteSession(sessionID string) error {
	return s.db.Delete(&models.Session{}, "session_id = ?", sessionID).Error
}
