package clientstore

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type ClientRecord struct {
	Key   string `gorm:"primaryKey"       json:"key"`
	Value []byte `gorm:"not null"         json:"value"`
}

type SQLiteStore struct {
	DB *gorm.DB
}

// Open creates (or reopens) the profile state file at path. ":memory:" gives
// a throwaway store for tests.
func Open(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("clientstore: open %q: %w", path, err)
	}
	if err := db.AutoMigrate(&ClientRecord{}); err != nil {
		return nil, fmt.Errorf("clientstore: migrate: %w", err)
	}
	return &SQLiteStore{DB: db}, nil
}

func (s *SQLiteStore) Get(key string) ([]byte, bool, error) {
	var rec ClientRecord
	if err := s.DB.Where("key = ?", key).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return rec.Value, true, nil
}

func (s *SQLiteStore) Put(key string, value []byte) error {
	rec := ClientRecord{Key: key, Value: value}
	return s.DB.Save(&rec).Error
}

func (s *SQLiteStore) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.DB.Where("key IN ?", keys).Delete(&ClientRecord{}).Error
}

func (s *SQLiteStore) Reset() error {
	return s.DB.Where("1 = 1").Delete(&ClientRecord{}).Error
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
