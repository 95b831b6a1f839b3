package database

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestRepository(t *testing.T) CacheRepository {
	t.Helper()

	db := NewSQLiteDatabase(filepath.Join(t.TempDir(), "cache.db"))
	if err := db.Init(); err != nil {
		t.Fatalf("初始化数据库失败: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewSQLiteCacheRepository(db)
}

func TestSaveAndGetEntry(t *testing.T) {
	repo := newTestRepository(t)

	expiresAt := time.Now().Add(time.Minute)
	if err := repo.SaveEntry("cybersecurity:3", `[{"title":"t"}]`, expiresAt); err != nil {
		t.Fatalf("SaveEntry 返回错误: %v", err)
	}

	entry, err := repo.GetEntry("cybersecurity:3")
	if err != nil {
		t.Fatalf("GetEntry 返回错误: %v", err)
	}
	if entry == nil {
		t.Fatal("保存后应能查询到记录")
	}
	if entry.Payload != `[{"title":"t"}]` {
		t.Errorf("Payload = %q", entry.Payload)
	}
}

func TestGetEntryMissing(t *testing.T) {
	repo := newTestRepository(t)

	entry, err := repo.GetEntry("nonexistent:1")
	if err != nil {
		t.Fatalf("GetEntry 返回错误: %v", err)
	}
	if entry != nil {
		t.Error("不存在的键应返回nil")
	}
}

func TestSaveEntryOverwrites(t *testing.T) {
	repo := newTestRepository(t)

	expiresAt := time.Now().Add(time.Minute)
	if err := repo.SaveEntry("general:3", "old", expiresAt); err != nil {
		t.Fatalf("SaveEntry 返回错误: %v", err)
	}
	if err := repo.SaveEntry("general:3", "new", expiresAt); err != nil {
		t.Fatalf("覆盖写入返回错误: %v", err)
	}

	entry, err := repo.GetEntry("general:3")
	if err != nil {
		t.Fatalf("GetEntry 返回错误: %v", err)
	}
	if entry.Payload != "new" {
		t.Errorf("覆盖后 Payload = %q, 期望 new", entry.Payload)
	}

	count, err := repo.EntryCount()
	if err != nil {
		t.Fatalf("EntryCount 返回错误: %v", err)
	}
	if count != 1 {
		t.Errorf("记录数 = %d, 期望 1", count)
	}
}

func TestDeleteExpired(t *testing.T) {
	repo := newTestRepository(t)

	now := time.Now()
	if err := repo.SaveEntry("expired:1", "a", now.Add(-time.Minute)); err != nil {
		t.Fatalf("SaveEntry 返回错误: %v", err)
	}
	if err := repo.SaveEntry("fresh:1", "b", now.Add(time.Minute)); err != nil {
		t.Fatalf("SaveEntry 返回错误: %v", err)
	}

	deleted, err := repo.DeleteExpired(now)
	if err != nil {
		t.Fatalf("DeleteExpired 返回错误: %v", err)
	}
	if deleted != 1 {
		t.Errorf("删除数 = %d, 期望 1", deleted)
	}

	entry, err := repo.GetEntry("fresh:1")
	if err != nil || entry == nil {
		t.Error("未过期的记录应保留")
	}
}
