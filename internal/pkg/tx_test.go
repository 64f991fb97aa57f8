package pkg

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// fakeTxConn implements gorm.ConnPool + gorm.TxCommitter, standing in for the
// connection returned by BeginTx.
type fakeTxConn struct {
	committed  bool
	rolledBack bool
}

func (f *fakeTxConn) PrepareContext(context.Context, string) (*sql.Stmt, error) {
	return nil, nil
}
func (f *fakeTxConn) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (f *fakeTxConn) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}
func (f *fakeTxConn) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}
func (f *fakeTxConn) Commit() error   { f.committed = true; return nil }
func (f *fakeTxConn) Rollback() error { f.rolledBack = true; return nil }

// fakeBeginner implements gorm.ConnPool + gorm.ConnPoolBeginner.
type fakeBeginner struct {
	conn     *fakeTxConn
	beginErr error
}

func (f *fakeBeginner) PrepareContext(context.Context, string) (*sql.Stmt, error) {
	return nil, nil
}
func (f *fakeBeginner) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (f *fakeBeginner) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}
func (f *fakeBeginner) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}
func (f *fakeBeginner) BeginTx(context.Context, *sql.TxOptions) (gorm.ConnPool, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.conn, nil
}

func fakeDB(beginner *fakeBeginner) *gorm.DB {
	db := &gorm.DB{Config: &gorm.Config{}}
	db.Statement = &gorm.Statement{
		DB:       db,
		ConnPool: beginner,
	}
	return db
}

func TestWithTx_CommitOnSuccess(t *testing.T) {
	conn := &fakeTxConn{}
	db := fakeDB(&fakeBeginner{conn: conn})

	if err := WithTx(db, func(tx *gorm.DB) error { return nil }); err != nil {
		t.Fatalf("WithTx: %v", err)
	}
	if !conn.committed {
		t.Fatal("expected Commit to be called")
	}
	if conn.rolledBack {
		t.Fatal("Rollback should not be called on success")
	}
}

func TestWithTx_RollbackOnError(t *testing.T) {
	conn := &fakeTxConn{}
	db := fakeDB(&fakeBeginner{conn: conn})

	fnErr := errors.New("fn failed")
	err := WithTx(db, func(tx *gorm.DB) error { return fnErr })
	if !errors.Is(err, fnErr) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if !conn.rolledBack {
		t.Fatal("expected Rollback to be called")
	}
	if conn.committed {
		t.Fatal("Commit should not be called on error")
	}
}

func TestWithTx_RollbackAndRepanic(t *testing.T) {
	conn := &fakeTxConn{}
	db := fakeDB(&fakeBeginner{conn: conn})

	defer func() {
		r := recover()
		if r != "boom" {
			t.Fatalf("expected panic value 'boom', got %v", r)
		}
		if !conn.rolledBack {
			t.Fatal("expected Rollback on panic")
		}
		if conn.committed {
			t.Fatal("Commit should not be called on panic")
		}
	}()

	WithTx(db, func(tx *gorm.DB) error { panic("boom") })
}

func TestWithTx_BeginError(t *testing.T) {
	db := fakeDB(&fakeBeginner{beginErr: errors.New("begin failed")})

	err := WithTx(db, func(tx *gorm.DB) error {
		t.Fatal("fn should not be called when Begin fails")
		return nil
	})
	if err == nil {
		t.Fatal("expected error from Begin")
	}
}

// listingRow is a minimal model for SQLite integration tests.
type listingRow struct {
	ID    uint   `gorm:"primaryKey"`
	Title string `gorm:"size:255"`
}

func newTxTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&listingRow{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestWithTx_SQLite_Commit(t *testing.T) {
	db := newTxTestDB(t)

	err := WithTx(db, func(tx *gorm.DB) error {
		return tx.Create(&listingRow{Title: "Namas Vilniuje"}).Error
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}

	var count int64
	db.Model(&listingRow{}).Count(&count)
	if count != 1 {
		t.Fatalf("rows = %d, want 1 after commit", count)
	}
}

func TestWithTx_SQLite_Rollback(t *testing.T) {
	db := newTxTestDB(t)

	fnErr := errors.New("second write failed")
	err := WithTx(db, func(tx *gorm.DB) error {
		if err := tx.Create(&listingRow{Title: "Namas"}).Error; err != nil {
			t.Fatalf("insert should succeed: %v", err)
		}
		return fnErr
	})
	if !errors.Is(err, fnErr) {
		t.Fatalf("expected fn error, got %v", err)
	}

	var count int64
	db.Model(&listingRow{}).Count(&count)
	if count != 0 {
		t.Fatalf("rows = %d, want 0 after rollback", count)
	}
}

func TestWithTx_SQLite_PanicRollback(t *testing.T) {
	db := newTxTestDB(t)

	defer func() {
		if r := recover(); r != "kaboom" {
			t.Fatalf("expected panic value 'kaboom', got %v", r)
		}
		var count int64
		db.Model(&listingRow{}).Count(&count)
		if count != 0 {
			t.Fatalf("rows = %d, want 0 after panic rollback", count)
		}
	}()

	WithTx(db, func(tx *gorm.DB) error {
		if err := tx.Create(&listingRow{Title: "Namas"}).Error; err != nil {
			t.Fatalf("insert should succeed: %v", err)
		}
		panic("kaboom")
	})
}
