package storage

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

// testDB runs the shared suite against a DB implementation.
func testDB(t *testing.T, db DB) {
	t.Helper()

	t.Run("PutAndGet", func(t *testing.T) {
		if err := db.Put([]byte("key1"), []byte("value1")); err != nil {
			t.Fatalf("Put() error: %v", err)
		}
		val, err := db.Get([]byte("key1"))
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if !bytes.Equal(val, []byte("value1")) {
			t.Errorf("Get() = %q, want %q", val, "value1")
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := db.Get([]byte("nonexistent"))
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("Has", func(t *testing.T) {
		db.Put([]byte("exists"), []byte("yes"))
		if ok, err := db.Has([]byte("exists")); err != nil || !ok {
			t.Errorf("Has(exists) = %v, %v", ok, err)
		}
		if ok, err := db.Has([]byte("missing")); err != nil || ok {
			t.Errorf("Has(missing) = %v, %v", ok, err)
		}
	})

	t.Run("OverwriteAndDelete", func(t *testing.T) {
		db.Put([]byte("ow"), []byte("first"))
		db.Put([]byte("ow"), []byte("second"))
		if val, _ := db.Get([]byte("ow")); !bytes.Equal(val, []byte("second")) {
			t.Errorf("Get() after overwrite = %q", val)
		}
		if err := db.Delete([]byte("ow")); err != nil {
			t.Fatalf("Delete() error: %v", err)
		}
		if ok, _ := db.Has([]byte("ow")); ok {
			t.Error("key should be gone after Delete()")
		}
		if err := db.Delete([]byte("never-existed")); err != nil {
			t.Errorf("Delete() missing key error: %v", err)
		}
	})

	t.Run("StoredValueIsCopied", func(t *testing.T) {
		v := []byte("abc")
		db.Put([]byte("copy"), v)
		v[0] = 'x'
		got, _ := db.Get([]byte("copy"))
		if string(got) != "abc" {
			t.Errorf("Get() = %q, caller mutation leaked", got)
		}
	})

	t.Run("ForEachOrdered", func(t *testing.T) {
		for _, k := range []string{"run/c", "run/a", "run/b", "other/x"} {
			db.Put([]byte(k), []byte(k))
		}
		var keys []string
		err := db.ForEach([]byte("run/"), func(key, value []byte) error {
			keys = append(keys, string(key))
			if !bytes.Equal(key, value) {
				t.Errorf("value for %s = %s", key, value)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach() error: %v", err)
		}
		if fmt.Sprint(keys) != "[run/a run/b run/c]" {
			t.Errorf("ForEach() keys = %v", keys)
		}
	})

	t.Run("ForEachStop", func(t *testing.T) {
		stop := errors.New("stop")
		count := 0
		err := db.ForEach([]byte("run/"), func(_, _ []byte) error {
			count++
			return stop
		})
		if !errors.Is(err, stop) || count != 1 {
			t.Errorf("ForEach() = %v after %d calls", err, count)
		}
	})

	t.Run("Batch", func(t *testing.T) {
		db.Put([]byte("b/old"), []byte("1"))
		b := NewBatch(db)
		b.Put([]byte("b/new"), []byte("2"))
		b.Delete([]byte("b/old"))
		if ok, _ := db.Has([]byte("b/new")); ok {
			t.Error("batch write visible before Commit()")
		}
		if err := b.Commit(); err != nil {
			t.Fatalf("Commit() error: %v", err)
		}
		if ok, _ := db.Has([]byte("b/new")); !ok {
			t.Error("batch write missing after Commit()")
		}
		if ok, _ := db.Has([]byte("b/old")); ok {
			t.Error("batch delete not applied")
		}
	})
}

func TestMemoryDB(t *testing.T) {
	db := NewMemory()
	defer db.Close()
	testDB(t, db)
}

func TestBadgerDB(t *testing.T) {
	db, err := NewBadger(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadger() error: %v", err)
	}
	defer db.Close()
	testDB(t, db)
}

func TestPrefixDB(t *testing.T) {
	testDB(t, NewPrefixDB(NewMemory(), []byte("ns/")))
}

func TestBadgerDB_Persistence(t *testing.T) {
	dir := t.TempDir()

	db1, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger() error: %v", err)
	}
	db1.Put([]byte("persist"), []byte("data"))
	db1.Close()

	db2, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger() reopen error: %v", err)
	}
	defer db2.Close()

	val, err := db2.Get([]byte("persist"))
	if err != nil {
		t.Fatalf("Get() after reopen error: %v", err)
	}
	if !bytes.Equal(val, []byte("data")) {
		t.Errorf("persisted value = %q, want %q", val, "data")
	}
}

func TestBadgerDB_Locked(t *testing.T) {
	dir := t.TempDir()
	db, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger() error: %v", err)
	}
	defer db.Close()

	if _, err := NewBadger(dir); err == nil {
		t.Error("second open of the same dir should fail")
	}
}

func TestPrefixDB_Isolation(t *testing.T) {
	inner := NewMemory()
	a := NewPrefixDB(inner, []byte("a/"))
	b := NewPrefixDB(inner, []byte("b/"))

	a.Put([]byte("k"), []byte("from-a"))
	b.Put([]byte("k"), []byte("from-b"))

	if v, _ := a.Get([]byte("k")); string(v) != "from-a" {
		t.Errorf("a.Get() = %q", v)
	}
	if v, _ := inner.Get([]byte("b/k")); string(v) != "from-b" {
		t.Errorf("inner b/k = %q", v)
	}

	var keys []string
	a.ForEach(nil, func(key, _ []byte) error {
		keys = append(keys, string(key))
		return nil
	})
	if len(keys) != 1 || keys[0] != "k" {
		t.Errorf("a.ForEach() keys = %v, want [k]", keys)
	}

	if err := a.DeleteAll(); err != nil {
		t.Fatalf("DeleteAll() error: %v", err)
	}
	if ok, _ := a.Has([]byte("k")); ok {
		t.Error("a/k should be deleted")
	}
	if ok, _ := b.Has([]byte("k")); !ok {
		t.Error("b/k should survive a.DeleteAll()")
	}
}

// plainDB hides the Batcher implementation of MemoryDB.
type plainDB struct{ DB }

func TestNewBatch_Sequential(t *testing.T) {
	db := plainDB{NewMemory()}
	b := NewBatch(db)
	if _, ok := b.(*sequentialBatch); !ok {
		t.Fatalf("NewBatch() = %T, want *sequentialBatch", b)
	}
	b.Put([]byte("x"), []byte("1"))
	if err := b.Commit(); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	if ok, _ := db.Has([]byte("x")); !ok {
		t.Error("sequential batch did not write")
	}
}
