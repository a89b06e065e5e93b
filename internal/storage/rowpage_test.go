package storage_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/example/accessdb/internal/storage"
)

func newManager(t *testing.T) *storage.Manager {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.gdb")
	if err := storage.New(path); err != nil {
		t.Fatalf("create db: %v", err)
	}
	mgr, err := storage.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func TestRowPageInsertAndRead(t *testing.T) {
	buf := make([]byte, storage.PageSize)
	if err := storage.InitialiseRowPage(buf); err != nil {
		t.Fatalf("initialise: %v", err)
	}
	page, err := storage.LoadRowPage(1, buf)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	n0, err := page.Insert([]byte("hello"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	n1, err := page.Insert([]byte("world!"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if n0 != 0 || n1 != 1 {
		t.Fatalf("expected row numbers 0 and 1, got %d and %d", n0, n1)
	}
	if page.RowCount() != 2 {
		t.Fatalf("expected row count 2, got %d", page.RowCount())
	}

	got0, err := page.Row(n0)
	if err != nil {
		t.Fatalf("row 0: %v", err)
	}
	if !bytes.Equal(got0, []byte("hello")) {
		t.Fatalf("expected hello, got %q", got0)
	}
	got1, err := page.Row(n1)
	if err != nil {
		t.Fatalf("row 1: %v", err)
	}
	if !bytes.Equal(got1, []byte("world!")) {
		t.Fatalf("expected world!, got %q", got1)
	}
}

func TestRowPageDeleteMarksRowUnreadable(t *testing.T) {
	buf := make([]byte, storage.PageSize)
	if err := storage.InitialiseRowPage(buf); err != nil {
		t.Fatalf("initialise: %v", err)
	}
	page, err := storage.LoadRowPage(1, buf)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	n, err := page.Insert([]byte("row"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := page.Delete(n); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := page.Row(n); err == nil {
		t.Fatalf("expected reading a deleted row to fail")
	}
	if err := page.Delete(n); err == nil {
		t.Fatalf("expected deleting an already-deleted row to fail")
	}

	raw := storage.ReadRowStartRaw(page.Data(), n)
	if !storage.IsDeletedRowStart(raw) {
		t.Fatalf("expected deleted bit set on raw row-start value")
	}
}

func TestRowPageRowsSkipsDeletedRows(t *testing.T) {
	buf := make([]byte, storage.PageSize)
	if err := storage.InitialiseRowPage(buf); err != nil {
		t.Fatalf("initialise: %v", err)
	}
	page, err := storage.LoadRowPage(1, buf)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, s := range []string{"a", "b", "c"} {
		if _, err := page.Insert([]byte(s)); err != nil {
			t.Fatalf("insert %s: %v", s, err)
		}
	}
	if err := page.Delete(1); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var visited []string
	err = page.Rows(func(rowNumber int16, payload []byte) error {
		visited = append(visited, string(payload))
		return nil
	})
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(visited) != 2 || visited[0] != "a" || visited[1] != "c" {
		t.Fatalf("expected [a c], got %v", visited)
	}
}

func TestRowFileInsertFetchAndDelete(t *testing.T) {
	mgr := newManager(t)
	rootID, rootBuf, err := mgr.AllocatePage()
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if err := storage.InitialiseRowPage(rootBuf); err != nil {
		t.Fatalf("initialise: %v", err)
	}
	if err := mgr.WritePage(rootID, rootBuf); err != nil {
		t.Fatalf("write: %v", err)
	}

	rf := storage.NewRowFile(mgr, rootID)
	id, err := rf.Insert(nil, nil, []byte("payload"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := rf.Fetch(id)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !bytes.Equal(got, []byte("payload")) {
		t.Fatalf("expected payload, got %q", got)
	}

	if err := rf.Delete(nil, nil, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := rf.Fetch(id); err == nil {
		t.Fatalf("expected fetching a deleted row to fail")
	}
}

func TestRowFileGrowsOverMultiplePages(t *testing.T) {
	mgr := newManager(t)
	rootID, rootBuf, err := mgr.AllocatePage()
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if err := storage.InitialiseRowPage(rootBuf); err != nil {
		t.Fatalf("initialise: %v", err)
	}
	if err := mgr.WritePage(rootID, rootBuf); err != nil {
		t.Fatalf("write: %v", err)
	}

	rf := storage.NewRowFile(mgr, rootID)
	large := bytes.Repeat([]byte("x"), 512)
	for i := 0; i < 20; i++ {
		if _, err := rf.Insert(nil, nil, large); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	pages, err := rf.Pages()
	if err != nil {
		t.Fatalf("pages: %v", err)
	}
	if len(pages) < 2 {
		t.Fatalf("expected row file to span multiple pages, got %d", len(pages))
	}
}

func TestPageIteratorForwardAndReverse(t *testing.T) {
	pages := []storage.PageID{1, 2, 3}
	it := storage.NewPageIterator(pages)

	var forward []int32
	for {
		p := it.NextPage()
		if p == storage.InvalidPageNumber {
			break
		}
		forward = append(forward, p)
	}
	if len(forward) != 3 || forward[0] != 1 || forward[2] != 3 {
		t.Fatalf("unexpected forward traversal: %v", forward)
	}

	it.Reset(false)
	var reverse []int32
	for {
		p := it.PreviousPage()
		if p == storage.InvalidPageNumber {
			break
		}
		reverse = append(reverse, p)
	}
	if len(reverse) != 3 || reverse[0] != 3 || reverse[2] != 1 {
		t.Fatalf("unexpected reverse traversal: %v", reverse)
	}
}
