package syncengine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"catalog-sync/core/catalog"
	"catalog-sync/core/errors"
)

type memCategories struct {
	mu      sync.Mutex
	ids     map[string]CategoryID
	next    CategoryID
	finds   int
	creates int
	err     error
}

func newMemCategories() *memCategories {
	return &memCategories{ids: make(map[string]CategoryID)}
}

func (m *memCategories) FindCategory(ctx context.Context, vocabulary, name string) (CategoryID, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finds++
	if m.err != nil {
		return 0, false, m.err
	}
	id, ok := m.ids[vocabulary+"/"+name]
	return id, ok, nil
}

func (m *memCategories) CreateCategory(ctx context.Context, vocabulary, name string) (CategoryID, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.ids[vocabulary+"/"+name]; ok {
		return id, false, nil
	}
	m.creates++
	m.next++
	m.ids[vocabulary+"/"+name] = m.next
	return m.next, true, nil
}

func (m *memCategories) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ids)
}

type memAssets struct {
	mu         sync.Mutex
	handles    map[string]*MediaHandle
	objects    map[string][]byte
	next       uint
	failCreate error
	deleted    []string
}

func newMemAssets() *memAssets {
	return &memAssets{handles: make(map[string]*MediaHandle), objects: make(map[string][]byte)}
}

func (m *memAssets) FindAsset(ctx context.Context, name string) (*MediaHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handles[name], nil
}

func (m *memAssets) StoreAsset(ctx context.Context, name, sourceURL string, media *catalog.Response) (StoredObject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := "portraits/" + name + ".jpeg"
	m.objects[key] = media.Body
	return StoredObject{Key: key, ContentType: media.ContentType, Size: int64(len(media.Body))}, nil
}

func (m *memAssets) CreateAssetRecord(ctx context.Context, name, sourceURL string, obj StoredObject) (*MediaHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return nil, m.failCreate
	}
	m.next++
	h := &MediaHandle{ID: m.next, Name: name, ObjectKey: obj.Key}
	m.handles[name] = h
	return h, nil
}

func (m *memAssets) DeleteObject(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memAssets) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handles)
}

type fakeDownloader struct {
	mu    sync.Mutex
	fail  map[string]error
	calls map[string]int
}

func newFakeDownloader() *fakeDownloader {
	return &fakeDownloader{fail: make(map[string]error), calls: make(map[string]int)}
}

func (f *fakeDownloader) Download(ctx context.Context, sourceURL string) (*catalog.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[sourceURL]++
	if err := f.fail[sourceURL]; err != nil {
		return nil, err
	}
	return &catalog.Response{StatusCode: 200, Body: []byte("img:" + sourceURL), ContentType: "image/jpeg"}, nil
}

func (f *fakeDownloader) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

type storedRecord struct {
	handle RecordHandle
	rec    Record
}

type memRecords struct {
	mu      sync.Mutex
	rows    []storedRecord
	next    RecordHandle
	failFor map[int]error
}

func newMemRecords() *memRecords {
	return &memRecords{failFor: make(map[int]error)}
}

func (m *memRecords) FindByExternalID(ctx context.Context, kind Kind, externalID int) ([]RecordHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []RecordHandle
	for _, r := range m.rows {
		if r.rec.Kind == kind && r.rec.ExternalID == externalID {
			out = append(out, r.handle)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (m *memRecords) Create(ctx context.Context, rec *Record) (RecordHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failFor[rec.ExternalID]; err != nil {
		return 0, err
	}
	m.next++
	m.rows = append(m.rows, storedRecord{handle: m.next, rec: *rec})
	return m.next, nil
}

func (m *memRecords) Update(ctx context.Context, handle RecordHandle, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].handle == handle {
			m.rows[i].rec = *rec
			return nil
		}
	}
	return fmt.Errorf("record %d not found", handle)
}

func (m *memRecords) seed(rec Record) RecordHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.rows = append(m.rows, storedRecord{handle: m.next, rec: rec})
	return m.next
}

func (m *memRecords) byHandle(h RecordHandle) Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.handle == h {
			return r.rec
		}
	}
	return Record{}
}

func (m *memRecords) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type fakeSource struct {
	mu         sync.Mutex
	pages      map[int][]string
	failPages  map[int]error
	discovered int
	discovers  int
	fetches    int
	block      chan struct{}
	entered    chan struct{}
	enterOnce  sync.Once
	fetchErr   error
}

func (f *fakeSource) DiscoverPages(ctx context.Context, endpoint string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discovers++
	return f.discovered, nil
}

func (f *fakeSource) FetchAll(ctx context.Context, endpoint string, totalPages int, opts catalog.FetchOptions) (*catalog.Collection, error) {
	if f.entered != nil {
		f.enterOnce.Do(func() { close(f.entered) })
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	col := &catalog.Collection{Endpoint: endpoint}
	for n := 1; n <= totalPages; n++ {
		if err := f.failPages[n]; err != nil {
			if opts.Strict {
				return nil, fmt.Errorf("page %d: %w", n, err)
			}
			col.Pages = append(col.Pages, catalog.Page{Number: n, Err: err})
			continue
		}
		var items []catalog.RawItem
		for _, s := range f.pages[n] {
			items = append(items, catalog.RawItem(s))
		}
		col.Pages = append(col.Pages, catalog.Page{Number: n, Items: items, Attempts: 1})
	}
	return col, nil
}

// testItem is the minimal item shape understood by testAdapter.
type testItem struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Species string `json:"species"`
	Image   string `json:"image"`
}

type testAdapter struct {
	kind Kind
}

func (a testAdapter) Kind() Kind { return a.kind }

func (a testAdapter) Normalize(ctx context.Context, raw catalog.RawItem, refs References) (*Record, error) {
	var item testItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, errors.NewValidationError("item", err.Error())
	}
	if item.ID == 0 {
		return nil, errors.NewValidationError("id", "missing")
	}

	rec := &Record{
		ExternalID: item.ID,
		Kind:       a.kind,
		Name:       item.Name,
		Fields:     map[string]string{},
		References: map[string]CategoryID{},
	}
	if item.Species != "" {
		id, err := refs.Resolve(ctx, "species", item.Species)
		if err != nil {
			return nil, err
		}
		rec.References["species"] = id
	}
	if item.Image != "" {
		h, err := refs.EnsureAsset(ctx, LogicalName(item.Name), item.Image)
		if err != nil {
			return nil, err
		}
		rec.Media = h
	}
	return rec, nil
}

type memRecorder struct {
	mu      sync.Mutex
	reports []*Report
	err     error
}

func (m *memRecorder) RecordRun(ctx context.Context, r *Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, r)
	return m.err
}

// memLocker stands in for a lock shared with other processes.
type memLocker struct {
	mu       sync.Mutex
	held     map[Kind]string
	acquired []string
	released []string
}

func newMemLocker() *memLocker {
	return &memLocker{held: map[Kind]string{}}
}

func (m *memLocker) Acquire(ctx context.Context, kind Kind, runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.held[kind]; ok {
		return errors.ErrRunInProgress
	}
	m.held[kind] = runID
	m.acquired = append(m.acquired, runID)
	return nil
}

func (m *memLocker) Release(ctx context.Context, kind Kind, runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[kind] == runID {
		delete(m.held, kind)
	}
	m.released = append(m.released, runID)
	return nil
}
