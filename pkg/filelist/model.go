// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package filelist is the ordered list of files the user works with.
//
// The Model owns every FileReference. User gestures (add, drop, select,
// move, delete) mutate it serially; two kinds of work run in the background
// and are observed through Change notifications rather than awaited:
//
//   - loading the content of the active file through the content cache
//   - saving a snapshot of the list after every structural change
//
// Saves carry a sequence number taken when the snapshot is built, so a slow
// save can never overwrite a newer one. Saves are suppressed while Load is
// replaying the persisted list.
package filelist

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/filedeck/pkg/cache"
	"github.com/walteh/filedeck/pkg/persist"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

var (
	ErrDuplicateName        = errors.Base("file is already in the list")
	ErrUnsupportedExtension = errors.Base("unsupported file type")
	ErrNotFound             = errors.Base("file not found in the list")
)

// DefaultAcceptedExtensions are the extensions a drop accepts.
var DefaultAcceptedExtensions = []string{"xml", "json"}

// Persister stores list snapshots. Implementations handle their own faults.
type Persister interface {
	Save(ctx context.Context, entries []persist.Entry)
	Load(ctx context.Context) []persist.Entry
}

// ContentCache is the part of cache.Cache the model needs.
type ContentCache interface {
	GetOrLoad(ctx context.Context, path string, load cache.Loader) (string, bool, error)
	TryGet(path string) (string, bool)
	Remove(path string)
	Clear()
}

type Options struct {
	Store              Persister
	Cache              ContentCache  // defaults to cache.New()
	Loader             cache.Loader  // defaults to cache.ReadFileLoader
	AcceptedExtensions []string      // defaults to DefaultAcceptedExtensions
	NewID              func() string // defaults to uuid.NewString
}

// 🗂️ Model is the ordered file list plus selection and active state
type Model struct {
	logger zerolog.Logger
	store  Persister
	cache  ContentCache
	loader cache.Loader
	newID  func() string

	accepted map[string]bool

	mu           sync.RWMutex
	files        []*FileReference
	active       *FileReference
	errs         []string
	initializing bool
	seq          uint64

	saveMu    sync.Mutex
	savedSeq  uint64
	listeners listeners
	pending   sync.WaitGroup
}

// 🏭 New creates an empty model. The logger is taken from ctx.
func New(ctx context.Context, opts Options) (*Model, error) {
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}

	m := &Model{
		logger: *zerolog.Ctx(ctx),
		store:  opts.Store,
		cache:  opts.Cache,
		loader: opts.Loader,
		newID:  opts.NewID,
	}

	if m.cache == nil {
		m.cache = cache.New(cache.WithLogger(m.logger))
	}
	if m.loader == nil {
		m.loader = cache.ReadFileLoader
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}

	exts := opts.AcceptedExtensions
	if len(exts) == 0 {
		exts = DefaultAcceptedExtensions
	}
	m.accepted = make(map[string]bool, len(exts))
	for _, e := range exts {
		m.accepted[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}

	return m, nil
}

// Subscribe registers fn for every change. fn runs on the goroutine that
// made the change and must not block.
func (m *Model) Subscribe(fn func(Change)) (unsubscribe func()) {
	return m.listeners.add(fn)
}

// Wait blocks until every background content load and save has finished.
func (m *Model) Wait() {
	m.pending.Wait()
}

// 📂 Load replaces the list with the persisted snapshot.
func (m *Model) Load(ctx context.Context) {
	m.mu.Lock()
	m.initializing = true
	m.files = nil
	m.active = nil
	m.mu.Unlock()
	m.listeners.notify(Change{Kind: ChangeReset})

	entries := m.store.Load(ctx)
	for _, e := range entries {
		if _, err := m.insert(ctx, fromEntry(e), false); err != nil {
			m.logger.Debug().Err(err).Str("file", e.FilePath).Msg("skipping persisted entry")
		}
	}

	m.mu.Lock()
	m.initializing = false
	entriesToSave, seq := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.Debug().Int("entries", len(entriesToSave)).Msg("file list loaded")
	m.save(ctx, entriesToSave, seq)
}

// ➕ Add appends a single file. A duplicate name is reported in the error
// list and returned as ErrDuplicateName.
func (m *Model) Add(ctx context.Context, meta FileMeta) (FileReference, error) {
	ref, err := describe(meta, m.newID())
	if err != nil {
		m.ReportError(fmt.Sprintf("Error opening file '%s': %v", displayName(meta), err))
		return FileReference{}, err
	}

	return m.insert(ctx, ref, true)
}

// AddFiles adds a batch in order, reading file info concurrently. Each file
// fails on its own; only cancellation of ctx is returned as an error.
func (m *Model) AddFiles(ctx context.Context, metas []FileMeta) ([]FileReference, error) {
	refs := make([]*FileReference, len(metas))
	errs := make([]error, len(metas))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, meta := range metas {
		id := m.newID()
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			refs[i], errs[i] = describe(meta, id)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Errorf("adding files: %w", err)
	}

	added := make([]FileReference, 0, len(metas))
	for i, meta := range metas {
		if errs[i] != nil {
			m.ReportError(fmt.Sprintf("Error opening file '%s': %v", displayName(meta), errs[i]))
			continue
		}
		ref, err := m.insert(ctx, refs[i], true)
		if err != nil {
			continue
		}
		added = append(added, ref)
	}

	return added, nil
}

// 📥 Drop adds the files of a drop gesture, skipping unsupported extensions.
func (m *Model) Drop(ctx context.Context, src DropSource) ([]FileReference, error) {
	metas, err := src.Decode(ctx)
	if err != nil {
		m.ReportError(fmt.Sprintf("Error reading dropped files: %v", err))
		return nil, errors.Errorf("decoding drop: %w", err)
	}

	accepted := make([]FileMeta, 0, len(metas))
	for _, meta := range metas {
		if !m.accepted[ExtensionOf(meta.FullPath)] {
			m.ReportError(fmt.Sprintf("File '%s' is not supported. Only %s files are accepted", displayName(meta), m.acceptedList()))
			continue
		}
		accepted = append(accepted, meta)
	}

	return m.AddFiles(ctx, accepted)
}

// insert appends ref unless its name or path is taken. Duplicates are only
// surfaced to the user when report is set.
func (m *Model) insert(ctx context.Context, ref *FileReference, report bool) (FileReference, error) {
	m.mu.Lock()
	for _, f := range m.files {
		if f.Name == ref.Name || f.FilePath == ref.FilePath {
			m.mu.Unlock()
			if report {
				m.ReportError(fmt.Sprintf("File '%s' is already in the list", ref.Name))
			}
			return FileReference{}, errors.WithMessagef(ErrDuplicateName, "%s", ref.Name)
		}
	}

	m.files = append(m.files, ref)
	index := len(m.files) - 1
	added := *ref
	entries, seq := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.Debug().Str("id", ref.ID).Str("file", ref.FilePath).Msg("file added")
	m.listeners.notify(Change{Kind: ChangeAdded, Indices: []int{index}, ID: ref.ID})
	m.save(ctx, entries, seq)

	return added, nil
}

// 👁️ SelectActive makes id the active file and loads its content in the
// background. Activation is visible immediately; IsCached flips once the
// content is available.
func (m *Model) SelectActive(ctx context.Context, id string) error {
	m.mu.Lock()
	index, ref := m.findLocked(id)
	if ref == nil {
		m.mu.Unlock()
		return errors.WithMessagef(ErrNotFound, "%s", id)
	}

	changed := []int{index}
	if m.active != nil && m.active != ref {
		m.active.IsActive = false
		if prev, _ := m.findLocked(m.active.ID); prev >= 0 {
			changed = append(changed, prev)
		}
	}
	ref.IsActive = true
	m.active = ref
	path, name := ref.FilePath, ref.Name
	m.mu.Unlock()

	m.listeners.notify(Change{Kind: ChangeUpdated, Indices: changed, ID: id})

	m.pending.Add(1)
	go func() {
		defer m.pending.Done()
		m.loadContent(context.WithoutCancel(ctx), id, path, name)
	}()

	return nil
}

func (m *Model) loadContent(ctx context.Context, id, path, name string) {
	_, hit, err := m.cache.GetOrLoad(ctx, path, m.loader)
	if err != nil {
		m.logger.Warn().Err(err).Str("file", path).Msg("loading content")
		if !m.setCached(id, false) {
			// deleted while loading, nothing left to report on
			return
		}
		m.ReportError(fmt.Sprintf("Error loading file '%s': %v", name, err))
		return
	}

	m.logger.Debug().Str("file", path).Bool("hit", hit).Msg("content available")

	if !m.setCached(id, true) {
		// deleted while loading
		m.cache.Remove(path)
	}
}

func (m *Model) setCached(id string, cached bool) bool {
	m.mu.Lock()
	index, ref := m.findLocked(id)
	if ref == nil {
		m.mu.Unlock()
		return false
	}
	changed := ref.IsCached != cached
	ref.IsCached = cached
	m.mu.Unlock()

	if changed {
		m.listeners.notify(Change{Kind: ChangeUpdated, Indices: []int{index}, ID: id})
	}
	return true
}

// Content returns the cached content of id, if any.
func (m *Model) Content(id string) (string, bool) {
	m.mu.RLock()
	_, ref := m.findLocked(id)
	if ref == nil {
		m.mu.RUnlock()
		return "", false
	}
	path := ref.FilePath
	m.mu.RUnlock()

	return m.cache.TryGet(path)
}

// ☑️ ToggleSelection flips the selection of id.
func (m *Model) ToggleSelection(id string) error {
	m.mu.Lock()
	index, ref := m.findLocked(id)
	if ref == nil {
		m.mu.Unlock()
		return errors.WithMessagef(ErrNotFound, "%s", id)
	}
	ref.IsSelected = !ref.IsSelected
	m.mu.Unlock()

	m.listeners.notify(Change{Kind: ChangeUpdated, Indices: []int{index}, ID: id})
	return nil
}

// SelectedCount is the number of selected files.
func (m *Model) SelectedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selectedCountLocked()
}

func (m *Model) selectedCountLocked() int {
	n := 0
	for _, f := range m.files {
		if f.IsSelected {
			n++
		}
	}
	return n
}

// ⬆️ MoveSelectedUp swaps the only selected file with its predecessor. It
// does nothing unless exactly one file is selected or when it is first.
func (m *Model) MoveSelectedUp(ctx context.Context) {
	m.moveSelected(ctx, -1)
}

// ⬇️ MoveSelectedDown is MoveSelectedUp towards the end of the list.
func (m *Model) MoveSelectedDown(ctx context.Context) {
	m.moveSelected(ctx, 1)
}

func (m *Model) moveSelected(ctx context.Context, delta int) {
	m.mu.Lock()
	if m.selectedCountLocked() != 1 {
		m.mu.Unlock()
		return
	}

	from := -1
	for i, f := range m.files {
		if f.IsSelected {
			from = i
			break
		}
	}

	to := from + delta
	if to < 0 || to >= len(m.files) {
		m.mu.Unlock()
		return
	}

	m.files[from], m.files[to] = m.files[to], m.files[from]
	id := m.files[to].ID
	entries, seq := m.snapshotLocked()
	m.mu.Unlock()

	m.listeners.notify(Change{Kind: ChangeMoved, From: from, To: to, ID: id})
	m.save(ctx, entries, seq)
}

// 🗑️ DeleteSelected removes every selected file and drops their content
// from the cache. It returns the number of files removed.
func (m *Model) DeleteSelected(ctx context.Context) int {
	m.mu.Lock()
	var (
		kept    = make([]*FileReference, 0, len(m.files))
		removed []int
		paths   []string
	)
	for i, f := range m.files {
		if !f.IsSelected {
			kept = append(kept, f)
			continue
		}
		removed = append(removed, i)
		paths = append(paths, f.FilePath)
		if f == m.active {
			m.active = nil
		}
	}

	if len(removed) == 0 {
		m.mu.Unlock()
		return 0
	}

	m.files = kept
	entries, seq := m.snapshotLocked()
	m.mu.Unlock()

	for _, p := range paths {
		m.cache.Remove(p)
	}

	m.logger.Debug().Int("removed", len(removed)).Msg("deleted selected files")
	m.listeners.notify(Change{Kind: ChangeRemoved, Indices: removed})
	m.save(ctx, entries, seq)

	return len(removed)
}

// ClearCache empties the content cache and marks every file uncached.
func (m *Model) ClearCache() {
	m.cache.Clear()

	m.mu.Lock()
	var changed []int
	for i, f := range m.files {
		if f.IsCached {
			f.IsCached = false
			changed = append(changed, i)
		}
	}
	m.mu.Unlock()

	if len(changed) > 0 {
		m.listeners.notify(Change{Kind: ChangeUpdated, Indices: changed})
	}
}

// Files returns a copy of the list, in order.
func (m *Model) Files() []FileReference {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]FileReference, len(m.files))
	for i, f := range m.files {
		out[i] = *f
	}
	return out
}

func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}

func (m *Model) Get(id string) (FileReference, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ref := m.findLocked(id)
	if ref == nil {
		return FileReference{}, false
	}
	return *ref, true
}

// ActiveFile returns the active file, if there is one.
func (m *Model) ActiveFile() (FileReference, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.active == nil {
		return FileReference{}, false
	}
	return *m.active, true
}

// ⚠️ ReportError appends a message to the user visible error list.
func (m *Model) ReportError(msg string) {
	m.mu.Lock()
	m.errs = append(m.errs, msg)
	m.mu.Unlock()

	m.logger.Debug().Str("error", msg).Msg("user error reported")
	m.listeners.notify(Change{Kind: ChangeErrors})
}

func (m *Model) Errors() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.errs...)
}

// DismissError removes the error at index.
func (m *Model) DismissError(index int) error {
	m.mu.Lock()
	if index < 0 || index >= len(m.errs) {
		m.mu.Unlock()
		return errors.Errorf("no error at index %d", index)
	}
	m.errs = append(m.errs[:index], m.errs[index+1:]...)
	m.mu.Unlock()

	m.listeners.notify(Change{Kind: ChangeErrors})
	return nil
}

func (m *Model) ClearErrors() {
	m.mu.Lock()
	m.errs = nil
	m.mu.Unlock()

	m.listeners.notify(Change{Kind: ChangeErrors})
}

func (m *Model) findLocked(id string) (int, *FileReference) {
	for i, f := range m.files {
		if f.ID == id {
			return i, f
		}
	}
	return -1, nil
}

// snapshotLocked returns the entries to persist and their sequence number.
// It returns nil entries while the list is being replayed from disk.
func (m *Model) snapshotLocked() ([]persist.Entry, uint64) {
	if m.initializing {
		return nil, 0
	}

	m.seq++
	entries := make([]persist.Entry, len(m.files))
	for i, f := range m.files {
		entries[i] = f.toEntry()
	}
	return entries, m.seq
}

// 💾 save writes the snapshot in the background unless a newer one already
// made it to disk.
func (m *Model) save(ctx context.Context, entries []persist.Entry, seq uint64) {
	if seq == 0 {
		return
	}

	ctx = m.logger.WithContext(context.WithoutCancel(ctx))

	m.pending.Add(1)
	go func() {
		defer m.pending.Done()

		m.saveMu.Lock()
		defer m.saveMu.Unlock()

		if seq <= m.savedSeq {
			m.logger.Debug().Uint64("seq", seq).Msg("skipping stale save")
			return
		}
		m.savedSeq = seq
		m.store.Save(ctx, entries)
	}()
}

func (m *Model) acceptedList() string {
	exts := make([]string, 0, len(m.accepted))
	for e := range m.accepted {
		exts = append(exts, "."+e)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}

func displayName(meta FileMeta) string {
	if meta.FileName != "" {
		return meta.FileName
	}
	return filepath.Base(meta.FullPath)
}
