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

package filelist

import "sync"

// ChangeKind says what happened to the list.
type ChangeKind int

const (
	ChangeAdded   ChangeKind = iota // Indices hold the new positions
	ChangeRemoved                   // Indices hold the positions before removal
	ChangeMoved                     // From and To hold the old and new position
	ChangeUpdated                   // a row's selection, active or cached flag changed
	ChangeReset                     // the whole list was replaced
	ChangeErrors                    // the error list changed
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeMoved:
		return "moved"
	case ChangeUpdated:
		return "updated"
	case ChangeReset:
		return "reset"
	case ChangeErrors:
		return "errors"
	default:
		return "unknown"
	}
}

// 📣 Change describes one notification
type Change struct {
	Kind    ChangeKind
	Indices []int
	From    int
	To      int
	ID      string
}

type listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(Change)
}

func (l *listeners) add(fn func(Change)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fns == nil {
		l.fns = make(map[int]func(Change))
	}
	id := l.next
	l.next++
	l.fns[id] = fn

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.fns, id)
	}
}

func (l *listeners) notify(c Change) {
	l.mu.Lock()
	fns := make([]func(Change), 0, len(l.fns))
	for i := 0; i < l.next; i++ {
		if fn, ok := l.fns[i]; ok {
			fns = append(fns, fn)
		}
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}
