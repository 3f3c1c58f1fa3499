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

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📦 DropSource decodes a drop gesture into candidate files. Platforms that
// cannot supply drops simply never construct one.
type DropSource interface {
	Decode(ctx context.Context) ([]FileMeta, error)
}

// PathDropSource drops an explicit list of paths.
type PathDropSource []string

func (p PathDropSource) Decode(ctx context.Context) ([]FileMeta, error) {
	metas := make([]FileMeta, 0, len(p))
	for _, path := range p {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, errors.Errorf("resolving %s: %w", path, err)
		}
		metas = append(metas, FileMeta{FullPath: abs, FileName: filepath.Base(abs)})
	}
	return metas, nil
}

// 🌟 GlobDropSource expands doublestar patterns such as "configs/**/*.xml".
// Relative patterns are resolved against Base.
type GlobDropSource struct {
	Base     string
	Patterns []string
}

func (g GlobDropSource) Decode(ctx context.Context) ([]FileMeta, error) {
	logger := zerolog.Ctx(ctx)

	base := g.Base
	if base == "" {
		base = "."
	}

	seen := make(map[string]bool)
	var metas []FileMeta

	for _, pattern := range g.Patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, errors.Errorf("invalid pattern %q", pattern)
		}

		root, rel := doublestar.SplitPattern(filepath.ToSlash(pattern))
		root = filepath.FromSlash(root)
		if !filepath.IsAbs(root) {
			root = filepath.Join(base, root)
		}
		root, err := filepath.Abs(root)
		if err != nil {
			return nil, errors.Errorf("resolving %s: %w", pattern, err)
		}

		matches, err := doublestar.Glob(os.DirFS(root), rel, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding %s: %w", pattern, err)
		}

		if len(matches) == 0 {
			logger.Warn().Str("pattern", pattern).Msg("dropped pattern matched no files")
			continue
		}

		for _, m := range matches {
			full := filepath.Join(root, filepath.FromSlash(m))
			if seen[full] {
				continue
			}
			seen[full] = true
			metas = append(metas, FileMeta{FullPath: full, FileName: filepath.Base(full)})
		}
	}

	return metas, nil
}
