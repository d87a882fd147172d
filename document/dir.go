// Copyright 2025 Poiesic Systems
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


package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DirSource serves pre-extracted documents laid out as directories.
//
// A document reference is a directory containing one text file per page
// plus optional page images and captions:
//
//	page-001.txt
//	page-001-img-01.png
//	page-001-img-01.caption
//	page-002.txt
//
// Page numbering is 1-based and dense: page N exists only if page-N.txt does.
type DirSource struct {
	root string
}

// NewDirSource creates a source that resolves references relative to root.
// An empty root resolves references as given.
func NewDirSource(root string) *DirSource {
	return &DirSource{root: root}
}

// Resolve checks the directory and counts its pages.
func (s *DirSource) Resolve(ctx context.Context, ref string) (*Info, error) {
	dir := s.dir(ref)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnresolvable, ref, err)
	}

	count := 0
	for count < len(entries) {
		if _, err := os.Stat(s.textPath(ref, count+1)); err != nil {
			break
		}
		count++
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: %s has no pages", ErrUnresolvable, ref)
	}
	return &Info{Ref: ref, PageCount: count}, nil
}

// PageText returns the text of one page.
func (s *DirSource) PageText(ctx context.Context, ref string, page int) (string, error) {
	if page < 1 {
		return "", ErrNoSuchPage
	}
	data, err := os.ReadFile(s.textPath(ref, page))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoSuchPage
		}
		return "", err
	}
	return string(data), nil
}

// PageImages returns the images of one page in file name order.
func (s *DirSource) PageImages(ctx context.Context, ref string, page int) ([]Image, error) {
	if page < 1 {
		return nil, ErrNoSuchPage
	}
	if _, err := os.Stat(s.textPath(ref, page)); err != nil {
		return nil, ErrNoSuchPage
	}

	pattern := filepath.Join(s.dir(ref), fmt.Sprintf("page-%03d-img-*", page))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	var images []Image
	for _, path := range matches {
		if strings.HasSuffix(path, ".caption") {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		caption := ""
		capPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".caption"
		if capData, err := os.ReadFile(capPath); err == nil {
			caption = strings.TrimSpace(string(capData))
		}

		images = append(images, Image{Page: page, Caption: caption, Data: data})
	}
	return images, nil
}

func (s *DirSource) dir(ref string) string {
	if s.root == "" {
		return ref
	}
	return filepath.Join(s.root, ref)
}

func (s *DirSource) textPath(ref string, page int) string {
	return filepath.Join(s.dir(ref), fmt.Sprintf("page-%03d.txt", page))
}
