package document

import (
	"context"
	"sync"
)

// MockSource is an in-memory Source for tests. Pages and images are keyed by
// reference; unknown references fail with ErrUnresolvable.
type MockSource struct {
	mu     sync.Mutex
	pages  map[string][]string
	images map[string]map[int][]Image

	// ResolveFunc overrides Resolve if set.
	ResolveFunc func(ctx context.Context, ref string) (*Info, error)

	resolveCalls  int
	pageTextCalls int
}

// NewMockSource creates an empty mock source.
// Note: Returns concrete type to allow test assertions.
func NewMockSource() *MockSource {
	return &MockSource{
		pages:  map[string][]string{},
		images: map[string]map[int][]Image{},
	}
}

// AddDocument registers a document whose pages are the given texts.
func (s *MockSource) AddDocument(ref string, pageTexts ...string) *MockSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[ref] = pageTexts
	return s
}

// AddImage attaches an image to a page of a registered document.
func (s *MockSource) AddImage(ref string, page int, caption string, data []byte) *MockSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.images[ref] == nil {
		s.images[ref] = map[int][]Image{}
	}
	s.images[ref][page] = append(s.images[ref][page], Image{Page: page, Caption: caption, Data: data})
	return s
}

// Resolve reports the registered document's shape.
func (s *MockSource) Resolve(ctx context.Context, ref string) (*Info, error) {
	s.mu.Lock()
	s.resolveCalls++
	s.mu.Unlock()

	if s.ResolveFunc != nil {
		return s.ResolveFunc(ctx, ref)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	pages, ok := s.pages[ref]
	if !ok || len(pages) == 0 {
		return nil, ErrUnresolvable
	}
	return &Info{Ref: ref, PageCount: len(pages)}, nil
}

// PageText returns the registered text of one page.
func (s *MockSource) PageText(ctx context.Context, ref string, page int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageTextCalls++

	pages, ok := s.pages[ref]
	if !ok {
		return "", ErrUnresolvable
	}
	if page < 1 || page > len(pages) {
		return "", ErrNoSuchPage
	}
	return pages[page-1], nil
}

// PageImages returns the registered images of one page.
func (s *MockSource) PageImages(ctx context.Context, ref string, page int) ([]Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pages, ok := s.pages[ref]
	if !ok {
		return nil, ErrUnresolvable
	}
	if page < 1 || page > len(pages) {
		return nil, ErrNoSuchPage
	}
	return s.images[ref][page], nil
}

// ResolveCalls returns how many times Resolve was called.
func (s *MockSource) ResolveCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveCalls
}

// PageTextCalls returns how many times PageText was called.
func (s *MockSource) PageTextCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageTextCalls
}
