package sink

import (
	"context"
	"sort"
	"sync"
)

// Planned is a file a DryRunSink was asked to write.
type Planned struct {
	Path string
	Size int
}

// DryRunSink records what would be written without storing content.
type DryRunSink struct {
	mu    sync.Mutex
	files map[string]int
}

// NewDryRunSink creates a new DryRunSink.
func NewDryRunSink() *DryRunSink {
	return &DryRunSink{files: make(map[string]int)}
}

// WriteFile records path and the size of content.
func (s *DryRunSink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := checkWrite(ctx, path); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = len(content)
	return nil
}

// Planned returns the recorded files sorted by path.
func (s *DryRunSink) Planned() []Planned {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Planned, 0, len(s.files))
	for path, size := range s.files {
		out = append(out, Planned{Path: path, Size: size})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// TotalBytes returns the sum of all recorded sizes.
func (s *DryRunSink) TotalBytes() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, n := range s.files {
		total += n
	}
	return total
}
