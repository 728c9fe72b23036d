package utils

import (
	"strings"
	"testing"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		chunkSize  int
		overlap    int
		wantChunks int
	}{
		{
			name:       "empty text",
			text:       "",
			chunkSize:  10,
			overlap:    3,
			wantChunks: 0,
		},
		{
			name:       "shorter than chunk size",
			text:       "hello",
			chunkSize:  10,
			overlap:    3,
			wantChunks: 1,
		},
		{
			name:       "exactly chunk size",
			text:       strings.Repeat("a", 10),
			chunkSize:  10,
			overlap:    3,
			wantChunks: 1,
		},
		{
			name:       "two chunks with overlap",
			text:       strings.Repeat("a", 15),
			chunkSize:  10,
			overlap:    3,
			wantChunks: 2,
		},
		{
			// 10 runes but 20 bytes; the size check counts runes.
			name:       "multibyte text within chunk size",
			text:       strings.Repeat("é", 10),
			chunkSize:  10,
			overlap:    3,
			wantChunks: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitText(tt.text, tt.chunkSize, tt.overlap)
			if len(chunks) != tt.wantChunks {
				t.Errorf("SplitText() returned %d chunks, want %d", len(chunks), tt.wantChunks)
			}
			for i, chunk := range chunks {
				if len([]rune(chunk)) > tt.chunkSize {
					t.Errorf("chunk %d has %d runes, exceeds chunk size %d", i, len([]rune(chunk)), tt.chunkSize)
				}
			}
		})
	}
}

func TestSplitTextOverlapCarriesContext(t *testing.T) {
	text := "0123456789ABCDEFGHIJ"
	chunks := SplitText(text, 10, 4)

	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}

	// The tail of each chunk must reappear at the head of the next one.
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		tail := string(prev[len(prev)-4:])
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d does not start with previous chunk's tail %q: %q", i, tail, chunks[i])
		}
	}
}

func TestSplitTextDeterministic(t *testing.T) {
	text := strings.Repeat("the quick brown fox ", 100)
	first := SplitText(text, 50, 10)
	second := SplitText(text, 50, 10)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplitTextUnicode(t *testing.T) {
	text := strings.Repeat("héllo wörld ", 20)
	chunks := SplitText(text, 25, 5)

	joined := strings.Join(chunks, "")
	if !strings.Contains(joined, "héllo") {
		t.Error("multibyte runes were corrupted by splitting")
	}
}
