package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		fileBytes []byte
		wantPages int
		wantErr   bool
	}{
		{
			name:      "empty file",
			fileBytes: []byte{},
			wantErr:   true,
		},
		{
			name:      "binary file",
			fileBytes: []byte{0xFF, 0xFE, 0x00, 0x01},
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			fileBytes: []byte("   \n\n  "),
			wantErr:   true,
		},
		{
			name:      "single page",
			fileBytes: []byte("Harry Potter is a wizard."),
			wantPages: 1,
		},
		{
			name:      "form feed page breaks",
			fileBytes: []byte("page one\fpage two\fpage three"),
			wantPages: 3,
		},
		{
			name:      "empty pages are dropped",
			fileBytes: []byte("page one\f\f\fpage two"),
			wantPages: 2,
		},
		{
			name:      "windows line endings normalized",
			fileBytes: []byte("line one\r\nline two"),
			wantPages: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := Load(tt.fileBytes)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, pages, tt.wantPages)
		})
	}
}

func TestLoadNormalizesCRLF(t *testing.T) {
	pages, err := Load([]byte("first\r\nsecond"))
	assert.NoError(t, err)
	assert.Equal(t, "first\nsecond", pages[0])
}
