package listing

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_sortsLabelsByAddress(t *testing.T) {
	var buf bytes.Buffer
	labels := map[string]int64{"end": 12, "start": 0, "mid": 4}

	err := Write(&buf, make([]byte, 16), labels)
	require.NoError(t, err)

	out := buf.String()
	start := strings.Index(out, "start")
	mid := strings.Index(out, "mid")
	end := strings.Index(out, "end")
	assert.True(t, start < mid && mid < end, "labels should appear in address order, got:\n%s", out)
	assert.Contains(t, out, "; 16 bytes")
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestErrWriter_latchesFirstError(t *testing.T) {
	ew := NewErrWriter(failingWriter{})
	_, err1 := ew.Write([]byte("a"))
	_, err2 := ew.Write([]byte("b"))
	require.Error(t, err1)
	assert.Equal(t, err1, err2)
}

func TestWrite_emptyLabels(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "; 0 bytes\n", buf.String())
}
