package converter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleProgressCallback(t *testing.T) {
	var buf bytes.Buffer
	progress := NewConsoleProgressCallback(&buf, "convert: ").WithUpdateInterval(0)

	progress.OnStart(4)
	progress.OnProgress(1, 4)
	progress.OnProgress(4, 4)
	progress.OnComplete()

	out := buf.String()
	assert.Contains(t, out, "convert: 0/4")
	assert.Contains(t, out, "1/4 (25.0%)")
	assert.Contains(t, out, "4/4 (100.0%)")
	assert.Contains(t, out, "Completed in")
}

func TestConsoleProgressCallbackError(t *testing.T) {
	var buf bytes.Buffer
	progress := NewConsoleProgressCallback(&buf, "")

	progress.OnStart(1)
	progress.OnError(0, errors.New("boom"))

	assert.Contains(t, buf.String(), "Error at item 0: boom")
}

func TestNoOpProgressCallback(t *testing.T) {
	var p NoOpProgressCallback
	p.OnStart(10)
	p.OnProgress(1, 10)
	p.OnError(1, errors.New("ignored"))
	p.OnComplete()
}
