package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordMonitor struct {
	errs    []error
	tags    []map[string]string
	panics  []any
	flushes int
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.errs = append(r.errs, err)
	r.tags = append(r.tags, tags)
}
func (r *recordMonitor) CapturePanic(v any)  { r.panics = append(r.panics, v) }
func (r *recordMonitor) Flush(time.Duration) { r.flushes++ }

func TestCaptureException(t *testing.T) {
	mon := &recordMonitor{}
	prev := Init(mon)
	defer Init(prev)

	CaptureException(nil, nil)
	CaptureException(errors.New("boom"), map[string]string{"route": "A → B"})

	require.Len(t, mon.errs, 1)
	assert.EqualError(t, mon.errs[0], "boom")
	assert.Equal(t, "A → B", mon.tags[0]["route"])
}

func TestInitIgnoresNil(t *testing.T) {
	mon := &recordMonitor{}
	prev := Init(mon)
	defer Init(prev)

	assert.Same(t, mon, Init(nil))
	CaptureException(errors.New("still recorded"), nil)
	assert.Len(t, mon.errs, 1)
}

func TestRecoverReportsAndRepanics(t *testing.T) {
	mon := &recordMonitor{}
	prev := Init(mon)
	defer Init(prev)

	assert.PanicsWithValue(t, "kaboom", func() {
		defer Recover()
		panic("kaboom")
	})
	assert.Equal(t, []any{"kaboom"}, mon.panics)
	assert.Equal(t, 1, mon.flushes)
}
