package console

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/shopdesk/internal/listing"
)

type recorder struct {
	calls []string
}

func (r *recorder) add(f string, args ...interface{}) { r.calls = append(r.calls, fmt.Sprintf(f, args...)) }

func (r *recorder) SetSearch(term string)          { r.add("search %s", term) }
func (r *recorder) SetCategory(v string)           { r.add("category %s", v) }
func (r *recorder) SetBrand(v string)              { r.add("brand %s", v) }
func (r *recorder) SetActive(v string)             { r.add("active %s", v) }
func (r *recorder) SetPage(n int)                  { r.add("page %d", n) }
func (r *recorder) Next()                          { r.add("next") }
func (r *recorder) Prev()                          { r.add("prev") }
func (r *recorder) Refresh()                       { r.add("refresh") }
func (r *recorder) RemoveChip(key listing.ChipKey) { r.add("remove %s", key) }
func (r *recorder) ClearFilters()                  { r.add("clear") }

type fakeScreen struct {
	ctl     *recorder
	chips   []listing.Chip
	renders int
}

func (f *fakeScreen) Name() string { return "products" }

func (f *fakeScreen) Render(w io.Writer) error {
	f.renders++
	_, err := fmt.Fprintf(w, "render %d\n", f.renders)
	return err
}

func (f *fakeScreen) Chips() []listing.Chip             { return f.chips }
func (f *fakeScreen) Controls() listing.Controls        { return f.ctl }
func (f *fakeScreen) Settle(ctx context.Context) error { return ctx.Err() }

func newScreen() *fakeScreen {
	return &fakeScreen{ctl: &recorder{}}
}

func TestExec_Commands(t *testing.T) {
	s := newScreen()
	s.chips = []listing.Chip{{Key: listing.ChipCategory, Label: "Snacks"}, {Key: listing.ChipActive, Label: "Active"}}
	for _, line := range []string{"/coca cola", "c 3", "c", "b all", "a false", "n", "p", "g 4", "r", "x active", "x 1"} {
		quit, err := Exec(s, line)
		require.NoError(t, err, line)
		assert.False(t, quit)
	}
	assert.Equal(t, []string{
		"search coca cola", "category 3", "category all", "brand all", "active false",
		"next", "prev", "page 4", "refresh", "remove active", "remove category",
	}, s.ctl.calls)
}

func TestExec_BadArguments(t *testing.T) {
	s := newScreen()
	for _, line := range []string{"c abc", "b -1", "a maybe", "g 0", "g x", "x brand", "x 2", "zz"} {
		_, err := Exec(s, line)
		assert.Error(t, err, line)
	}
	assert.Empty(t, s.ctl.calls)
}

func TestExec_Quit(t *testing.T) {
	quit, err := Exec(newScreen(), "q")
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestRun_RendersAfterEachCommand(t *testing.T) {
	s := newScreen()
	var out bytes.Buffer
	err := Run(context.Background(), s, strings.NewReader("n\n\nbogus\np\nq\nn\n"), &out)
	require.NoError(t, err)
	// initial draw plus n and p; the blank line and the error do not redraw
	assert.Equal(t, 3, s.renders)
	assert.Equal(t, []string{"next", "prev"}, s.ctl.calls)
	assert.Contains(t, out.String(), "error: bogus: unknown command")
	assert.Contains(t, out.String(), "commands:")
}

func TestRun_EOF(t *testing.T) {
	s := newScreen()
	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), s, strings.NewReader("r"), &out))
	assert.Equal(t, 2, s.renders)
}
