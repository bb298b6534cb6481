package tagtracker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/wavesdb/internal/tags"
)

func TestTracker(t *testing.T) {
	tr := New()
	assert.Empty(t, tr.Seen(tags.Artist))

	tr.MarkSeen(tags.Artist, "Radiohead")
	tr.MarkSeen(tags.Artist, "Portishead")
	tr.MarkSeen(tags.Artist, "Radiohead")
	tr.MarkSeen(tags.Album, "Dummy")

	assert.Equal(t, []string{"Portishead", "Radiohead"}, tr.Seen(tags.Artist))
	assert.Equal(t, []string{"Dummy"}, tr.Seen(tags.Album))

	tr.Reset(tags.Artist)
	assert.Empty(t, tr.Seen(tags.Artist))
	assert.Equal(t, []string{"Dummy"}, tr.Seen(tags.Album), "reset is per type")
}
