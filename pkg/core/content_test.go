package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCounts_Published(t *testing.T) {
	tests := []struct {
		name   string
		counts StatusCounts
		want   int
	}{
		{name: "empty", counts: StatusCounts{}, want: 0},
		{name: "publish only", counts: StatusCounts{StatusPublish: 3}, want: 3},
		{name: "inherit only", counts: StatusCounts{StatusInherit: 2}, want: 2},
		{
			name:   "ignores other statuses",
			counts: StatusCounts{StatusPublish: 1, StatusInherit: 4, StatusDraft: 7, StatusTrash: 2},
			want:   5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.counts.Published())
		})
	}
}

func TestCurrentEntry(t *testing.T) {
	_, ok := CurrentEntry(context.Background())
	assert.False(t, ok, "background context has no current entry")

	id, ok := CurrentEntry(WithCurrentEntry(context.Background(), 42))
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok = CurrentEntry(WithCurrentEntry(context.Background(), 0))
	assert.False(t, ok, "zero ID means no current entry")
}
