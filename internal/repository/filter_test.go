package repository

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-blog-ai/internal/model"
)

func TestFilter_NumbersPlaceholdersInOrder(t *testing.T) {
	var f filter
	f.add("p.author_id = ?", "u1")
	f.addContains("(p.title ILIKE ? OR p.content ILIKE ?)", " 50%_off ")
	f.addText("p.status = ?", "   ")
	f.addText("p.writing_phase = ?", "draft")

	assert.Equal(t, " WHERE p.author_id = $1 AND (p.title ILIKE $2 OR p.content ILIKE $2) AND p.writing_phase = $3", f.where())
	assert.Equal(t, []any{"u1", `%50\%\_off%`, "draft"}, f.args)

	assert.Equal(t, " LIMIT $4 OFFSET $5", f.limit(newPage(3, 10, 20, 100)))
	assert.Equal(t, []any{"u1", `%50\%\_off%`, "draft", 10, 20}, f.args)
}

func TestFilter_EmptyHasNoWhere(t *testing.T) {
	var f filter
	assert.Empty(t, f.where())
	assert.Equal(t, " LIMIT $1 OFFSET $2", f.limit(newPage(1, 0, 50, 200)))
	assert.Equal(t, []any{50, 0}, f.args)
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name       string
		number     int
		size       int
		wantNumber int
		wantSize   int
	}{
		{"defaults", 0, 0, 1, 20},
		{"negative page", -4, 10, 1, 10},
		{"size capped", 2, 1000, 2, 100},
		{"huge page clamped", math.MaxInt, 100, model.MaxPage, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPage(tt.number, tt.size, 20, 100)
			assert.Equal(t, tt.wantNumber, p.number)
			assert.Equal(t, tt.wantSize, p.size)
			assert.GreaterOrEqual(t, p.offset(), 0)
		})
	}
}

func TestPage_Meta(t *testing.T) {
	meta := newPage(2, 10, 20, 100).meta(35)
	assert.Equal(t, model.Meta{Page: 2, Limit: 10, Total: 35, TotalPages: 4}, meta)
}
