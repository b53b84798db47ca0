package repository

import (
	"strconv"
	"strings"

	"go-blog-ai/internal/model"
)

// filter collects AND-ed conditions and their positional arguments. Each
// "?" in a condition becomes the placeholder of the argument added with it.
type filter struct {
	conds []string
	args  []any
}

func (f *filter) add(cond string, arg any) {
	f.args = append(f.args, arg)
	f.conds = append(f.conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(f.args))))
}

// addText adds cond only when value is non-blank.
func (f *filter) addText(cond string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		f.add(cond, value)
	}
}

// addContains adds a substring match on value when it is non-blank.
func (f *filter) addContains(cond string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		f.add(cond, "%"+escapeLike(value)+"%")
	}
}

func (f *filter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// limit appends the page's LIMIT and OFFSET arguments and returns the clause.
// Call it after any COUNT query that shares the filter's arguments.
func (f *filter) limit(p page) string {
	f.args = append(f.args, p.size, p.offset())
	n := len(f.args)
	return " LIMIT $" + strconv.Itoa(n-1) + " OFFSET $" + strconv.Itoa(n)
}

type page struct {
	number int
	size   int
}

// newPage normalizes a requested page. The number is clamped to
// [1, model.MaxPage] and the size to (0, maxSize].
func newPage(number int, size int, defaultSize int, maxSize int) page {
	if size <= 0 {
		size = defaultSize
	}
	return page{
		number: max(1, min(number, model.MaxPage)),
		size:   min(size, maxSize),
	}
}

func (p page) offset() int {
	return (p.number - 1) * p.size
}

func (p page) meta(total int) model.Meta {
	return model.NewMeta(p.number, p.size, total)
}
