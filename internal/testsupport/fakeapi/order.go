package fakeapi

import (
	"sort"
	"time"

	"mylibrary/internal/domain"
)

// timeOffset spaces creation times so newest-first ordering is stable
func timeOffset(id int64) time.Duration {
	return time.Duration(id) * time.Millisecond
}

func sortCounts[T any](rows []T, key func(T) (string, int)) {
	sort.SliceStable(rows, func(i, j int) bool {
		ni, ci := key(rows[i])
		nj, cj := key(rows[j])
		if ci != cj {
			return ci > cj
		}
		return ni < nj
	})
}

func sortByNewest(books []domain.Book) {
	sort.SliceStable(books, func(i, j int) bool {
		return books[i].CreatedAt.After(books[j].CreatedAt)
	})
}
