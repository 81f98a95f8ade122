package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/pkg/core"
)

func fixtureNotes() []core.Note {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mk := func(id, title, content, owner string, cat core.Category, tags []string, created, updated int) core.Note {
		return core.Note{
			ID:        id,
			Title:     title,
			Content:   content,
			Category:  cat,
			Tags:      tags,
			CreatorID: owner,
			CreatedAt: base.Add(time.Duration(created) * time.Hour),
			UpdatedAt: base.Add(time.Duration(updated) * time.Hour),
		}
	}
	return []core.Note{
		mk("n1", "Groceries", "milk, eggs", "u1", core.CategoryPersonal, []string{"shopping"}, 0, 5),
		mk("n2", "standup", "Daily #sync", "u1", core.CategoryWork, []string{"sync"}, 1, 1),
		mk("n3", "Algebra", "rings and fields", "u1", core.CategoryStudy, nil, 2, 9),
		mk("n4", "Budget", "Q3 numbers", "u2", core.CategoryFinance, []string{"money"}, 3, 3),
		mk("n5", "budget review", "talk to accountant", "u1", core.CategoryFinance, []string{"Money"}, 4, 4),
	}
}

func ids(notes []core.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func TestApply_Defaults(t *testing.T) {
	page, err := core.Apply(fixtureNotes(), core.Query{})
	require.NoError(t, err)

	// updatedAt desc, page size 6
	assert.Equal(t, []string{"n3", "n1", "n5", "n4", "n2"}, ids(page.Notes))
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, core.DefaultPageSize, page.PageSize)
	assert.Equal(t, 1, page.TotalPages)
}

func TestApply_Filters(t *testing.T) {
	notes := fixtureNotes()

	t.Run("Owner", func(t *testing.T) {
		page, err := core.Apply(notes, core.Query{CreatorID: "u2"})
		require.NoError(t, err)
		assert.Equal(t, []string{"n4"}, ids(page.Notes))
	})

	t.Run("Category", func(t *testing.T) {
		page, err := core.Apply(notes, core.Query{Category: core.CategoryFinance, Sort: core.SortCreatedAt, Order: core.OrderAsc})
		require.NoError(t, err)
		assert.Equal(t, []string{"n4", "n5"}, ids(page.Notes))
	})

	t.Run("Search Title Content Tags", func(t *testing.T) {
		page, err := core.Apply(notes, core.Query{Search: "MONEY", CreatorID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, []string{"n5"}, ids(page.Notes))

		page, err = core.Apply(notes, core.Query{Search: "eggs"})
		require.NoError(t, err)
		assert.Equal(t, []string{"n1"}, ids(page.Notes))
	})

	t.Run("Glob Match", func(t *testing.T) {
		page, err := core.Apply(notes, core.Query{Match: "Budget*", Sort: core.SortTitle, Order: core.OrderAsc})
		require.NoError(t, err)
		assert.Equal(t, []string{"n4", "n5"}, ids(page.Notes))
	})
}

func TestApply_SortTitle(t *testing.T) {
	page, err := core.Apply(fixtureNotes(), core.Query{Sort: core.SortTitle, Order: core.OrderAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"n3", "n4", "n5", "n1", "n2"}, ids(page.Notes))
}

func TestApply_Pagination(t *testing.T) {
	notes := fixtureNotes()

	page, err := core.Apply(notes, core.Query{PageSize: 2, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"n5", "n4"}, ids(page.Notes))
	assert.Equal(t, 3, page.TotalPages)

	page, err = core.Apply(notes, core.Query{PageSize: 2, Page: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"n2"}, ids(page.Notes))

	page, err = core.Apply(notes, core.Query{PageSize: 2, Page: 9})
	require.NoError(t, err)
	assert.Empty(t, page.Notes)
	assert.Equal(t, 5, page.Total)
}

func TestApply_Invalid(t *testing.T) {
	_, err := core.Apply(nil, core.Query{Sort: "color"})
	assert.Error(t, err)

	_, err = core.Apply(nil, core.Query{Order: "sideways"})
	assert.Error(t, err)

	_, err = core.Apply(nil, core.Query{Category: "Hobbies"})
	assert.ErrorIs(t, err, core.ErrInvalidCategory)

	_, err = core.Apply(nil, core.Query{Match: "[unclosed"})
	assert.Error(t, err)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	notes := fixtureNotes()
	_, err := core.Apply(notes, core.Query{Sort: core.SortTitle})
	require.NoError(t, err)
	assert.Equal(t, "n1", notes[0].ID)
}
