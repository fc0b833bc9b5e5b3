package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somabay/handbook/domain/tree"
)

func handbook(t *testing.T) []Page {
	t.Helper()
	welcome := mustPage(t, "welcome", "Welcome", "welcome", "# Hi")
	benefits := mustPage(t, "benefits", "Benefits", "hr-benefits", "# Benefits")
	leave := mustPage(t, "leave", "Leave", "hr-leave", "# Leave")
	leave.attrs.Private = true
	hr := mustChapter(t, "hr", "HR", "hr", benefits, leave)
	draft := mustPage(t, "draft", "Draft", "it-draft", "# Draft")
	draft.attrs.Published = false
	it := mustChapter(t, "it", "IT", "it", draft)
	return []Page{welcome, hr, it}
}

func TestFind(t *testing.T) {
	forest := handbook(t)

	p, ok := Find(forest, "leave")
	require.True(t, ok)
	assert.Equal(t, "Leave", p.Title())

	p, ok = FindBySlug(forest, "hr-benefits")
	require.True(t, ok)
	assert.Equal(t, "benefits", p.ID())

	_, ok = FindBySlug(forest, "")
	assert.False(t, ok)

	parent, ok := ParentOf(forest, "leave")
	require.True(t, ok)
	assert.Equal(t, "hr", parent.ID())

	_, ok = ParentOf(forest, "welcome")
	assert.False(t, ok)
}

func TestInsert(t *testing.T) {
	forest := handbook(t)
	perks := mustPage(t, "perks", "Perks", "hr-perks", "# Perks")

	out, err := Insert(forest, "hr", perks)
	require.NoError(t, err)
	assert.Equal(t, []string{"welcome", "hr", "benefits", "leave", "perks", "it", "draft"}, tree.IDs(out))
	assert.Len(t, forest[1].Children(), 2, "input forest is unchanged")

	out, err = Insert(forest, "", perks)
	require.NoError(t, err)
	assert.Equal(t, "perks", out[3].ID())
}

func TestInsert_Errors(t *testing.T) {
	forest := handbook(t)

	_, err := Insert(forest, "welcome", mustPage(t, "x", "X", "x", "x"))
	assert.ErrorIs(t, err, tree.ErrStructuralViolation, "parent must be a chapter")

	_, err = Insert(forest, "ghost", mustPage(t, "x", "X", "x", "x"))
	assert.ErrorIs(t, err, tree.ErrUnknownNode)

	_, err = Insert(forest, "", mustPage(t, "x", "X", "hr-leave", "x"))
	assert.ErrorIs(t, err, ErrSlugTaken)

	_, err = Insert(forest, "", mustPage(t, "leave", "X", "other", "x"))
	assert.ErrorIs(t, err, tree.ErrDuplicateID)
}

func TestReplace(t *testing.T) {
	forest := handbook(t)
	hr, _ := Find(forest, "hr")
	renamed, err := hr.WithAttributes(Patch{Title: ptr("People")}.Apply(hr.Attributes()))
	require.NoError(t, err)

	out, err := Replace(forest, renamed)
	require.NoError(t, err)
	got, _ := Find(out, "hr")
	assert.Equal(t, "People", got.Title())
	assert.Len(t, got.Children(), 2, "children are kept")

	welcome, _ := Find(forest, "welcome")
	clash, err := welcome.WithAttributes(Patch{Slug: ptr("hr-leave")}.Apply(welcome.Attributes()))
	require.NoError(t, err)
	_, err = Replace(forest, clash)
	assert.ErrorIs(t, err, ErrSlugTaken)

	_, err = Replace(forest, mustPage(t, "ghost", "Ghost", "ghost", "x"))
	assert.ErrorIs(t, err, tree.ErrUnknownNode)
}

func TestRemove(t *testing.T) {
	forest := handbook(t)

	_, err := Remove(forest, "hr")
	var violation *tree.StructuralViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "hr", violation.ID)

	out, err := Remove(forest, "leave")
	require.NoError(t, err)
	assert.Equal(t, []string{"welcome", "hr", "benefits", "it", "draft"}, tree.IDs(out))

	_, err = Remove(forest, "ghost")
	assert.ErrorIs(t, err, tree.ErrUnknownNode)
}

func TestPublished_HidesUnpublishedSubtree(t *testing.T) {
	forest := handbook(t)
	forest[1].attrs.Published = false

	assert.Equal(t, []string{"welcome", "it"}, tree.IDs(Published(forest)))
	assert.Equal(t, 6, tree.Count(forest))
	assert.Equal(t, []string{"welcome", "hr", "benefits", "leave", "it", "draft"}, tree.IDs(forest), "input forest is unchanged")
	assert.Len(t, forest[2].Children(), 1)
}

func TestEntries(t *testing.T) {
	forest := handbook(t)
	yes := true

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "all", filter: Filter{}, want: []string{"welcome", "hr", "benefits", "leave", "it", "draft"}},
		{name: "public", filter: Filter{Visibility: VisibilityPublic}, want: []string{"welcome", "hr", "benefits", "it", "draft"}},
		{name: "private", filter: Filter{Visibility: VisibilityPrivate}, want: []string{"leave"}},
		{name: "published", filter: Filter{Published: &yes}, want: []string{"welcome", "hr", "benefits", "leave", "it"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, e := range Entries(forest, tt.filter) {
				ids = append(ids, e.Node.ID())
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	entries := Entries(forest, Filter{Visibility: VisibilityPrivate})
	assert.Equal(t, "hr", entries[0].ParentID)
}

func TestChapters(t *testing.T) {
	var ids []string
	for _, e := range Chapters(handbook(t)) {
		ids = append(ids, e.Node.ID())
	}
	assert.Equal(t, []string{"hr", "it"}, ids)
}

func TestSlugMismatches(t *testing.T) {
	forest := handbook(t)
	moved, err := tree.ApplyOrder(forest, []tree.OrderSpec{
		{ID: "hr", Children: []tree.OrderSpec{{ID: "welcome"}, {ID: "benefits"}, {ID: "leave"}}},
		{ID: "it", Children: []tree.OrderSpec{{ID: "draft"}}},
	})
	require.NoError(t, err)

	assert.Equal(t, []SlugMismatch{{ID: "welcome", Slug: "welcome", ParentSlug: "hr"}}, SlugMismatches(moved))

	moved[0].children[0].attrs.CustomSlug = true
	assert.Empty(t, SlugMismatches(moved))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(handbook(t)))

	forest := handbook(t)
	forest[2].children[0].attrs.Slug = "welcome"
	assert.ErrorIs(t, Validate(forest), ErrSlugTaken)

	forest = handbook(t)
	forest[0].attrs.Content = ""
	assert.ErrorIs(t, Validate(forest), tree.ErrValidation)
}

func TestParseVisibility(t *testing.T) {
	v, err := ParseVisibility("")
	require.NoError(t, err)
	assert.Equal(t, VisibilityAll, v)

	_, err = ParseVisibility("hidden")
	assert.ErrorIs(t, err, tree.ErrValidation)
}

func ptr[V any](v V) *V { return &v }
