package store

import (
	"testing"

	testdb "github.com/gamma-omg/lexi-annotate/internal/pkg/test/db"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControlLists(t *testing.T) {
	f := seed(t)

	public, err := pgs.CreateControlList(t.Context(), CreateControlListRequest{Name: "public", Visibility: model.VisibilityPublic})
	require.NoError(t, err)
	_, err = pgs.CreateControlList(t.Context(), CreateControlListRequest{Name: "hidden"})
	require.NoError(t, err)

	require.NoError(t, pgs.SetControlListMembers(t.Context(), f.controlListID, []model.Member{{UserID: f.userID, IsOwner: true}}))

	lists, err := pgs.ListControlLists(t.Context(), ListControlListsRequest{UserID: f.userID})
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, public, lists[0].ID)
	assert.Equal(t, f.controlListID, lists[1].ID)

	all, err := pgs.ListControlLists(t.Context(), ListControlListsRequest{All: true})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	m, err := pgs.ControlListMembership(t.Context(), f.controlListID, f.userID)
	require.NoError(t, err)
	assert.True(t, m.IsOwner)

	_, err = pgs.ControlListMembership(t.Context(), public, f.userID)
	assert.ErrorIs(t, err, ErrNotFound)

	members, err := pgs.ControlListMembers(t.Context(), f.controlListID)
	require.NoError(t, err)
	assert.Equal(t, []model.Member{{UserID: f.userID, Email: "ann@example.org", IsOwner: true}}, members)
}

func TestUpdateControlList(t *testing.T) {
	testdb.RunMigrations(t, db, migrationsFolder)

	id, err := pgs.CreateControlList(t.Context(), CreateControlListRequest{Name: "old", Description: "desc"})
	require.NoError(t, err)

	vis := model.VisibilitySubmitted
	require.NoError(t, pgs.UpdateControlList(t.Context(), UpdateControlListRequest{
		ID:         id,
		Name:       model.Ptr("new"),
		Visibility: &vis,
	}))

	cl, err := pgs.GetControlList(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, "new", cl.Name)
	assert.Equal(t, "desc", cl.Description)
	assert.Equal(t, model.VisibilitySubmitted, cl.Visibility)
}

func TestDeleteControlList_InUse(t *testing.T) {
	f := seed(t, "De")

	err := pgs.DeleteControlList(t.Context(), f.controlListID)
	assert.ErrorIs(t, err, ErrInUse)

	require.NoError(t, pgs.DeleteCorpus(t.Context(), f.corpusID))
	require.NoError(t, pgs.DeleteControlList(t.Context(), f.controlListID))

	_, err = pgs.GetControlList(t.Context(), f.controlListID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAllowedValues(t *testing.T) {
	f := seed(t)

	err := pgs.ReplaceAllowed(t.Context(), f.controlListID, model.FieldLemma, []model.AllowedValue{
		{Label: "de"}, {Label: "un"}, {Label: "Dieu"}, {Label: "de"},
	})
	require.NoError(t, err)

	n, err := pgs.CountAllowed(t.Context(), f.controlListID, model.FieldLemma)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = pgs.CountAllowed(t.Context(), f.controlListID, model.FieldPOS)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	ok, err := pgs.IsAllowed(t.Context(), f.controlListID, model.FieldLemma, "un")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = pgs.IsAllowed(t.Context(), f.controlListID, model.FieldLemma, "Un")
	require.NoError(t, err)
	assert.False(t, ok)

	values, total, err := pgs.AllowedValues(t.Context(), AllowedValuesRequest{
		ControlListID: f.controlListID,
		Field:         model.FieldLemma,
		Prefix:        "D",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, values, 2)
	assert.ElementsMatch(t, []string{"Dieu", "de"}, []string{values[0].Label, values[1].Label})

	_, err = pgs.AddAllowed(t.Context(), f.controlListID, model.FieldLemma, model.AllowedValue{Label: "un"})
	assert.ErrorIs(t, err, ErrExists)

	id, err := pgs.AddAllowed(t.Context(), f.controlListID, model.FieldMorph, model.AllowedValue{Label: "NOMB.=s", Readable: "singulier"})
	require.NoError(t, err)

	morphs, _, err := pgs.AllowedValues(t.Context(), AllowedValuesRequest{ControlListID: f.controlListID, Field: model.FieldMorph})
	require.NoError(t, err)
	assert.Equal(t, []model.AllowedValue{{ID: id, Label: "NOMB.=s", Readable: "singulier"}}, morphs)

	require.NoError(t, pgs.DeleteAllowed(t.Context(), f.controlListID, model.FieldMorph, id))
	assert.ErrorIs(t, pgs.DeleteAllowed(t.Context(), f.controlListID, model.FieldMorph, id), ErrNotFound)
}
