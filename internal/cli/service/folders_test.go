package service

import (
	"context"
	"testing"

	"ClipSync/internal/cli/model"
	"ClipSync/internal/cli/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolders_AddUseDelete(t *testing.T) {
	s, st := newTestClipService(t)
	ctx := context.Background()

	_, err := s.AddFolder(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyName)

	work, err := s.AddFolder(ctx, "  Work ")
	require.NoError(t, err)
	assert.Equal(t, "Work", work.Name)
	home, err := s.AddFolder(ctx, "Home")
	require.NoError(t, err)

	require.NoError(t, s.SetActiveFolder(ctx, work.ID))
	assert.ErrorIs(t, s.SetActiveFolder(ctx, "nope"), ErrNotFound)

	byName, err := s.ResolveFolder(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, work.ID, byName.ID)

	require.NoError(t, repo.SetClips(ctx, st, []*model.Clip{
		{ID: "a", Text: "a", FolderID: model.StringPtr(work.ID)},
		{ID: "b", Text: "b", FolderID: model.StringPtr(home.ID)},
	}))

	require.NoError(t, s.DeleteFolder(ctx, work.ID))

	folders, err := s.Folders(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, home.ID, folders[0].ID)

	clips := loadClips(t, st)
	assert.Nil(t, clips[0].FolderID, "clip is unlinked, not deleted")
	assert.Equal(t, home.ID, *clips[1].FolderID)

	active, err := s.ActiveFolder(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", active)
	raw, _ := st.Raw(repo.KeyActiveFolderID)
	assert.Equal(t, "null", raw)

	assert.ErrorIs(t, s.DeleteFolder(ctx, work.ID), ErrNotFound)
}

func TestDeleteFolder_KeepsOtherActiveFolder(t *testing.T) {
	s, _ := newTestClipService(t)
	ctx := context.Background()
	a, _ := s.AddFolder(ctx, "A")
	b, _ := s.AddFolder(ctx, "B")
	require.NoError(t, s.SetActiveFolder(ctx, b.ID))

	require.NoError(t, s.DeleteFolder(ctx, a.ID))
	active, _ := s.ActiveFolder(ctx)
	assert.Equal(t, b.ID, active)
}

func TestMoveClip(t *testing.T) {
	s, st := newTestClipService(t)
	ctx := context.Background()
	f, _ := s.AddFolder(ctx, "F")
	require.NoError(t, repo.SetClips(ctx, st, []*model.Clip{{ID: "a", Text: "a"}}))

	require.NoError(t, s.MoveClip(ctx, "a", f.ID))
	assert.True(t, loadClips(t, st)[0].InFolder(f.ID))
	require.NoError(t, s.MoveClip(ctx, "a", ""))
	assert.Nil(t, loadClips(t, st)[0].FolderID)
	assert.ErrorIs(t, s.MoveClip(ctx, "a", "missing"), ErrNotFound)
}
