package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"riverwalk/internal/survey"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "riverwalk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	want := survey.Demo("walk-123")
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Survey(ctx, "walk-123")
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("survey round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveUpserts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sv := survey.Demo("walk-1")
	require.NoError(t, s.Save(ctx, sv))

	sv.Sites = sv.Sites[:1]
	require.NoError(t, s.Save(ctx, sv))

	got, err := s.Survey(ctx, "walk-1")
	require.NoError(t, err)
	require.Len(t, got.Sites, 1)

	walks, err := s.ListWalks(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"walk-1"}, walks)
}

func TestSaveRejectsInvalid(t *testing.T) {
	s := openTestStore(t)

	err := s.Save(context.Background(), survey.Survey{Walk: "walk-2"})
	require.Error(t, err)
	require.ErrorIs(t, err, survey.ErrNoSites)
}

func TestSurveyNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Survey(context.Background(), "walk-404")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
