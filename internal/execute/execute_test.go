package execute

import (
	"testing"
	"time"

	"github.com/renamecraft/renamectl/internal/fileref"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlan_UnchangedIsPreMarkedSuccess(t *testing.T) {
	f := fileref.New("/a/report.txt", 10, time.Time{})
	m := New(afero.NewMemMapFs(), nil)

	items := m.BuildPlan([]*fileref.FileRef{f}, map[string]string{f.FullPath: "report.txt"}, nil)
	require.Len(t, items, 1)
	assert.True(t, items[0].Success)
	assert.Equal(t, SkipUnchanged, items[0].SkipReason)
}

func TestBuildPlan_IncludesCompanions(t *testing.T) {
	primary := fileref.New("/cam/C8227.MP4", 10, time.Time{})
	sidecar := fileref.New("/cam/C8227M01.XML", 10, time.Time{})
	m := New(afero.NewMemMapFs(), nil)

	items := m.BuildPlan(
		[]*fileref.FileRef{primary},
		map[string]string{primary.FullPath: "Wedding.MP4"},
		map[string][]*fileref.FileRef{"/cam": {primary, sidecar}},
	)
	require.Len(t, items, 2)
	assert.Equal(t, "/cam/WeddingM01.XML", items[1].NewPath)
	assert.True(t, items[1].IsCompanion)
}

func TestExecute_SimpleRename(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a/old.txt", []byte("x"), 0o644))
	m := New(fs, nil)

	result := m.Execute([]*Item{{OldPath: "/a/old.txt", NewPath: "/a/new.txt"}}, nil)
	assert.Equal(t, 1, result.SuccessCount)
	exists, _ := afero.Exists(fs, "/a/new.txt")
	assert.True(t, exists)
}

func TestExecute_ConflictSkip(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a/old.txt", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/a/new.txt", []byte("y"), 0o644))
	m := New(fs, nil)

	result := m.Execute([]*Item{{OldPath: "/a/old.txt", NewPath: "/a/new.txt"}}, func(item *Item) Decision {
		return DecisionSkip
	})
	assert.Equal(t, 1, result.ConflictsCount)
	assert.Equal(t, 1, result.SkippedCount)
}

func TestExecute_ConflictRenameUsesNumericSuffix(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a/old.txt", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/a/new.txt", []byte("y"), 0o644))
	m := New(fs, nil)

	result := m.Execute([]*Item{{OldPath: "/a/old.txt", NewPath: "/a/new.txt"}}, func(item *Item) Decision {
		return DecisionRename
	})
	require.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, "/a/new_1.txt", result.Items[0].NewPath)
}

func TestExecute_ConflictCancelStopsBatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a/one.txt", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/a/two.txt", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/a/target.txt", []byte("y"), 0o644))
	m := New(fs, nil)

	items := []*Item{
		{OldPath: "/a/one.txt", NewPath: "/a/target.txt"},
		{OldPath: "/a/two.txt", NewPath: "/a/untouched.txt"},
	}
	result := m.Execute(items, func(item *Item) Decision { return DecisionCancel })

	assert.Equal(t, 0, result.SuccessCount)
	assert.Equal(t, "cancelled", items[0].SkipReason)
	assert.Empty(t, items[1].SkipReason)
	exists, _ := afero.Exists(fs, "/a/two.txt")
	assert.True(t, exists)
}

func TestExecute_SkipAllAppliesToLaterItems(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a/one.txt", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/a/two.txt", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/a/target.txt", []byte("y"), 0o644))
	m := New(fs, nil)

	items := []*Item{
		{OldPath: "/a/one.txt", NewPath: "/a/target.txt"},
		{OldPath: "/a/two.txt", NewPath: "/a/three.txt"},
	}
	result := m.Execute(items, func(item *Item) Decision { return DecisionSkipAll })

	assert.Equal(t, 0, result.SuccessCount)
	assert.Equal(t, 2, result.SkippedCount)
	assert.Equal(t, "skip_all", items[1].SkipReason)
}

func TestExecute_AggregateAliases(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a/old.txt", []byte("x"), 0o644))
	m := New(fs, nil)

	result := m.Execute([]*Item{{OldPath: "/a/old.txt", NewPath: "/a/new.txt"}}, nil)
	assert.Equal(t, result.SuccessCount, result.RenamedCount())
	assert.Equal(t, result.ErrorCount, result.FailedCount())
}

func TestPerformRename_NoOpWhenPathsIdentical(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a/same.txt", []byte("x"), 0o644))
	assert.NoError(t, performRename(fs, "/a/same.txt", "/a/same.txt", DefaultCaseRenameMaxAttempts))
}

func TestIsCaseOnlyRename(t *testing.T) {
	assert.True(t, isCaseOnlyRename("/a/Photo.JPG", "/a/photo.jpg"))
	assert.False(t, isCaseOnlyRename("/a/photo.jpg", "/a/photo.jpg"))
	assert.False(t, isCaseOnlyRename("/a/photo.jpg", "/a/other.jpg"))
}
