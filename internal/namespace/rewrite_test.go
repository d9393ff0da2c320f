package namespace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"cloudshelf/internal/models"
)

func TestRenamePlanRewritesWholeSubtree(t *testing.T) {
	target := folder("f1", "/", "Docs")
	subtree := []models.Node{
		file("n1", "/Docs", "report.pdf"),
		folder("n2", "/Docs", "Projects"),
		file("n3", "/Docs/Projects", "plan.md"),
		file("n4", "/Docs/Projects/2024", "q1.md"),
	}

	plan := RenamePlan(&target, "Archive", subtree)
	require.Equal(t, "/Docs", plan.OldLocation)
	require.Equal(t, "/Archive", plan.NewLocation)
	require.Len(t, plan.Rewrites, 4)

	byID := map[string]Rewrite{}
	for _, rw := range plan.Rewrites {
		byID[rw.NodeID] = rw
	}
	require.Equal(t, "/Archive", byID["n1"].NewPath)
	require.Equal(t, "/Archive", byID["n2"].NewPath)
	require.Equal(t, "/Archive/Projects", byID["n3"].NewPath)
	require.Equal(t, "/Archive/Projects/2024", byID["n4"].NewPath)
}

func TestRenamePlanSkipsPrefixSiblings(t *testing.T) {
	target := folder("f1", "/", "Docs")
	subtree := []models.Node{
		file("n1", "/Docs", "inside.txt"),
		file("n2", "/DocsBackup", "outside.txt"),
	}

	plan := RenamePlan(&target, "Archive", subtree)
	require.Len(t, plan.Rewrites, 1)
	require.Equal(t, "n1", plan.Rewrites[0].NodeID)
}

func TestRenamePlanNoopOnSameName(t *testing.T) {
	target := folder("f1", "/", "Docs")
	plan := RenamePlan(&target, "Docs", []models.Node{file("n1", "/Docs", "a.txt")})
	require.Empty(t, plan.Rewrites)
}

func TestMovePlanReanchorsSubtree(t *testing.T) {
	target := folder("f1", "/", "Projects")
	subtree := []models.Node{
		file("n1", "/Projects", "plan.md"),
		file("n2", "/Projects/2024", "q1.md"),
	}

	plan := MovePlan(&target, "/Docs/Archive", subtree)
	require.Equal(t, "/Projects", plan.OldLocation)
	require.Equal(t, "/Docs/Archive/Projects", plan.NewLocation)
	require.Len(t, plan.Rewrites, 2)
	require.Equal(t, "/Docs/Archive/Projects", plan.Rewrites[0].NewPath)
	require.Equal(t, "/Docs/Archive/Projects/2024", plan.Rewrites[1].NewPath)
}

func TestNestedFolderRenameDeepSuffixPreserved(t *testing.T) {
	target := folder("f1", "/Docs", "Projects")
	subtree := []models.Node{
		file("n1", "/Docs/Projects/2024/Q1/reports", "jan.pdf"),
	}

	plan := RenamePlan(&target, "Work", subtree)
	require.Len(t, plan.Rewrites, 1)
	require.Equal(t, "/Docs/Work/2024/Q1/reports", plan.Rewrites[0].NewPath)
}

func TestOutcome(t *testing.T) {
	o := &Outcome{}
	require.False(t, o.Partial())
	require.NoError(t, o.Err())

	o.Record("a", nil)
	o.Record("b", errors.New("write refused"))
	o.Record("c", nil)

	require.True(t, o.Partial())
	require.Equal(t, []string{"a", "c"}, o.Applied)
	require.Len(t, o.Failed, 1)
	require.Equal(t, "b", o.Failed[0].NodeID)
	require.ErrorContains(t, o.Err(), "1 of 3 writes failed")
}
