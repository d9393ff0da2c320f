package namespace

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeSplitRoundTrip(t *testing.T) {
	cases := []struct {
		segments []string
		path     string
	}{
		{[]string{}, "/"},
		{[]string{"Documents"}, "/Documents"},
		{[]string{"Documents", "Projects", "2024"}, "/Documents/Projects/2024"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.path, Encode(tc.segments))
		require.Equal(t, tc.segments, Split(tc.path))
	}
}

func TestJoin(t *testing.T) {
	require.Equal(t, "/Documents", Join("/", "Documents"))
	require.Equal(t, "/Documents/report.pdf", Join("/Documents", "report.pdf"))
}

func TestWithinIsSegmentAware(t *testing.T) {
	require.True(t, Within("/Docs", "/Docs"))
	require.True(t, Within("/Docs/Projects", "/Docs"))

	// A sibling sharing a raw string prefix must not match.
	require.False(t, Within("/DocsBackup", "/Docs"))
	require.False(t, Within("/DocsBackup/2024", "/Docs"))

	require.False(t, Within("/", "/Docs"))
}

func TestParentAndBase(t *testing.T) {
	require.Equal(t, "/", Parent("/"))
	require.Equal(t, "/", Parent("/Documents"))
	require.Equal(t, "/Documents", Parent("/Documents/Projects"))

	require.Equal(t, "", Base("/"))
	require.Equal(t, "Documents", Base("/Documents"))
	require.Equal(t, "Projects", Base("/Documents/Projects"))
}

func TestValidName(t *testing.T) {
	require.True(t, ValidName("report.pdf"))
	require.True(t, ValidName("Documents"))

	require.False(t, ValidName(""))
	require.False(t, ValidName("a/b"))
	require.False(t, ValidName("/leading"))
	require.False(t, ValidName("trailing/"))
}

func TestValid(t *testing.T) {
	require.True(t, Valid("/"))
	require.True(t, Valid("/Documents"))
	require.True(t, Valid("/Documents/Projects"))

	require.False(t, Valid(""))
	require.False(t, Valid("Documents"))
	require.False(t, Valid("/Documents/"))
	require.False(t, Valid("//Documents"))
	require.False(t, Valid("/Documents//Projects"))
	require.False(t, Valid("/Documents/ /x"))
}
