package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestURIRoundTrip(t *testing.T) {
	uri := PathToURI("/work/my project/a.php")
	require.Equal(t, "file:///work/my%20project/a.php", uri)
	require.Equal(t, "/work/my project/a.php", UriToPath(uri))
	require.Equal(t, "relative/a.php", UriToPath("relative/a.php"))
}

func TestAppendUnique(t *testing.T) {
	out := AppendUnique([]string{"\\a"}, "\\b")
	out = AppendUnique(out, "\\a")
	require.Equal(t, []string{"\\a", "\\b"}, out)
}
