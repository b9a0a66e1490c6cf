package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripHTML(t *testing.T) {
	out, err := StripHTML(`<b>bold</b> text<br>second line <script>evil()</script>`)
	require.NoError(t, err)
	assert.Equal(t, "bold text\nsecond line", out)
}

func TestStripHTML_Empty(t *testing.T) {
	out, err := StripHTML("")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}
