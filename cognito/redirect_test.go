package cognito

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptRedirector(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	require.NoError(t, PromptRedirector{Out: &buf}.Redirect(context.Background(), "https://auth.example.com/oauth2/authorize"))
	assert.Equal(t, "Sign in to continue:\nhttps://auth.example.com/oauth2/authorize\n", buf.String())
}
