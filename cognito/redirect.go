package cognito

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Redirector hands the user over to the hosted sign-in page
type Redirector interface {
	Redirect(ctx context.Context, url string) error
}

// RedirectFunc adapts a function to Redirector
type RedirectFunc func(ctx context.Context, url string) error

// Redirect calls f
func (f RedirectFunc) Redirect(ctx context.Context, url string) error {
	return f(ctx, url)
}

// PromptRedirector prints the sign-in URL for the user to open
type PromptRedirector struct {
	Out io.Writer
}

// Redirect writes url to the configured writer
func (p PromptRedirector) Redirect(_ context.Context, url string) error {
	out := p.Out
	if out == nil {
		out = os.Stderr
	}
	if _, err := fmt.Fprintln(out, "Sign in to continue:"); err != nil {
		return err
	}
	_, err := color.New(color.FgCyan, color.Underline).Fprintln(out, url)
	return err
}
