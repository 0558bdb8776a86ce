package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"shopfront/internal/client/authctx"
)

// ErrLoginRequired is returned when the server ended the session while a
// protected command was running.
var ErrLoginRequired = errors.New("session ended by the server")

// pathAnnotation holds the storefront path a command stands for.
const pathAnnotation = "shopfront/path"

func withPath(cmd *cobra.Command, path string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[pathAnnotation] = path
	return cmd
}

// commandPath resolves the nearest annotated path, "/" when none is set.
func commandPath(cmd *cobra.Command) string {
	for c := cmd; c != nil; c = c.Parent() {
		if p, ok := c.Annotations[pathAnnotation]; ok {
			return p
		}
	}
	return "/"
}

// terminalNavigator maps the running command onto a storefront path. A
// redirect to the login page is reported on errOut and fails the command.
type terminalNavigator struct {
	path       string
	errOut     io.Writer
	redirected string
}

func (n *terminalNavigator) CurrentPath() string { return n.path }

func (n *terminalNavigator) Redirect(path string) {
	n.redirected = path
	hint := "shopctl login"
	if strings.HasPrefix(n.path, "/admin") {
		hint += " --admin"
	}
	fmt.Fprintf(n.errOut, "Your session has ended. Sign in again with: %s\n", hint)
}

// settle turns a command result into ErrLoginRequired once a redirect to the
// login page happened.
func (n *terminalNavigator) settle(err error) error {
	if n.redirected != authctx.LoginPath {
		return err
	}
	if err == nil {
		return ErrLoginRequired
	}
	return fmt.Errorf("%w: %w", ErrLoginRequired, err)
}
