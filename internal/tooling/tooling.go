// Package tooling runs the external localization CLIs of a project.
package tooling

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrToolFailed wraps any failure of an external command.
var ErrToolFailed = errors.New("external tool failed")

// Command is one external CLI invocation.
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// L10nMerge merges Flutter partial catalogs with supa_l10n_manager.
func L10nMerge() Command {
	return Command{Name: "dart", Args: []string{"run", "supa_l10n_manager", "merge"}}
}

// L10nExtract extracts one locale with supa_l10n_manager.
func L10nExtract(locale string) Command {
	return Command{Name: "dart", Args: []string{"run", "supa_l10n_manager", "extract", "--locale", locale}}
}

// YarnExtract extracts keys with react3l.
func YarnExtract() Command {
	return Command{Name: "react3l", Args: []string{"translate", "extract", "-i", "src/", "-o", "src/locales/", "-p", "src/locales/"}}
}

// YarnMerge merges catalogs with react3l through yarn.
func YarnMerge() Command {
	return Command{Name: "yarn", Args: []string{"react3l", "translate", "merge", "-i", "src/", "-o", "src/locales/", "-p", "src/locales/"}}
}

// Runner executes commands in a working directory.
type Runner struct {
	dir string
}

// NewRunner creates a Runner for dir.
func NewRunner(dir string) *Runner {
	return &Runner{dir: dir}
}

// Run executes cmd and forwards each stdout line to the log. A non-zero
// exit or a missing binary is returned wrapped in ErrToolFailed with the
// command's stderr.
func (r *Runner) Run(ctx context.Context, cmd Command) (string, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = r.dir

	var stderr bytes.Buffer
	c.Stderr = &stderr

	log.Info().Str("command", cmd.String()).Str("dir", r.dir).Msg("Running external tool")
	output, err := c.Output()

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
			log.Info().Str("tool", cmd.Name).Msg(line)
		}
	}

	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return string(output), fmt.Errorf("%w: %s: %s", ErrToolFailed, cmd, msg)
	}
	return string(output), nil
}
