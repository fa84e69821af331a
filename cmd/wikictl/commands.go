package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/starford/wikictl/internal"
	"github.com/starford/wikictl/internal/models"
	pkgconfig "github.com/starford/wikictl/pkg/config"
)

const (
	defaultConfigFile  = "config.json"
	fallbackConfigFile = "config/config.yaml"
)

// usageError reports a flag the selected action requires.
type usageError struct {
	action string
	flag   string
}

func (e usageError) Error() string {
	return fmt.Sprintf("the --%s option is required for the '%s' action", e.flag, e.action)
}

// requireString returns the value of a required string flag.
func requireString(cmd *cli.Command, name string) (string, error) {
	v := cmd.String(name)
	if v == "" {
		return "", usageError{action: cmd.Name, flag: name}
	}
	return v, nil
}

// cliEnv carries the output streams shared by all commands.
type cliEnv struct {
	stdout io.Writer
	stderr io.Writer
}

// openApp loads the configuration and builds the application. It is called
// only after the action's flags have been validated.
func (e *cliEnv) openApp(cmd *cli.Command) (*internal.App, error) {
	cfg := internal.NewDefaultConfig()
	candidates := []string{cmd.String("config")}
	if !cmd.IsSet("config") {
		candidates = append(candidates, fallbackConfigFile)
	}
	if _, err := pkgconfig.LoadFirst(cfg, candidates...); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return internal.Open(internal.WithConfig(cfg), internal.WithLogOutput(e.stderr))
}

func (e *cliEnv) printYAML(v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = e.stdout.Write(out)
	return err
}

func newRootCommand(stdout, stderr io.Writer) *cli.Command {
	env := &cliEnv{stdout: stdout, stderr: stderr}

	fileFlag := func(usage string) *cli.StringFlag {
		return &cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: usage}
	}
	pathFlag := func(usage string) *cli.StringFlag {
		return &cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: usage}
	}

	return &cli.Command{
		Name:    "wikictl",
		Usage:   "Manage wiki pages through the GraphQL API using local Markdown files",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (YAML or JSON)",
				DefaultText: defaultConfigFile,
				Value:       defaultConfigFile,
				Sources:     cli.EnvVars("WIKICTL_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "create",
				Usage:  "Create a page from a Markdown file",
				Flags:  []cli.Flag{fileFlag("Input Markdown file")},
				Action: env.create,
			},
			{
				Name:  "get",
				Usage: "Fetch a page into a Markdown file",
				Flags: []cli.Flag{
					pathFlag("Page path"),
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output Markdown file (default: <last path segment>.md)"},
				},
				Action: env.get,
			},
			{
				Name:   "delete",
				Usage:  "Delete a page",
				Flags:  []cli.Flag{pathFlag("Page path")},
				Action: env.delete,
			},
			{
				Name:   "update",
				Usage:  "Replace a page with a Markdown file (backup, delete, recreate)",
				Flags:  []cli.Flag{fileFlag("Input Markdown file")},
				Action: env.update,
			},
			{
				Name:  "history",
				Usage: "Show recorded actions",
				Flags: []cli.Flag{
					pathFlag("Only show actions on this page path"),
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "Maximum number of entries"},
				},
				Action: env.history,
			},
			{
				Name:   "watch",
				Usage:  "Update the page every time the Markdown file is saved",
				Flags:  []cli.Flag{fileFlag("Markdown file to watch")},
				Action: env.watch,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the page actions as MCP tools over stdio",
				Action: env.mcp,
			},
		},
	}
}

func (e *cliEnv) create(ctx context.Context, cmd *cli.Command) error {
	file, err := requireString(cmd, "file")
	if err != nil {
		return err
	}
	app, err := e.openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	res, err := app.Engine.Create(ctx, file)
	if err != nil {
		return err
	}
	return e.printYAML(res)
}

func (e *cliEnv) get(ctx context.Context, cmd *cli.Command) error {
	path, err := requireString(cmd, "path")
	if err != nil {
		return err
	}
	app, err := e.openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	output, err := app.Engine.Get(ctx, path, cmd.String("output"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.stdout, "File '%s' created with content and metadata.\n", output)
	return err
}

func (e *cliEnv) delete(ctx context.Context, cmd *cli.Command) error {
	path, err := requireString(cmd, "path")
	if err != nil {
		return err
	}
	app, err := e.openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	res, err := app.Engine.Delete(ctx, path)
	if err != nil {
		return err
	}
	return e.printYAML(res)
}

func (e *cliEnv) update(ctx context.Context, cmd *cli.Command) error {
	file, err := requireString(cmd, "file")
	if err != nil {
		return err
	}
	app, err := e.openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	report, err := app.Engine.Update(ctx, file)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.stdout, "File '%s' updated.\nBackup: %s\n", report.Path, report.BackupFile)
	return err
}

func (e *cliEnv) history(_ context.Context, cmd *cli.Command) error {
	app, err := e.openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	entries, err := app.History(cmd.String("path"), int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		_, err = fmt.Fprintln(e.stdout, "No recorded actions.")
		return err
	}
	return e.printYAML(entries)
}

func (e *cliEnv) watch(ctx context.Context, cmd *cli.Command) error {
	file, err := requireString(cmd, "file")
	if err != nil {
		return err
	}
	app, err := e.openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	fmt.Fprintf(e.stdout, "Watching '%s' (Ctrl-C to stop).\n", file)
	return app.Watch(ctx, file, func(report *models.UpdateReport, err error) {
		if err != nil {
			fmt.Fprintf(e.stderr, "update failed: %s\n", describe(err))
			return
		}
		fmt.Fprintf(e.stdout, "File '%s' updated.\nBackup: %s\n", report.Path, report.BackupFile)
	})
}

func (e *cliEnv) mcp(_ context.Context, cmd *cli.Command) error {
	app, err := e.openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.ServeMCP(version)
}

// exitCode maps an error returned by the root command to a process status.
func exitCode(err error) int {
	var ue usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}
