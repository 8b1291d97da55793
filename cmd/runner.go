package main

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mfx/internal/formatter"
	"github.com/desertthunder/mfx/internal/repositories"
	"github.com/desertthunder/mfx/internal/router"
	"github.com/desertthunder/mfx/internal/services"
	"github.com/desertthunder/mfx/internal/session"
	"github.com/desertthunder/mfx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	input      *bufio.Reader
	store      session.Store
	sessions   *repositories.SessionRepository
	client     *services.Client
	navigator  *router.Navigator
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	// Store defaults to an empty in-memory store.
	Store session.Store
	// Sessions is optional; commands that list stored sessions need it.
	Sessions   *repositories.SessionRepository
	HTTPClient *http.Client
}

// NewRunner creates a new Runner with the provided configuration.
//
// The API client and navigator share the session store, and a rejected
// credential sends the navigator to the login view.
func NewRunner(opts RunnerOpts) (*Runner, error) {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = "config.toml"
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Store == nil {
		opts.Store = session.NewMemoryStore("")
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	client, err := services.NewClient(services.Options{
		BaseURL:           opts.Config.API.BaseURL,
		Store:             opts.Store,
		HTTPClient:        opts.HTTPClient,
		Logger:            opts.Logger,
		RequestsPerSecond: opts.Config.API.RequestsPerSecond,
		UserAgent:         opts.Config.API.UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	table, err := router.DefaultTable(opts.Config.Router.Landing)
	if err != nil {
		return nil, fmt.Errorf("failed to build route table: %w", err)
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      bufio.NewReader(opts.Input),
		store:      opts.Store,
		sessions:   opts.Sessions,
		client:     client,
		navigator:  router.NewNavigator(table, opts.Store, opts.Logger),
	}
	client.OnSessionExpired(r.sessionExpired)
	return r, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, groupsCommand, moviesCommand, favoritesCommand,
		routesCommand, navigateCommand, overviewCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// sessionExpired is subscribed to the client's expiry events.
func (r *Runner) sessionExpired(ev services.SessionExpired) {
	if strings.Contains(ev.Path, "/auth/token") {
		r.logger.Debug("login rejected, credential cleared")
	} else {
		r.logger.Warn("session expired", "method", ev.Method, "path", ev.Path, "status", ev.Status)
	}
	if _, err := r.navigator.ForceLogin("session expired"); err != nil {
		r.logger.Error("failed to return to login", "error", err)
	}
}

// requireRoute runs the navigation guard for path and refuses when it redirects to login.
func (r *Runner) requireRoute(path string) error {
	out, err := r.navigator.Navigate(path)
	if err != nil {
		return err
	}
	if out.Guarded && out.Route.Path == r.navigator.Table().Login() {
		return fmt.Errorf("%w: %s requires a session", shared.ErrNotAuthenticated, path)
	}
	return nil
}

// emit writes data as JSON or YAML when asked to, and otherwise renders tbl in the --format format.
func (r *Runner) emit(cmd *cli.Command, data any, tbl formatter.Table) error {
	switch {
	case cmd.Bool("json"):
		return r.writeJSON(data, cmd.Bool("pretty"))
	case cmd.Bool("yaml"):
		return r.writeYAML(data)
	}

	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	out, err := formatter.Render(tbl, f)
	if err != nil {
		return err
	}
	return r.writePlain("%s", out)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writeYAML(data any) error {
	output, err := shared.MarshalYAML(data)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// prompt writes label and reads one line of input.
func (r *Runner) prompt(label string) (string, error) {
	if err := r.writePlain("%s: ", label); err != nil {
		return "", err
	}
	line, err := r.input.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("%w: no %s given", shared.ErrMissingArgument, strings.ToLower(label))
	}
	return strings.TrimSpace(line), nil
}

// idArg parses the positional argument name as a positive integer.
func idArg(cmd *cli.Command, name string) (int, error) {
	raw := cmd.StringArg(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: <%s>", shared.ErrMissingArgument, name)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: <%s> must be a positive integer, got %q", shared.ErrInvalidArgument, name, raw)
	}
	return id, nil
}
