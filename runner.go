package main

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/llehouerou/wavesdb/internal/config"
	"github.com/llehouerou/wavesdb/internal/errmsg"
	"github.com/llehouerou/wavesdb/internal/index"
	"github.com/llehouerou/wavesdb/internal/locate"
	"github.com/llehouerou/wavesdb/internal/logging"
	"github.com/llehouerou/wavesdb/internal/output"
	"github.com/llehouerou/wavesdb/internal/playlists"
	"github.com/llehouerou/wavesdb/internal/state"
	"github.com/llehouerou/wavesdb/internal/tagtracker"
)

// Runner holds the dependencies shared by the CLI commands. The database
// and the index are opened on first use.
type Runner struct {
	config  *config.Config
	logger  *log.Logger
	output  io.Writer
	state   *state.Manager
	index   *index.Index
	tracker *tagtracker.Tracker
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *config.Config
	Logger *log.Logger
	Output io.Writer
	State  *state.Manager
}

// NewRunner creates a new Runner with the provided options.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger, _ = logging.New(nil, "")
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Runner{
		config:  opts.Config,
		logger:  opts.Logger,
		output:  opts.Output,
		state:   opts.State,
		tracker: tagtracker.New(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		scanCommand, searchCommand, findCommand, listCommand,
		listAllCommand, listAllInfoCommand, addCommand, playlistAddCommand,
		queueCommand, playlistsCommand, statsCommand, memstatCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

// setup loads the configuration and applies the global flags. It is a
// no-op once done.
func (r *Runner) setup(cmd *cli.Command) error {
	if r.config == nil {
		cfg, err := config.Load(cmd.String("config"))
		if err != nil {
			return fail(errmsg.OpConfigLoad, "", err)
		}
		r.config = cfg
	}
	if db := cmd.String("db"); db != "" {
		r.config.DBPath = db
	}

	level := r.config.LogLevel
	if l := cmd.String("log-level"); l != "" {
		level = l
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return fail(errmsg.OpConfigLoad, "", err)
	}
	r.logger.SetLevel(lvl)
	return nil
}

// open sets up the runner and loads the database and index.
func (r *Runner) open(ctx context.Context, cmd *cli.Command) error {
	if err := r.setup(cmd); err != nil {
		return err
	}
	if r.state == nil {
		m, err := state.Open(r.config.DBPath)
		if err != nil {
			return fail(errmsg.OpDBOpen, r.config.DBPath, err)
		}
		r.state = m
		r.logger.Debug("database opened", "path", m.Path())
	}
	if r.index == nil {
		idx, err := index.Load(ctx, r.state.DB())
		if err != nil {
			return fail(errmsg.OpLibraryLoad, "", err)
		}
		r.index = idx
		r.logger.Debug("index loaded", "songs", idx.Len())
	}
	return nil
}

// Close releases the database.
func (r *Runner) Close(context.Context, *cli.Command) error {
	if r.state == nil {
		return nil
	}
	err := r.state.Close()
	r.state = nil
	return err
}

// sink returns the result sink for the runner's output.
func (r *Runner) sink(cmd *cli.Command) output.Sink {
	return output.New(r.output, cmd.Bool("plain"))
}

func (r *Runner) store() *playlists.Store {
	return playlists.New(r.state.DB(), r.index)
}

func (r *Runner) refSize() int {
	if r.config.RefSize > 0 {
		return r.config.RefSize
	}
	return locate.DefaultRefSize
}

// cmdError carries the failed operation for the user-facing message.
type cmdError struct {
	op      errmsg.Op
	subject string
	err     error
}

func (e *cmdError) Error() string { return errmsg.FormatWith(e.op, e.subject, e.err) }

func (e *cmdError) Unwrap() error { return e.err }

func fail(op errmsg.Op, subject string, err error) error {
	return &cmdError{op: op, subject: subject, err: err}
}
