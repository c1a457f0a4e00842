// Package main is the setuid-root entry point of the playback capture wrapper.
// It lets an unprivileged user run the recording capture container for one
// validated recording, with the BigBlueButton data and log directories
// bind-mounted, and exits with the container runtime's status.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bigbluebutton/bbb-playback-capture-wrapper/internal/audit"
	"github.com/bigbluebutton/bbb-playback-capture-wrapper/internal/cli"
	"github.com/bigbluebutton/bbb-playback-capture-wrapper/internal/launcher"
	"github.com/bigbluebutton/bbb-playback-capture-wrapper/internal/logging"
	"github.com/bigbluebutton/bbb-playback-capture-wrapper/internal/privilege"
	"github.com/bigbluebutton/bbb-playback-capture-wrapper/internal/terminal"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

// Runner starts a plan and waits for it.
type Runner interface {
	Run(ctx context.Context, plan *launcher.Plan) (*launcher.Result, error)
}

// deps holds everything run needs from the outside world.
type deps struct {
	args        []string
	stderr      io.Writer
	credentials privilege.Source
	logger      *slog.Logger // console and syslog
	syslog      *slog.Logger // syslog only
	audit       *audit.Logger
	runID       string
	profile     func() (*launcher.Profile, error)
	resolve     func(*launcher.Profile) (string, error)
	restrict    func() error
	runner      Runner
}

func main() {
	os.Exit(realMain())
}

func realMain() int {
	runID := logging.GenerateRunID()

	detector := terminal.NewInteractiveDetector(os.Stderr, terminal.DetectorOptions{})
	loggers, err := logging.Setup(logging.Config{
		// argv[0] is chosen by the caller; the syslog tag must not be.
		Program:     cli.DefaultProgramName,
		RunID:       runID,
		Level:       slog.LevelInfo,
		Console:     os.Stderr,
		Interactive: detector.IsInteractive(),
		DialSyslog:  logging.DialSyslog,
		Hostname:    logging.Hostname(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		return exitFailure
	}
	defer func() {
		_ = loggers.Close()
	}()

	auditLogger := audit.NewAuditLogger(loggers.Audit)
	return run(context.Background(), deps{
		args:        os.Args,
		stderr:      os.Stderr,
		credentials: privilege.SystemSource{},
		logger:      loggers.Logger,
		syslog:      loggers.Audit,
		audit:       auditLogger,
		runID:       runID,
		profile:     launcher.DefaultProfile,
		resolve:     launcher.NewResolver(loggers.Logger).Resolve,
		restrict:    privilege.RestrictNewPrivileges,
		runner:      launcher.NewInvoker(loggers.Logger, auditLogger),
	})
}

// run performs the privilege check, argument validation and runtime
// invocation, strictly in that order, and returns the process exit code.
func run(ctx context.Context, d deps) int {
	fail := func(fe *logging.FatalError) int {
		fe.RunID = d.runID
		logging.HandleFatal(d.stderr, d.syslog, fe)
		return exitFailure
	}

	creds, err := privilege.Verify(d.credentials)
	d.audit.LogPrivilegeCheck(ctx, audit.Credentials(creds), err)
	if err != nil {
		return fail(&logging.FatalError{
			Type:      logging.ErrorTypePermission,
			Message:   permissionMessage(err),
			Component: "privilege",
			Err:       err,
		})
	}

	req, err := cli.Parse(d.args)
	if err != nil {
		var usageErr *cli.UsageError
		kind := "unknown"
		if errors.As(err, &usageErr) {
			kind = string(usageErr.Kind)
		}
		d.audit.LogRejectedInput(ctx, creds.Real, kind)
		return fail(&logging.FatalError{
			Type:      logging.ErrorTypeUsage,
			Message:   err.Error(),
			Component: "cli",
			Err:       err,
		})
	}

	profile, err := d.profile()
	if err != nil {
		return fail(&logging.FatalError{
			Type:      logging.ErrorTypeConfig,
			Message:   "Launch profile is invalid",
			Component: "launcher",
			Err:       err,
		})
	}

	path, err := d.resolve(profile)
	if err != nil {
		return fail(&logging.FatalError{
			Type:      logging.ErrorTypeLaunch,
			Message:   launchMessage(profile.Runtime.Name, err),
			Component: "launcher",
			Err:       err,
		})
	}

	if err := d.restrict(); err != nil {
		return fail(&logging.FatalError{
			Type:      logging.ErrorTypeSystemError,
			Message:   fmt.Sprintf("Failed to restrict privileges: %v", err),
			Component: "privilege",
			Err:       err,
		})
	}

	plan := launcher.NewPlan(profile, path, req.Stage, req.ID, creds.Real)
	d.logger.Debug("Invocation plan built",
		"stage", req.Stage.String(),
		"run_as_uid", creds.Real,
		"command", plan.String())

	result, err := d.runner.Run(ctx, plan)
	if err != nil {
		return fail(&logging.FatalError{
			Type:      logging.ErrorTypeLaunch,
			Message:   launchMessage(profile.Runtime.Name, err),
			Component: "launcher",
			Err:       err,
		})
	}

	if !result.Success() {
		return result.ProcessExitCode()
	}
	return exitSuccess
}

func permissionMessage(err error) string {
	switch {
	case errors.Is(err, privilege.ErrIdentityQueryFailed), errors.Is(err, privilege.ErrIdentityQueryUnsupported):
		return "Unable to verify process identity, refusing to continue"
	case errors.Is(err, privilege.ErrNotSetuidRoot):
		return "This application must be installed setuid root"
	case errors.Is(err, privilege.ErrRealIdentityIndistinguishable):
		return "Unable to determine real uid, please run as the bigbluebutton user"
	default:
		return err.Error()
	}
}

func launchMessage(runtime string, err error) string {
	var launchErr *launcher.LaunchError
	if errors.As(err, &launchErr) {
		return fmt.Sprintf("Failed to start %s (%s): %v", runtime, launchErr.Path, launchErr.Err)
	}
	return fmt.Sprintf("Failed to start %s: %v", runtime, err)
}
