package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/netip"

	"github.com/Flarenzy/labcam/internal/auth"
	"github.com/Flarenzy/labcam/internal/db"
	"github.com/Flarenzy/labcam/internal/discovery"
	"github.com/Flarenzy/labcam/internal/domain"
	"github.com/Flarenzy/labcam/internal/nvr"
	"github.com/Flarenzy/labcam/internal/terminal"
	"github.com/Flarenzy/labcam/internal/workflow"
)

var ErrUsage = errors.New("usage error")

const Usage = `usage:
  labcam add [-lab NAME]   interactive add-camera session
  labcam check IP          validate one address against the NVR
  labcam labs              list labs (requires DB_CONN)
  labcam discover CIDR     scan an IPv4 prefix for NVR-known cameras`

type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run executes the command named by args[0].
func Run(ctx context.Context, cfg Config, args []string, streams Streams) error {
	if len(args) == 0 {
		return ErrUsage
	}

	newLogger := NewLogger
	if args[0] == "add" {
		newLogger = NewSessionLogger
	}
	logger, closeLog, err := newLogger(cfg, streams.Err)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeLog()
	}()

	r := &runner{cfg: cfg, logger: logger, streams: streams}
	switch args[0] {
	case "add":
		return r.add(ctx, args[1:])
	case "check":
		return r.check(ctx, args[1:])
	case "labs":
		return r.labs(ctx, args[1:])
	case "discover":
		return r.discover(ctx, args[1:])
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
}

type runner struct {
	cfg     Config
	logger  *slog.Logger
	streams Streams
}

func (r *runner) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(r.streams.Err)
	lab := fs.String("lab", r.cfg.LabName, "lab the cameras are added to")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	registry, err := r.registry()
	if err != nil {
		return err
	}

	current := domain.LabIdentifier(*lab)
	if r.cfg.DSN != "" {
		labs, closeDB, err := r.labService(ctx)
		if err != nil {
			return err
		}
		current, err = labs.ResolveLab(ctx, current)
		closeDB()
		if err != nil {
			return err
		}
	}

	session := terminal.NewSession(r.streams.In, r.streams.Out)
	opts := workflow.DefaultOptions()
	opts.Logger = r.logger
	opts.NotFoundExpiry = r.cfg.NotFoundExpiry
	opts.Lab = current
	if r.cfg.DropStale {
		opts.RacePolicy = workflow.DropStale
	}

	controller := workflow.New(registry, session, opts)
	dispose := controller.Bind(ctx, session)
	defer dispose()

	if current != "" {
		_, _ = fmt.Fprintf(r.streams.Out, "Adding cameras to lab %s.\n", current)
	}
	return session.Run(ctx)
}

func (r *runner) check(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: check takes exactly one address", ErrUsage)
	}

	ip := domain.NormalizeAddress(args[0])
	if ip == "" {
		_, _ = fmt.Fprintln(r.streams.Out, workflow.MsgEmptyAddress)
		return fmt.Errorf("%w: empty address", domain.ErrInvalidInput)
	}
	if domain.ValidateAddress(ip) != domain.Valid {
		_, _ = fmt.Fprintln(r.streams.Out, workflow.MsgInvalidAddress)
		return fmt.Errorf("%w: malformed address %q", domain.ErrInvalidInput, ip)
	}

	registry, err := r.registry()
	if err != nil {
		return err
	}

	lookup, err := registry.CheckCamera(ctx, ip)
	if err != nil {
		_, _ = fmt.Fprintln(r.streams.Out, workflow.MsgServerError)
		return err
	}
	if !lookup.Found {
		_, _ = fmt.Fprintln(r.streams.Out, workflow.MsgCameraNotFound)
		return fmt.Errorf("%w: camera %s", domain.ErrNotFound, ip)
	}

	_, _ = fmt.Fprintln(r.streams.Out, workflow.MsgCameraFound)
	_, _ = fmt.Fprintln(r.streams.Out, lookup.DeviceInfo.String())
	return nil
}

func (r *runner) labs(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: labs takes no arguments", ErrUsage)
	}

	labs, closeDB, err := r.labService(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	names, err := labs.ListLabs(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		_, _ = fmt.Fprintln(r.streams.Out, name)
	}
	return nil
}

func (r *runner) discover(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: discover takes exactly one prefix", ErrUsage)
	}
	prefix, err := netip.ParsePrefix(args[0])
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	registry, err := r.registry()
	if err != nil {
		return err
	}

	found, err := discovery.NewScanner(registry, r.cfg.ScanConcurrency, r.logger).Scan(ctx, prefix)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		_, _ = fmt.Fprintln(r.streams.Out, "No cameras found.")
		return nil
	}
	for _, cam := range found {
		_, _ = fmt.Fprintf(r.streams.Out, "%s\t%s\n", cam.IP, cam.DeviceInfo)
	}
	return nil
}

func (r *runner) registry() (domain.CameraRegistry, error) {
	tokens, err := auth.NewTokenSource(auth.Config{Token: r.cfg.NVRToken})
	if err != nil {
		return nil, err
	}
	if p, ok := auth.PrincipalOf(tokens); ok {
		r.logger.Debug("using nvr token", "subject", p.Subject, "expires_at", p.ExpiresAt)
	}

	client, err := nvr.NewClient(nvr.Config{
		BaseURL:   r.cfg.NVRURL,
		Timeout:   r.cfg.RequestTimeout,
		LegacyAdd: r.cfg.LegacyAdd,
		Tokens:    tokens,
	}, nil)
	if err != nil {
		return nil, err
	}
	return domain.NewLoggingCameraRegistry(r.logger, client), nil
}

func (r *runner) labService(ctx context.Context) (domain.LabService, func(), error) {
	if r.cfg.DSN == "" {
		return nil, nil, fmt.Errorf("%w: DB_CONN is not set", domain.ErrInvalidInput)
	}
	pool, err := db.NewPool(ctx, r.cfg.DSN)
	if err != nil {
		return nil, nil, err
	}

	svc := domain.NewLoggingLabService(r.logger, domain.NewLabService(db.NewLabRepository(pool), domain.LabIdentifier(r.cfg.DefaultLab)))
	return svc, pool.Close, nil
}
