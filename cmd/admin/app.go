package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/angelmondragon/delivery-admin/internal/areas"
	"github.com/angelmondragon/delivery-admin/internal/auth"
	"github.com/angelmondragon/delivery-admin/internal/dashboard"
	"github.com/angelmondragon/delivery-admin/internal/form"
	"github.com/angelmondragon/delivery-admin/internal/places"
	"github.com/angelmondragon/delivery-admin/internal/profile"
	"github.com/angelmondragon/delivery-admin/internal/session"
	"github.com/angelmondragon/delivery-admin/internal/settings"
	"github.com/angelmondragon/delivery-admin/internal/stores"
	"github.com/angelmondragon/delivery-admin/internal/storetypes"
	"github.com/angelmondragon/delivery-admin/internal/users"
	"github.com/angelmondragon/delivery-admin/pkg/apiclient"
	"github.com/angelmondragon/delivery-admin/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	errUsage     = errors.New("usage")
	errSignedOut = errors.New("not signed in, run `admin login` first")
)

type appParams struct {
	API     *apiclient.Client
	Session *session.Session
	Runner  *dashboard.Runner
	Logger  *logger.Logger
	Out     io.Writer
	// ErrOut receives usage text. Defaults to Out.
	ErrOut io.Writer
}

// app maps `admin <resource> <action>` onto the dashboard screens.
type app struct {
	out     io.Writer
	errOut  io.Writer
	logg    *logger.Logger
	session *session.Session
	runner  *dashboard.Runner
	auth    *auth.Service

	areas      *areas.Client
	places     *places.Client
	storeTypes *storetypes.Client
	stores     *stores.Client
	users      *users.Client
	settings   *settings.Client
	profile    *profile.Client
}

func newApp(p appParams) (*app, error) {
	if p.API == nil || p.Session == nil || p.Runner == nil {
		return nil, errors.New("newApp: nil dependency")
	}
	if p.Out == nil {
		p.Out = io.Discard
	}
	if p.ErrOut == nil {
		p.ErrOut = p.Out
	}
	if p.Logger == nil {
		p.Logger = logger.Nop()
	}
	authService, err := auth.NewService(p.API, p.Session)
	if err != nil {
		return nil, err
	}

	return &app{
		out:        p.Out,
		errOut:     p.ErrOut,
		logg:       p.Logger,
		session:    p.Session,
		runner:     p.Runner,
		auth:       authService,
		areas:      areas.NewClient(p.API),
		places:     places.NewClient(p.API),
		storeTypes: storetypes.NewClient(p.API),
		stores:     stores.NewClient(p.API),
		users:      users.NewClient(p.API),
		settings:   settings.NewClient(p.API),
		profile:    profile.NewClient(p.API),
	}, nil
}

// run executes one command line. The command tree is built fresh each time
// so flag values never carry over between runs.
func (a *app) run(ctx context.Context, args []string) error {
	if args == nil {
		args = []string{}
	}
	root := a.rootCommand()
	root.SetArgs(args)
	cmd, err := root.ExecuteContextC(ctx)
	if errors.Is(err, errUsage) && cmd != nil {
		fmt.Fprintln(a.errOut)
		fmt.Fprint(a.errOut, cmd.UsageString())
	}
	return a.report(err)
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Manage the delivery marketplace from the terminal",
		Args:          cobra.ArbitraryArgs,
		RunE:          unknownCommand,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})
	root.PersistentFlags().Bool("yes", false, "answer yes to every confirmation prompt")

	root.AddGroup(
		&cobra.Group{ID: "session", Title: "Session:"},
		&cobra.Group{ID: "resources", Title: "Resources:"},
	)
	for _, cmd := range []*cobra.Command{a.loginCommand(), a.registerCommand(), a.logoutCommand(), a.whoamiCommand()} {
		cmd.GroupID = "session"
		root.AddCommand(cmd)
	}
	root.AddCommand(
		a.group("areas", "Manage delivery areas", a.areaCommands()...),
		a.group("places", "Manage places", a.placeCommands()...),
		a.group("store-types", "Manage store types", a.storeTypeCommands()...),
		a.group("stores", "Manage stores", a.storeCommands()...),
		a.group("users", "Browse and remove users", a.userCommands()...),
		a.group("settings", "Edit the application settings", a.settingsCommands()...),
		a.group("profile", "Show or edit your own profile", a.profileCommands()...),
	)
	return root
}

// group is the parent command of one resource. Every action under it needs
// a signed-in session.
func (a *app) group(name, short string, actions ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:               name,
		Short:             short,
		GroupID:           "resources",
		Args:              cobra.ArbitraryArgs,
		RunE:              unknownCommand,
		PersistentPreRunE: a.before(name, true),
	}
	cmd.AddCommand(actions...)
	return cmd
}

// before prepares the context of a command: the resource log field, the
// --yes answer, and the session check when guarded.
func (a *app) before(resource string, guarded bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if guarded && !a.session.Authenticated() {
			return errSignedOut
		}
		ctx := a.logg.WithResource(cmd.Context(), resource)
		if yes, _ := cmd.Flags().GetBool("yes"); yes {
			ctx = withAssumeYes(ctx)
		}
		cmd.SetContext(ctx)
		return nil
	}
}

// report prints field errors and treats a declined prompt as a clean exit.
// Mutation failures were already toasted by the runner.
func (a *app) report(err error) error {
	var verr *form.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, dashboard.ErrNotConfirmed):
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	case errors.As(err, &verr):
		for _, name := range verr.Fields.Fields() {
			fmt.Fprintf(a.out, "  %s: %s\n", name, verr.Fields[name])
		}
	}
	return err
}

func unknownCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: %s needs a command", errUsage, cmd.CommandPath())
	}
	return fmt.Errorf("%w: unknown command %q for %s", errUsage, args[0], cmd.CommandPath())
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: unexpected argument %q for %s", errUsage, args[0], cmd.CommandPath())
	}
	return nil
}

// action builds a leaf command that takes flags only.
func action(use, short string, run func(cmd *cobra.Command) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  noArgs,
		RunE:  func(cmd *cobra.Command, _ []string) error { return run(cmd) },
	}
}

// byID builds a leaf command with a required --id flag.
func byID(use, short string, run func(cmd *cobra.Command, id int64) error) *cobra.Command {
	var id int64
	cmd := action(use, short, func(cmd *cobra.Command) error {
		if id <= 0 {
			return fmt.Errorf("%w: %s needs --id", errUsage, cmd.CommandPath())
		}
		return run(cmd, id)
	})
	cmd.Flags().Int64Var(&id, "id", 0, "entity id")
	return cmd
}

// exporter builds an export command writing to --out.
func (a *app) exporter(fallback string, write func(ctx context.Context, path string) error) *cobra.Command {
	var path string
	cmd := action("export", "Export the list to an xlsx workbook", func(cmd *cobra.Command) error {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("%w: %s needs --out", errUsage, cmd.CommandPath())
		}
		if err := write(cmd.Context(), path); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Exported to %s\n", path)
		return nil
	})
	cmd.Flags().StringVarP(&path, "out", "o", fallback, "xlsx file to write")
	return cmd
}
