package main

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/delivery-admin/internal/auth"
	"github.com/angelmondragon/delivery-admin/internal/form"
	"github.com/angelmondragon/delivery-admin/internal/profile"
	"github.com/angelmondragon/delivery-admin/internal/settings"
	"github.com/angelmondragon/delivery-admin/internal/users"
	"github.com/angelmondragon/delivery-admin/pkg/enums"
	"github.com/spf13/cobra"
)

func (a *app) loginCommand() *cobra.Command {
	var identifier, password string
	cmd := action("login", "Sign in and keep the session", func(cmd *cobra.Command) error {
		user, err := a.auth.Login(cmd.Context(), identifier, password)
		if err != nil {
			return err
		}
		name := ""
		if user != nil {
			name = user.Name
		}
		fmt.Fprintf(a.out, "Signed in as %s\n", cell(name))
		return nil
	})
	cmd.PersistentPreRunE = a.before("login", false)
	cmd.Flags().StringVar(&identifier, "id", "", "email or phone number")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func (a *app) registerCommand() *cobra.Command {
	var req auth.RegisterRequest
	cmd := action("register", "Create an account", func(cmd *cobra.Command) error {
		user, err := a.auth.Register(cmd.Context(), req)
		if err != nil {
			return err
		}
		name := req.Name
		if user != nil && user.Name != "" {
			name = user.Name
		}
		fmt.Fprintf(a.out, "Registered %s, run `admin login` to sign in\n", name)
		return nil
	})
	cmd.PersistentPreRunE = a.before("register", false)
	cmd.Flags().StringVar(&req.Name, "name", "", "full name")
	cmd.Flags().StringVar(&req.Identifier, "id", "", "email or phone number")
	cmd.Flags().StringVar(&req.Password, "password", "", "password, at least 6 characters")
	return cmd
}

func (a *app) logoutCommand() *cobra.Command {
	cmd := action("logout", "Forget the stored session", func(cmd *cobra.Command) error {
		if err := a.auth.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Signed out")
		return nil
	})
	cmd.PersistentPreRunE = a.before("logout", false)
	return cmd
}

func (a *app) whoamiCommand() *cobra.Command {
	cmd := action("whoami", "Show the signed-in user", func(*cobra.Command) error {
		pairs := [][2]string{}
		if u := a.session.User(); u != nil {
			role := ""
			if u.Role != nil {
				role = u.Role.Role
			}
			pairs = append(pairs,
				[2]string{"ID", fmt.Sprint(u.ID)},
				[2]string{"Name", u.Name},
				[2]string{"Email", u.Email},
				[2]string{"Phone", u.Phone},
				[2]string{"Role", role},
			)
		}
		expires := "unknown"
		if at, ok := a.session.ExpiresAt(); ok {
			expires = at.Local().Format(time.RFC1123)
		}
		pairs = append(pairs, [2]string{"Token expires", expires})
		return printRecord(a.out, pairs)
	})
	cmd.PersistentPreRunE = a.before("whoami", true)
	return cmd
}

func (a *app) userCommands() []*cobra.Command {
	screen := func() *users.Screen { return users.NewScreen(a.users, a.runner) }

	var filter users.Filter
	var roleName string
	list := action("list", "List users", func(cmd *cobra.Command) error {
		ctx := cmd.Context()
		if roleName != "" {
			role, err := enums.ParseRole(roleName)
			if err != nil {
				return fmt.Errorf("%w: %v", errUsage, err)
			}
			found, err := a.users.ListByRole(ctx, role)
			if err != nil {
				return err
			}
			return printTable(a.out, userTable(found))
		}
		s := screen()
		defer s.Close()
		if err := s.SetFilter(ctx, filter); err != nil {
			return err
		}
		return printTable(a.out, userTable(s.Items()))
	})
	list.Flags().Int64Var(&filter.RoleID, "role", 0, "only users with this role id")
	list.Flags().StringVar(&filter.Search, "search", "", "search term")
	list.Flags().StringVar(&roleName, "role-name", "", "only users with this role name, e.g. store_owner")

	var public bool
	get := byID("get", "Show one user", func(cmd *cobra.Command, id int64) error {
		fetch := a.users.Get
		if public {
			fetch = a.users.PublicProfile
		}
		user, err := fetch(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printRecord(a.out, userRecord(*user))
	})
	get.Flags().BoolVar(&public, "public", false, "show the public profile instead")

	return []*cobra.Command{
		list,
		get,
		action("stats", "Show user statistics", func(cmd *cobra.Command) error {
			stats, err := a.users.Statistics(cmd.Context())
			if err != nil {
				return err
			}
			return printTable(a.out, statisticsTable(*stats))
		}),
		byID("delete", "Delete a user", func(cmd *cobra.Command, id int64) error {
			return screen().Delete(cmd.Context(), id)
		}),
		a.exporter("users.xlsx", func(ctx context.Context, path string) error {
			s := screen()
			defer s.Close()
			if err := s.Mount(ctx); err != nil {
				return err
			}
			var stats users.Statistics
			if loaded, _ := s.Stats.Data(); loaded != nil {
				stats = *loaded
			}
			return writeWorkbook(path, userTable(s.Items()), statisticsTable(stats))
		}),
	}
}

var settingsFields = []field[settings.Form]{
	textField("name-en", "name_en", "english name", func(f *settings.Form) *string { return &f.NameEn }),
	textField("name-ar", "name_ar", "arabic name", func(f *settings.Form) *string { return &f.NameAr }),
	textField("version", "version", "app version", func(f *settings.Form) *string { return &f.Version }),
	textField("description", "description", "description", func(f *settings.Form) *string { return &f.Description }),
	textField("url", "url", "site url", func(f *settings.Form) *string { return &f.URL }),
	textField("email", "email", "contact email", func(f *settings.Form) *string { return &f.Email }),
	textField("phone", "phone", "contact phone", func(f *settings.Form) *string { return &f.Phone }),
	textField("address", "address", "contact address", func(f *settings.Form) *string { return &f.Address }),
	textField("facebook", "facebook", "facebook link", func(f *settings.Form) *string { return &f.Social.Facebook }),
	textField("instagram", "instagram", "instagram link", func(f *settings.Form) *string { return &f.Social.Instagram }),
	textField("twitter", "twitter", "twitter link", func(f *settings.Form) *string { return &f.Social.Twitter }),
	textField("whatsapp", "whatsapp", "whatsapp link", func(f *settings.Form) *string { return &f.Social.Whatsapp }),
	textField("telegram", "telegram", "telegram link", func(f *settings.Form) *string { return &f.Social.Telegram }),
	textField("support-phone", "support_phone", "support phone", func(f *settings.Form) *string { return &f.Support.Phone }),
	textField("support-email", "support_email", "support email", func(f *settings.Form) *string { return &f.Support.Email }),
	textField("support-chat", "support_chat", "support chat link", func(f *settings.Form) *string { return &f.Support.Chat }),
	textField("support-address", "support_address", "support address", func(f *settings.Form) *string { return &f.Support.Address }),
	textField("support-hours", "support_hours", "support hours", func(f *settings.Form) *string { return &f.Support.Hours }),
	textField("support-whatsapp", "support_whatsapp", "support whatsapp", func(f *settings.Form) *string { return &f.Support.Whatsapp }),
	boolField("maintenance", "maintenance_mode", "maintenance mode, true or false", func(f *settings.Form) *bool { return &f.MaintenanceMode }),
	textField("message", "maintenance_message", "maintenance message", func(f *settings.Form) *string { return &f.MaintenanceMessage }),
	fileField("logo", "logo", "path to the logo image", func(f *settings.Form) *form.FileField { return &f.Logo }),
	fileField("banner", "banner", "path to the banner image", func(f *settings.Form) *form.FileField { return &f.Banner }),
}

var maintenanceFields = []field[settings.Form]{
	textField("message", "maintenance_message", "message shown while maintenance is on", func(f *settings.Form) *string { return &f.MaintenanceMessage }),
}

func (a *app) settingsCommands() []*cobra.Command {
	mounted := func(ctx context.Context) (*settings.Screen, error) {
		s := settings.NewScreen(a.settings, a.runner)
		if err := s.Mount(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	}

	update := action("update", "Create or update the settings", func(cmd *cobra.Command) error {
		ctx := cmd.Context()
		s, err := mounted(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.OpenEdit(); err != nil {
			return err
		}
		if err := applyFields(cmd.Flags(), s.Edit.Session(), settingsFields); err != nil {
			return err
		}
		return s.SubmitEdit(ctx)
	})
	bindFields(update.Flags(), settingsFields)

	maintenance := &cobra.Command{
		Use:   "maintenance on|off",
		Short: "Switch maintenance mode, on needs --message",
		Args:  onOrOff,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := mounted(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			if args[0] == "off" {
				return s.SetMaintenance(ctx, false)
			}
			if err := s.SetMaintenance(ctx, true); err != nil {
				return err
			}
			if err := applyFields(cmd.Flags(), s.Edit.Session(), maintenanceFields); err != nil {
				return err
			}
			return s.SubmitEdit(ctx)
		},
	}
	bindFields(maintenance.Flags(), maintenanceFields)

	return []*cobra.Command{
		action("show", "Show the settings", func(cmd *cobra.Command) error {
			s, err := mounted(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			current := s.Setting()
			if current == nil {
				fmt.Fprintln(a.out, "No settings yet, run `admin settings update` to create them")
				return nil
			}
			return printRecord(a.out, settingRecord(*current))
		}),
		update,
		maintenance,
	}
}

func onOrOff(cmd *cobra.Command, args []string) error {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		return fmt.Errorf("%w: %s needs on or off", errUsage, cmd.CommandPath())
	}
	return nil
}

var profileFields = []field[profile.Form]{
	textField("name", "name", "display name", func(f *profile.Form) *string { return &f.Name }),
	textField("email", "email", "email address", func(f *profile.Form) *string { return &f.Email }),
	textField("phone", "phone", "phone number", func(f *profile.Form) *string { return &f.Phone }),
	fileField("avatar", "avatar", "path to the avatar image", func(f *profile.Form) *form.FileField { return &f.Avatar }),
}

func (a *app) profileCommands() []*cobra.Command {
	mounted := func(ctx context.Context) (*profile.Screen, error) {
		s := profile.NewScreen(a.profile, a.session, a.runner)
		if err := s.Mount(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	}

	update := action("update", "Update your profile", func(cmd *cobra.Command) error {
		ctx := cmd.Context()
		s, err := mounted(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.OpenEdit(); err != nil {
			return err
		}
		if err := applyFields(cmd.Flags(), s.Edit.Session(), profileFields); err != nil {
			return err
		}
		return s.SubmitEdit(ctx)
	})
	bindFields(update.Flags(), profileFields)

	return []*cobra.Command{
		action("show", "Show your profile", func(cmd *cobra.Command) error {
			s, err := mounted(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			current := s.Profile()
			if current == nil {
				return profile.ErrNoProfile
			}
			return printRecord(a.out, profileRecord(*current))
		}),
		update,
	}
}
