// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// outputFlags are shared by every command that prints API data.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "yaml",
			Usage: "Output YAML",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Table format: text, markdown or csv",
			Value:   "text",
		},
	}
}

func idArgs(names ...string) []cli.Argument {
	args := make([]cli.Argument, len(names))
	for i, name := range names {
		args[i] = &cli.StringArg{Name: name}
	}
	return args
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and the session database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (default: config.toml or $MFX_CONFIG)",
			},
		},
		Action: r.Setup,
		Commands: []*cli.Command{
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent database migration",
				Action: r.SetupRollback,
			},
		},
	}
}

func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the MovieFinder session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Exchange email and password for a session",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Account email",
						Sources: cli.EnvVars("MFX_EMAIL"),
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password",
						Sources: cli.EnvVars("MFX_PASSWORD"),
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email"},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password"},
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Display name"},
					&cli.BoolFlag{Name: "login", Usage: "Log in after registering"},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "End the session and forget the local credential",
				Action: r.AuthLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Show the signed-in user",
				Flags:  outputFlags(),
				Action: r.AuthWhoami,
			},
			{
				Name:   "status",
				Usage:  "Inspect the stored credential and check it against the server",
				Flags:  outputFlags(),
				Action: r.AuthStatus,
			},
			{
				Name:  "import",
				Usage: "Import a session from a browser \"Copy as cURL\" command",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command string",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to file containing cURL command",
					},
				},
				Action: r.AuthImport,
			},
			{
				Name:   "sessions",
				Usage:  "List stored sessions by API origin",
				Flags:  outputFlags(),
				Action: r.AuthSessions,
			},
		},
	}
}

func groupsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "groups",
		Aliases: []string{"g"},
		Usage:   "Manage movie-matching groups",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List groups you belong to",
				Flags:  outputFlags(),
				Action: r.GroupsList,
			},
			{
				Name:      "create",
				Usage:     "Create a group",
				ArgsUsage: "<name>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags:     outputFlags(),
				Action:    r.GroupsCreate,
			},
			{
				Name:      "show",
				Usage:     "Show a group and its members",
				ArgsUsage: "<id>",
				Arguments: idArgs("id"),
				Flags:     outputFlags(),
				Action:    r.GroupsShow,
			},
			{
				Name:      "update",
				Usage:     "Rename a group or hand over admin",
				ArgsUsage: "<id>",
				Arguments: idArgs("id"),
				Flags: append(outputFlags(),
					&cli.StringFlag{Name: "name", Usage: "New group name", Required: true},
					&cli.IntFlag{Name: "admin", Usage: "User id of the new admin (keeps the current admin when unset)"},
				),
				Action: r.GroupsUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a group",
				ArgsUsage: "<id>",
				Arguments: idArgs("id"),
				Action:    r.GroupsDelete,
			},
			{
				Name:      "leave",
				Usage:     "Leave a group",
				ArgsUsage: "<id>",
				Arguments: idArgs("id"),
				Action:    r.GroupsLeave,
			},
			{
				Name:      "add-member",
				Usage:     "Add a friend to a group by friend code",
				ArgsUsage: "<id> <friend-code>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}, &cli.StringArg{Name: "friend-code"}},
				Action:    r.GroupsAddMember,
			},
			{
				Name:      "remove-member",
				Usage:     "Remove a member from a group",
				ArgsUsage: "<id> <user-id>",
				Arguments: idArgs("id", "user-id"),
				Action:    r.GroupsRemoveMember,
			},
			{
				Name:      "matches",
				Usage:     "Show movies the group agrees on",
				ArgsUsage: "<id>",
				Arguments: idArgs("id"),
				Flags:     outputFlags(),
				Action:    r.GroupsMatches,
			},
		},
	}
}

func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"m"},
		Usage:   "Browse and swipe movies",
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search movies by keywords",
				ArgsUsage: "<keywords...>",
				Flags:     outputFlags(),
				Action:    r.MoviesSearch,
			},
			{
				Name:      "show",
				Usage:     "Show one movie",
				ArgsUsage: "<id>",
				Arguments: idArgs("id"),
				Flags: append(outputFlags(),
					&cli.BoolFlag{Name: "open", Usage: "Open the poster in a browser"},
					&cli.StringFlag{Name: "save-poster", Usage: "Download the poster to this path"},
				),
				Action: r.MoviesShow,
			},
			{
				Name:   "random",
				Usage:  "Draw a movie to swipe on",
				Flags:  outputFlags(),
				Action: r.MoviesRandom,
			},
			{
				Name:   "genres",
				Usage:  "List genres",
				Flags:  outputFlags(),
				Action: r.MoviesGenres,
			},
			{
				Name:  "providers",
				Usage: "List streaming providers",
				Flags: append(outputFlags(),
					&cli.BoolFlag{Name: "popular", Usage: "Only the most used providers"},
				),
				Action: r.MoviesProviders,
			},
			{
				Name:      "like",
				Usage:     "Swipe right on a movie",
				ArgsUsage: "<id>",
				Arguments: idArgs("id"),
				Action:    r.MoviesLike,
			},
			{
				Name:      "dislike",
				Usage:     "Swipe left on a movie",
				ArgsUsage: "<id>",
				Arguments: idArgs("id"),
				Action:    r.MoviesDislike,
			},
		},
	}
}

func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage your favourite movies",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List favourites",
				Flags:  outputFlags(),
				Action: r.FavoritesList,
			},
			{
				Name:      "add",
				Usage:     "Add a movie to favourites",
				ArgsUsage: "<id>",
				Arguments: idArgs("id"),
				Action:    r.FavoritesAdd,
			},
			{
				Name:      "remove",
				Usage:     "Remove a movie from favourites",
				ArgsUsage: "<id>",
				Arguments: idArgs("id"),
				Action:    r.FavoritesRemove,
			},
		},
	}
}

func routesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "routes",
		Usage:  "Print the navigation route table",
		Flags:  outputFlags(),
		Action: r.Routes,
	}
}

func navigateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "navigate",
		Aliases:   []string{"nav"},
		Usage:     "Resolve a path through redirects and the session guard",
		ArgsUsage: "<path>",
		Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
		Flags:     outputFlags(),
		Action:    r.Navigate,
	}
}

func overviewCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "overview",
		Usage:  "Summarise your account, groups and favourites",
		Flags:  outputFlags(),
		Action: r.Overview,
	}
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export favourites and every group's matches to files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown or text",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: mfx_export_{epoch})",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent group exports",
				Value: 4,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Match requests per second",
				Value: 5,
			},
		},
		Action: r.Export,
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive terminal UI",
		Action: r.TUI,
	}
}
