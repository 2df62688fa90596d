// Command draftctl inspects and manages saved drafts and published posts
// outside of the editor server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/debemdeboas/inkdraft/internal/config"
)

func main() {
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "draftctl",
		Usage: "Manage Inkdraft drafts and posts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   config.DefaultConfigFile,
				EnvVars: []string{"CONFIG_PATH"},
				Usage:   "Path to the YAML config file",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output (also set by NO_COLOR)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the saved draft of a profile",
				Flags:  []cli.Flag{profileFlag()},
				Action: ShowAction,
			},
			{
				Name:  "export",
				Usage: "Print the saved draft as Markdown",
				Flags: []cli.Flag{
					profileFlag(),
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write to a file instead of stdout"},
				},
				Action: ExportAction,
			},
			{
				Name:   "clear",
				Usage:  "Delete the saved draft of a profile",
				Flags:  []cli.Flag{profileFlag()},
				Action: ClearAction,
			},
			{
				Name:  "import",
				Usage: "Publish every .md file in a directory as a post",
				Flags: []cli.Flag{
					profileFlag(),
					&cli.StringFlag{Name: "path", Usage: "Directory containing .md files", Required: true},
				},
				Action: ImportAction,
			},
			{
				Name:   "keys",
				Usage:  "List the editor keyboard shortcuts",
				Action: KeysAction,
			},
			{
				Name:  "posts",
				Usage: "List published posts",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "profile", Aliases: []string{"p"}, Usage: "Only list posts of this profile"},
				},
				Action: PostsAction,
			},
		},
	}
}

func profileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "profile",
		Aliases:  []string{"p"},
		Usage:    "Profile id that owns the draft",
		Required: true,
	}
}
