package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

type PagesCmd struct {
	Site string `type:"existingdir" help:"The built site directory" default:"./dist"`
}

type SitemapCmd struct {
	Site string `type:"existingdir" help:"The built site directory" default:"./dist"`
}

type ManifestCmd struct {
	Site string `type:"existingdir" help:"The built site directory" default:"./dist"`
}

type CLI struct {
	Pages    PagesCmd    `cmd:"" help:"Validate emitted verse pages and their navigation linkage"`
	Sitemap  SitemapCmd  `cmd:"" help:"Validate sitemap files against the emitted page tree"`
	Manifest ManifestCmd `cmd:"" help:"Re-hash every file listed in the checksum manifest"`
}

func main() {
	stop := make(chan bool)
	kongCtx := kong.Parse(
		&CLI{},
		kong.Name("verse-verify"),
		kong.Description("Verse Site Verification Tool"),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Bind(stop),
	)

	if err := kongCtx.Run(); err != nil {
		if _, ok := <-stop; ok {
			close(stop)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if _, ok := <-stop; ok {
		close(stop)
	}
}
