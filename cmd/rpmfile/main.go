package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"github.com/ganboing/rpmfile/pkg/config"
	"github.com/ganboing/rpmfile/pkg/env"
	"github.com/ganboing/rpmfile/pkg/logger"
	"github.com/ganboing/rpmfile/pkg/rpmfile"
)

func main() {
	// Load environment variables for logger and config
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	logger.Init(env.LogLevel())

	extract := flag.Bool("x", false, "extract the archive contents instead of listing them")
	outDir := flag.String("C", "", "extraction directory (default: output_dir from config)")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [-x [-C dir]] file.rpm...\n", os.Args[0])
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "err", err)
	}
	logger.SetLevel(cfg.LogLevel)

	dir := cfg.OutputDir
	if *outDir != "" {
		dir = *outDir
	}

	for _, name := range flag.Args() {
		if err := run(name, *extract, dir); err != nil {
			logger.Fatal("Failed to process archive", "file", name, "err", err)
		}
	}
}

func run(name string, extract bool, dir string) error {
	f, err := rpmfile.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if extract {
		logger.Info("Extracting archive", "file", name, "dir", dir)
		return f.ExtractAll(afero.NewOsFs(), dir)
	}
	return list(f, name)
}

func list(f *rpmfile.File, name string) error {
	headers, err := f.Headers()
	if err != nil {
		return err
	}
	members, err := f.Members()
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s-%s-%s (%s, %s payload)\n", name,
		headers["name"], headers["version"], headers["release"],
		headers["arch"], headers["archive_compression"])

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, m := range members {
		fmt.Fprintf(w, "%o\t%d\t%s\n", m.Mode(), m.Size, m.Name)
	}
	return w.Flush()
}
