package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/hondana/hondana/pkg/config"
	"github.com/hondana/hondana/pkg/events"
	"github.com/hondana/hondana/pkg/mediafile"
	"github.com/hondana/hondana/pkg/models"
	"github.com/hondana/hondana/pkg/parser"
	"github.com/hondana/hondana/pkg/scanner"
	"github.com/hondana/hondana/pkg/version"
	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
	"github.com/spf13/afero"
)

func main() {
	log := logger.New()

	log.Info("starting hondana scan", logger.Data{"version": version.Version})

	var opts struct {
		Libraries string `short:"l" long:"libraries" description:"Path to the library definitions file"`
		Workers   int    `short:"w" long:"workers" description:"Number of concurrent scan workers"`
	}

	_, err := flags.Parse(&opts)
	if err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}
	if opts.Libraries != "" {
		cfg.LibrariesFilePath = opts.Libraries
	}
	if opts.Workers > 0 {
		cfg.ScanWorkers = opts.Workers
	}

	libraries, err := config.LoadLibraries(cfg.LibrariesFilePath)
	if err != nil {
		log.Err(err).Fatal("libraries file error")
	}

	fsys := afero.NewOsFs()
	scn := scanner.New(fsys, parser.New(fsys), &events.LogSink{}, cfg.ScanWorkers)
	ctx := log.WithContext(context.Background())

	for _, library := range libraries {
		series, err := scn.ScanLibrary(ctx, library)
		if err != nil {
			log.Err(err).Fatal("scan error")
		}
		printSummary(library, series)
	}
}

func printSummary(library models.Library, series map[models.SeriesKey][]*mediafile.ParsedFile) {
	keys := make([]models.SeriesKey, 0, len(series))
	for key := range series {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Name < keys[j].Name })

	fmt.Printf("%s (%s): %d series\n", library.Name, library.Type, len(keys))
	for _, key := range keys {
		fmt.Printf("  - %s [%s]: %d files\n", key.Name, key.Format, len(series[key]))
	}
}
