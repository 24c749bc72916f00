// Command vectorize turns rtMRI recon volumes and their annotation tables
// into padded line-sample batches, stores them in SQLite and optionally
// writes diagnostic plots.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/banshee-data/articulation/internal/config"
	"github.com/banshee-data/articulation/internal/dataset"
	"github.com/banshee-data/articulation/internal/db"
	"github.com/banshee-data/articulation/internal/ingest"
	"github.com/banshee-data/articulation/internal/monitoring"
	"github.com/banshee-data/articulation/internal/plotting"
	"github.com/banshee-data/articulation/internal/version"
)

var (
	configPath     = flag.String("config", "", "Path to a JSON config file (defaults to built-in reference values)")
	baseDir        = flag.String("base", ingest.DefaultBase, "Subject data folder holding timestamps/ and 2drt/recon/")
	mapperPath     = flag.String("mapper", "", "Mapper CSV (default <base>/timestamps/mapper.csv)")
	dbPath         = flag.String("db", "vectors.db", "SQLite database for stored runs (empty to skip storing)")
	randomizations = flag.Int("randomizations", 0, "Jittered passes per recording (overrides config)")
	seed           = flag.Uint64("seed", 0, "Base random seed (overrides config)")
	workers        = flag.Int("workers", 0, "Parallel recordings during augmentation (overrides config)")
	maskPNG        = flag.String("mask-png", "", "Write the default sampling mask over the first recording to this PNG")
	chartHTML      = flag.String("chart-html", "", "Write per-label interval statistics to this HTML file")
	listRuns       = flag.Bool("list", false, "List stored runs and exit")
	showVersion    = flag.Bool("version", false, "Print version and exit")
)

type options struct {
	configPath string
	base       string
	mapperPath string
	dbPath     string
	maskPNG    string
	chartHTML  string

	// Overrides applied on top of the loaded config when non-nil.
	randomizations *int
	seed           *uint64
	workers        *int

	// readVolume replaces the HDF5 reader; nil uses ingest.ReadRecon.
	readVolume ingest.VolumeReader
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("vectorize"))
		return
	}

	if *listRuns {
		if err := printRuns(os.Stdout, *dbPath); err != nil {
			log.Fatalf("Failed to list runs: %v", err)
		}
		return
	}

	opts := options{
		configPath: *configPath,
		base:       *baseDir,
		mapperPath: *mapperPath,
		dbPath:     *dbPath,
		maskPNG:    *maskPNG,
		chartHTML:  *chartHTML,
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "randomizations":
			opts.randomizations = randomizations
		case "seed":
			opts.seed = seed
		case "workers":
			opts.workers = workers
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	run, err := runPipeline(ctx, opts)
	if err != nil {
		log.Fatalf("Vectorization failed: %v", err)
	}
	if run != nil {
		log.Printf("Stored run %s: %d rows of %d lines x %d samples x %d frames",
			run.ID, run.Size, run.Lines, run.Samples, run.MaxLength)
	}
}

func loadConfig(opts options) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(opts.configPath); err != nil {
			return nil, err
		}
	}
	if opts.randomizations != nil {
		cfg.Randomizations = opts.randomizations
	}
	if opts.seed != nil {
		cfg.Seed = opts.seed
	}
	if opts.workers != nil {
		cfg.Workers = opts.workers
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// runPipeline runs the whole pipeline. It returns the stored run, or nil when
// storing is disabled.
func runPipeline(ctx context.Context, opts options) (*db.Run, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	loader := ingest.NewLoader(opts.base)
	if opts.readVolume != nil {
		loader.ReadVolume = opts.readVolume
	}
	recs, err := loader.LoadMapper(opts.mapperPath)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("mapper lists no recordings")
	}

	builder, err := dataset.NewBuilder(recs, dataset.OptionsFromConfig(cfg))
	if err != nil {
		return nil, err
	}
	for _, s := range builder.Summary() {
		monitoring.Logf("[vectorize] label %-4s n=%-3d frames mean=%.1f sd=%.1f min=%.0f max=%.0f",
			s.Label, s.Count, s.Mean, s.StdDev, s.Min, s.Max)
	}

	set, err := builder.Default()
	if err != nil {
		return nil, err
	}
	jittered, err := builder.RandomizedParallel(ctx, cfg.GetSeed(), cfg.GetRandomizations(), cfg.Jitter(), cfg.GetWorkers())
	if err != nil {
		return nil, err
	}
	set.Append(jittered)
	if set.Len() == 0 {
		return nil, fmt.Errorf("no valid intervals in %d recordings", len(recs))
	}

	batch, err := set.Assemble(builder.MaxFrames())
	if err != nil {
		return nil, err
	}
	monitoring.Logf("[vectorize] assembled %d rows, shape %v", batch.Size, batch.Shape())

	if opts.maskPNG != "" {
		g, err := builder.DefaultGeometry()
		if err != nil {
			return nil, err
		}
		frame := 0
		if ivs := builder.Vectorizers()[0].Intervals(); len(ivs) > 0 {
			frame = ivs[0].FirstFrame
		}
		if err := plotting.SaveMaskPNG(opts.maskPNG, recs[0].Volume, frame, g); err != nil {
			return nil, err
		}
		monitoring.Logf("[vectorize] wrote %s", opts.maskPNG)
	}

	if opts.chartHTML != "" {
		if err := writeChart(opts.chartHTML, builder.Summary(), fmt.Sprintf("%d recordings, %d rows", len(recs), batch.Size)); err != nil {
			return nil, err
		}
		monitoring.Logf("[vectorize] wrote %s", opts.chartHTML)
	}

	if opts.dbPath == "" {
		return nil, nil
	}
	store, err := db.NewDB(opts.dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return store.SaveRun(db.Run{
		Seed:           cfg.GetSeed(),
		Randomizations: cfg.GetRandomizations(),
		Jitter:         cfg.Jitter(),
		ConfigJSON:     string(cfgJSON),
	}, set, batch)
}

func writeChart(path string, stats []dataset.LabelStats, subtitle string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := plotting.WriteLabelChart(f, stats, subtitle); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printRuns(w io.Writer, path string) error {
	store, err := db.NewDB(path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tCREATED\tSEED\tPASSES\tROWS\tSHAPE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%dx%dx%d\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Seed, r.Randomizations,
			r.Size, r.Lines, r.Samples, r.MaxLength)
	}
	return tw.Flush()
}
