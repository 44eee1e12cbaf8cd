package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/hupe1980/geoterm"
	"github.com/hupe1980/geoterm/blobstore"
	miniostore "github.com/hupe1980/geoterm/blobstore/minio"
	s3store "github.com/hupe1980/geoterm/blobstore/s3"
	"github.com/hupe1980/geoterm/internal/compress"
	"github.com/hupe1980/geoterm/terms"
)

// Config holds the global flags. Every flag defaults to a GEOTERM_*
// environment variable.
type Config struct {
	minLevel  int
	maxLevel  int
	levelMod  int
	maxCells  int
	cellLimit int

	dataDir     string
	s3Bucket    string
	s3Prefix    string
	s3Region    string
	s3Endpoint  string
	minioURL    string
	minioKey    string
	minioSecret string
	minioSecure bool
	snapshot    string
	compression string
	cacheBlocks int
	ioLimit     int64
	ioParallel  int64

	logLevel string
	logJSON  bool

	command string
	args    []string
}

type getenvFunc func(string) string

func envString(getenv getenvFunc, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(getenv getenvFunc, key string, def int) int {
	if v, err := strconv.Atoi(getenv(key)); err == nil {
		return v
	}
	return def
}

func envBool(getenv getenvFunc, key string, def bool) bool {
	if v, err := strconv.ParseBool(getenv(key)); err == nil {
		return v
	}
	return def
}

var errUsage = errors.New("usage")

// parseFlags parses the global flags followed by the command and its
// arguments.
func parseFlags(args []string, getenv getenvFunc, stderr io.Writer) (Config, error) {
	d := terms.DefaultOptions()

	var cfg Config
	fs := flag.NewFlagSet("geoterm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(fs) }

	fs.IntVar(&cfg.minLevel, "min-level", envInt(getenv, "GEOTERM_MIN_LEVEL", d.MinLevel), "coarsest cell level")
	fs.IntVar(&cfg.maxLevel, "max-level", envInt(getenv, "GEOTERM_MAX_LEVEL", d.MaxLevel), "finest cell level")
	fs.IntVar(&cfg.levelMod, "level-mod", envInt(getenv, "GEOTERM_LEVEL_MOD", d.LevelMod), "level stride (1, 2 or 3)")
	fs.IntVar(&cfg.maxCells, "max-cells", envInt(getenv, "GEOTERM_MAX_CELLS", 0), "cell budget (0 = default)")
	fs.IntVar(&cfg.cellLimit, "cell-limit", envInt(getenv, "GEOTERM_CELL_LIMIT", 0), "reject polygons needing more than this multiple of the budget at min-level (0 = default, <0 = off)")

	fs.StringVar(&cfg.dataDir, "data-dir", envString(getenv, "GEOTERM_DATA_DIR", "./data"), "local snapshot directory")
	fs.StringVar(&cfg.s3Bucket, "s3-bucket", envString(getenv, "GEOTERM_S3_BUCKET", ""), "store snapshots in this S3 bucket")
	fs.StringVar(&cfg.s3Prefix, "s3-prefix", envString(getenv, "GEOTERM_S3_PREFIX", ""), "key prefix inside the bucket")
	fs.StringVar(&cfg.s3Region, "s3-region", envString(getenv, "GEOTERM_S3_REGION", ""), "S3 region")
	fs.StringVar(&cfg.s3Endpoint, "s3-endpoint", envString(getenv, "GEOTERM_S3_ENDPOINT", ""), "custom S3 endpoint")
	fs.StringVar(&cfg.minioURL, "minio-endpoint", envString(getenv, "GEOTERM_MINIO_ENDPOINT", ""), "store snapshots on this MinIO endpoint")
	fs.StringVar(&cfg.minioKey, "minio-access-key", envString(getenv, "GEOTERM_MINIO_ACCESS_KEY", ""), "MinIO access key")
	fs.StringVar(&cfg.minioSecret, "minio-secret-key", envString(getenv, "GEOTERM_MINIO_SECRET_KEY", ""), "MinIO secret key")
	fs.BoolVar(&cfg.minioSecure, "minio-secure", envBool(getenv, "GEOTERM_MINIO_SECURE", true), "use TLS for MinIO")
	fs.StringVar(&cfg.snapshot, "snapshot", envString(getenv, "GEOTERM_SNAPSHOT", geoterm.DefaultSnapshotName), "snapshot blob name")
	fs.StringVar(&cfg.compression, "compression", envString(getenv, "GEOTERM_COMPRESSION", compress.ZSTD.String()), "snapshot compression (none, lz4, zstd)")
	fs.Int64Var(&cfg.ioLimit, "io-limit", int64(envInt(getenv, "GEOTERM_IO_LIMIT", 0)), "remote I/O limit in bytes per second (0 = unlimited)")
	fs.Int64Var(&cfg.ioParallel, "io-concurrency", int64(envInt(getenv, "GEOTERM_IO_CONCURRENCY", 0)), "remote requests in flight (0 = unlimited)")
	fs.IntVar(&cfg.cacheBlocks, "cache-blocks", envInt(getenv, "GEOTERM_CACHE_BLOCKS", 0), "cache remote reads in this many blocks (0 = off)")

	fs.StringVar(&cfg.logLevel, "log-level", envString(getenv, "GEOTERM_LOG_LEVEL", "warn"), "log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.logJSON, "log-json", envBool(getenv, "GEOTERM_LOG_JSON", false), "log as JSON")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return cfg, errUsage
	}
	cfg.command = fs.Arg(0)
	cfg.args = fs.Args()[1:]
	return cfg, nil
}

func printUsage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, "usage: geoterm [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  cover <wkt>              covering tokens with level and area in m²")
	fmt.Fprintln(w, "  ids <wkt>                covering cell ids in decimal")
	fmt.Fprintln(w, "  index-terms <wkt>        index terms of the covering")
	fmt.Fprintln(w, "  query-terms <wkt>        query terms of the covering")
	fmt.Fprintln(w, "  wkt <wkt>                covering as MULTIPOLYGON")
	fmt.Fprintln(w, "  centroid <wkt>           covering centroid as POINT")
	fmt.Fprintln(w, "  single-res <level> <wkt> covering tokens at one level")
	fmt.Fprintln(w, "  token <token>...         decimal ids of tokens")
	fmt.Fprintln(w, "  index <key> <wkt>        add a polygon to the snapshot")
	fmt.Fprintln(w, "  remove <key>             remove a document from the snapshot")
	fmt.Fprintln(w, "  search <wkt>             keys intersecting the polygon")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "A <wkt> argument of - is read from stdin.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "flags:")
	fs.PrintDefaults()
}

func (c Config) coverConfig() geoterm.CoverConfig {
	return geoterm.CoverConfig{
		MinLevel: c.minLevel,
		MaxLevel: c.maxLevel,
		LevelMod: c.levelMod,
		MaxCells: c.maxCells,

		CellLimitFactor: c.cellLimit,
	}
}

func (c Config) termOptions() terms.Options {
	o := terms.DefaultOptions()
	o.MinLevel, o.MaxLevel, o.LevelMod = c.minLevel, c.maxLevel, c.levelMod
	if c.maxCells > 0 {
		o.MaxCellsIndex, o.MaxCellsQuery = c.maxCells, c.maxCells
	}
	return o
}

func (c Config) logger(stderr io.Writer) *geoterm.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.logLevel)); err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.logJSON {
		return geoterm.NewLogger(slog.NewJSONHandler(stderr, opts))
	}
	return geoterm.NewLogger(slog.NewTextHandler(stderr, opts))
}

// store opens the snapshot store: MinIO, S3 or a local directory, in that
// order of preference.
func (c Config) store(ctx context.Context) (blobstore.BlobStore, error) {
	var (
		store  blobstore.BlobStore
		remote bool
	)
	switch {
	case c.minioURL != "":
		if c.s3Bucket == "" {
			return nil, errors.New("minio endpoint requires -s3-bucket")
		}
		s, err := miniostore.Connect(miniostore.Config{
			Endpoint:  c.minioURL,
			AccessKey: c.minioKey,
			SecretKey: c.minioSecret,
			Region:    c.s3Region,
			Secure:    c.minioSecure,
			Bucket:    c.s3Bucket,
			Prefix:    c.s3Prefix,
		})
		if err != nil {
			return nil, err
		}
		store, remote = s, true
	case c.s3Bucket != "":
		var opts []s3store.Option
		if c.s3Prefix != "" {
			opts = append(opts, s3store.WithPrefix(c.s3Prefix))
		}
		if c.s3Region != "" {
			opts = append(opts, s3store.WithRegion(c.s3Region))
		}
		if c.s3Endpoint != "" {
			opts = append(opts, s3store.WithEndpoint(c.s3Endpoint))
		}
		s, err := s3store.New(ctx, c.s3Bucket, opts...)
		if err != nil {
			return nil, err
		}
		store, remote = s, true
	default:
		if err := os.MkdirAll(c.dataDir, 0o755); err != nil {
			return nil, err
		}
		store = blobstore.NewLocalStore(c.dataDir)
	}

	if remote && (c.ioLimit > 0 || c.ioParallel > 0) {
		store = blobstore.NewThrottledStore(store, blobstore.ThrottleConfig{
			MaxConcurrent:  c.ioParallel,
			BytesPerSecond: c.ioLimit,
		})
	}
	if remote && c.cacheBlocks > 0 {
		store = blobstore.NewCachingStore(store, c.cacheBlocks, blobstore.DefaultBlockSize)
	}
	return store, nil
}

func (c Config) engineOptions(store blobstore.BlobStore, logger *geoterm.Logger) ([]geoterm.Option, error) {
	ct, err := compress.ParseType(strings.ToLower(c.compression))
	if err != nil {
		return nil, err
	}
	return []geoterm.Option{
		geoterm.WithTerms(c.termOptions()),
		geoterm.WithStore(store),
		geoterm.WithSnapshotName(c.snapshot),
		geoterm.WithCompression(ct),
		geoterm.WithCellLimitFactor(c.cellLimit),
		geoterm.WithLogger(logger),
	}, nil
}
