// Command geoterm covers WKT polygons with cells, prints their tokens and
// terms, and maintains a term index snapshot in a local directory, S3 or
// MinIO.
//
// Flags default to GEOTERM_* environment variables; a .env file in the
// working directory is loaded first.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hupe1980/geoterm"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := parseFlags(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "geoterm:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, stdin io.Reader, stdout, stderr io.Writer) error {
	switch cfg.command {
	case "cover", "ids", "index-terms", "query-terms", "wkt", "centroid":
		if len(cfg.args) != 1 {
			return fmt.Errorf("%s: expected <wkt>", cfg.command)
		}
		text, err := readWKT(cfg.args[0], stdin)
		if err != nil {
			return err
		}
		p, err := process(text, cfg)
		if err != nil {
			return err
		}
		return printCovering(stdout, cfg.command, p)
	case "single-res":
		if len(cfg.args) != 2 {
			return errors.New("single-res: expected <level> <wkt>")
		}
		level, err := strconv.Atoi(cfg.args[0])
		if err != nil {
			return fmt.Errorf("single-res: level: %w", err)
		}
		text, err := readWKT(cfg.args[1], stdin)
		if err != nil {
			return err
		}
		p, err := process(text, cfg)
		if err != nil {
			return err
		}
		tokens, err := p.SingleResolutionTokens(level)
		if err != nil {
			return err
		}
		return printLines(stdout, tokens)
	case "token":
		if len(cfg.args) == 0 {
			return errors.New("token: expected at least one token")
		}
		for _, tok := range cfg.args {
			dec, err := geoterm.TokenToDecimal(tok)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s\t%s\n", tok, dec)
		}
		return nil
	case "index", "remove", "search":
		return runIndex(ctx, cfg, stdin, stdout, stderr)
	default:
		return fmt.Errorf("unknown command %q", cfg.command)
	}
}

func readWKT(arg string, stdin io.Reader) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func process(text string, cfg Config) (*geoterm.Processor, error) {
	p := geoterm.NewProcessor()
	if !p.AddWKT(text, cfg.coverConfig()) {
		return nil, p.Err()
	}
	return p, nil
}

func printCovering(w io.Writer, command string, p *geoterm.Processor) error {
	switch command {
	case "cover":
		tokens, levels, areas := p.Tokens(), p.Levels(), p.CellAreas()
		for i := range tokens {
			fmt.Fprintf(w, "%s\t%d\t%.3f\n", tokens[i], levels[i], areas[i])
		}
		fmt.Fprintf(w, "# cells=%d covering_m2=%.3f polygon_m2=%.3f\n", len(tokens), p.CoveringArea(), p.PolygonAreaM2())
		return nil
	case "ids":
		return printLines(w, p.DecimalIDs())
	case "index-terms":
		return printLines(w, p.IndexTerms())
	case "query-terms":
		return printLines(w, p.QueryTerms())
	case "wkt":
		_, err := fmt.Fprintln(w, p.CoveringWKT())
		return err
	case "centroid":
		c, err := p.Centroid()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, c)
		return err
	}
	return fmt.Errorf("unknown command %q", command)
}

func printLines(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// runIndex loads the snapshot, applies the command and saves it again when
// it changed.
func runIndex(ctx context.Context, cfg Config, stdin io.Reader, stdout, stderr io.Writer) error {
	store, err := cfg.store(ctx)
	if err != nil {
		return err
	}
	opts, err := cfg.engineOptions(store, cfg.logger(stderr))
	if err != nil {
		return err
	}
	eng, err := geoterm.New(opts...)
	if err != nil {
		return err
	}
	if err := eng.Load(ctx); err != nil && !errors.Is(err, geoterm.ErrNotFound) {
		return err
	}

	switch cfg.command {
	case "index":
		if len(cfg.args) != 2 {
			return errors.New("index: expected <key> <wkt>")
		}
		text, err := readWKT(cfg.args[1], stdin)
		if err != nil {
			return err
		}
		if err := eng.Index(ctx, cfg.args[0], text); err != nil {
			return err
		}
	case "remove":
		if len(cfg.args) != 1 {
			return errors.New("remove: expected <key>")
		}
		if err := eng.Remove(ctx, cfg.args[0]); err != nil {
			return err
		}
	case "search":
		if len(cfg.args) != 1 {
			return errors.New("search: expected <wkt>")
		}
		text, err := readWKT(cfg.args[0], stdin)
		if err != nil {
			return err
		}
		keys, err := eng.Search(ctx, text)
		if err != nil {
			return err
		}
		return printLines(stdout, keys)
	}

	_, err = eng.Save(ctx)
	return err
}
