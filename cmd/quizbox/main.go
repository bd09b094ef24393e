package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-quizbox"
	"github.com/goliatone/go-quizbox/internal/domain"
	"github.com/joho/godotenv"
)

const usage = `usage: quizbox [-config file] [-env file] <command> [flags]

commands:
  migrate                      create the catalog schema
  seed -file fixtures.yaml     insert fixture content
  bulk -kind K -action A -ids  apply a bulk status action
  counts -kind K               print the status tally`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("quizbox: %v", err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	global := flag.NewFlagSet("quizbox", flag.ContinueOnError)
	configPath := global.String("config", "", "Path to a YAML configuration file")
	envPath := global.String("env", ".env", "Path to a dotenv file applied before QUIZBOX_* overrides")
	global.SetOutput(io.Discard)
	if err := global.Parse(args); err != nil {
		return fmt.Errorf("%w\n%s", err, usage)
	}

	rest := global.Args()
	if len(rest) == 0 {
		return errors.New(usage)
	}

	cfg, err := loadConfig(*configPath, *envPath)
	if err != nil {
		return err
	}

	module, err := quizbox.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	switch name, cmdArgs := rest[0], rest[1:]; name {
	case "migrate":
		if err := module.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		return writeJSON(out, map[string]any{"migrated": true})
	case "seed":
		return runSeed(ctx, module, cmdArgs, out)
	case "bulk":
		return runBulk(ctx, module, cmdArgs, out)
	case "counts":
		return runCounts(ctx, module, cmdArgs, out)
	default:
		return fmt.Errorf("unknown command %q\n%s", name, usage)
	}
}

func loadConfig(configPath, envPath string) (quizbox.Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return quizbox.Config{}, fmt.Errorf("load env file: %w", err)
		}
	}

	cfg := quizbox.DefaultConfig()
	if configPath != "" {
		loaded, err := quizbox.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func runSeed(ctx context.Context, module *quizbox.Module, args []string, out io.Writer) error {
	fset := flag.NewFlagSet("seed", flag.ContinueOnError)
	file := fset.String("file", "", "Path to a YAML fixtures file")
	fset.SetOutput(io.Discard)
	if err := fset.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return errors.New("seed: -file is required")
	}

	fixtures, err := quizbox.LoadFixtures(*file)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	summary, err := module.Seed(ctx, fixtures)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return writeJSON(out, summary)
}

func runBulk(ctx context.Context, module *quizbox.Module, args []string, out io.Writer) error {
	fset := flag.NewFlagSet("bulk", flag.ContinueOnError)
	kind := fset.String("kind", "", "Content kind: question, riddle or joke")
	action := fset.String("action", "", "Bulk action: publish, draft, trash, restore or delete")
	ids := fset.String("ids", "", "Comma separated content ids")
	fset.SetOutput(io.Discard)
	if err := fset.Parse(args); err != nil {
		return err
	}

	parsedKind, ok := domain.ParseContentKind(*kind)
	if !ok {
		return fmt.Errorf("bulk: unknown kind %q", *kind)
	}

	result, err := module.BulkAction(ctx, parsedKind, splitIDs(*ids), domain.NormalizeBulkAction(*action))
	if err != nil {
		return fmt.Errorf("bulk: %w", err)
	}
	return writeJSON(out, result)
}

func runCounts(ctx context.Context, module *quizbox.Module, args []string, out io.Writer) error {
	fset := flag.NewFlagSet("counts", flag.ContinueOnError)
	kind := fset.String("kind", "", "Content kind: question, riddle or joke")
	fset.SetOutput(io.Discard)
	if err := fset.Parse(args); err != nil {
		return err
	}

	parsedKind, ok := domain.ParseContentKind(*kind)
	if !ok {
		return fmt.Errorf("counts: unknown kind %q", *kind)
	}
	counts, err := module.StatusCounts(ctx, parsedKind)
	if err != nil {
		return fmt.Errorf("counts: %w", err)
	}
	return writeJSON(out, counts)
}

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

func writeJSON(out io.Writer, value any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
