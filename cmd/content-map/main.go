package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	cms "github.com/goliatone/go-cms-content"
	contentcmd "github.com/goliatone/go-cms-content/internal/commands/content"
	"github.com/goliatone/go-cms-content/internal/dimension"
)

var moduleBuilder = cms.New

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatalf("content-map: %v", err)
	}
}

type options struct {
	configPath  string
	resourceKey string
	resourceID  string
	locale      string
	dataPath    string
	publish     bool
	stage       string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("content-map", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.configPath, "config", "", "YAML or JSON config file; CMS_* env vars override it")
	fs.StringVar(&opts.resourceKey, "resource", "", "resource key of the content type")
	fs.StringVar(&opts.resourceID, "id", "", "resource id")
	fs.StringVar(&opts.locale, "locale", "", "locale, defaults to the configured default locale")
	fs.StringVar(&opts.dataPath, "data", "", "JSON input file, - for stdin; omit to resolve only")
	fs.BoolVar(&opts.publish, "publish", false, "publish the draft after mapping")
	fs.StringVar(&opts.stage, "stage", "", "stage to resolve (draft or live)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.resourceKey == "" || opts.resourceID == "" {
		return opts, errors.New("-resource and -id are required")
	}
	switch opts.stage {
	case "":
		opts.stage = string(dimension.StageDraft)
		if opts.publish {
			opts.stage = string(dimension.StageLive)
		}
	case string(dimension.StageDraft), string(dimension.StageLive):
	default:
		return opts, fmt.Errorf("unknown stage %q", opts.stage)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := cms.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.locale == "" {
		opts.locale = cfg.DefaultLocale
	}

	module, err := moduleBuilder(cfg)
	if err != nil {
		return fmt.Errorf("build module: %w", err)
	}
	defer module.Close()
	container := module.Container()

	if opts.dataPath != "" {
		data, err := readData(opts.dataPath, stdin)
		if err != nil {
			return err
		}
		err = container.MapContentHandler().Execute(ctx, contentcmd.MapContentCommand{
			ResourceKey: opts.resourceKey,
			ResourceID:  opts.resourceID,
			Locale:      opts.locale,
			Data:        data,
		})
		if err != nil {
			return fmt.Errorf("map content: %w", err)
		}
	}
	if opts.publish {
		err := container.PublishContentHandler().Execute(ctx, contentcmd.PublishContentCommand{
			ResourceKey: opts.resourceKey,
			ResourceID:  opts.resourceID,
			Locale:      opts.locale,
		})
		if err != nil {
			return fmt.Errorf("publish content: %w", err)
		}
	}

	resolved, err := module.Resolve(ctx, opts.resourceKey, opts.resourceID, opts.locale, dimension.Stage(opts.stage))
	if err != nil {
		return fmt.Errorf("resolve content: %w", err)
	}
	return writeResolved(stdout, resolved)
}

func readData(path string, stdin io.Reader) (dimension.Data, error) {
	var reader io.Reader
	if strings.TrimSpace(path) == "-" {
		reader = stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open data: %w", err)
		}
		defer file.Close()
		reader = file
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	data, err := dimension.DecodeData(raw)
	if err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	return data, nil
}

type viewOutput struct {
	Content map[string]any `json:"content"`
	View    map[string]any `json:"view"`
}

type resolvedOutput struct {
	ResourceKey      string                `json:"resource_key"`
	ResourceID       string                `json:"resource_id"`
	Locale           string                `json:"locale"`
	Stage            string                `json:"stage"`
	AvailableLocales []string              `json:"available_locales,omitempty"`
	Views            map[string]viewOutput `json:"views"`
}

func writeResolved(w io.Writer, resolved *cms.Resolved) error {
	content := resolved.Content
	out := resolvedOutput{
		ResourceKey:      content.ResourceKey,
		ResourceID:       content.ResourceID,
		Locale:           content.LocaleCode(),
		Stage:            string(content.Stage),
		AvailableLocales: content.AvailableLocales,
		Views:            make(map[string]viewOutput, len(resolved.Views)),
	}
	for name, view := range resolved.Views {
		out.Views[name] = viewOutput{Content: view.Content, View: view.View}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
