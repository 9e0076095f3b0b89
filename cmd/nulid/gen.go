package main

import (
	"fmt"
	"io"
	"os"

	"github.com/deep-rent/nulid/flag"
	"github.com/deep-rent/nulid/generator"
	"github.com/deep-rent/nulid/id"
	"github.com/goccy/go-json"
)

// runGen implements the "gen" subcommand: mint a batch of identifiers and
// print them to stdout, one per line in text mode or as a JSON array in
// json mode.
func runGen(args []string) error {
	// First pass: discover which config file to load, if any, without
	// touching the rest of the config. A throwaway Set is used so this
	// pass cannot bind (and therefore cannot prematurely override) any of
	// the fields loadConfig is about to populate.
	var configFile string
	probe := flag.New("nulid gen")
	probe.Add(&configFile, "c", "config", "Path to a config file")
	probe.Parse(args...)
	if configFile == "" {
		configFile = os.Getenv("NULID_CONFIG")
	}

	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	// Second pass: bind every flag to the config already overlaid with the
	// file and the environment, so that an explicit flag has final say.
	fs := flag.New("nulid gen")
	fs.Add(&configFile, "c", "config", "Path to a config file")
	fs.Add(&cfg.Node, "", "node", "Node discriminator (decimal or 0x-hex); omit for a fully random payload")
	fs.Add(&cfg.Count, "n", "count", "Number of identifiers to mint")
	fs.Add(&cfg.Format, "f", "format", "Output format: text or json")
	fs.Parse(args...)

	if cfg.Count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", cfg.Count)
	}

	var opts []generator.Option
	nodeID, present, err := cfg.resolveNodeID()
	if err != nil {
		return err
	}
	if present {
		opts = append(opts, generator.WithNodeID(nodeID))
	}
	g := generator.New(opts...)

	ids := make([]id.Id, cfg.Count)
	for i := range ids {
		v, err := g.Generate()
		if err != nil {
			return fmt.Errorf("mint identifier %d: %w", i, err)
		}
		ids[i] = v
	}

	switch cfg.Format {
	case "json":
		return writeJSONIDs(os.Stdout, ids)
	case "text", "":
		for _, v := range ids {
			fmt.Println(v.String())
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", cfg.Format)
	}
}

func writeJSONIDs(w io.Writer, ids []id.Id) error {
	strs := make([]string, len(ids))
	for i, v := range ids {
		strs[i] = v.String()
	}
	data, err := json.MarshalIndent(strs, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
