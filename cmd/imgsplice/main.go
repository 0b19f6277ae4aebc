// Command imgsplice rebuilds a reconstruction plan for a binary image
// from a set of previously extracted files, and emits a POSIX shell
// script that replays the plan to reproduce the image.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"imgsplice/internal/config"
	"imgsplice/internal/core"
	"imgsplice/internal/fileset"
	"imgsplice/internal/metadata"
	"imgsplice/internal/progresslog"
	"imgsplice/internal/script"
	"imgsplice/internal/workerpool"
	"imgsplice/pkg/fileutils"
)

const version = "0.1.0"

type cliOptions struct {
	inputList      string
	nullSeparated  bool
	output         string
	configPath     string
	blockSize      int64
	minExtentSize  int64
	stepSize       int64
	writeChunkSize int64
	verbose        bool
	noOwnership    bool
	noACL          bool
	noMD5          bool
	noSHA256       bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:     "imgsplice <image>",
		Short:   "Rebuild a reconstruction plan and script for a binary image from extracted files",
		Version: version,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.inputList, "input", "i", "", "file containing the list of extracted-file paths (default: stdin)")
	flags.BoolVarP(&opts.nullSeparated, "null", "0", false, "input file list is NUL-separated instead of newline-separated")
	flags.StringVarP(&opts.output, "output", "o", "", "output path for the generated reconstruction script (default: stdout)")
	flags.StringVar(&opts.configPath, "config", "", "optional YAML file of defaults (block_size, min_extent_size, step_size, write_chunk_size)")
	flags.Int64VarP(&opts.blockSize, "block-size", "b", 0, "block size in bytes used for hashing (default: from config or 4096)")
	flags.Int64VarP(&opts.minExtentSize, "min-extent-size", "m", 0, "minimum extent size in bytes to accept a match (default: from config or 1MiB)")
	flags.Int64VarP(&opts.stepSize, "step-size", "s", 0, "byte stride to advance by on a failed match (default: from config or 1MiB)")
	flags.Int64Var(&opts.writeChunkSize, "write-chunk-size", 0, "read/verify chunk size in bytes (default: from config or 16MiB)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug-level logging")
	flags.BoolVar(&opts.noOwnership, "no-ownership", false, "skip collecting and restoring file ownership")
	flags.BoolVar(&opts.noACL, "no-acl", false, "skip collecting and restoring POSIX ACLs")
	flags.BoolVar(&opts.noMD5, "no-md5", false, "skip MD5 checksum collection and verification")
	flags.BoolVar(&opts.noSHA256, "no-sha256", false, "skip SHA-256 checksum collection and verification")

	return cmd
}

func run(imagePath string, opts *cliOptions) error {
	log := progresslog.NewLogger(opts.verbose)
	var sink core.Sink = core.NullSink{}
	if opts.verbose {
		sink = progresslog.New(log, progresslog.SystemClock{})
	}

	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	paths, err := readFileList(opts)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no extracted files given")
	}

	image, err := core.OpenFileSource(imagePath)
	if err != nil {
		return fmt.Errorf("opening image: %w", err)
	}
	defer image.Close()

	files := make([]core.ByteSource, 0, len(paths))
	for _, p := range paths {
		f, err := core.OpenFileSource(p)
		if err != nil {
			return fmt.Errorf("opening extracted file %s: %w", p, err)
		}
		files = append(files, f)
	}
	defer func() {
		for _, f := range files {
			if closer, ok := f.(*core.FileSource); ok {
				closer.Close()
			}
		}
	}()

	log.Infof("hashing image %s (%d bytes)", imagePath, image.Len())
	hashes, err := core.HashBlocks(image, cfg.BlockSize)
	if err != nil {
		return fmt.Errorf("hashing image: %w", err)
	}
	idx := core.BuildBlockIndex(hashes)

	numWorkers := fileutils.PhysicalCPUCount()
	log.Infof("discovering extents across %d files with %d workers", len(files), numWorkers)
	result, err := workerpool.DiscoverAll(image, files, idx, cfg, sink, numWorkers)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	fileutils.PrintPlanSummary(image.Len(), result)

	metaOpts := metadataOptions(opts)
	var imageMeta *metadata.Metadata
	if m, err := metadata.Collect(imagePath, metaOpts); err == nil {
		imageMeta = &m
	} else {
		log.Warnf("collecting image metadata: %v", err)
	}

	out := os.Stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("creating output script: %w", err)
		}
		defer f.Close()
		out = f
	}

	scriptOpts := script.Options{
		RestoreOwnership: !opts.noOwnership,
		RestoreACL:       !opts.noACL,
		VerifyMD5:        !opts.noMD5,
		VerifySHA256:     !opts.noSHA256,
	}
	if err := script.Emit(out, image, result.Plan, imageMeta, scriptOpts); err != nil {
		return fmt.Errorf("emitting script: %w", err)
	}

	return nil
}

func resolveConfig(opts *cliOptions) (core.Config, error) {
	cfg := core.DefaultConfig()

	if opts.configPath != "" {
		f, err := config.Load(opts.configPath)
		if err != nil {
			return core.Config{}, err
		}
		cfg = config.Merge(cfg, f)
	}

	if opts.blockSize != 0 {
		cfg.BlockSize = opts.blockSize
	}
	if opts.minExtentSize != 0 {
		cfg.MinExtentSize = opts.minExtentSize
	}
	if opts.stepSize != 0 {
		cfg.StepSize = opts.stepSize
	}
	if opts.writeChunkSize != 0 {
		cfg.WriteChunkSize = opts.writeChunkSize
	}

	if err := cfg.Validate(); err != nil {
		return core.Config{}, err
	}
	return cfg, nil
}

func readFileList(opts *cliOptions) ([]string, error) {
	if opts.inputList == "" {
		return fileset.ReadList(os.Stdin, opts.nullSeparated)
	}
	f, err := os.Open(opts.inputList)
	if err != nil {
		return nil, fmt.Errorf("opening file list %s: %w", opts.inputList, err)
	}
	defer f.Close()
	return fileset.ReadList(f, opts.nullSeparated)
}

func metadataOptions(opts *cliOptions) metadata.Options {
	return metadata.Options{
		CollectOwnership: !opts.noOwnership,
		CollectACL:       !opts.noACL,
		CollectMD5:       !opts.noMD5,
		CollectSHA256:    !opts.noSHA256,
	}
}
