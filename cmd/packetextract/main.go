package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/Engagic/packet-extraction-service/internal/agenda"
	"github.com/Engagic/packet-extraction-service/internal/config"
	"github.com/Engagic/packet-extraction-service/internal/extract"
	"github.com/Engagic/packet-extraction-service/internal/fetch"
	"github.com/Engagic/packet-extraction-service/internal/participation"
)

// Job is one packet to process. A YAML batch file holds a list of these.
type Job struct {
	URL      string `yaml:"url"`
	File     string `yaml:"file"`
	Platform string `yaml:"platform"`
}

type jobFile struct {
	Jobs []Job `yaml:"jobs"`
}

// Output bundles everything the storage layer persists for one packet.
type Output struct {
	Extraction    extract.Result      `json:"extraction"`
	Items         []agenda.Item       `json:"items,omitempty"`
	Participation *participation.Info `json:"participation,omitempty"`
	Valid         bool                `json:"valid"`
}

func main() {
	var (
		urlFlag      = flag.String("url", "", "packet URL to extract")
		fileFlag     = flag.String("file", "", "local packet file to extract")
		jobsFlag     = flag.String("jobs", "", "YAML file with a batch of jobs")
		platformFlag = flag.String("platform", "", "source platform for structural parsing")
		linksFlag    = flag.Bool("links", false, "extract hyperlinks")
		redlineFlag  = flag.Bool("redline", false, "tag legislative redlines when a legend is present")
		verboseFlag  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	log, err := buildLogger(*verboseFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := config.Load()
	if *redlineFlag {
		cfg.RedlineEnabled = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("bad configuration", zap.Error(err))
	}

	fetcher := fetch.New(cfg, log.Named("fetch"))
	extractor := extract.New(cfg, fetcher, log.Named("extract"))

	jobs, err := collectJobs(*urlFlag, *fileFlag, *jobsFlag, *platformFlag)
	if err != nil {
		log.Fatal("bad invocation", zap.Error(err))
	}

	opts := extract.Options{ExtractLinks: *linksFlag, TagRedlines: *redlineFlag}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	exitCode := 0
	for _, job := range jobs {
		out := runJob(extractor, job, opts, log)
		if !out.Extraction.Success {
			exitCode = 1
		}
		if err := enc.Encode(out); err != nil {
			log.Fatal("encode output", zap.Error(err))
		}
	}

	// os.Exit skips deferred calls, so flush the logger here.
	_ = log.Sync()
	os.Exit(exitCode)
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if verbose {
		zcfg = zap.NewDevelopmentConfig()
	}
	return zcfg.Build()
}

func collectJobs(url, file, jobsPath, platform string) ([]Job, error) {
	switch {
	case jobsPath != "":
		data, err := os.ReadFile(jobsPath)
		if err != nil {
			return nil, fmt.Errorf("read jobs file: %w", err)
		}
		var jf jobFile
		if err := yaml.Unmarshal(data, &jf); err != nil {
			return nil, fmt.Errorf("parse jobs file: %w", err)
		}
		if len(jf.Jobs) == 0 {
			return nil, fmt.Errorf("jobs file has no jobs")
		}
		return jf.Jobs, nil
	case url != "":
		return []Job{{URL: url, Platform: platform}}, nil
	case file != "":
		return []Job{{File: file, Platform: platform}}, nil
	default:
		return nil, fmt.Errorf("one of -url, -file or -jobs is required (platforms: %v)", agenda.Platforms())
	}
}

func runJob(extractor *extract.Extractor, job Job, opts extract.Options, log *zap.Logger) Output {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Structural parsing needs the link list, regardless of the flag.
	if job.Platform != "" {
		opts.ExtractLinks = true
	}

	var res extract.Result
	var err error
	switch {
	case job.URL != "":
		res, err = extractor.ExtractFromURL(ctx, job.URL, opts)
	default:
		var data []byte
		data, err = os.ReadFile(job.File)
		if err == nil {
			res, err = extractor.ExtractFromBytes(ctx, data, opts)
		} else {
			res = extract.Result{Success: false, Error: err.Error()}
		}
	}
	if err != nil {
		log.Error("extraction failed",
			zap.String("url", job.URL), zap.String("file", job.File), zap.Error(err))
		return Output{Extraction: res}
	}

	out := Output{
		Extraction: res,
		Valid:      extract.ValidateText(res.Text),
	}
	if parser := agenda.ForPlatform(job.Platform); parser != nil {
		out.Items = parser.Parse(res.Text, res.Links)
	}
	out.Participation = participation.Extract(res.Text)
	return out
}
