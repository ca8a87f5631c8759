package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ocrclean/corrector"
	"ocrclean/internal/linguist"
	"ocrclean/internal/ner"
	"ocrclean/internal/protectdict"
)

type cliOptions struct {
	configPath    string
	inputPath     string
	dictPath      string
	protectedPath string
	outputPath    string
	outputDir     string
	redisAddr     string
	workers       int
	nerModel      string
	nerTokenizer  string
	nerLabels     string
	rowOpts       corrector.RowParseOptions
	stdout        bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		log.Fatalf("ocrclean: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("ocrclean: %v", err)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.configPath, "config", "", "Path to config.json (default: ./config.json)")
	flag.StringVar(&opts.inputPath, "input", "", "CSV/TSV file of OCR paragraph rows")
	flag.StringVar(&opts.dictPath, "dict", "", "Word-frequency table ('word count' per line)")
	flag.StringVar(&opts.protectedPath, "protected", "", "File of protected terms (newline/comma separated)")
	flag.StringVar(&opts.outputPath, "output", "", "CSV file to write correction records (default uses --output-dir/cleaned_*.csv)")
	flag.StringVar(&opts.outputDir, "output-dir", "csv", "Directory for result CSVs when --output is omitted")
	flag.StringVar(&opts.redisAddr, "protected-redis", "", "Redis address holding additional protected terms (optional)")
	flag.IntVar(&opts.workers, "workers", 0, "Concurrent row workers (0 = one per CPU)")
	flag.StringVar(&opts.nerModel, "ner-model", "", "ONNX token-classification model path (optional)")
	flag.StringVar(&opts.nerTokenizer, "ner-tokenizer", "", "tokenizer.json path for the NER model")
	flag.StringVar(&opts.nerLabels, "ner-labels", "", "BIO labels file for the NER model")
	flag.StringVar(&opts.rowOpts.RowIDColumn, "row-id-column", "", "Column name or #index for row_id")
	flag.StringVar(&opts.rowOpts.TextColumn, "text-column", "", "Column name or #index for ocr_para_text")
	flag.BoolVar(&opts.stdout, "stdout", false, "Print a summary to STDOUT")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --input FILE --dict FILE [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.configPath = strings.TrimSpace(opts.configPath)
	opts.inputPath = strings.TrimSpace(opts.inputPath)
	opts.dictPath = strings.TrimSpace(opts.dictPath)
	opts.outputPath = strings.TrimSpace(opts.outputPath)
	opts.outputDir = strings.TrimSpace(opts.outputDir)

	if opts.inputPath == "" {
		flag.Usage()
		return opts, errors.New("missing required --input file")
	}
	if opts.dictPath == "" {
		flag.Usage()
		return opts, errors.New("missing required --dict file")
	}
	return opts, nil
}

func run(opts cliOptions) error {
	logger := log.New(os.Stderr, "ocrclean ", log.LstdFlags)
	ctx := context.Background()

	cfg, err := corrector.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}

	rows, err := corrector.ReadRows(opts.inputPath, opts.rowOpts)
	if err != nil {
		return fmt.Errorf("read rows: %w", err)
	}
	logger.Printf("loaded %d rows from %s", len(rows), opts.inputPath)

	lex, err := buildLexicon(ctx, cfg, opts, rows, logger)
	if err != nil {
		return fmt.Errorf("build lexicon: %w", err)
	}
	logger.Printf("lexicon ready: %d entries", lex.Size())

	taggers := buildTaggers(cfg, opts, logger)

	svc, err := corrector.NewService(lex, cfg, taggers, logger)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	start := time.Now()
	records, rowErrs := svc.ProcessRows(ctx, rows)
	logger.Printf("processed %d rows in %s (%d rejected)", len(records), time.Since(start).Round(time.Millisecond), len(rowErrs))

	if err := writeRecords(opts, records); err != nil {
		return err
	}
	if opts.stdout {
		printSummary(records, rowErrs)
	}
	return nil
}

// buildLexicon combines the static frequency table, a corpus pass over the
// input rows, and every configured protected-term source. It must finish
// before the first row is processed; the service enforces that by requiring
// the frozen lexicon at construction.
func buildLexicon(ctx context.Context, cfg corrector.Config, opts cliOptions, rows []corrector.DocumentRow, logger *log.Logger) (*corrector.Lexicon, error) {
	freqs, err := corrector.LoadFrequencyTable(opts.dictPath)
	if err != nil {
		return nil, err
	}
	builder := corrector.NewLexiconBuilder(cfg.Lexicon).
		AddFrequencyTable(freqs).
		AddProtected(corrector.DefaultProtectedTerms...)
	for _, row := range rows {
		builder.ObserveCorpus(row.ParaText)
	}
	if opts.protectedPath != "" {
		terms, err := corrector.LoadProtectedTermsFile(opts.protectedPath)
		if err != nil {
			return nil, err
		}
		builder.AddProtected(terms...)
	}
	if opts.redisAddr != "" {
		store, err := protectdict.Open(ctx, opts.redisAddr)
		if err != nil {
			logger.Printf("protected-term store unavailable, continuing without it: %v", err)
		} else {
			defer store.Close()
			terms, err := store.All(ctx)
			if err != nil {
				logger.Printf("protected-term fetch failed, continuing without it: %v", err)
			} else {
				builder.AddProtected(terms...)
			}
		}
	}
	return builder.Build()
}

// buildTaggers assembles the entity-recognition collaborators. A missing or
// broken tagger is logged and skipped: the pipeline degrades to
// dictionary-only classification rather than refusing to run.
func buildTaggers(cfg corrector.Config, opts cliOptions, logger *log.Logger) []corrector.Tagger {
	var taggers []corrector.Tagger
	if opts.nerModel != "" {
		tagger, err := ner.New(ner.Config{
			OrtDLL:        cfg.Tagger.OrtDLL,
			ModelPath:     opts.nerModel,
			TokenizerPath: opts.nerTokenizer,
			LabelsPath:    opts.nerLabels,
			MaxSeqLen:     cfg.Tagger.MaxSeqLen,
		})
		if err != nil {
			logger.Printf("onnx tagger unavailable, degrading: %v", err)
		} else {
			taggers = append(taggers, tagger)
		}
	}
	taggers = append(taggers, linguist.New())
	return taggers
}

func writeRecords(opts cliOptions, records []corrector.CorrectionRecord) error {
	path := opts.outputPath
	if path == "" {
		if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		path = filepath.Join(opts.outputDir, fmt.Sprintf("cleaned_%s.csv", time.Now().Format("20060102_150405")))
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()
	if err := corrector.WriteRecordsCSV(f, records); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func printSummary(records []corrector.CorrectionRecord, rowErrs []corrector.RowError) {
	changed := 0
	totalConf := 0.0
	for _, rec := range records {
		if rec.CleanedText != rec.OriginalText {
			changed++
		}
		totalConf += rec.Confidence
	}
	mean := 0.0
	if len(records) > 0 {
		mean = totalConf / float64(len(records))
	}
	fmt.Printf("rows: %d  corrected: %d  rejected: %d  mean confidence: %.4f\n",
		len(records), changed, len(rowErrs), mean)
}
