package scheduler

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"StockCurator/internal/collector"
	"StockCurator/internal/config"
	"StockCurator/internal/exporter"
	"StockCurator/internal/preparer"
	"StockCurator/internal/recorder"
	"StockCurator/internal/report"
	"StockCurator/internal/stats"
)

// Scheduler runs the curation pipeline, either once or on a cron schedule.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Cfg       *config.Config
}

// NewScheduler creates a new Scheduler.
func NewScheduler(col *collector.Collector, rec recorder.Recorder, cfg *config.Config) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Recorder:  rec,
		Cfg:       cfg,
	}
}

// RegisterRefresh registers the pipeline on the given cron expression.
func (s *Scheduler) RegisterRefresh(cronExpr string) error {
	if _, err := s.Cron.AddFunc(cronExpr, func() {
		if err := s.Run(); err != nil {
			log.Printf("[ERROR] scheduled run: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// Run executes the full pipeline: collect, prepare, export, analyze,
// render charts, build the PDF and record the run.
func (s *Scheduler) Run() error {
	start := time.Now()
	log.Printf("[INFO] running curation pipeline for %s", s.Cfg.Data.Symbol)

	raw, funds, err := s.Collector.Collect()
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}
	log.Printf("[INFO] fetched %d raw rows via %s", raw.Len(), s.Collector.Fetcher.Name())

	opts := preparer.Options{
		SMAWindow: s.Cfg.Indicators.SMAWindow,
		EMAWindow: s.Cfg.Indicators.EMAWindow,
		RSIWindow: s.Cfg.Indicators.RSIWindow,
		MACDFast:  s.Cfg.Indicators.MACDFast,
		MACDSlow:  s.Cfg.Indicators.MACDSlow,
	}
	curated, clean, rep, err := preparer.Prepare(raw, opts)
	if err != nil {
		return fmt.Errorf("prepare series: %w", err)
	}
	for field, count := range rep.NegativeCounts {
		log.Printf("[WARN] negative values found in %s: %d (substituted and forward-filled)", field, count)
	}
	log.Printf("[INFO] prepared series: %d curated rows, %d clean rows (%d duplicates, %d cells filled, %d dropped)",
		curated.Len(), clean.Len(), rep.DuplicatesRemoved, rep.CellsFilled, rep.RowsDropped)

	if err := os.MkdirAll(s.Cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	curatedPath := filepath.Join(s.Cfg.Output.Dir, s.Cfg.Output.CuratedFile)
	cleanPath := filepath.Join(s.Cfg.Output.Dir, s.Cfg.Output.CleanFile)
	if err := exporter.WriteCSV(curatedPath, curated); err != nil {
		return fmt.Errorf("export curated dataset: %w", err)
	}
	if err := exporter.WriteCSV(cleanPath, clean); err != nil {
		return fmt.Errorf("export clean dataset: %w", err)
	}

	summary := stats.Describe(clean)
	outliers := stats.Outliers(clean, s.Cfg.Analysis.OutlierThreshold)
	for _, p := range outliers {
		log.Printf("[INFO] outlier day %s: close=%.2f return=%+.4f",
			p.Date.Format("2006-01-02"), p.Close, p.DailyReturn)
	}

	pricePath := filepath.Join(s.Cfg.Output.Dir, s.Cfg.Output.PriceChart)
	spikePath := filepath.Join(s.Cfg.Output.Dir, s.Cfg.Output.SpikeChart)
	if err := report.RenderPriceChart(pricePath, clean); err != nil {
		return fmt.Errorf("render price chart: %w", err)
	}
	if err := report.RenderSpikeChart(spikePath, clean, outliers); err != nil {
		return fmt.Errorf("render spike chart: %w", err)
	}

	pdfPath := filepath.Join(s.Cfg.Output.Dir, s.Cfg.Output.ReportFile)
	if err := report.BuildPDF(pdfPath, report.Data{
		Symbol:           s.Cfg.Data.Symbol,
		GeneratedAt:      time.Now(),
		Range:            s.Cfg.Data.Range,
		Stats:            summary,
		Outliers:         outliers,
		OutlierThreshold: s.Cfg.Analysis.OutlierThreshold,
		Fundamentals:     funds,
		Clean:            rep,
		PriceChartPath:   pricePath,
		SpikeChartPath:   spikePath,
	}); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}

	if err := s.Recorder.RecordRun(&recorder.RunSnapshot{
		Symbol:            s.Cfg.Data.Symbol,
		RawRows:           raw.Len(),
		CuratedRows:       curated.Len(),
		CleanRows:         clean.Len(),
		DuplicatesRemoved: rep.DuplicatesRemoved,
		CellsFilled:       rep.CellsFilled,
		RowsDropped:       rep.RowsDropped,
		Duration:          time.Since(start),
	}, rep, outliers); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}

	log.Printf("[INFO] pipeline finished in %s, report at %s", time.Since(start).Round(time.Millisecond), pdfPath)
	return nil
}
