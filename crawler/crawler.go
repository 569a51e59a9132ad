package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finwatch/ratecrawl/browser"
	"github.com/finwatch/ratecrawl/config"
	"github.com/finwatch/ratecrawl/models"
	"github.com/finwatch/ratecrawl/storage"
)

// Crawler owns one invocation end to end: session lifecycle, mode
// selection, persistence and the response envelope. Each Run acquires
// exactly one browser session and releases it on every exit path.
type Crawler struct {
	sessions browser.Factory
	store    storage.ObjectStore
	nav      *PageNavigator
	ext      *RecordExtractor
	search   *TargetSearchEngine
	cfg      config.CrawlerConfig
	bucket   string
	log      *slog.Logger
	now      func() time.Time
}

// New wires a crawler from its collaborators.
func New(sessions browser.Factory, store storage.ObjectStore, crawlerCfg config.CrawlerConfig, storageCfg config.StorageConfig) *Crawler {
	nav := NewPageNavigator(crawlerCfg.BaseURL)
	ext := NewRecordExtractor()
	return &Crawler{
		sessions: sessions,
		store:    store,
		nav:      nav,
		ext:      ext,
		search:   NewTargetSearchEngine(nav, ext),
		cfg:      crawlerCfg,
		bucket:   storageCfg.DefaultBucket,
		log:      slog.Default().With("component", "crawler"),
		now:      time.Now,
	}
}

// Run executes one invocation and always returns a structured envelope:
// 200 with a result body, or 500 for session-setup failures and anything
// uncaught. Panics anywhere below are converted, never propagated.
func (c *Crawler) Run(ctx context.Context, req models.CrawlRequest) (resp models.CrawlResponse) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("crawl panicked", "panic", r)
			resp = models.CrawlResponse{
				StatusCode: 500,
				Err: &models.ErrorBody{
					Error:   fmt.Sprint(r),
					Message: "crawl execution failed",
				},
			}
		}
	}()

	req.Defaults(c.bucket, c.cfg.DefaultTarget)

	if c.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.RunTimeout)
		defer cancel()
	}

	sess, err := c.sessions.NewSession(ctx)
	if err != nil {
		c.log.Error("session setup failed", "error", err)
		return models.CrawlResponse{
			StatusCode: 500,
			Err: &models.ErrorBody{
				Error:   err.Error(),
				Message: "browser session could not be created",
			},
		}
	}
	defer sess.Release()

	if err := sess.Navigate(c.cfg.BaseURL); err != nil {
		// Navigation failure is not fatal here: extraction below will
		// simply come back empty and surface as no-data.
		c.log.Error("navigation to listing page failed", "url", c.cfg.BaseURL, "error", err)
	}

	body := &models.ResultBody{
		Timestamp: c.now().Format(models.TimeLayout),
	}

	if req.GetAll {
		c.runBulk(ctx, sess, req, body)
	} else {
		c.runSingle(ctx, sess, req, body)
	}

	return models.CrawlResponse{StatusCode: 200, Result: body}
}

// runBulk collects every record on the (believed) last page and stores
// them as one CSV object.
func (c *Crawler) runBulk(ctx context.Context, sess browser.Session, req models.CrawlRequest, body *models.ResultBody) {
	c.log.Info("bulk collection started", "bucket", req.BucketName)

	if !c.nav.AdvanceToLastPage(sess) {
		c.log.Warn("could not reach last page, collecting from current page")
	}
	records := c.ext.Extract(sess)
	if len(records) == 0 {
		body.Message = "no records collected"
		return
	}

	key := storage.BulkKey(c.now())
	if err := c.store.Put(ctx, req.BucketName, key, storage.EncodeCSV(records), "text/csv"); err != nil {
		c.log.Error("bulk storage write failed", "bucket", req.BucketName, "key", key, "error", err)
		body.Message = fmt.Sprintf("collected %d records but the storage write failed: %v", len(records), err)
		return
	}

	body.Success = true
	body.Message = fmt.Sprintf("collected %d records and stored them", len(records))
	body.FileName = key
}

// runSingle searches for the target record and stores it as one JSON
// object. The collected record stays visible in the response even when
// the storage write fails.
func (c *Crawler) runSingle(ctx context.Context, sess browser.Session, req models.CrawlRequest, body *models.ResultBody) {
	c.log.Info("target search started", "target", req.TargetSession, "bucket", req.BucketName)

	result := c.search.Find(sess, req.TargetSession)
	if !result.Found {
		body.Message = fmt.Sprintf("no record found for %q", req.TargetSession)
		return
	}

	rec := result.Record
	body.Data = &rec

	payload, err := storage.EncodeRecordJSON(rec)
	if err != nil {
		c.log.Error("record serialization failed", "label", rec.SessionLabel, "error", err)
		body.Message = fmt.Sprintf("record collected but serialization failed: %v", err)
		return
	}

	key := storage.RecordKey(rec.SessionLabel, c.now())
	if err := c.store.Put(ctx, req.BucketName, key, payload, "application/json"); err != nil {
		c.log.Error("record storage write failed", "bucket", req.BucketName, "key", key, "error", err)
		body.Message = fmt.Sprintf("record %q collected but the storage write failed: %v", rec.SessionLabel, err)
		return
	}

	body.Success = true
	body.Message = fmt.Sprintf("collected record %q (%s match) and stored it", rec.SessionLabel, result.Strategy)
	body.FileName = key
}
