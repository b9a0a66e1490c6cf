package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"github.com/hanaul/dc-harvester/internal/admin"
	"github.com/hanaul/dc-harvester/internal/appconfig"
	"github.com/hanaul/dc-harvester/internal/dcinside/engine"
	"github.com/hanaul/dc-harvester/internal/dcinside/httpclient"
	"github.com/hanaul/dc-harvester/internal/engines"
	"github.com/hanaul/dc-harvester/internal/engines/ruliweb"
	"github.com/hanaul/dc-harvester/internal/engines/youtube"
	"github.com/hanaul/dc-harvester/internal/model"
	"github.com/hanaul/dc-harvester/internal/repository"
	"github.com/hanaul/dc-harvester/internal/storage/postgres"
)

func main() {
	sid := flag.String("sid", "", "scenario id (required)")
	cid := flag.String("cid", "", "crawler code (required)")
	rawURL := flag.String("url", "", "explicit start URL")
	keyword := flag.String("keyword", "", "search keyword (keyword mode)")
	target := flag.String("target", "", "target gallery id")
	flag.Parse()

	if *sid == "" || *cid == "" {
		log.Fatal("crawl: -sid and -cid are required")
	}

	appCfg, err := appconfig.Load()
	if err != nil {
		log.Fatalf("crawl: %v", err)
	}

	db, err := sql.Open("postgres", appCfg.DatabaseURL)
	if err != nil {
		log.Fatalf("crawl: open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("crawl: ping database: %v", err)
	}

	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("crawl: migrate: %v", err)
	}
	log.Println("crawl: migrations complete")

	repo := postgres.New(db)

	adminSrv := admin.NewServer(nil)
	go func() {
		log.Printf("crawl: admin surface listening on %s", appCfg.AdminAddr)
		if err := http.ListenAndServe(appCfg.AdminAddr, adminSrv); err != nil {
			log.Printf("crawl: admin surface stopped: %v", err)
		}
	}()

	opts := engine.Options{
		ScenarioID:  model.Scenario(*sid),
		CrawlerCode: model.CrawlerCode(*cid),
		URL:         *rawURL,
		Keyword:     *keyword,
		Target:      *target,
	}
	lookup := appCfg.EnvLookup()

	cfg, err := engine.NewConfig(opts, lookup, time.Now())
	if err != nil {
		log.Fatalf("crawl: config: %v", err)
	}

	fetcher := httpclient.New(cfg.StartURL, httpclient.WithRateLimiter(appCfg.HTTPRatePerSecond, appCfg.HTTPRateBurst))
	eng := dispatch(*cid, cfg, fetcher, repo)

	if dc, ok := eng.(*engine.Engine); ok {
		adminSrv.SetSource(func() engine.RunStats { return dc.Stats })
	}

	if err := eng.StartCrawling(context.Background()); err != nil {
		log.Fatalf("crawl: run failed: %v", err)
	}
	log.Println("crawl: run complete")
}

// dispatch resolves the concrete Engine for cid. Only DCInside is
// fleshed out; YouTube and Ruliweb are reachable dispatch targets with
// stub bodies, per the crawler's DCInside-first scope.
func dispatch(cid string, cfg engine.Config, fetcher *httpclient.Client, repo repository.Repository) engines.Engine {
	switch cid {
	case "youtube":
		return youtube.New()
	case "ruliweb":
		return ruliweb.New()
	default:
		return engine.New(cfg, fetcher, repo, nil)
	}
}
