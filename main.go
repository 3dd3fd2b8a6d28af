package main

import (
	"log"

	"github.com/valyala/fasthttp"

	"fasttrack-engine/internal/compare"
	"fasttrack-engine/internal/config"
	"fasttrack-engine/internal/engine"
	"fasttrack-engine/internal/export"
	"fasttrack-engine/internal/handler"
	"fasttrack-engine/internal/refdata"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config failed: %v", err)
	}

	registry := refdata.NewRegistry(cfg.ReferenceSource())
	tables, err := registry.Reload()
	if err != nil {
		log.Printf("Reference data load failed, using built-in %s: %v", refdata.DefaultVersion, err)
	} else {
		log.Printf("Reference data %s loaded", tables.Version)
	}

	formatter, err := export.NewFormatter(cfg.ExportLocale)
	if err != nil {
		log.Fatalf("Export formatter failed: %v", err)
	}

	eng := engine.New(registry, compare.Comparator{Parallel: cfg.CompareParallel})
	h := handler.New(eng, registry, formatter)

	log.Printf("Fast track engine starting on port %s", cfg.Port)
	if err := fasthttp.ListenAndServe(":"+cfg.Port, h.Routes()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
