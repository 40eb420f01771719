package main

import (
	"context"
	"log"

	"github.com/campaigngrade-hub/campaigngrade1/internal/app/bootstrap"
)

func main() {
	ctx := context.Background()
	runtime, err := bootstrap.NewWorkerRuntime(ctx, "configs/default.yaml")
	if err != nil {
		log.Fatalf("bootstrap worker runtime: %v", err)
	}
	if err := runtime.Run(ctx); err != nil {
		log.Fatalf("run worker: %v", err)
	}
}
