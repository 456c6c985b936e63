package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"factorindex/cmd"
	"factorindex/internal/app"
)

func main() {
	fmt.Println(os.Getenv("commit_hash"))
	ctx := context.Background()

	deps, err := cmd.InitializeDependencies("")
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(deps)

	apiHandler := deps.ApiHandler
	apiHandler.JobQueue.Start(ctx)

	scheduler, err := app.NewScheduler(ctx, deps.Config.Schedule, apiHandler.JobQueue, apiHandler.Pipeline)
	if err != nil {
		log.Fatal(err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	err = apiHandler.StartApi(deps.Config.Port)
	if err != nil {
		log.Fatal(err)
	}
}
