// Command taskdeck is the headless maintenance entry point: version info,
// one-shot update checks, and task-list export without starting the
// desktop shell. With no window, a completed download is staged but never
// installed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/bytedance/sonic"

	"github.com/taskdeck-app/taskdeck/internal/config"
	"github.com/taskdeck-app/taskdeck/internal/domain"
	"github.com/taskdeck-app/taskdeck/internal/repository/gormdb"
	"github.com/taskdeck-app/taskdeck/internal/update"
	"github.com/taskdeck-app/taskdeck/internal/version"
)

const checkTimeout = 5 * time.Minute

// noWindows satisfies the update controller's window back-reference for a
// process that never creates one.
type noWindows struct{}

func (noWindows) Current() *domain.Window { return nil }

// noDialog is never reached without a window; the controller skips the
// confirmation entirely.
type noDialog struct{}

func (noDialog) ConfirmInstall(*domain.UpdateManifest) (bool, error) {
	return false, fmt.Errorf("no window to anchor confirmation")
}

func main() {
	dataDir := flag.String("data", "", "Data directory for database and staged updates (default: ~/.config/taskdeck)")
	checkUpdate := flag.Bool("check-update", false, "Check for an update, stage it if available, and exit")
	exportTasks := flag.Bool("export-tasks", false, "Print the stored task list as JSON and exit")
	showVersion := flag.Bool("version", false, "Show version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("taskdeck", version.Full())
		return
	}

	if *dataDir != "" {
		os.Setenv(config.EnvDataDir, *dataDir)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	switch {
	case *checkUpdate:
		runUpdateCheck(cfg)
	case *exportTasks:
		runExportTasks(cfg)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runUpdateCheck(cfg *config.Config) {
	gateway := update.NewHTTPGateway(cfg.UpdateURL, version.Version, cfg.DataDir)
	controller := update.NewController(gateway, noDialog{}, noWindows{})

	terminal := make(chan domain.UpdateState, 1)
	controller.AddListener(func(state domain.UpdateState) {
		switch state {
		case domain.UpdateNoUpdate, domain.UpdateDownloaded, domain.UpdateError:
			select {
			case terminal <- state:
			default:
			}
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()
	controller.Start(ctx)

	if err := controller.Check(); err != nil {
		log.Fatalf("Update check failed: %v", err)
	}

	select {
	case state := <-terminal:
		switch state {
		case domain.UpdateNoUpdate:
			fmt.Println("Already up to date:", version.Info())
		case domain.UpdateDownloaded:
			fmt.Println("Update staged at:", gateway.StagedPath())
		case domain.UpdateError:
			log.Fatalf("Update check ended in error; see log above")
		}
	case <-ctx.Done():
		log.Fatalf("Update check timed out after %s", checkTimeout)
	}
}

func runExportTasks(cfg *config.Config) {
	db, err := gormdb.NewDBWithDSN(cfg.DatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	list, err := gormdb.NewTaskListRepository(db).GetAll()
	if err != nil {
		log.Fatalf("Failed to read task list: %v", err)
	}

	data, err := sonic.MarshalIndent(list, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode task list: %v", err)
	}
	os.Stdout.Write(append(data, '\n'))
}
