package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goal-planner/internal/breakdown"
	"goal-planner/internal/config"
	"goal-planner/internal/repository"
	"goal-planner/internal/server"
	"goal-planner/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	goalRepo := repository.NewGoalRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	milestoneRepo := repository.NewMilestoneRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	client := breakdown.NewClient(cfg.BreakdownServiceURL, cfg.BreakdownTimeout)
	orchestrator := breakdown.NewOrchestrator(client, cfg.BreakdownTimeout)
	defer orchestrator.Wait()

	goalSvc := service.NewGoalService(goalRepo, taskRepo, milestoneRepo, profileRepo, orchestrator, cfg.DefaultLanguage)
	taskSvc := service.NewTaskService(taskRepo, goalRepo)
	profileSvc := service.NewProfileService(profileRepo, taskRepo, goalRepo)
	dashboardSvc := service.NewDashboardService(goalRepo, taskRepo)

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleInterval(cfg.SummaryRefreshInterval, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := profileSvc.RefreshAll(jobCtx, time.Now()); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("summary refresh: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule summary refresh: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	api := server.New(goalSvc, taskSvc, profileSvc, dashboardSvc)
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: api.Handler()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Goal planner listening on %s.", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
