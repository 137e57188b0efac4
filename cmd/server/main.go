package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"coursegrabber/internal/api"
	"coursegrabber/internal/config"
	"coursegrabber/internal/download"
	"coursegrabber/internal/project"
	"coursegrabber/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found")
	}

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	if err := os.MkdirAll(cfg.ProjectsDir, 0755); err != nil {
		log.Fatalf("failed to create projects directory: %v", err)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)

	st := store.NewFileStore(cfg.ProjectsDir, logger)
	st.CleanStaleTemp(time.Hour)
	go func() {
		for {
			time.Sleep(time.Hour)
			st.CleanStaleTemp(time.Hour)
		}
	}()

	projects := project.NewService(st, logger)

	var dl download.Downloader
	switch cfg.Download.Engine {
	case "http":
		dl = download.NewHTTPDirect()
	default:
		dl = download.NewYtDlp(cfg.Download.YtDlpPath, cfg.Download.Format)
	}
	downloads := download.NewManager(dl, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(cfg.Server.AllowedOrigins) == 1 && cfg.Server.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	api.RegisterHandlers(r, projects, downloads)

	log.Printf("Server starting on :%d...", cfg.Server.Port)
	if err := r.Run(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
