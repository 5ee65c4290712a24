package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"coursepulse/internal/config"
	"coursepulse/internal/server"
)

var (
	port       = flag.Int("port", 0, "listen port (only used when config.toml does not set server.port)")
	devMode    = flag.Bool("dev", false, "development mode")
	uploadDir  = flag.String("uploadDir", "", "temporary upload directory (overrides config)")
	configPath = flag.String("config", "", "path to config.toml")
)

func main() {
	flag.Parse()

	// .env is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}

	fmt.Println("==========================================")
	fmt.Println("  coursepulse - course progress KPIs")
	fmt.Println("==========================================")

	var (
		cfg  *config.AppConfig
		info config.LoadConfigInfo
		err  error
	)
	if *configPath != "" {
		cfg, info, err = config.LoadFile(*configPath)
	} else {
		cfg, info, err = config.LoadConfigWithInfo()
	}
	if err != nil {
		log.Printf("failed to load config, using defaults: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	} else if info.FileFound {
		fmt.Printf("config: %s\n", info.Path)
	}

	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *uploadDir != "" {
		cfg.Data.UploadDir = *uploadDir
	}

	dir, err := config.EnsureUploadDir(cfg)
	if err != nil {
		log.Fatalf("failed to create upload directory: %v", err)
	}
	fmt.Printf("upload directory: %s\n", dir)

	srv := server.NewServer(cfg, dir)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	go func() {
		fmt.Printf("listening on http://localhost:%d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()

	fmt.Println("\npress Ctrl+C to stop...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nshutting down...")
}
