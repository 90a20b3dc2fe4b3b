package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/attendance-recon-go/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-recon-go/internal/handler/http"
	reconService "github.com/cmlabs-hris/attendance-recon-go/internal/service/recon"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "attendance-recon"),
		slog.String("env", cfg.App.Env),
	)

	service := reconService.NewReconService(logger)
	reconHandler := appHTTP.NewReconHandler(service, cfg.Upload)

	router := appHTTP.NewRouter(reconHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
