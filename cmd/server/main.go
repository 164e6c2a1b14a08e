package main

import (
	"fmt"
	"log"

	"github.com/lennonalatorre/claimflow/internal/config"
	"github.com/lennonalatorre/claimflow/internal/enhance"
	"github.com/lennonalatorre/claimflow/internal/enhance/ollama"
	"github.com/lennonalatorre/claimflow/internal/handler"
	"github.com/lennonalatorre/claimflow/internal/ledger"
	"github.com/lennonalatorre/claimflow/internal/recognition/tesseract"
	"github.com/lennonalatorre/claimflow/internal/repository/postgres"
	"github.com/lennonalatorre/claimflow/internal/router"
	"github.com/lennonalatorre/claimflow/internal/service"
	s3storage "github.com/lennonalatorre/claimflow/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	claimRepo := postgres.NewClaimRepo(db)
	counselorRepo := postgres.NewCounselorRepo(db)
	insurerRepo := postgres.NewInsurerRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize recognition and name enhancement
	engine := tesseract.NewEngine(&cfg.OCR)
	enhance.RegisterProvider("ollama", ollama.Factory(engine))
	enhancer, err := enhance.New(&cfg.Enhancer)
	if err != nil {
		return fmt.Errorf("failed to initialize name enhancer: %w", err)
	}

	// Initialize the payout ledger
	workbook, err := ledger.NewWorkbook(&cfg.Ledger)
	if err != nil {
		return fmt.Errorf("failed to initialize payout ledger: %w", err)
	}

	// Initialize services
	authSvc := service.NewAuthService(cfg.Auth, cfg.JWT)
	refSvc := service.NewReferenceService(counselorRepo, insurerRepo)
	claimSvc := service.NewClaimService(engine, enhancer, refSvc, claimRepo, workbook, s3Client, cfg.S3.Bucket, cfg.S3.PresignExpiry)
	batch := service.NewBatchProcessor(claimSvc, cfg.Batch)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	claimH := handler.NewClaimHandler(claimSvc, batch, cfg.S3.MaxFileSizeMB)
	refH := handler.NewReferenceHandler(refSvc)
	ledgerH := handler.NewLedgerHandler(workbook)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, authH, claimH, refH, ledgerH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
