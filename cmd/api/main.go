package main

import (
	"os"

	"app/internal/config"
	"app/internal/handler"
	"app/internal/infra/csvstore"
	"app/internal/infra/gormstore"
	"app/internal/infra/hybrid"
	"app/internal/mailer"
	"app/internal/payment"
	"app/internal/repository"
	"app/internal/server"
	"app/internal/session"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	//.envは無くてもよい
	_ = godotenv.Load()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	//CSVストアが正。起動できなければ続行不能。
	csv, err := csvstore.New(cfg.DataDir, log)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("csv store init failed")
	}

	//リレーショナルは任意。開けなくてもCSVのみで起動する。
	var secondary repository.Store
	if cfg.DatabaseURL != "" {
		gs, err := gormstore.Open(cfg.DatabaseURL, log)
		if err != nil {
			log.Warn().Err(err).Msg("relational store unavailable, running csv-only")
		} else {
			secondary = gs
		}
	}

	coord := hybrid.New(csv, secondary, log)

	carts := session.NewManager()
	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, log)

	providers := map[string]payment.Client{}
	if cfg.StripeSecretKey != "" {
		providers["stripe"] = payment.NewStripeClient(cfg.StripeSecretKey, cfg.StripeBaseURL)
	}
	if cfg.PayPalClientID != "" {
		providers["paypal"] = payment.NewPayPalClient(cfg.PayPalClientID, cfg.PayPalSecret, cfg.PayPalBaseURL)
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, coord, mail, log)
	productUC := usecase.NewProductUsecase(coord)
	cartUC := usecase.NewCartUsecase(coord, carts)
	orderUC := usecase.NewOrderUsecase(cfg, coord, carts, providers, mail, log)
	adminUC := usecase.NewAdminUsecase(coord, coord, log)
	privacyUC := usecase.NewPrivacyUsecase(coord, log)

	//Handler生成
	h := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Product:      handler.NewProductHandler(productUC),
		Cart:         handler.NewCartHandler(cartUC, carts),
		Order:        handler.NewOrderHandler(orderUC),
		Privacy:      handler.NewPrivacyHandler(privacyUC),
		AdminProduct: handler.NewAdminProductHandler(adminUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminUC),
		AdminUser:    handler.NewAdminUserHandler(adminUC),
	}

	log.Info().Str("port", cfg.Port).Bool("relational", secondary != nil).Msg("starting server")
	if err := server.Start(cfg, h); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
