package config

import "os"

// Configはアプリ全体の設定
type Config struct {
	Port    string // サーバーポート（8080）
	DataDir string // CSVファイルの置き場所

	//空ならリレーショナルストアなしのCSVのみ構成
	DatabaseURL string

	JWTSecret string // JWT署名シークレット
	AdminPIN  string // 管理者登録用PIN。空なら管理者登録不可。

	AppBaseURL string // 決済の戻りURL組み立てに使う

	SMTPHost string // 空ならメール送信なし
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	StripeSecretKey string
	StripeBaseURL   string

	PayPalClientID string
	PayPalSecret   string
	PayPalBaseURL  string
}

// Loadは環境変数から設定を読む。必須項目のチェックは
// 各バイナリ側で行う（移行ツールはJWT_SECRETを使わない）。
func Load() Config {
	return Config{
		Port:    getenv("PORT", "8080"),
		DataDir: getenv("DATA_DIR", "data"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		AdminPIN:  os.Getenv("ADMIN_PIN"),

		AppBaseURL: getenv("APP_BASE_URL", "http://localhost:8080"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getenv("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: getenv("SMTP_FROM", "shop@example.com"),

		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		StripeBaseURL:   getenv("STRIPE_BASE_URL", "https://api.stripe.com"),

		PayPalClientID: os.Getenv("PAYPAL_CLIENT_ID"),
		PayPalSecret:   os.Getenv("PAYPAL_SECRET"),
		PayPalBaseURL:  getenv("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
