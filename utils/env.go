package utils

import (
	"os"

	"github.com/joho/godotenv"
)

func LoadEnv() {
	godotenv.Load()
}

func JWTSecret() []byte {
	return []byte(os.Getenv("SECRET"))
}

func PanelURL() string {
	return os.Getenv("PTERO_URL")
}

func PanelAPIKey() string {
	return os.Getenv("PTERO_API_KEY")
}
