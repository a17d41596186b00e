package main

import (
	"html/template"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// The shell is a single wrapper page embedding the storefront URL, the way
// the mobile app hosts the web checkout inside a WebView.
var shellPage = template.Must(template.New("shell").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Minuteserv</title>
  <style>
    html, body { margin: 0; height: 100%; }
    iframe { border: 0; width: 100%; height: 100%; }
  </style>
</head>
<body>
  <iframe src="{{.StorefrontURL}}" allow="clipboard-read; clipboard-write"></iframe>
</body>
</html>
`))

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment")
	}

	storefrontURL := os.Getenv("MINUTESERV_WEB_URL")
	if storefrontURL == "" {
		storefrontURL = "http://localhost:3000"
	}

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := shellPage.Execute(c.Writer, gin.H{"StorefrontURL": storefrontURL}); err != nil {
			log.Printf("Failed to render shell page: %v", err)
		}
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	port := os.Getenv("WEBVIEW_PORT")
	if port == "" {
		port = "3001"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
