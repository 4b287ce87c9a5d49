// Command sharevault runs the publishing engine with configuration taken
// from environment variables.
package main

import (
	"log"
	"time"

	sharevault "github.com/sharevault/sharevault"
)

func main() {
	cfg := sharevault.SiteConfig{
		Name:        sharevault.EnvOr("SITE_NAME", "ShareVault"),
		URL:         sharevault.EnvOr("SITE_URL", "http://localhost:3000"),
		Description: sharevault.EnvOr("SITE_DESCRIPTION", ""),
		Author:      sharevault.EnvOr("SITE_AUTHOR", ""),

		Addr:         sharevault.EnvOr("ADDR", ":3000"),
		DatabasePath: sharevault.EnvOr("DATABASE_PATH", "data/sharevault.db"),
		MediaDir:     sharevault.EnvOr("MEDIA_DIR", "data/media"),

		AdminPassword: sharevault.MustEnv("ADMIN_PASSWORD"),
		SessionSecret: sharevault.MustEnv("ADMIN_SESSION_SECRET"),
		CookieSecure:  sharevault.EnvOr("COOKIE_SECURE", "") == "true",
	}
	if v := sharevault.EnvOr("POST_CACHE_TTL", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("invalid POST_CACHE_TTL: %v", err)
		}
		cfg.PostCacheTTL = d
	}

	app := sharevault.New(cfg, sharevault.ViewFuncs{})
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
