package setup

import (
	"fmt"

	"github.com/wyhaines/boards/internal/auth"
	"github.com/wyhaines/boards/internal/config"
	"github.com/wyhaines/boards/internal/content"
	"github.com/wyhaines/boards/internal/handler"
	"github.com/wyhaines/boards/internal/kv"
	"github.com/wyhaines/boards/internal/utils/jwt"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	DB      kv.DB
	Auth    *auth.Store
	Content *content.Store
	Handler *handler.Handler
	Jwt     jwt.JwtService
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	authStore := auth.New(db)
	contentStore := content.New(db, authStore)

	h := handler.New(authStore, contentStore, jwtService)

	return &Dependencies{
		DB:      db,
		Auth:    authStore,
		Content: contentStore,
		Handler: h,
		Jwt:     jwtService,
	}, nil
}

func openDB(cfg *config.Config) (kv.DB, error) {
	switch cfg.Public.Storage {
	case "bolt", "":
		return kv.OpenBolt(cfg.Public.Bolt.Path)
	case "postgres":
		pg := cfg.Public.Pg
		connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			pg.Host, pg.Port, pg.User, pg.Password, pg.Dbname)
		return kv.OpenPg(connStr)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Public.Storage)
	}
}
