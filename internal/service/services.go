package service

import (
	"github.com/dom/league-damage-calc/internal/cache"
	"github.com/dom/league-damage-calc/internal/config"
	"github.com/dom/league-damage-calc/internal/repository"
)

type Services struct {
	Auth    *AuthService
	Catalog *CatalogService
	Damage  *DamageService
}

func NewServices(repos *repository.Repositories, searchCache cache.SearchCache, cfg *config.Config) *Services {
	return &Services{
		Auth:    NewAuthService(cfg),
		Catalog: NewCatalogService(repos, cfg),
		Damage:  NewDamageService(repos, searchCache, cfg),
	}
}
