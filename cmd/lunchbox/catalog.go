package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/kasuganosora/lunchbox/config"
	"github.com/kasuganosora/lunchbox/game/itemstack"
	"github.com/kasuganosora/lunchbox/game/lunchbox"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// buildRegistry registers the item catalog. Lunchbox codes missing from the
// catalog are added as generic items so their stacks resolve.
func buildRegistry(cfg *config.Config) (*itemstack.Registry, error) {
	reg := itemstack.NewRegistry()
	for _, it := range cfg.Items {
		class, err := itemstack.ParseClass(it.Class)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", it.Code, err)
		}
		err = reg.Register(&itemstack.Collectible{
			Code:     it.Code,
			Name:     it.Name,
			Class:    class,
			Flags:    itemstack.StorageFlags(it.StorageFlags),
			Satiety:  it.Satiety,
			MaxStack: it.MaxStack,
		})
		if err != nil {
			return nil, err
		}
	}
	for _, lb := range cfg.Lunchboxes {
		if _, ok := reg.Lookup(lb.Code); ok {
			continue
		}
		if err := reg.Register(&itemstack.Collectible{Code: lb.Code, Class: itemstack.ClassGeneric}); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func buildManager(cfg *config.Config, reg *itemstack.Registry, food lunchbox.FoodSystem, observers []lunchbox.Observer, logger *zap.Logger) (*lunchbox.Manager, error) {
	lang := language.Und
	if cfg.Server.Lang != "" {
		tag, err := language.Parse(cfg.Server.Lang)
		if err != nil {
			return nil, fmt.Errorf("server.lang: %w", err)
		}
		lang = tag
	}
	return lunchbox.NewManager(cfg.Lunchboxes, lunchbox.Options{
		Food:      food,
		Registry:  reg,
		AutoEat:   cfg.AutoEat,
		Lang:      lang,
		Observers: observers,
		Logger:    logger,
	})
}

func parseContainerID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("container id %q: %w", s, err)
	}
	return id, nil
}
