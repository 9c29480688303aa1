package handlers

import (
	"gadgetshelf/internal/config"
	"gadgetshelf/internal/productlist"
	"gadgetshelf/internal/repos"
	"gadgetshelf/internal/services"
	"gadgetshelf/internal/sessions"
)

type Deps struct {
	ProductList *ProductListHandler
	Product     *ProductHandler
	Admin       *AdminHandler
}

func NewDeps(store repos.Store, sess sessions.Store, cfg config.Config) *Deps {
	links := services.NewLinkChecker(cfg.LinkCheckTimeout)
	catalogSvc := services.NewCatalogService(store, links)

	return &Deps{
		ProductList: &ProductListHandler{
			Store:    store,
			Sessions: sess,
			Options:  []productlist.Option{productlist.WithToastDelay(cfg.ToastDelay)},
		},
		Product: &ProductHandler{Store: store},
		Admin:   &AdminHandler{Catalog: catalogSvc},
	}
}
