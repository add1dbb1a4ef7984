package chiroute_test

import (
	"context"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/agentflare-ai/export-apidoc/apidoc"
	"github.com/agentflare-ai/export-apidoc/chiroute"
	"github.com/agentflare-ai/export-apidoc/internal/source"
)

func ExampleRoutes() {
	r := chi.NewRouter()
	r.Get("/missing", http.NotFound)

	routes, err := chiroute.Routes(r)
	if err != nil {
		panic(err)
	}
	loader, err := source.NewLoader(".", source.DefaultCacheSize)
	if err != nil {
		panic(err)
	}
	gen := &apidoc.Generator{Source: loader, Config: apidoc.Config{Locale: apidoc.Locales["en"]}}
	rep := gen.Generate(context.Background(), routes)
	if _, err := rep.Document.WriteTo(os.Stdout); err != nil {
		panic(err)
	}
}
