package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avolkovs/artefactreg/internal/logging"
)

// NewRouter mounts the API under /api.
//
//	POST   /api/signup
//	POST   /api/login
//	GET    /api/getImage/*                      (local storage backend only)
//	GET    /api/get-page/{page}                 (bearer token)
//	POST   /api/register-artefact               (bearer token)
//	PUT    /api/edit-artefact/{id}              (bearer token)
//	DELETE /api/delete-artefact/{id}            (bearer token)
//	GET    /api/get-artefact/{id}               (bearer token)
//	GET    /api/get-categories                  (bearer token)
//	GET    /api/get-associated                  (bearer token)
//	GET    /api/search-category/{query}/{page}  (bearer token)
//	GET    /api/search-associated/{query}/{page} (bearer token)
//
// imageDir is the local storage directory served under /api/getImage; pass an
// empty string when images live in an object store.
func NewRouter(
	authHandler *AuthHandler,
	artefactHandler *ArtefactHandler,
	secretKey []byte,
	logger logging.Logger,
	imageDir string,
) http.Handler {
	r := chi.NewRouter()

	r.Use(WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", authHandler.SignUp)
		r.Post("/login", authHandler.Login)

		if imageDir != "" {
			fs := http.StripPrefix("/api/getImage/", http.FileServer(http.Dir(imageDir)))
			r.Get("/getImage/*", fs.ServeHTTP)
		}

		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(secretKey))

			r.Get("/get-page/{page}", artefactHandler.GetPage)
			r.Post("/register-artefact", artefactHandler.Register)
			r.Put("/edit-artefact/{id}", artefactHandler.Edit)
			r.Delete("/delete-artefact/{id}", artefactHandler.Delete)
			r.Get("/get-artefact/{id}", artefactHandler.Get)
			r.Get("/get-categories", artefactHandler.Categories)
			r.Get("/get-associated", artefactHandler.Associated)
			r.Get("/search-category/{query}/{page}", artefactHandler.SearchCategory)
			r.Get("/search-associated/{query}/{page}", artefactHandler.SearchAssociated)
		})
	})

	return r
}
