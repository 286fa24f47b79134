package http

import (
	"log/slog"
	"net/http"

	"imagetagger/internal/delivery/http/controllers"
	"imagetagger/internal/delivery/http/middleware"

	_ "imagetagger/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter initializes the HTTP router with all application routes.
// realtime serves the websocket endpoint.
func NewRouter(
	imageController *controllers.ImageController,
	tagController *controllers.TagController,
	statusController *controllers.StatusController,
	realtime http.Handler,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Session
	mux.HandleFunc("GET /api/status", statusController.GetStatus)
	mux.HandleFunc("POST /api/session/save", statusController.SaveSession)

	// Images
	mux.HandleFunc("GET /api/images", imageController.ListImages)
	mux.HandleFunc("GET /api/images/{id}", imageController.GetImage)
	mux.HandleFunc("GET /api/images/{id}/file", imageController.GetImageFile)
	mux.HandleFunc("GET /api/images/{id}/thumbnail", imageController.GetThumbnail)
	mux.HandleFunc("GET /api/images/{id}/tags", imageController.GetImageTags)
	mux.HandleFunc("PUT /api/images/{id}/tags", imageController.UpdateImageTags)

	// Tags
	mux.HandleFunc("GET /api/tags", tagController.ListTags)
	mux.HandleFunc("POST /api/tags", tagController.CreateTag)
	mux.HandleFunc("DELETE /api/tags/{name}", tagController.DeleteTag)

	// Realtime
	mux.Handle("GET /ws", realtime)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)
	mux.Handle("GET /{$}", http.RedirectHandler("/swagger/index.html", http.StatusFound))

	return mux
}

// NewHandler wraps the router with CORS and request logging.
func NewHandler(logger *slog.Logger, allowedOrigins []string, router http.Handler) http.Handler {
	return middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, router))
}
