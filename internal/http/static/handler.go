package static

import (
	"embed"
	"io/fs"
	"net/http"
)

func NewFilesystemHandler(path string) http.Handler {
	return http.FileServer(http.Dir(path))
}

//go:embed files/*
var embedFS embed.FS

// NewEmbedHandler serves the files compiled into the binary. They only
// change between releases, so clients may cache them for a day.
func NewEmbedHandler() http.Handler {
	files, err := fs.Sub(embedFS, "files")
	if err != nil {
		panic(err)
	}
	fileServer := http.FileServer(http.FS(files))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		fileServer.ServeHTTP(w, r)
	})
}
