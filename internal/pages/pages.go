package pages

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
)

const (
	Index  = "index.html"
	Host   = "host.html"
	Public = "public.html"
)

//go:embed templates/*.html
var embedded embed.FS

// FS returns the page directory when one is configured and the built-in
// shells otherwise.
func FS(dir string) fs.FS {
	if dir != "" {
		return os.DirFS(dir)
	}
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err) // embedded path is fixed at build time
	}
	return sub
}

func Handler(fsys fs.FS, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, fsys, name)
	}
}
