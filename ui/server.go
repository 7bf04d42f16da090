// Package ui serves a live HTML preview of a directory of markup
// documents. Pages are re-rendered on every request, so edits show up on
// reload.
package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhamidi/marka/doc"
	"github.com/dhamidi/marka/format"
	"github.com/dhamidi/marka/markdown"
	"github.com/dhamidi/marka/rewrite"
	tpl "github.com/dhamidi/marka/template"
)

//go:embed static templates
var embeddedFS embed.FS

type Server struct {
	dir          string
	configFile   string
	templateFile string

	staticFS   fs.FS
	templateFS fs.FS
	mux        *http.ServeMux
	funcMap    template.FuncMap
}

// NewServer builds a preview server over dir. configFile and
// templateFile are optional; when set they apply to every rendered page.
func NewServer(dir, configFile, templateFile string) (*Server, error) {
	if info, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("open %s: %w", dir, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	staticFS := overlayFS("ui/static", mustSub(embeddedFS, "static"))
	templateFS := overlayFS("ui/templates", mustSub(embeddedFS, "templates"))

	funcMap := template.FuncMap{
		"title": func(p string) string {
			base := path.Base(p)
			return strings.TrimSuffix(base, path.Ext(base))
		},
	}

	s := &Server{
		dir:          dir,
		configFile:   configFile,
		templateFile: templateFile,
		staticFS:     staticFS,
		templateFS:   templateFS,
		mux:          http.NewServeMux(),
		funcMap:      funcMap,
	}

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.mux.HandleFunc("GET /p/{page...}", s.handlePage)
	s.mux.HandleFunc("GET /raw/{page...}", s.handleRaw)
	s.mux.HandleFunc("GET /", s.handleIndex)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// render re-parses the layout templates on every call so that template
// edits take effect without a restart.
func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.New("").Funcs(s.funcMap).ParseFS(s.templateFS, "*.html")
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	tmpl.ExecuteTemplate(w, name, data)
}

// resolve maps a request page path onto a file below the served
// directory, refusing paths that escape it.
func (s *Server) resolve(page string) (string, error) {
	clean := path.Clean("/" + page)
	full := filepath.Join(s.dir, filepath.FromSlash(clean))
	rel, err := filepath.Rel(s.dir, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path %s escapes served directory", page)
	}
	return full, nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	full, err := s.resolve(r.PathValue("page"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	src, err := os.ReadFile(full)
	if err != nil {
		http.Error(w, "page not found", http.StatusNotFound)
		return
	}

	body, err := s.renderDocument(string(src))
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	data := struct {
		Page string
		Body template.HTML
	}{
		Page: r.PathValue("page"),
		Body: template.HTML(body),
	}
	s.render(w, "page.html", data)
}

// renderDocument runs the full pipeline on one source text: parse,
// rewrite against the configured context, optionally wrap in the
// configured template, and encode as HTML.
func (s *Server) renderDocument(src string) (string, error) {
	root, err := markdown.Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}

	ctx, err := s.context()
	if err != nil {
		return "", err
	}

	var out doc.Element = rewrite.Apply(root, rewrite.Rules{}, ctx)

	if s.templateFile != "" {
		tplSrc, err := os.ReadFile(s.templateFile)
		if err != nil {
			return "", fmt.Errorf("read template: %w", err)
		}
		parsed, err := tpl.Parse(string(tplSrc))
		if err != nil {
			return "", fmt.Errorf("parse template: %w", err)
		}
		docRoot, ok := out.(doc.RootElement)
		if !ok {
			return "", fmt.Errorf("rewrite did not yield a document root")
		}
		out = tpl.Apply(parsed, docRoot, rewrite.Rules{}, ctx)
	}

	var sb strings.Builder
	e := format.NewHTMLEncoder(&sb)
	if err := e.Encode(out); err != nil {
		return "", fmt.Errorf("encode html: %w", err)
	}
	return sb.String(), nil
}

func (s *Server) context() (*rewrite.Context, error) {
	if s.configFile == "" {
		return rewrite.NewContext(nil, nil)
	}
	data, err := os.ReadFile(s.configFile)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cf, err := rewrite.LoadConfig(data)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cf.Context(nil)
}

func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	full, err := s.resolve(r.PathValue("page"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	src, err := os.ReadFile(full)
	if err != nil {
		http.Error(w, "page not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(src)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var pages []string
	filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if strings.EqualFold(filepath.Ext(p), ".md") {
			if rel, err := filepath.Rel(s.dir, p); err == nil {
				pages = append(pages, filepath.ToSlash(rel))
			}
		}
		return nil
	})
	sort.Strings(pages)

	data := struct {
		Dir   string
		Pages []string
	}{
		Dir:   s.dir,
		Pages: pages,
	}
	s.render(w, "index.html", data)
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

// overlayFS prefers files from a directory on disk and falls back to the
// embedded copy, so the assets can be tweaked without rebuilding.
func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}

func (o *overlayFSType) ReadDir(name string) ([]fs.DirEntry, error) {
	entries := make(map[string]fs.DirEntry)

	if rd, ok := o.secondary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	if rd, ok := o.primary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	return result, nil
}
