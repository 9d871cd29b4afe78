package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	httpassets "github.com/target/jobportal/internal/http/assets"
	assetfuncs "github.com/target/jobportal/internal/http/templates/assets"
	corefuncs "github.com/target/jobportal/internal/http/templates/core"
	"github.com/target/jobportal/internal/i18n"
)

// AssetResolver aliases the asset resolver so callers only import httpx.
type AssetResolver = httpassets.AssetResolver

// fallbackCriticalCSS is used when css/critical.css cannot be read.
const fallbackCriticalCSS = ":root{--color-background:#f6f7f9;--color-surface:#fff;--color-text:#2e3138;}"

// TemplateRenderer renders the HTML pages. It keeps one parsed template set
// per supported locale so that the t helper is bound to the request's
// language.
type TemplateRenderer struct {
	sets          map[string]*template.Template
	defaultLocale string
	resolver      *AssetResolver
	criticalCSSFS fs.FS
	criticalCSS   string
	devMode       bool
	logger        *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS    fs.FS          // Filesystem containing templates (required)
	Translations  *i18n.Bundle   // Catalogues bound to the t helper (required)
	Resolver      *AssetResolver // Asset resolver for fingerprinted filenames (optional)
	CriticalCSSFS fs.FS          // Filesystem containing css/critical.css (optional)
	DevMode       bool           // Re-read critical CSS on every request
	Logger        *slog.Logger
}

// NewTemplateRenderer parses the layout, pages and partials once per locale.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	if cfg.Translations == nil {
		return nil, errors.New("translations are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &TemplateRenderer{
		sets:          make(map[string]*template.Template),
		defaultLocale: cfg.Translations.DefaultLocale(),
		resolver:      cfg.Resolver,
		criticalCSSFS: cfg.CriticalCSSFS,
		devMode:       cfg.DevMode,
		logger:        logger.With("component", "renderer"),
	}
	if cfg.CriticalCSSFS != nil && !cfg.DevMode {
		r.criticalCSS = r.readCriticalCSS()
	}

	for _, locale := range cfg.Translations.Locales() {
		set, err := r.parse(cfg.TemplateFS, cfg.Translations.For(locale))
		if err != nil {
			r.logger.Error("template parsing failed",
				slog.String("locale", locale),
				slog.Any("error", err),
			)
			return nil, fmt.Errorf("parse templates for %s: %w", locale, err)
		}
		r.sets[locale] = set
	}
	return r, nil
}

func (r *TemplateRenderer) parse(fsys fs.FS, tr i18n.Translator) (*template.Template, error) {
	var t *template.Template
	funcs := template.FuncMap{}
	mergeTemplateFuncs(funcs,
		corefuncs.Funcs(corefuncs.Deps{Template: &t, ContentTemplateFor: ContentTemplateFor}),
		assetfuncs.Funcs(assetfuncs.Options{
			Resolver:    r.resolver,
			DevMode:     r.devMode,
			CriticalCSS: r.getCriticalCSS,
		}),
		translationFuncs(tr),
	)
	parsed, err := template.New("root").Funcs(funcs).ParseFS(fsys, "*.tmpl", "pages/*.tmpl", "partials/*.tmpl")
	if err != nil {
		return nil, err
	}
	t = parsed
	return t, nil
}

func translationFuncs(tr i18n.Translator) template.FuncMap {
	return template.FuncMap{
		"t": func(key string, def ...string) string {
			d := ""
			if len(def) > 0 {
				d = def[0]
			}
			return tr.T(key, d)
		},
		"locale": tr.Locale,
	}
}

func (r *TemplateRenderer) readCriticalCSS() string {
	css, err := fs.ReadFile(r.criticalCSSFS, "css/critical.css")
	if err != nil {
		r.logger.Warn("failed to load critical CSS", slog.Any("error", err))
		return fallbackCriticalCSS
	}
	return string(css)
}

func (r *TemplateRenderer) getCriticalCSS() string {
	if r.devMode && r.criticalCSSFS != nil {
		return r.readCriticalCSS()
	}
	return r.criticalCSS
}

// RenderFull renders the layout with the page content selected by the data's
// CurrentPage.
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, req *http.Request, data any) error {
	return r.renderTemplate(w, req, renderJob{name: "layout", status: http.StatusOK, data: data})
}

// RenderError renders the standalone error page with status.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, req *http.Request, status int, data any) error {
	return r.renderTemplate(w, req, renderJob{name: "error-layout", status: status, data: data})
}

type renderJob struct {
	name   string
	status int
	data   any
}

func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, req *http.Request, job renderJob) error {
	set := r.setFor(TranslatorFromContext(req.Context()).Locale())
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, job.name, job.data); err != nil {
		r.logger.ErrorContext(req.Context(), "template execution failed",
			slog.String("template", job.name),
			slog.Any("error", err),
		)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(job.status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.ErrorContext(req.Context(), "failed to write rendered template",
			slog.String("template", job.name),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

func (r *TemplateRenderer) setFor(locale string) *template.Template {
	if set, ok := r.sets[locale]; ok {
		return set
	}
	return r.sets[r.defaultLocale]
}

func mergeTemplateFuncs(dst template.FuncMap, sources ...template.FuncMap) {
	for _, src := range sources {
		for key, val := range src {
			dst[key] = val
		}
	}
}
