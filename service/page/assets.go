package page

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/labstack/echo"
	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// staticFiles returns the embedded assets rooted so that /images/x maps to static/images/x
func staticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// image schemes html/template would otherwise replace with #ZgotmplZ
var trustedImagePrefixes = []string{"data:image/", "ipfs:", "ar:"}

// imageSrc marks validated image urls of the trusted schemes as safe, others are left to the escaper
func imageSrc(src string) interface{} {
	lower := strings.ToLower(src)
	for _, prefix := range trustedImagePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return template.URL(src)
		}
	}
	return src
}

type renderer struct {
	tmpl *template.Template
}

func newRenderer() (*renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"imageSrc": imageSrc,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse page templates")
	}
	return &renderer{tmpl: tmpl}, nil
}

// Render implements echo.Renderer
func (r *renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}
