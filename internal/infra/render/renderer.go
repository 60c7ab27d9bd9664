package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

//go:embed templates/*.html templates/blocks/*.html
var templateFS embed.FS

type blockView struct {
	ID      string
	Content entity.BlockContent
}

type pageView struct {
	User      *entity.User
	Page      *entity.Page
	Blocks    []template.HTML
	Redirects []string
}

// Renderer monta a página pública. Cada tipo de bloco tem exatamente um
// template com o nome do tipo; tipos sem template não geram saída.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html", "templates/blocks/*.html")
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// RenderBlock escreve o HTML de um bloco. Devolve false quando o tipo não
// tem template (blocos desconhecidos).
func (r *Renderer) RenderBlock(w io.Writer, b entity.Block) (bool, error) {
	if b.Content == nil {
		return false, nil
	}
	if _, unknown := b.Content.(*entity.UnknownBlock); unknown {
		return false, nil
	}
	t := r.tmpl.Lookup(string(b.Type()))
	if t == nil {
		return false, nil
	}
	if err := t.Execute(w, blockView{ID: b.ID, Content: b.Content}); err != nil {
		return false, fmt.Errorf("bloco %s (%s): %w", b.ID, b.Type(), err)
	}
	return true, nil
}

func (r *Renderer) RenderPage(w io.Writer, user *entity.User, page *entity.Page) error {
	view := pageView{User: user, Page: page}

	for _, b := range page.Blocks {
		var buf bytes.Buffer
		ok, err := r.RenderBlock(&buf, b)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		// O fragmento já saiu escapado do próprio html/template.
		view.Blocks = append(view.Blocks, template.HTML(buf.String()))

		if redirect, isRedirect := b.Content.(*entity.RedirectBlock); isRedirect && len(view.Redirects) == 0 {
			view.Redirects = append(view.Redirects, fmt.Sprintf("%d;url=%s", redirect.DelaySeconds, redirect.URL))
		}
	}

	// Renderiza em buffer para não mandar meia página em caso de erro.
	var out bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&out, "page", view); err != nil {
		return fmt.Errorf("erro ao renderizar página: %w", err)
	}
	_, err := out.WriteTo(w)
	return err
}
